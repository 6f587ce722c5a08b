package dialect

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/pkg/log"
)

type parseState int

const (
	stateHeader parseState = iota
	stateServiceURLs
	stateRequestLines
)

// Warning describes an input line that was skipped.
type Warning struct {
	Line   int
	Text   string
	Reason error
}

func (w Warning) Error() string {
	return fmt.Sprintf("line %d: %v: %s", w.Line, w.Reason, w.Text)
}

func (w Warning) Unwrap() error { return w.Reason }

// Parser turns request text into a domain.Document.
type Parser struct {
	logger log.Logger
}

// NewParser creates a parser that logs skipped lines to logger.
func NewParser(logger log.Logger) *Parser {
	return &Parser{logger: log.OrNoop(logger)}
}

// Parse reads a request document. It returns a nil document and no error when
// the input contains no DATACENTER block. Malformed lines are skipped and
// reported as warnings.
func (p *Parser) Parse(r io.Reader) (*domain.Document, []Warning, error) {
	doc := domain.NewDocument()
	var (
		warnings []Warning
		cur      *domain.DataCenterRequest
		state    = stateHeader
		lineNo   int
	)

	warn := func(text string, reason error) {
		w := Warning{Line: lineNo, Text: text, Reason: reason}
		warnings = append(warnings, w)
		p.logger.Warn("skipping request line",
			log.Int("line", lineNo),
			log.String("text", text),
			log.Err(reason),
		)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		orig := sc.Text()
		line, comment, skip := stripComment(orig)
		if skip {
			continue
		}
		line = strings.TrimRight(line, " \t\r")
		empty := line == ""

		// A DATACENTER line always opens a new block.
		if strings.HasPrefix(line, domain.KeyDataCenter) {
			key, value, ok := splitKeyValue(line)
			if !ok {
				warn(orig, fmt.Errorf("%w: expected DATACENTER=value", domain.ErrMalformedLine))
				state = stateHeader
				continue
			}
			cur = domain.NewDataCenterRequest(map[string]string{key: value})
			cur.Done = comment
			doc.Requests = append(doc.Requests, cur)
			state = stateServiceURLs
			continue
		}

		switch state {
		case stateHeader:
			if empty {
				continue
			}
			key, value, ok := splitKeyValue(line)
			if !ok {
				warn(orig, fmt.Errorf("%w: expected key=value for request parameters", domain.ErrMalformedLine))
				continue
			}
			doc.Params[key] = value

		case stateServiceURLs:
			if empty {
				state = stateHeader
				continue
			}
			if strings.Contains(line, "SERVICE") {
				key, value, ok := splitKeyValue(line)
				if !ok {
					warn(orig, fmt.Errorf("%w: expected key=value for service urls", domain.ErrMalformedLine))
					continue
				}
				cur.URLs[key] = value
				continue
			}
			state = stateRequestLines
			p.addLine(cur, line, orig, warn)

		case stateRequestLines:
			if empty {
				state = stateHeader
				continue
			}
			p.addLine(cur, line, orig, warn)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, warnings, fmt.Errorf("read request: %w", err)
	}

	if len(doc.Requests) == 0 {
		return nil, warnings, nil
	}
	return doc, warnings, nil
}

func (p *Parser) addLine(cur *domain.DataCenterRequest, line, orig string, warn func(string, error)) {
	l, err := domain.ParseLine(line)
	if err != nil {
		warn(orig, err)
		return
	}
	cur.Add(l)
}

// Parse reads a request document from data using a parser without logging.
func Parse(data []byte) (*domain.Document, []Warning, error) {
	return NewParser(nil).Parse(bytes.NewReader(data))
}

// stripComment removes a leading "#" marker. Lines whose text after the
// marker starts with another "#" (section headers such as "## REQUEST 1/2")
// are skipped entirely.
func stripComment(line string) (text string, comment, skip bool) {
	if !strings.HasPrefix(line, "#") {
		return line, false, false
	}
	text = strings.TrimLeft(line[1:], " ")
	if strings.HasPrefix(text, "#") {
		return "", true, true
	}
	return text, true, false
}

// splitKeyValue splits "key=value" at the first '=' and trims both sides.
func splitKeyValue(s string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(s, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
