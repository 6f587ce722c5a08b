package fdsn

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// StationIRISURL is the IRIS station service.
const StationIRISURL = "https://service.iris.edu/fdsnws/station/1/query"

// NewStationSearch creates a station level query answering in the text format.
func NewStationSearch(base string) *Query {
	if base == "" {
		base = StationIRISURL
	}
	return NewQuery(base).
		Set("level", String("station")).
		Set("format", String("text")).
		Set("nodata", Int(404))
}

// FromStationFile renders one request line per station in a station listing.
// The listing starts with a header line; each following line begins with
// NET and STA separated by whitespace or "|". Location, channel and the time
// range come from the query.
func (q *Query) FromStationFile(r io.Reader) (string, error) {
	vals := make([]string, 0, 4)
	for _, k := range []string{"loc", "cha", "start", "end"} {
		a, ok := q.Get(k)
		if !ok {
			return "", fmt.Errorf("missing value for %s", k)
		}
		vals = append(vals, a.String())
	}

	var sb strings.Builder
	sc := bufio.NewScanner(r)
	header := true
	n := 0
	for sc.Scan() {
		n++
		if header {
			header = false
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		f := strings.FieldsFunc(line, func(r rune) bool {
			return r == '|' || r == ' ' || r == '\t'
		})
		if len(f) < 2 {
			return "", fmt.Errorf("station file line %d: expected NET STA, found %q", n, line)
		}
		fmt.Fprintf(&sb, "%-5s %-8s %-4s %-5s %s %s\n", f[0], f[1], vals[0], vals[1], vals[2], vals[3])
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read station file: %w", err)
	}
	return sb.String(), nil
}
