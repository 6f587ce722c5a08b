package dialect

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/savage13/fern/internal/domain"
)

// Writer renders a domain.Document in the request dialect.
//
// An interactive writer targets a terminal: it omits the parameter block and
// every service url except DATACENTER, and highlights block headers. Only
// non-interactive output can be parsed back into the same document.
type Writer struct {
	interactive bool
	header      lipgloss.Style
}

// NewWriter creates a writer. Set interactive when the destination is a terminal.
func NewWriter(interactive bool) *Writer {
	return &Writer{
		interactive: interactive,
		header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8")),
	}
}

// Write renders doc to w, choosing the interactive layout when w is a terminal.
func Write(w io.Writer, doc *domain.Document) error {
	return NewWriter(IsTerminal(w)).Write(w, doc)
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write renders doc to w.
func (wr *Writer) Write(w io.Writer, doc *domain.Document) error {
	bw := bufio.NewWriter(w)

	if !wr.interactive {
		fmt.Fprintln(bw, "## REQUEST PARAMETERS")
		for _, k := range sortedKeys(doc.Params) {
			fmt.Fprintf(bw, "%s=%s\n", k, doc.Params[k])
		}
		fmt.Fprintln(bw)
	}

	n := len(doc.Requests)
	for i, r := range doc.Requests {
		wr.writeHeader(bw, fmt.Sprintf("## REQUEST %d/%d", i+1, n))

		mark := ""
		if r.Done {
			mark = "# "
		}
		fmt.Fprintf(bw, "%s%s=%s\n", mark, domain.KeyDataCenter, r.DataCenter())
		if !wr.interactive {
			for _, k := range sortedKeys(r.URLs) {
				if k == domain.KeyDataCenter {
					continue
				}
				fmt.Fprintf(bw, "%s%s=%s\n", mark, k, r.URLs[k])
			}
		}
		for _, l := range r.Lines {
			fmt.Fprintf(bw, "%s%s\n", mark, l.String())
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func (wr *Writer) writeHeader(w io.Writer, text string) {
	if wr.interactive {
		text = wr.header.Render(text)
	}
	fmt.Fprintln(w, text)
}

// sortedKeys returns the keys of m in lexical order so output is stable.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
