// Package fern builds, splits and serializes bulk waveform requests for
// FDSN data centers.
//
// Example usage:
//
//	doc, warnings, err := fern.Parse(bytes.NewReader(data))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Println(w)
//	}
//	if err := fern.Chunk(doc, 200<<20); err != nil {
//	    log.Fatal(err)
//	}
//	fern.Write(os.Stdout, doc)
package fern

import (
	"io"

	"github.com/savage13/fern/internal/chunk"
	"github.com/savage13/fern/internal/dialect"
	"github.com/savage13/fern/internal/domain"
)

// Document is an ordered set of data center requests.
type Document = domain.Document

// DataCenterRequest is one block of request lines for a single data center.
type DataCenterRequest = domain.DataCenterRequest

// Line selects one channel over one time window.
type Line = domain.Line

// Warning describes a request line that was skipped while parsing.
type Warning = dialect.Warning

// Parse reads a request document. It returns a nil Document when the input
// holds no data center block.
func Parse(r io.Reader) (*Document, []Warning, error) {
	return dialect.NewParser(nil).Parse(r)
}

// Write renders doc in the request file layout.
func Write(w io.Writer, doc *Document) error {
	return dialect.Write(w, doc)
}

// Chunk splits the pending requests of doc in place so that none is
// estimated above maxBytes.
func Chunk(doc *Document, maxBytes int64) error {
	_, err := chunk.Chunk(doc, maxBytes)
	return err
}

// Estimate returns the expected miniSEED size in bytes for seconds of data
// on channel.
func Estimate(channel string, seconds float64) int64 {
	return domain.Estimate(domain.BandCode(channel), seconds)
}
