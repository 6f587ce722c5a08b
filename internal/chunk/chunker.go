package chunk

import (
	"fmt"
	"strings"
	"time"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/pkg/log"
)

// Overflow selects when an open batch is closed.
type Overflow int

const (
	// OverflowBefore closes the open batch before a line that would push it
	// over the budget, so no multi-line batch exceeds it.
	OverflowBefore Overflow = iota

	// OverflowAfter accepts the line that crosses the budget and then closes
	// the batch. Batches may exceed the budget by at most one line.
	OverflowAfter
)

// ParseOverflow converts "before" or "after" to an Overflow.
func ParseOverflow(s string) (Overflow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "before":
		return OverflowBefore, nil
	case "after":
		return OverflowAfter, nil
	default:
		return 0, fmt.Errorf("unknown overflow policy %q (want before or after)", s)
	}
}

func (o Overflow) String() string {
	if o == OverflowAfter {
		return "after"
	}
	return "before"
}

// Options configures a Chunker.
type Options struct {
	// MaxBytes is the estimated byte budget per emitted request. Required.
	MaxBytes int64

	// Overflow is the batch closing policy. Defaults to OverflowBefore.
	Overflow Overflow

	Logger log.Logger
}

// Chunker splits and merges request lines into byte-bounded requests.
type Chunker struct {
	maxBytes int64
	policy   Overflow
	logger   log.Logger
}

// New creates a Chunker. It fails with domain.ErrInvalidBudget when
// MaxBytes cannot hold a single sample.
func New(opts Options) (*Chunker, error) {
	if opts.MaxBytes < domain.BytesPerSample {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidBudget, opts.MaxBytes)
	}
	return &Chunker{
		maxBytes: opts.MaxBytes,
		policy:   opts.Overflow,
		logger:   log.OrNoop(opts.Logger),
	}, nil
}

// Chunk replaces the requests of doc with byte-bounded requests and returns
// doc. Order across and within data centers is preserved; the pieces of a
// time-split line appear in chronological order where the line was.
//
// Done requests are passed through untouched.
func (c *Chunker) Chunk(doc *domain.Document) *domain.Document {
	if doc == nil {
		return nil
	}
	out := make([]*domain.DataCenterRequest, 0, len(doc.Requests))
	for _, r := range doc.Requests {
		if r.Done {
			out = append(out, r)
			continue
		}
		out = append(out, c.chunkRequest(r)...)
	}
	c.logger.Debug("chunked request document",
		log.Int("before", len(doc.Requests)),
		log.Int("after", len(out)),
		log.Int64("max_bytes", c.maxBytes),
	)
	doc.Requests = out
	return doc
}

func (c *Chunker) chunkRequest(r *domain.DataCenterRequest) []*domain.DataCenterRequest {
	b := newBatcher(r.URLs, c.maxBytes, c.policy)
	for _, l := range r.Lines {
		size := l.Size()
		if size <= c.maxBytes {
			b.add(l, size)
			continue
		}

		b.flush()
		pieces := SplitLine(l, c.maxBytes)
		c.logger.Debug("splitting oversized line",
			log.String("datacenter", r.ShortName()),
			log.String("line", l.String()),
			log.Int64("bytes", size),
			log.Int("pieces", len(pieces)),
		)
		for _, p := range pieces {
			nr := domain.NewDataCenterRequest(r.URLs)
			nr.Add(p)
			b.emit(nr)
		}
	}
	return b.requests()
}

// SplitLine divides l into k = ceil(size/maxBytes) contiguous pieces of
// ceil(duration/k) each, rounded up to whole milliseconds. The last piece
// ends at l.End. When rounding would push a piece over maxBytes, k grows
// until the pieces fit. A line that already fits is returned as is.
//
// Pieces are never shorter than a millisecond. At the fastest band rate
// that is a single sample, so every piece fits any budget of at least
// domain.BytesPerSample bytes; New rejects smaller budgets.
func SplitLine(l domain.Line, maxBytes int64) []domain.Line {
	size := l.Size()
	if maxBytes <= 0 || size <= maxBytes {
		return []domain.Line{l}
	}
	total := l.Duration()
	band := domain.BandCode(l.Channel)
	k := (size + maxBytes - 1) / maxBytes
	step := pieceStep(total, k)
	for step > time.Millisecond && domain.Estimate(band, step.Seconds()) > maxBytes {
		k++
		step = pieceStep(total, k)
	}

	pieces := make([]domain.Line, 0, k)
	for start := l.Start; start.Before(l.End); start = start.Add(step) {
		end := start.Add(step)
		if end.After(l.End) {
			end = l.End
		}
		pieces = append(pieces, l.WithWindow(start, end))
	}
	return pieces
}

// pieceStep returns ceil(total/k) in whole milliseconds, at least one.
func pieceStep(total time.Duration, k int64) time.Duration {
	ms := int64((total + time.Millisecond - 1) / time.Millisecond)
	step := (ms + k - 1) / k
	if step < 1 {
		step = 1
	}
	return time.Duration(step) * time.Millisecond
}

// Chunk is a convenience wrapper that builds a Chunker with default options.
func Chunk(doc *domain.Document, maxBytes int64) (*domain.Document, error) {
	c, err := New(Options{MaxBytes: maxBytes})
	if err != nil {
		return nil, err
	}
	return c.Chunk(doc), nil
}
