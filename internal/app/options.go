package app

import (
	"time"

	"github.com/savage13/fern/internal/ports"
	"github.com/savage13/fern/pkg/log"
)

// DefaultPrefix is the file name prefix for saved payloads.
const DefaultPrefix = "fdsnws"

// Config contains configuration for the download loop.
type Config struct {
	// Prefix starts every saved payload name.
	Prefix string

	// KeepFailed leaves requests whose attempt failed pending so the next
	// run retries them. By default every attempted request is marked done.
	KeepFailed bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Option configures optional collaborators of a Downloader.
type Option func(*Downloader)

// WithStore saves every successful payload to store.
func WithStore(store ports.PayloadStore) Option {
	return func(d *Downloader) {
		d.store = store
	}
}

// WithCodec decodes every successful payload into the report aggregate.
func WithCodec(codec ports.WaveformCodec) Option {
	return func(d *Downloader) {
		d.codec = codec
	}
}

// WithJournal records every attempt in journal.
func WithJournal(journal ports.Journal) Option {
	return func(d *Downloader) {
		d.journal = journal
	}
}

// WithLogger sets the logger. A no-op logger is used otherwise.
func WithLogger(logger log.Logger) Option {
	return func(d *Downloader) {
		d.logger = log.OrNoop(logger)
	}
}
