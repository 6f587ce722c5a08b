package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/savage13/fern/internal/adapters/bucket"
	fsAdapter "github.com/savage13/fern/internal/adapters/fs"
	httpAdapter "github.com/savage13/fern/internal/adapters/http"
	"github.com/savage13/fern/internal/adapters/sqlite"
	"github.com/savage13/fern/internal/app"
	"github.com/savage13/fern/internal/chunk"
	"github.com/savage13/fern/internal/dialect"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/waveform"
	"github.com/savage13/fern/pkg/log"
)

func (c *cli) transport() *httpAdapter.Client {
	return httpAdapter.NewClient(&http.Client{Timeout: c.cfg.HTTPTimeout}, httpAdapter.Config{
		Retries:        c.cfg.RetryAttempts,
		BackoffInitial: c.cfg.RetryBackoff,
		UserAgent:      c.cfg.UserAgent,
	}, c.logger)
}

func (c *cli) chunker() (*chunk.Chunker, error) {
	opts, err := c.cfg.ChunkOptions()
	if err != nil {
		return nil, err
	}
	opts.Logger = c.logger
	return chunk.New(opts)
}

// downloader builds a Downloader checkpointing to checkpointPath with the
// optional store, codec and journal the configuration asks for. The
// returned cleanup closes what was opened.
func (c *cli) downloader(ctx context.Context, checkpointPath string) (*app.Downloader, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				c.logger.Warn("close failed", log.Err(err))
			}
		}
	}

	opts := []app.Option{app.WithLogger(c.logger)}
	if c.cfg.Save {
		b, err := bucket.Open(ctx, c.cfg.OutputURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, b.Close)
		opts = append(opts, app.WithStore(bucket.NewStore(b, c.logger)))
	}
	if c.cfg.Unpack {
		opts = append(opts, app.WithCodec(waveform.RawCodec{}))
	}
	if c.cfg.JournalPath != "" {
		j, err := sqlite.Open(c.cfg.JournalPath)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, j.Close)
		opts = append(opts, app.WithJournal(j))
	}

	d := app.NewDownloader(app.Config{
		Prefix:     c.cfg.Prefix,
		KeepFailed: c.cfg.KeepFailed,
	}, c.transport(), fsAdapter.NewCheckpointFile(checkpointPath, c.logger), opts...)
	return d, cleanup, nil
}

// readDocument parses a request file. It fails with domain.ErrNoDocument
// when the file has no data center blocks.
func (c *cli) readDocument(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, warnings, err := dialect.NewParser(c.logger).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(warnings) > 0 {
		c.logger.Warn("skipped invalid request lines", log.Int("count", len(warnings)))
	}
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNoDocument)
	}
	return doc, nil
}

// writeDocument writes doc to path atomically, or renders it to stdout
// when path is empty.
func (c *cli) writeDocument(ctx context.Context, path string, doc *domain.Document) error {
	if path == "" || path == "-" {
		return dialect.Write(os.Stdout, doc)
	}
	return fsAdapter.NewCheckpointFile(path, c.logger).Save(ctx, doc)
}
