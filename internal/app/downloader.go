package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/ports"
	"github.com/savage13/fern/pkg/log"
)

// nameLayout is the time stamp embedded in saved payload names.
const nameLayout = "2006.01.02.15.04.05"

// Report summarizes one download run.
type Report struct {
	RunID    string
	Attempts []domain.Attempt

	// Aggregate holds decoded waveforms. It is nil when no payload was decoded.
	Aggregate *domain.Aggregate
}

// Count returns the number of attempts with the given outcome.
func (r *Report) Count(o domain.Outcome) int {
	n := 0
	for _, a := range r.Attempts {
		if a.Outcome == o {
			n++
		}
	}
	return n
}

// Bytes returns the total payload size downloaded.
func (r *Report) Bytes() int64 {
	var total int64
	for _, a := range r.Attempts {
		total += a.Bytes
	}
	return total
}

// Downloader fetches pending data center requests one at a time.
type Downloader struct {
	config     Config
	transport  ports.Transport
	checkpoint ports.Checkpointer
	store      ports.PayloadStore
	codec      ports.WaveformCodec
	journal    ports.Journal
	logger     log.Logger
}

// NewDownloader creates a downloader. checkpoint may be nil, in which case
// progress is only kept in memory.
func NewDownloader(config Config, transport ports.Transport, checkpoint ports.Checkpointer, opts ...Option) *Downloader {
	if config.Prefix == "" {
		config.Prefix = DefaultPrefix
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	d := &Downloader{
		config:     config,
		transport:  transport,
		checkpoint: checkpoint,
		logger:     log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches every pending request of doc in order. After each
// attempt the request is marked done (unless it failed and KeepFailed is
// set) and the whole document is checkpointed before moving on.
//
// Failed attempts do not stop the loop. Download returns an error only for
// configuration problems, checkpoint write failures and cancellation; the
// report covers every attempt made before that point.
func (d *Downloader) Download(ctx context.Context, doc *domain.Document) (*Report, error) {
	if doc == nil {
		return nil, domain.ErrNoDocument
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}
	pending := doc.Pending()
	d.logger.Info("starting download",
		log.String("run", report.RunID),
		log.Int("pending", pending),
		log.Int("requests", len(doc.Requests)),
	)

	n := 0
	for i, r := range doc.Requests {
		if r.Done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		n++

		attempt := d.fetch(ctx, report, i, r)
		d.logAttempt(n, pending, attempt)
		report.Attempts = append(report.Attempts, attempt)

		// An exchange cut short by cancellation stays pending.
		if attempt.Outcome == domain.OutcomeFailed && ctx.Err() != nil {
			return report, ctx.Err()
		}

		if attempt.Outcome != domain.OutcomeFailed || !d.config.KeepFailed {
			r.Done = true
		}
		if d.checkpoint != nil {
			if err := d.checkpoint.Save(ctx, doc); err != nil {
				return report, fmt.Errorf("save checkpoint: %w", err)
			}
		}
		if d.journal != nil {
			if err := d.journal.Record(ctx, attempt); err != nil {
				d.logger.Warn("failed to record attempt", log.Err(err))
			}
		}
	}
	return report, nil
}

func (d *Downloader) fetch(ctx context.Context, report *Report, index int, r *domain.DataCenterRequest) domain.Attempt {
	base, _ := r.DataSelectURL()
	a := domain.Attempt{
		RunID:      report.RunID,
		Index:      index,
		DataCenter: r.ShortName(),
		URL:        domain.QueryURL(base),
		Lines:      len(r.Lines),
		Started:    d.config.Now().UTC(),
	}
	// Nothing to ask for: every line of the block was rejected at parse time.
	if r.Empty() {
		a.Outcome = domain.OutcomeEmpty
		return a
	}
	start := time.Now()
	resp, err := d.transport.Post(ctx, a.URL, []byte(r.Body()))
	a.Duration = time.Since(start)
	if err != nil {
		a.Outcome = domain.OutcomeFailed
		a.Error = err.Error()
		return a
	}
	a.Status = resp.StatusCode
	a.Outcome = domain.ClassifyStatus(resp.StatusCode)
	if a.Outcome != domain.OutcomeOK {
		if a.Outcome == domain.OutcomeFailed {
			a.Error = fmt.Sprintf("http status %d", resp.StatusCode)
		}
		return a
	}
	a.Bytes = int64(len(resp.Body))

	if d.store != nil {
		key, err := d.store.Put(ctx, d.payloadName(a), resp.Body)
		if err != nil {
			d.logger.Error("failed to save payload", log.String("datacenter", a.DataCenter), log.Err(err))
			a.Error = err.Error()
		}
		a.Key = key
	}
	if d.codec != nil {
		if report.Aggregate == nil {
			report.Aggregate = domain.NewAggregate()
		}
		if err := d.codec.Decode(a.DataCenter, resp.Body, report.Aggregate); err != nil {
			d.logger.Error("failed to decode payload", log.String("datacenter", a.DataCenter), log.Err(err))
			a.Error = err.Error()
		}
	}
	return a
}

// payloadName builds prefix.YYYY.MM.DD.HH.MM.SS.datacenter.mseed.
func (d *Downloader) payloadName(a domain.Attempt) string {
	return fmt.Sprintf("%s.%s.%s.mseed", d.config.Prefix, a.Started.Format(nameLayout), a.DataCenter)
}

func (d *Downloader) logAttempt(n, total int, a domain.Attempt) {
	fields := []log.Field{
		log.Int("request", n),
		log.Int("of", total),
		log.String("datacenter", a.DataCenter),
		log.String("url", a.URL),
		log.Int("status", a.Status),
		log.Int64("bytes", a.Bytes),
		log.Duration("duration", a.Duration),
	}
	switch a.Outcome {
	case domain.OutcomeOK:
		d.logger.Info("received data", fields...)
	case domain.OutcomeEmpty:
		d.logger.Info("no data", fields...)
	default:
		d.logger.Error("request failed", append(fields, log.String("error", a.Error))...)
	}
}

// validate fails when a pending request cannot be posted anywhere.
func validate(doc *domain.Document) error {
	for i, r := range doc.Requests {
		if r.Done || r.Empty() {
			continue
		}
		if _, ok := r.DataSelectURL(); !ok {
			return fmt.Errorf("%w: request %d (%s)", domain.ErrNoDataSelect, i+1, r.ShortName())
		}
	}
	return nil
}
