package domain

import "time"

// Outcome classifies a download attempt for one data center request.
type Outcome int

const (
	// OutcomeOK means the service returned waveform data.
	OutcomeOK Outcome = iota

	// OutcomeEmpty means the service reported no data (204 or 404).
	// It is a terminal outcome, not an error.
	OutcomeEmpty

	// OutcomeFailed means the exchange failed or returned an error status.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) Outcome {
	switch s {
	case "ok":
		return OutcomeOK
	case "empty":
		return OutcomeEmpty
	default:
		return OutcomeFailed
	}
}

// ClassifyStatus maps an HTTP status code to an outcome.
func ClassifyStatus(status int) Outcome {
	switch {
	case status == 204 || status == 404:
		return OutcomeEmpty
	case status >= 200 && status < 400:
		return OutcomeOK
	default:
		return OutcomeFailed
	}
}

// Attempt records one download attempt.
type Attempt struct {
	RunID      string
	Index      int
	DataCenter string
	URL        string
	Lines      int
	Outcome    Outcome
	Status     int
	Bytes      int64
	Key        string
	Error      string
	Started    time.Time
	Duration   time.Duration
}
