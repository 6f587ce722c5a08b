package domain

import "errors"

// Validation errors describe why a request line was rejected.
// They are reported as parse warnings and can be checked with errors.Is.
var (
	// ErrMalformedLine is returned when a line does not have six fields.
	ErrMalformedLine = errors.New("fern: malformed request line")

	// ErrInvalidTime is returned when a start or end time cannot be parsed.
	ErrInvalidTime = errors.New("fern: invalid date/time")

	// ErrStartAfterEnd is returned when the start time is not before the end time.
	ErrStartAfterEnd = errors.New("fern: start time not before end time")

	// ErrDurationTooLong is returned when a line spans more than MaxLineDuration.
	ErrDurationTooLong = errors.New("fern: request duration too long")
)

// Configuration errors fail the operation that hits them.
var (
	// ErrInvalidBudget is returned when a chunk budget is smaller than one sample.
	ErrInvalidBudget = errors.New("fern: chunk budget too small")

	// ErrNoDataSelect is returned when a pending request has no data-select URL.
	ErrNoDataSelect = errors.New("fern: missing data select service url")

	// ErrNoDocument is returned when input text holds no DATACENTER block.
	ErrNoDocument = errors.New("fern: no data center requests found")
)

// Event lookup errors.
var (
	// ErrUnknownCatalog is returned for event ids without a usgs:, isc: or gcmt: prefix.
	ErrUnknownCatalog = errors.New("fern: unknown event catalog")

	// ErrEventNotFound is returned when a catalog has no event for an id.
	ErrEventNotFound = errors.New("fern: event not found")

	// ErrAmbiguousEvent is returned when a catalog answers an id with several events.
	ErrAmbiguousEvent = errors.New("fern: multiple events for id")
)
