package ports

import "github.com/savage13/fern/internal/domain"

// MetadataParser turns event and station service responses into summaries.
type MetadataParser interface {
	// ParseEvents parses an event listing. catalog qualifies the event ids.
	ParseEvents(catalog string, data []byte) ([]domain.Event, error)

	// ParseStations parses a station listing.
	ParseStations(data []byte) ([]domain.Station, error)
}
