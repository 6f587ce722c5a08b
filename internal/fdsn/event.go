package fdsn

import (
	"fmt"
	"strings"

	"github.com/savage13/fern/internal/domain"
)

// Event service endpoints.
const (
	EventUSGSURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	EventIRISURL = "https://service.iris.edu/fdsnws/event/1/query"
	EventISCURL  = "http://www.isc.ac.uk/fdsnws/event/1/query"
)

// Catalogs maps the catalog prefix of an event id to the service that
// answers for it. GCMT solutions are served by IRIS.
var Catalogs = map[string]string{
	"usgs": EventUSGSURL,
	"isc":  EventISCURL,
	"gcmt": EventIRISURL,
}

// SplitEventID splits "usgs:us7000abcd" into its lower-cased catalog and
// the catalog's own id.
func SplitEventID(s string) (catalog, id string, err error) {
	catalog, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	catalog = strings.ToLower(catalog)
	if !ok || id == "" {
		return "", "", fmt.Errorf("%w: %q, expected catalog:id", domain.ErrUnknownCatalog, s)
	}
	if _, known := Catalogs[catalog]; !known {
		return "", "", fmt.Errorf("%w: %q", domain.ErrUnknownCatalog, catalog)
	}
	return catalog, id, nil
}

// NewEventSearch creates an event query answering in the text format.
func NewEventSearch(base string) *Query {
	if base == "" {
		base = EventUSGSURL
	}
	return NewQuery(base).
		Set("format", String("text")).
		Set("nodata", Int(404))
}

// NewEventLookup creates a query for a single event of catalog.
func NewEventLookup(base, catalog, id string) *Query {
	q := NewEventSearch(base).Set("eventid", String(id))
	if catalog == "gcmt" {
		q.Set("catalog", String("GCMT"))
	}
	return q
}

// SetMagnitude limits events to a magnitude range.
func (q *Query) SetMagnitude(minMag, maxMag float64) *Query {
	return q.Set("minmag", Float(minMag)).Set("maxmag", Float(maxMag))
}

// SetDepth limits events to a depth range in kilometers.
func (q *Query) SetDepth(minDepth, maxDepth float64) *Query {
	return q.Set("mindepth", Float(minDepth)).Set("maxdepth", Float(maxDepth))
}
