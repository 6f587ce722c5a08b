package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
	"github.com/savage13/fern/internal/ports"
	"github.com/savage13/fern/pkg/log"
)

// MetadataClient fetches event and station listings and parses them.
type MetadataClient struct {
	transport ports.Transport
	parser    ports.MetadataParser
	logger    log.Logger
}

// NewMetadataClient creates a metadata client. logger may be nil.
func NewMetadataClient(transport ports.Transport, parser ports.MetadataParser, logger log.Logger) *MetadataClient {
	return &MetadataClient{
		transport: transport,
		parser:    parser,
		logger:    log.OrNoop(logger),
	}
}

// Events runs an event query. Event ids are qualified with catalog.
// A service answering "no data" yields no events and no error.
func (c *MetadataClient) Events(ctx context.Context, catalog string, q *fdsn.Query) ([]domain.Event, error) {
	body, err := c.fetch(ctx, q.URL())
	if err != nil || body == nil {
		return nil, err
	}
	return c.parser.ParseEvents(catalog, body)
}

// Stations runs a station query.
func (c *MetadataClient) Stations(ctx context.Context, q *fdsn.Query) ([]domain.Station, error) {
	body, err := c.fetch(ctx, q.URL())
	if err != nil || body == nil {
		return nil, err
	}
	return c.parser.ParseStations(body)
}

func (c *MetadataClient) fetch(ctx context.Context, url string) ([]byte, error) {
	c.logger.Debug("metadata query", log.String("url", url))
	resp, err := c.transport.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	switch domain.ClassifyStatus(resp.StatusCode) {
	case domain.OutcomeEmpty:
		return nil, nil
	case domain.OutcomeFailed:
		return nil, fmt.Errorf("%s: status %d: %s", url, resp.StatusCode, firstLine(resp.Body))
	}
	return resp.Body, nil
}

func firstLine(b []byte) string {
	s, _, _ := strings.Cut(strings.TrimSpace(string(b)), "\n")
	return s
}

// EventRepository resolves catalog:id event ids, remembering every event it
// has seen so repeated lookups do not hit the network.
type EventRepository struct {
	client   *MetadataClient
	catalogs map[string]string

	mu     sync.Mutex
	events map[string]domain.Event
}

// NewEventRepository creates a repository resolving ids through client.
// catalogs maps catalog prefixes to event service URLs; nil uses
// fdsn.Catalogs.
func NewEventRepository(client *MetadataClient, catalogs map[string]string) *EventRepository {
	if catalogs == nil {
		catalogs = fdsn.Catalogs
	}
	return &EventRepository{
		client:   client,
		catalogs: catalogs,
		events:   make(map[string]domain.Event),
	}
}

// Remember stores events by id. Events already known are kept as they are.
func (r *EventRepository) Remember(events ...domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range events {
		if ev.ID == "" {
			continue
		}
		if _, ok := r.events[ev.ID]; !ok {
			r.events[ev.ID] = ev
		}
	}
}

// Len returns the number of remembered events.
func (r *EventRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Find returns the event with id, asking its catalog when it is not
// already known. Exactly one event must match.
func (r *EventRepository) Find(ctx context.Context, id string) (domain.Event, error) {
	catalog, eventID, err := fdsn.SplitEventID(id)
	if err != nil {
		return domain.Event{}, err
	}
	key := catalog + ":" + eventID

	r.mu.Lock()
	ev, ok := r.events[key]
	r.mu.Unlock()
	if ok {
		return ev, nil
	}

	base, ok := r.catalogs[catalog]
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrUnknownCatalog, catalog)
	}
	events, err := r.client.Events(ctx, catalog, fdsn.NewEventLookup(base, catalog, eventID))
	if err != nil {
		return domain.Event{}, fmt.Errorf("find event %s: %w", key, err)
	}
	switch len(events) {
	case 0:
		return domain.Event{}, fmt.Errorf("%w: %s", domain.ErrEventNotFound, key)
	case 1:
	default:
		return domain.Event{}, fmt.Errorf("%w: %s matched %d", domain.ErrAmbiguousEvent, key, len(events))
	}

	ev = events[0]
	// Lookups are keyed by the requested id even if the service reports
	// the event under another of its ids.
	ev.ID = key
	r.Remember(ev)
	return ev, nil
}

// Search runs an event query against catalog and remembers the results.
func (r *EventRepository) Search(ctx context.Context, catalog string, q *fdsn.Query) ([]domain.Event, error) {
	events, err := r.client.Events(ctx, catalog, q)
	if err != nil {
		return nil, err
	}
	r.Remember(events...)
	return events, nil
}
