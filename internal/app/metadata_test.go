package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
	"github.com/savage13/fern/internal/ports"
)

// getTransport answers gets from a table keyed by URL.
type getTransport struct {
	responses map[string]ports.Response
	gets      []string
}

func (g *getTransport) Get(ctx context.Context, url string) (ports.Response, error) {
	g.gets = append(g.gets, url)
	resp, ok := g.responses[url]
	if !ok {
		return ports.Response{StatusCode: 404}, nil
	}
	return resp, nil
}

func (g *getTransport) Post(ctx context.Context, url string, body []byte) (ports.Response, error) {
	return ports.Response{}, errors.New("unexpected post")
}

const (
	header = "#EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName\n"
	tonga  = "us7000abcd|2020-01-01T10:20:30|-20.5|-175.25|10|us|us|us|us7000abcd|mww|7.1|us|Tonga Islands\n"
	fiji   = "us7000efgh|2020-01-03T00:00:00|-18|178|600|us|us|us|us7000efgh|mww|6.2|us|Fiji Islands\n"
)

var testCatalogs = map[string]string{
	"usgs": "http://usgs.example/query",
	"gcmt": "http://iris.example/query",
}

func lookupURL(catalog, id string) string {
	return fdsn.NewEventLookup(testCatalogs[catalog], catalog, id).URL()
}

func newRepository(tr ports.Transport) *EventRepository {
	return NewEventRepository(NewMetadataClient(tr, fdsn.TextParser{}, nil), testCatalogs)
}

func TestEventRepository_FindCaches(t *testing.T) {
	tr := &getTransport{responses: map[string]ports.Response{
		lookupURL("usgs", "us7000abcd"): {StatusCode: 200, Body: []byte(header + tonga)},
	}}
	repo := newRepository(tr)

	for i := 0; i < 2; i++ {
		ev, err := repo.Find(context.Background(), "USGS:us7000abcd")
		if err != nil {
			t.Fatalf("Find #%d: %v", i, err)
		}
		if ev.ID != "usgs:us7000abcd" || ev.Magnitude != 7.1 {
			t.Errorf("event = %+v", ev)
		}
	}
	if len(tr.gets) != 1 {
		t.Errorf("gets = %v, want one lookup", tr.gets)
	}
}

func TestEventRepository_FindErrors(t *testing.T) {
	tr := &getTransport{responses: map[string]ports.Response{
		lookupURL("usgs", "twice"):  {StatusCode: 200, Body: []byte(header + tonga + fiji)},
		lookupURL("usgs", "broken"): {StatusCode: 500, Body: []byte("Error 500: service down\nmore")},
		lookupURL("gcmt", "none"):   {StatusCode: 204},
	}}
	repo := newRepository(tr)

	tests := []struct {
		id   string
		want error
		text string
	}{
		{"emsc:123", domain.ErrUnknownCatalog, ""},
		{"isc:123", domain.ErrUnknownCatalog, ""},
		{"usgs:missing", domain.ErrEventNotFound, ""},
		{"gcmt:none", domain.ErrEventNotFound, ""},
		{"usgs:twice", domain.ErrAmbiguousEvent, ""},
		{"usgs:broken", nil, "status 500: Error 500: service down"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := repo.Find(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
				t.Errorf("err = %v, want %q", err, tt.text)
			}
		})
	}
	if repo.Len() != 0 {
		t.Errorf("failed lookups remembered %d events", repo.Len())
	}
}

func TestEventRepository_SearchRemembers(t *testing.T) {
	search := fdsn.NewEventSearch(testCatalogs["usgs"]).SetMagnitude(6, 10)
	tr := &getTransport{responses: map[string]ports.Response{
		search.URL(): {StatusCode: 200, Body: []byte(header + tonga + fiji)},
	}}
	repo := newRepository(tr)

	events, err := repo.Search(context.Background(), "usgs", search)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || repo.Len() != 2 {
		t.Fatalf("events = %d, remembered = %d", len(events), repo.Len())
	}

	ev, err := repo.Find(context.Background(), "usgs:us7000efgh")
	if err != nil || ev.Location != "Fiji Islands" {
		t.Errorf("Find = %+v, %v", ev, err)
	}
	if len(tr.gets) != 1 {
		t.Errorf("gets = %v, want search only", tr.gets)
	}
}

func TestMetadataClient_Stations(t *testing.T) {
	q := fdsn.NewStationSearch("http://iris.example/station").Set("net", fdsn.String("IU"))
	body := "#Network|Station|Latitude|Longitude|Elevation|SiteName|StartTime|EndTime\n" +
		"IU|ANMO|34.9|-106.4|1850|Albuquerque|2002-11-19T21:07:00|\n" +
		"IU|ANMO|34.9|-106.4|1839|Albuquerque|1989-08-29T00:00:00|1995-07-14T00:00:00\n" +
		"IU|COLA|64.8|-147.8|200|College|1996-01-01T00:00:00|\n"
	tr := &getTransport{responses: map[string]ports.Response{q.URL(): {StatusCode: 200, Body: []byte(body)}}}

	stations, err := NewMetadataClient(tr, fdsn.TextParser{}, nil).Stations(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	if len(stations) != 3 {
		t.Fatalf("stations = %d, want 3 epochs", len(stations))
	}
	if got := domain.UniqueStations(stations); len(got) != 2 || got[1].Code() != "IU.COLA" {
		t.Errorf("unique = %+v", got)
	}
}
