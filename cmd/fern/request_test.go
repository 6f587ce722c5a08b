package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/internal/cliconfig"
	"github.com/savage13/fern/internal/dialect"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/pkg/log"
)

func TestBuildQuery(t *testing.T) {
	q, err := buildQuery("https://example.org/fedcatalog/1/query", requestFlags{
		net:     "IU",
		sta:     "ANMO",
		cha:     "BHZ",
		quality: "M",
		windowFlags: windowFlags{
			start:    "2020-01-01T00:00:00",
			duration: "1d",
			region:   "-120/-100/30/40",
		},
	}, nil)
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if !q.IsComplete(true) {
		t.Fatalf("query incomplete, missing %v", q.Missing(true))
	}
	u := q.URL()
	for _, want := range []string{
		"end=2020-01-02T00%3A00%3A00",
		"quality=M",
		"minlon=-120.000000",
		"loc=%2A",
		"format=request",
	} {
		if !strings.Contains(u, want) {
			t.Errorf("URL %q missing %q", u, want)
		}
	}
}

func TestBuildQuery_Errors(t *testing.T) {
	tests := map[string]requestFlags{
		"bad quality":       {quality: "Z"},
		"bad start":         {quality: "B", windowFlags: windowFlags{start: "yesterday"}},
		"duration no start": {quality: "B", windowFlags: windowFlags{duration: "1d"}},
		"short region":      {quality: "B", windowFlags: windowFlags{region: "1/2/3"}},
		"bad origin":        {quality: "B", windowFlags: windowFlags{origin: "a/b"}},
	}
	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := buildQuery("", f, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

var tonga = domain.Event{
	ID:        "usgs:us7000abcd",
	Time:      time.Date(2020, 1, 1, 10, 20, 30, 0, time.UTC),
	Latitude:  -20.5,
	Longitude: -175.25,
}

func TestBuildQuery_Event(t *testing.T) {
	tests := []struct {
		name  string
		flags windowFlags
		want  []string
	}{
		{
			name:  "duration after origin",
			flags: windowFlags{duration: "1h", radius: "0/30"},
			want: []string{
				"start=2020-01-01T10%3A20%3A30",
				"end=2020-01-01T11%3A20%3A30",
				"lat=-20.500000",
				"lon=-175.250000",
				"maxradius=30.000000",
			},
		},
		{
			name:  "explicit start and origin win",
			flags: windowFlags{start: "2020-01-01T10:00:00", end: "2020-01-01T12:00:00", origin: "10/20"},
			want:  []string{"start=2020-01-01T10%3A00%3A00", "end=2020-01-01T12%3A00%3A00", "lon=10.000000", "lat=20.000000"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := buildQuery("", requestFlags{quality: "B", cha: "BHZ", windowFlags: tt.flags}, &tonga)
			if err != nil {
				t.Fatalf("buildQuery: %v", err)
			}
			u := q.URL()
			for _, want := range tt.want {
				if !strings.Contains(u, want) {
					t.Errorf("URL %q missing %q", u, want)
				}
			}
		})
	}

	if _, err := buildQuery("", requestFlags{quality: "B", cha: "BHZ"}, &tonga); err == nil {
		t.Error("event without duration or end should fail")
	}
}

func TestPostParams(t *testing.T) {
	q, err := buildQuery("", requestFlags{quality: "B", cha: "BHZ"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "format=request\nnodata=404\nquality=B\n"
	if got := postParams(q); got != want {
		t.Errorf("postParams = %q, want %q", got, want)
	}
}

func TestCheckpointName(t *testing.T) {
	tests := []struct {
		output    string
		suggested string
		want      string
	}{
		{"anmo.request", "fedcatalog.txt", "anmo.request"},
		{"", "fedcatalog.txt", "fedcatalog.txt"},
		{"-", "fedcatalog.txt", "fedcatalog.txt"},
		{"", "../../etc/passwd", "passwd"},
		{"", "/", defaultCheckpoint},
		{"", "", defaultCheckpoint},
	}
	for _, tt := range tests {
		if got := checkpointName(tt.output, tt.suggested); got != tt.want {
			t.Errorf("checkpointName(%q, %q) = %q, want %q", tt.output, tt.suggested, got, tt.want)
		}
	}
}

const (
	eventHeader = "#EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName\n"
	tongaText   = "us7000abcd|2020-01-01T10:20:30|-20.5|-175.25|10|us|us|us|us7000abcd|mww|7.1|us|Tonga Islands\n"
	fijiText    = "us7000efgh|2020-01-03T00:00:00|-18|178|600|us|us|us|us7000efgh|mb|6.2||Fiji Islands\n"
)

// services fakes the event, station, federated catalog and data-select
// services of a data center, recording every query string by path.
type services struct {
	*httptest.Server

	mu      sync.Mutex
	queries map[string][]string
	bodies  map[string][]string
}

func newServices(t *testing.T) *services {
	t.Helper()
	s := &services{queries: map[string][]string{}, bodies: map[string][]string{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *services) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.queries[r.URL.Path] = append(s.queries[r.URL.Path], r.URL.RawQuery)
	s.bodies[r.URL.Path] = append(s.bodies[r.URL.Path], string(body))
	s.mu.Unlock()

	q := r.URL.Query()
	switch r.URL.Path {
	case "/event":
		switch {
		case q.Get("eventid") == "us7000abcd":
			io.WriteString(w, eventHeader+tongaText)
		case q.Get("eventid") != "":
			w.WriteHeader(http.StatusNotFound)
		default:
			io.WriteString(w, eventHeader+tongaText+fijiText)
		}
	case "/station":
		io.WriteString(w, "#Network|Station|Latitude|Longitude|Elevation|SiteName|StartTime|EndTime\n"+
			"IU|AFI|-13.9|-171.8|706|Afiamalu, Samoa|2004-08-01T00:00:00|\n"+
			"IU|AFI|-13.9|-171.8|706|Afiamalu, Samoa|1990-01-01T00:00:00|2004-08-01T00:00:00\n"+
			"IU|RAR|-21.2|-159.8|28|Rarotonga, Cook Islands|1992-01-01T00:00:00|\n")
	case "/fedcatalog":
		w.Header().Set("Content-Disposition", `attachment; filename="fedcatalog.request"`)
		fmt.Fprintf(w, "DATACENTER=TEST,%s\nDATASELECTSERVICE=%s/dataselect/\n"+
			"IU AFI 00 BHZ 2020-01-01T10:20:30.000 2020-01-01T11:20:30.000\n", s.URL, s.URL)
	case "/dataselect/query":
		io.WriteString(w, "mseed")
	default:
		http.NotFound(w, r)
	}
}

func (s *services) requests(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries[path]...)
}

func (s *services) posted(path string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies[path]...)
}

func testCLI(s *services) *cli {
	cfg := cliconfig.DefaultConfig()
	cfg.FedCatalogURL = s.URL + "/fedcatalog"
	cfg.EventURL = s.URL + "/event"
	cfg.StationURL = s.URL + "/station"
	cfg.RetryAttempts = 0
	return &cli{
		cfg:           cfg,
		logger:        log.NewNoopLogger(),
		eventCatalogs: map[string]string{"usgs": s.URL + "/event", "gcmt": s.URL + "/event"},
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestEventsCmd_Search(t *testing.T) {
	s := newServices(t)
	out, _, err := execute(t, newEventsCmd(testCLI(s)), "--start", "2020-01-01", "--duration", "7d", "--mag", "6/10")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	for _, want := range []string{"usgs:us7000abcd", "Tonga Islands", "usgs:us7000efgh", "600.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	q := s.requests("/event")
	if len(q) != 1 || !strings.Contains(q[0], "minmag=6.000000") || !strings.Contains(q[0], "format=text") {
		t.Errorf("event queries = %v", q)
	}
}

func TestEventsCmd_Catalogs(t *testing.T) {
	s := newServices(t)
	if _, _, err := execute(t, newEventsCmd(testCLI(s)), "--catalog", "gcmt"); err != nil {
		t.Fatalf("events: %v", err)
	}
	if q := s.requests("/event"); len(q) != 1 || !strings.Contains(q[0], "catalog=GCMT") {
		t.Errorf("event queries = %v", q)
	}

	_, _, err := execute(t, newEventsCmd(testCLI(s)), "--catalog", "emsc")
	if !errors.Is(err, domain.ErrUnknownCatalog) {
		t.Errorf("err = %v, want ErrUnknownCatalog", err)
	}
}

func TestEventsCmd_LookupNotFound(t *testing.T) {
	s := newServices(t)
	_, _, err := execute(t, newEventsCmd(testCLI(s)), "--event", "usgs:missing")
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}

func TestStationsCmd_Event(t *testing.T) {
	s := newServices(t)
	out, _, err := execute(t, newStationsCmd(testCLI(s)), "--event", "usgs:us7000abcd", "--net", "IU", "--radius", "0/10")
	if err != nil {
		t.Fatalf("stations: %v", err)
	}
	if strings.Count(out, "AFI") != 1 || !strings.Contains(out, "Rarotonga, Cook Islands") {
		t.Errorf("output should list AFI once and RAR:\n%s", out)
	}
	q := s.requests("/station")
	if len(q) != 1 {
		t.Fatalf("station queries = %v", q)
	}
	for _, want := range []string{"level=station", "lat=-20.500000", "start=2020-01-01T10%3A20%3A30", "net=IU"} {
		if !strings.Contains(q[0], want) {
			t.Errorf("station query %q missing %q", q[0], want)
		}
	}
}

func TestStationsCmd_Epochs(t *testing.T) {
	s := newServices(t)
	out, _, err := execute(t, newStationsCmd(testCLI(s)), "--epochs")
	if err != nil {
		t.Fatalf("stations: %v", err)
	}
	if strings.Count(out, "AFI") != 2 || !strings.Contains(out, "open") {
		t.Errorf("output should list both AFI epochs with times:\n%s", out)
	}
}

func TestRequestCmd_EventDownload(t *testing.T) {
	s := newServices(t)
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if cdErr := os.Chdir(dir); cdErr != nil {
		t.Fatal(cdErr)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	_, _, err := execute(t, newRequestCmd(testCLI(s)),
		"--event", "usgs:us7000abcd", "--cha", "BHZ", "--radius", "0/10", "--duration", "1h", "--download")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	fed := s.requests("/fedcatalog")
	if len(fed) != 1 || !strings.Contains(fed[0], "lon=-175.250000") || !strings.Contains(fed[0], "end=2020-01-01T11%3A20%3A30") {
		t.Errorf("fedcatalog queries = %v", fed)
	}
	if posts := s.posted("/dataselect/query"); len(posts) != 1 || !strings.Contains(posts[0], "IU AFI 00 BHZ") {
		t.Errorf("dataselect posts = %v", posts)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fedcatalog.request"))
	if err != nil {
		t.Fatalf("checkpoint not written under the suggested name: %v", err)
	}
	doc, _, err := dialect.Parse(data)
	if err != nil || doc == nil {
		t.Fatalf("parse checkpoint: %v", err)
	}
	if doc.Pending() != 0 {
		t.Errorf("Pending = %d after download", doc.Pending())
	}
}
