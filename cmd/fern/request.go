package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/internal/dialect"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
	"github.com/savage13/fern/pkg/log"
)

// defaultCheckpoint records download progress when neither --output nor
// the catalog response names a file.
const defaultCheckpoint = "fern.request"

type requestFlags struct {
	windowFlags
	net, sta, loc, cha string
	quality            string
	event              string
	stationFile        string
	output             string
	download           bool
}

func newRequestCmd(c *cli) *cobra.Command {
	var f requestFlags
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Ask the federated catalog for data and write a chunked request file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRequest(cmd, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.net, "net", "", "networks, comma separated; wildcards and negation allowed")
	fl.StringVar(&f.sta, "sta", "", "stations")
	fl.StringVar(&f.loc, "loc", "", "locations (default *)")
	fl.StringVar(&f.cha, "cha", "", "channels (required)")
	f.windowFlags.register(fl)
	fl.StringVar(&f.quality, "quality", "B", "data quality: B, *, D, R, Q, M")
	fl.StringVar(&f.event, "event", "", "center the request on an event, e.g. usgs:us7000abcd")
	fl.StringVar(&f.stationFile, "station-file", "", "station listing (NET|STA|...) to request instead of --net/--sta")
	fl.StringVarP(&f.output, "output", "o", "", "request file to write (default: stdout)")
	fl.BoolVar(&f.download, "download", false, "download the data right away, checkpointing to the request file")
	return cmd
}

func (c *cli) runRequest(cmd *cobra.Command, f requestFlags) error {
	ctx := cmd.Context()
	var ev *domain.Event
	if f.event != "" {
		found, err := c.eventRepository().Find(ctx, f.event)
		if err != nil {
			return err
		}
		ev = &found
	}
	q, err := buildQuery(c.cfg.FedCatalogURL, f, ev)
	if err != nil {
		return err
	}
	if missing := q.Missing(false); len(missing) > 0 {
		return fmt.Errorf("missing required options: %s", strings.Join(missing, ", "))
	}

	tr := c.transport()
	var body []byte
	var status int
	var suggested string
	if f.stationFile != "" {
		sf, err := os.Open(f.stationFile)
		if err != nil {
			return err
		}
		lines, err := q.FromStationFile(sf)
		sf.Close()
		if err != nil {
			return err
		}
		post := postParams(q) + lines
		c.logger.Info("requesting availability", log.String("url", q.Base()), log.String("station_file", f.stationFile))
		resp, err := tr.Post(ctx, q.Base(), []byte(post))
		if err != nil {
			return err
		}
		body, status, suggested = resp.Body, resp.StatusCode, resp.Filename
	} else {
		c.logger.Info("requesting availability", log.String("url", q.URL()))
		resp, err := tr.Get(ctx, q.URL())
		if err != nil {
			return err
		}
		body, status, suggested = resp.Body, resp.StatusCode, resp.Filename
	}

	switch domain.ClassifyStatus(status) {
	case domain.OutcomeEmpty:
		fmt.Fprintln(cmd.ErrOrStderr(), "No data available")
		return nil
	case domain.OutcomeFailed:
		return fmt.Errorf("federated catalog returned status %d: %s", status, firstLine(body))
	}

	doc, warnings, err := dialect.Parse(body)
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		c.logger.Warn("skipped invalid request lines", log.Int("count", len(warnings)))
	}
	if doc == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "No data available")
		return nil
	}

	ch, err := c.chunker()
	if err != nil {
		return err
	}
	ch.Chunk(doc)

	output := f.output
	if f.download {
		output = checkpointName(f.output, suggested)
	}
	if err := c.writeDocument(ctx, output, doc); err != nil {
		return err
	}
	printDocumentSummary(cmd.ErrOrStderr(), doc, c.cfg.MaxChunkBytes())
	if !f.download {
		return nil
	}
	c.logger.Info("downloading", log.String("checkpoint", output))
	_, err = c.download(ctx, cmd.ErrOrStderr(), output, output)
	return err
}

// checkpointName picks the file a downloaded request records progress in:
// the output file, else the file name the catalog suggested, else
// defaultCheckpoint. Suggested names are reduced to their base name.
func checkpointName(output, suggested string) string {
	if output != "" && output != "-" {
		return output
	}
	if suggested != "" {
		name := filepath.Base(filepath.Clean("/" + suggested))
		if name != "/" && name != "." {
			return name
		}
	}
	return defaultCheckpoint
}

// buildQuery turns request flags into a federated catalog query. When ev
// is set the window starts at the event origin time, so --duration or
// --end is required.
func buildQuery(base string, f requestFlags, ev *domain.Event) (*fdsn.Query, error) {
	q := fdsn.NewAvailability(base)
	setIf := func(key, v string) {
		if v != "" {
			q.Set(key, fdsn.String(v))
		}
	}
	setIf("net", f.net)
	setIf("sta", f.sta)
	setIf("loc", f.loc)
	setIf("cha", f.cha)

	quality, err := fdsn.ParseQuality(f.quality)
	if err != nil {
		return nil, err
	}
	q.SetQuality(quality)

	if err := f.windowFlags.apply(q, ev); err != nil {
		return nil, err
	}
	if ev != nil {
		start, _ := queryTime(q, "start")
		end, _ := queryTime(q, "end")
		if !end.After(start) {
			return nil, fmt.Errorf("event %s: --duration or a later --end is required", ev.ID)
		}
	}
	return q, nil
}

// postParams renders the query options a POSTed selection needs as
// key=value lines.
func postParams(q *fdsn.Query) string {
	var sb strings.Builder
	for _, k := range []string{"format", "nodata", "quality"} {
		if a, ok := q.Get(k); ok {
			fmt.Fprintf(&sb, "%s=%s\n", k, a)
		}
	}
	return sb.String()
}

// floats parses n slash separated numbers.
func floats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, "/")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d values separated by /, found %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
