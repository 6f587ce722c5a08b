package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
)

type eventFlags struct {
	windowFlags
	mag     string
	depth   string
	catalog string
	event   string
}

func newEventsCmd(c *cli) *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Search an event catalog",
		Long: "Search an event catalog by time, magnitude, depth and area, or look up\n" +
			"a single event by id (usgs:, isc: or gcmt: prefix).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEvents(cmd, f)
		},
	}
	fl := cmd.Flags()
	f.windowFlags.register(fl)
	fl.StringVar(&f.mag, "mag", "", "magnitude range min/max")
	fl.StringVar(&f.depth, "depth", "", "depth range min/max in km")
	fl.StringVar(&f.catalog, "catalog", "", "catalog to search: usgs, isc or gcmt; unset searches the configured event service")
	fl.StringVar(&f.event, "event", "", "look up one event by id, e.g. usgs:us7000abcd")
	return cmd
}

func (c *cli) runEvents(cmd *cobra.Command, f eventFlags) error {
	ctx := cmd.Context()
	repo := c.eventRepository()

	if f.event != "" {
		ev, err := repo.Find(ctx, f.event)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), eventTable([]domain.Event{ev}))
		return nil
	}

	catalog, base := "usgs", c.cfg.EventURL
	if f.catalog != "" {
		catalog = strings.ToLower(f.catalog)
		var ok bool
		if base, ok = c.catalogs()[catalog]; !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownCatalog, f.catalog)
		}
	}
	q, err := buildEventQuery(base, catalog, f)
	if err != nil {
		return err
	}

	events, err := repo.Search(ctx, catalog, q)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No events found")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), eventTable(events))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %d events\n", labelStyle.Render("found:"), len(events))
	return nil
}

// buildEventQuery turns event flags into a query against the event service
// at base serving catalog.
func buildEventQuery(base, catalog string, f eventFlags) (*fdsn.Query, error) {
	q := fdsn.NewEventSearch(base)
	if catalog == "gcmt" {
		q.Set("catalog", fdsn.String("GCMT"))
	}
	if err := f.windowFlags.apply(q, nil); err != nil {
		return nil, err
	}
	if f.mag != "" {
		v, err := floats(f.mag, 2)
		if err != nil {
			return nil, fmt.Errorf("mag: %w", err)
		}
		q.SetMagnitude(v[0], v[1])
	}
	if f.depth != "" {
		v, err := floats(f.depth, 2)
		if err != nil {
			return nil, fmt.Errorf("depth: %w", err)
		}
		q.SetDepth(v[0], v[1])
	}
	return q, nil
}
