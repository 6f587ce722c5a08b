package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
)

type stationFlags struct {
	windowFlags
	net, sta, loc, cha string
	event              string
	epochs             bool
	showTime           bool
}

func newStationsCmd(c *cli) *cobra.Command {
	var f stationFlags
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "Search the station service",
		Long: "List stations by code, time and area. With --event the stations\n" +
			"operating at the event origin time are listed around its epicenter.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStations(cmd, f)
		},
	}
	fl := cmd.Flags()
	f.windowFlags.register(fl)
	fl.StringVar(&f.net, "net", "", "networks, comma separated")
	fl.StringVar(&f.sta, "sta", "", "stations")
	fl.StringVar(&f.loc, "loc", "", "locations")
	fl.StringVar(&f.cha, "cha", "", "channels")
	fl.StringVar(&f.event, "event", "", "stations running at an event, e.g. usgs:us7000abcd")
	fl.BoolVar(&f.epochs, "epochs", false, "list every station epoch instead of one row per station")
	fl.BoolVar(&f.showTime, "show-time", false, "show station start and end times")
	return cmd
}

func (c *cli) runStations(cmd *cobra.Command, f stationFlags) error {
	ctx := cmd.Context()
	var ev *domain.Event
	if f.event != "" {
		found, err := c.eventRepository().Find(ctx, f.event)
		if err != nil {
			return err
		}
		ev = &found
	}
	q, err := buildStationQuery(c.cfg.StationURL, f, ev)
	if err != nil {
		return err
	}

	stations, err := c.metadataClient().Stations(ctx, q)
	if err != nil {
		return err
	}
	if !f.epochs {
		stations = domain.UniqueStations(stations)
	}
	if len(stations) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No stations found")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), stationTable(stations, f.showTime || f.epochs))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %d stations\n", labelStyle.Render("found:"), len(stations))
	return nil
}

// buildStationQuery turns station flags into a station service query.
func buildStationQuery(base string, f stationFlags, ev *domain.Event) (*fdsn.Query, error) {
	q := fdsn.NewStationSearch(base)
	for _, kv := range [][2]string{{"net", f.net}, {"sta", f.sta}, {"loc", f.loc}, {"cha", f.cha}} {
		if kv[1] != "" {
			q.Set(kv[0], fdsn.String(kv[1]))
		}
	}
	if err := f.windowFlags.apply(q, ev); err != nil {
		return nil, err
	}
	return q, nil
}
