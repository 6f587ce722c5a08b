package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/savage13/fern/internal/app"
	"github.com/savage13/fern/internal/domain"
	"github.com/savage13/fern/internal/fdsn"
)

// windowFlags select a time window and an area. They are shared by the
// request, events and stations commands.
type windowFlags struct {
	start, end string
	duration   string
	region     string
	origin     string
	radius     string
}

func (w *windowFlags) register(fl *pflag.FlagSet) {
	fl.StringVar(&w.start, "start", "", "start time, e.g. 2020-01-01T00:00:00")
	fl.StringVar(&w.end, "end", "", "end time")
	fl.StringVar(&w.duration, "duration", "", "duration after start instead of --end, e.g. 90m, 2d")
	fl.StringVar(&w.region, "region", "", "box minlon/maxlon/minlat/maxlat")
	fl.StringVar(&w.origin, "origin", "", "radius search center lon/lat")
	fl.StringVar(&w.radius, "radius", "", "radius search range minradius/maxradius in degrees")
}

// apply sets the window on q. An event supplies the start and end time and
// the origin; explicit flags override it.
func (w *windowFlags) apply(q *fdsn.Query, ev *domain.Event) error {
	if ev != nil {
		q.TimeRange(ev.Time, ev.Time)
		q.SetOrigin(ev.Longitude, ev.Latitude)
	}
	if w.start != "" {
		t, err := domain.ParseTime(w.start)
		if err != nil {
			return err
		}
		q.Set("start", fdsn.Time(t))
	}
	if w.end != "" {
		t, err := domain.ParseTime(w.end)
		if err != nil {
			return err
		}
		q.Set("end", fdsn.Time(t))
	}
	if w.duration != "" {
		d, err := fdsn.ParseDuration(w.duration)
		if err != nil {
			return err
		}
		if err := q.UseDuration(d); err != nil {
			return err
		}
	}

	if w.region != "" {
		v, err := floats(w.region, 4)
		if err != nil {
			return fmt.Errorf("region: %w", err)
		}
		q.SetRegion(v[0], v[1], v[2], v[3])
	}
	if w.origin != "" {
		v, err := floats(w.origin, 2)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
		q.SetOrigin(v[0], v[1])
	}
	if w.radius != "" {
		v, err := floats(w.radius, 2)
		if err != nil {
			return fmt.Errorf("radius: %w", err)
		}
		q.SetRadius(v[0], v[1])
	}
	return nil
}

// queryTime returns a time parameter of q.
func queryTime(q *fdsn.Query, key string) (time.Time, bool) {
	a, ok := q.Get(key)
	if !ok {
		return time.Time{}, false
	}
	t, ok := a.(fdsn.Time)
	return time.Time(t), ok
}

func (c *cli) metadataClient() *app.MetadataClient {
	return app.NewMetadataClient(c.transport(), fdsn.TextParser{}, c.logger)
}

// catalogs maps event id prefixes to event services.
func (c *cli) catalogs() map[string]string {
	if c.eventCatalogs != nil {
		return c.eventCatalogs
	}
	return fdsn.Catalogs
}

// eventRepository resolves catalog:id event ids for one command run.
func (c *cli) eventRepository() *app.EventRepository {
	return app.NewEventRepository(c.metadataClient(), c.catalogs())
}
