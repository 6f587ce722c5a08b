package domain

import (
	"strings"
	"time"
)

// Event is an earthquake origin from an event catalog.
type Event struct {
	// ID is the catalog qualified event id, e.g. "usgs:us7000abcd".
	ID        string
	Time      time.Time
	Latitude  float64
	Longitude float64
	DepthKm   float64
	Magnitude float64
	MagType   string
	MagAuthor string
	Author    string
	Catalog   string
	Location  string
}

// Station is one station epoch from a station service.
type Station struct {
	Network   string
	Station   string
	Latitude  float64
	Longitude float64
	Elevation float64
	SiteName  string
	Start     time.Time

	// End is zero for stations that are still running.
	End time.Time
}

// Code returns NET.STA.
func (s Station) Code() string {
	return s.Network + "." + s.Station
}

// UniqueStations keeps the first entry for each NET.STA, dropping the
// additional epochs a station service lists for the same station.
func UniqueStations(stations []Station) []Station {
	seen := make(map[string]bool, len(stations))
	out := make([]Station, 0, len(stations))
	for _, s := range stations {
		key := strings.ToUpper(s.Code())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
