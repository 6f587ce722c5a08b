package fdsn

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/savage13/fern/internal/domain"
)

// Columns of the event and station text formats.
const (
	eventColumns   = 13
	stationColumns = 8
)

// TextParser reads the pipe separated text format of FDSN event and
// station services. Lines starting with "#" are headers.
type TextParser struct{}

// ParseEvents parses an event listing:
//
//	EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
func (TextParser) ParseEvents(catalog string, data []byte) ([]domain.Event, error) {
	var events []domain.Event
	err := readRecords(data, eventColumns, func(f []string) error {
		ev := domain.Event{
			ID:        catalog + ":" + f[0],
			Author:    f[5],
			Catalog:   f[6],
			MagType:   f[9],
			MagAuthor: f[11],
			Location:  f[12],
		}
		var err error
		if ev.Time, err = domain.ParseTime(f[1]); err != nil {
			return err
		}
		nums := []*float64{&ev.Latitude, &ev.Longitude, &ev.DepthKm}
		for i, p := range nums {
			if *p, err = parseNumber(f[2+i]); err != nil {
				return err
			}
		}
		if ev.Magnitude, err = parseNumber(f[10]); err != nil {
			return err
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	return events, nil
}

// ParseStations parses a station level listing:
//
//	Network|Station|Latitude|Longitude|Elevation|SiteName|StartTime|EndTime
func (TextParser) ParseStations(data []byte) ([]domain.Station, error) {
	var stations []domain.Station
	err := readRecords(data, stationColumns, func(f []string) error {
		s := domain.Station{Network: f[0], Station: f[1], SiteName: f[5]}
		var err error
		nums := []*float64{&s.Latitude, &s.Longitude, &s.Elevation}
		for i, p := range nums {
			if *p, err = parseNumber(f[2+i]); err != nil {
				return err
			}
		}
		if s.Start, err = domain.ParseTime(f[6]); err != nil {
			return err
		}
		if f[7] != "" {
			if s.End, err = domain.ParseTime(f[7]); err != nil {
				return err
			}
		}
		stations = append(stations, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse stations: %w", err)
	}
	return stations, nil
}

func readRecords(data []byte, columns int, fn func(f []string) error) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = '|'
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := r.FieldPos(0)
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) < columns {
			return fmt.Errorf("line %d: expected %d columns, found %d", line, columns, len(rec))
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if err := fn(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

// parseNumber reads a float; empty fields are zero.
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return v, nil
}
