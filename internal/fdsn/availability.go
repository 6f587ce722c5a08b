package fdsn

import (
	"fmt"
	"strings"
)

// FedCatalogURL is the IRIS federated catalog service.
const FedCatalogURL = "https://service.iris.edu/irisws/fedcatalog/1/query"

// Quality selects the data quality of an availability query.
type Quality int

const (
	QualityBest Quality = iota
	QualityAll
	QualityUnknown
	QualityRaw
	QualityQC
	QualityModified
)

var qualityCodes = map[Quality]string{
	QualityBest:     "B",
	QualityAll:      "*",
	QualityUnknown:  "D",
	QualityRaw:      "R",
	QualityQC:       "Q",
	QualityModified: "M",
}

// Code returns the single letter query value.
func (q Quality) Code() string {
	if c, ok := qualityCodes[q]; ok {
		return c
	}
	return "B"
}

// ParseQuality accepts a quality code (B, *, D, R, Q, M) or its name.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(s) {
	case "b", "best", "":
		return QualityBest, nil
	case "*", "all":
		return QualityAll, nil
	case "d", "unknown":
		return QualityUnknown, nil
	case "r", "raw":
		return QualityRaw, nil
	case "q", "qc":
		return QualityQC, nil
	case "m", "modified", "merged":
		return QualityModified, nil
	}
	return 0, fmt.Errorf("unknown quality %q", s)
}

// NewAvailability creates a federated catalog query answering in the request
// dialect: any location, best quality, format=request, nodata=404.
func NewAvailability(base string) *Query {
	if base == "" {
		base = FedCatalogURL
	}
	return NewQuery(base).
		Set("loc", String("*")).
		Set("quality", String(QualityBest.Code())).
		Set("format", String("request")).
		Set("nodata", Int(404))
}

// SetQuality sets the quality parameter.
func (q *Query) SetQuality(quality Quality) *Query {
	return q.Set("quality", String(quality.Code()))
}

// SetRegion limits the search to a longitude/latitude box.
func (q *Query) SetRegion(minLon, maxLon, minLat, maxLat float64) *Query {
	return q.Set("minlon", Float(minLon)).
		Set("maxlon", Float(maxLon)).
		Set("minlat", Float(minLat)).
		Set("maxlat", Float(maxLat))
}

// SetOrigin sets the center of a radius search.
func (q *Query) SetOrigin(lon, lat float64) *Query {
	return q.Set("lon", Float(lon)).Set("lat", Float(lat))
}

// SetRadius sets the radius range in degrees around the origin.
func (q *Query) SetRadius(minRadius, maxRadius float64) *Query {
	return q.Set("minradius", Float(minRadius)).Set("maxradius", Float(maxRadius))
}
