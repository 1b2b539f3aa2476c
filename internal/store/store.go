// Package store persists normalized airports and runway ends to Postgres or
// SQLite, and records each load in a run log.
package store

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/airport-cli/internal/nasr"
)

// Schema holds every table this package writes.
const Schema = "nasr"

// Table names, schema-qualified.
const (
	AirportsTable   = Schema + ".airports"
	RunwayEndsTable = Schema + ".runway_ends"
	RunLogTable     = Schema + ".run_log"
)

var airportColumns = []string{
	"loc_id", "state_id", "elevation", "pattern_altitude", "latitude", "longitude", "geom",
}

var runwayEndColumns = []string{
	"loc_id", "end_id", "length", "surface", "true_heading", "elevation", "latitude", "longitude", "geom",
}

// numeric parses a raw export value. Blank or non-numeric values become nil.
func numeric(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func integer(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// pointEWKB encodes a WGS84 point. A 0,0 position means the source
// coordinate did not parse and yields nil.
func pointEWKB(lon, lat float64) ([]byte, error) {
	if lon == 0 && lat == 0 {
		return nil, nil
	}
	p := geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326)
	data, err := ewkb.Marshal(p, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "store: encode point")
	}
	return data, nil
}

func airportRow(f nasr.NormalizedFacility) ([]any, error) {
	g, err := pointEWKB(f.Longitude, f.Latitude)
	if err != nil {
		return nil, err
	}
	return []any{
		f.LocID, f.StateID, numeric(f.Elevation), numeric(f.PatternAltitude), f.Latitude, f.Longitude, g,
	}, nil
}

func runwayEndRow(e nasr.RunwayEnd) ([]any, error) {
	g, err := pointEWKB(e.Longitude, e.Latitude)
	if err != nil {
		return nil, err
	}
	return []any{
		e.LocID, nasr.UnquoteEndID(e.EndID), integer(e.Length), e.Surface,
		numeric(e.TrueHeading), numeric(e.Elevation), e.Latitude, e.Longitude, g,
	}, nil
}
