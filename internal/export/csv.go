// Package export writes normalized airports and runway ends to files.
package export

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/nasr"
)

// Default output file names.
const (
	DefaultAirportsFile = "airports.csv"
	DefaultRunwaysFile  = "runways.csv"
)

// AirportColumns is the header of the airports output.
var AirportColumns = []string{
	"Loc Id",
	"State Id",
	"Elevation",
	"Pattern_Altitude",
	"Latitude",
	"Longitude",
}

// RunwayColumns is the header of the runways output.
var RunwayColumns = []string{
	"Loc Id",
	"Runway Id",
	"Length",
	"Surface Type Condition",
	"True Hdg",
	"Elevation",
	"Latitude",
	"Longitude",
}

// CSVSink writes one CSV row per admitted airport and per runway end. The
// header of each output is written once, when the sink is created.
type CSVSink struct {
	airports *csv.Writer
	runways  *csv.Writer
	closers  []io.Closer
}

// NewCSVSink writes both headers and returns a sink over the given writers.
func NewCSVSink(airports, runways io.Writer) (*CSVSink, error) {
	s := &CSVSink{
		airports: csv.NewWriter(airports),
		runways:  csv.NewWriter(runways),
	}
	if err := s.airports.Write(AirportColumns); err != nil {
		return nil, eris.Wrap(err, "export: write airports header")
	}
	if err := s.runways.Write(RunwayColumns); err != nil {
		return nil, eris.Wrap(err, "export: write runways header")
	}
	return s, nil
}

// CreateCSV creates dir if needed and opens both output files in it. Empty
// names fall back to the defaults.
func CreateCSV(dir, airportsFile, runwaysFile string) (*CSVSink, error) {
	if airportsFile == "" {
		airportsFile = DefaultAirportsFile
	}
	if runwaysFile == "" {
		runwaysFile = DefaultRunwaysFile
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	af, err := os.Create(filepath.Join(dir, airportsFile))
	if err != nil {
		return nil, eris.Wrap(err, "export: create airports file")
	}
	rf, err := os.Create(filepath.Join(dir, runwaysFile))
	if err != nil {
		af.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "export: create runways file")
	}

	s, err := NewCSVSink(af, rf)
	if err != nil {
		af.Close() //nolint:errcheck
		rf.Close() //nolint:errcheck
		return nil, err
	}
	s.closers = []io.Closer{af, rf}
	return s, nil
}

// WriteFacility implements nasr.FacilityWriter.
func (s *CSVSink) WriteFacility(_ context.Context, f nasr.NormalizedFacility) error {
	return eris.Wrap(s.airports.Write([]string{
		f.LocID,
		f.StateID,
		f.Elevation,
		f.PatternAltitude,
		formatCoord(f.Latitude),
		formatCoord(f.Longitude),
	}), "export: write airport row")
}

// WriteRunwayEnd implements nasr.RunwayWriter.
func (s *CSVSink) WriteRunwayEnd(_ context.Context, e nasr.RunwayEnd) error {
	return eris.Wrap(s.runways.Write([]string{
		e.LocID,
		e.EndID,
		e.Length,
		e.Surface,
		e.TrueHeading,
		e.Elevation,
		formatCoord(e.Latitude),
		formatCoord(e.Longitude),
	}), "export: write runway row")
}

// Flush writes any buffered rows to the underlying writers.
func (s *CSVSink) Flush(_ context.Context) error {
	s.airports.Flush()
	if err := s.airports.Error(); err != nil {
		return eris.Wrap(err, "export: flush airports")
	}
	s.runways.Flush()
	if err := s.runways.Error(); err != nil {
		return eris.Wrap(err, "export: flush runways")
	}
	return nil
}

// Close flushes and closes any files opened by CreateCSV.
func (s *CSVSink) Close() error {
	err := s.Flush(context.Background())
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "export: close")
		}
	}
	s.closers = nil
	return err
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
