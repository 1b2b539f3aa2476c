// Package pipeline runs one NASR conversion: it opens the raw inputs,
// resolves their column layout, streams them through the synchronizer into
// the configured sinks and records the outcome.
package pipeline

import (
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/config"
	"github.com/sells-group/airport-cli/internal/fetcher"
	"github.com/sells-group/airport-cli/internal/nasr"
)

// Cursor is a row source positioned after its header row.
type Cursor interface {
	nasr.RowReader
	Header() []string
	Close() error
}

// Inputs holds the facility and runway cursors of one run.
type Inputs struct {
	Airports Cursor
	Runways  Cursor
	// Source describes where the rows came from, for logs and the run log.
	Source string
}

// OpenInputs opens the configured inputs: both sheets of XLSXFile when set,
// otherwise the two CSV files under Dir.
func OpenInputs(cfg config.InputConfig) (*Inputs, error) {
	if cfg.XLSXFile != "" {
		return openWorkbook(cfg)
	}

	airportsPath := inputPath(cfg.Dir, cfg.AirportsFile)
	runwaysPath := inputPath(cfg.Dir, cfg.RunwaysFile)

	airports, err := fetcher.OpenCSV(airportsPath, fetcher.CSVOptions{HasHeader: true})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open airports")
	}
	runways, err := fetcher.OpenCSV(runwaysPath, fetcher.CSVOptions{HasHeader: true})
	if err != nil {
		airports.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "pipeline: open runways")
	}

	return &Inputs{
		Airports: airports,
		Runways:  runways,
		Source:   airportsPath + "," + runwaysPath,
	}, nil
}

func openWorkbook(cfg config.InputConfig) (*Inputs, error) {
	path := inputPath(cfg.Dir, cfg.XLSXFile)
	wb, err := fetcher.OpenWorkbook(path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: open workbook")
	}
	airports, err := wb.Sheet(fetcher.XLSXOptions{SheetName: cfg.AirportsSheet, HasHeader: true})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: airports sheet")
	}
	runways, err := wb.Sheet(fetcher.XLSXOptions{SheetName: cfg.RunwaysSheet, HasHeader: true})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: runways sheet")
	}
	return &Inputs{Airports: airports, Runways: runways, Source: path}, nil
}

func inputPath(dir, name string) string {
	if dir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// Close closes both cursors.
func (in *Inputs) Close() error {
	aerr := in.Airports.Close()
	rerr := in.Runways.Close()
	if aerr != nil {
		return eris.Wrap(aerr, "pipeline: close airports")
	}
	return eris.Wrap(rerr, "pipeline: close runways")
}

// ResolveLayout picks the facility and runway columns for the inputs'
// headers. In "header" mode every field is looked up by name; otherwise
// fixed positions are used, from cfg.File when set.
func ResolveLayout(cfg config.LayoutConfig, airportsHeader, runwaysHeader []string) (nasr.Layout, error) {
	switch cfg.Mode {
	case "header":
		fac, err := nasr.ResolveColumns(airportsHeader, nasr.FacilityFields)
		if err != nil {
			return nasr.Layout{}, eris.Wrap(err, "pipeline: airports header")
		}
		rwy, err := nasr.ResolveColumns(runwaysHeader, nasr.RunwayFields)
		if err != nil {
			return nasr.Layout{}, eris.Wrap(err, "pipeline: runways header")
		}
		return nasr.Layout{Facility: fac, Runway: rwy}, nil
	case "position", "":
		if cfg.File == "" {
			return nasr.DefaultLayout(), nil
		}
		return nasr.LoadLayout(cfg.File)
	default:
		return nasr.Layout{}, eris.Errorf("pipeline: unknown layout mode %q", cfg.Mode)
	}
}

// Criteria converts the filter settings.
func Criteria(cfg config.FilterConfig) nasr.Criteria {
	return nasr.Criteria{
		FacilityKind:    cfg.FacilityKind,
		Use:             cfg.Use,
		SurfacePrefixes: cfg.SurfacePrefixes,
		MinRunwayLength: cfg.MinRunwayLength,
	}
}
