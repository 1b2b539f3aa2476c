package pipeline

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/config"
	"github.com/sells-group/airport-cli/internal/export"
	"github.com/sells-group/airport-cli/internal/nasr"
)

// FileSinks is the set of file outputs of a convert run.
type FileSinks struct {
	CSV       *export.CSVSink
	Shapefile *export.ShapefileSink
}

// OpenFileSinks creates the CSV outputs and, when configured, the shapefile.
func OpenFileSinks(cfg config.OutputConfig) (*FileSinks, error) {
	csvSink, err := export.CreateCSV(cfg.Dir, cfg.AirportsFile, cfg.RunwaysFile)
	if err != nil {
		return nil, err
	}
	fs := &FileSinks{CSV: csvSink}

	if cfg.Shapefile != "" {
		shp, err := export.CreateShapefile(cfg.Shapefile)
		if err != nil {
			csvSink.Close() //nolint:errcheck
			return nil, err
		}
		fs.Shapefile = shp
	}
	return fs, nil
}

// Sink fans rows out to every open output.
func (fs *FileSinks) Sink() nasr.Sink {
	if fs.Shapefile == nil {
		return fs.CSV
	}
	return nasr.MultiSink(fs.CSV, fs.Shapefile)
}

// Close finalizes every output.
func (fs *FileSinks) Close() error {
	err := fs.CSV.Close()
	if fs.Shapefile != nil {
		if serr := fs.Shapefile.Close(); serr != nil && err == nil {
			err = serr
		}
	}
	return eris.Wrap(err, "pipeline: close outputs")
}
