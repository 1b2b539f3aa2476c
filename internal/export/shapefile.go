package export

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/nasr"
)

var airportFields = []shp.Field{
	shp.StringField("LOC_ID", 8),
	shp.StringField("STATE_ID", 4),
	shp.StringField("ELEV", 12),
	shp.StringField("PAT_ALT", 12),
}

var runwayEndFields = []shp.Field{
	shp.StringField("LOC_ID", 8),
	shp.StringField("END_ID", 8),
	shp.NumberField("LENGTH", 8),
	shp.StringField("SURFACE", 16),
	shp.StringField("TRUE_HDG", 8),
	shp.StringField("ELEV", 12),
}

// ShapefileSink writes airports and runway ends as WGS84 point shapefiles.
// Runway ends go to a sibling file with a "_runway_ends" suffix.
type ShapefileSink struct {
	airports *shp.Writer
	ends     *shp.Writer
}

// CreateShapefile creates path (".shp" optional) and its runway end sibling.
func CreateShapefile(path string) (*ShapefileSink, error) {
	base := strings.TrimSuffix(path, ".shp")

	airports, err := createPointWriter(base+".shp", airportFields)
	if err != nil {
		return nil, err
	}
	ends, err := createPointWriter(base+"_runway_ends.shp", runwayEndFields)
	if err != nil {
		airports.Close()
		return nil, err
	}
	return &ShapefileSink{airports: airports, ends: ends}, nil
}

func createPointWriter(path string, fields []shp.Field) (*shp.Writer, error) {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return nil, eris.Wrapf(err, "export: create shapefile %s", path)
	}
	if err := w.SetFields(fields); err != nil {
		w.Close()
		return nil, eris.Wrapf(err, "export: set fields on %s", path)
	}
	return w, nil
}

// WriteFacility implements nasr.FacilityWriter.
func (s *ShapefileSink) WriteFacility(_ context.Context, f nasr.NormalizedFacility) error {
	row := int(s.airports.Write(&shp.Point{X: f.Longitude, Y: f.Latitude}))
	return writeAttributes(s.airports, airportFields, row, []string{
		f.LocID, f.StateID, f.Elevation, f.PatternAltitude,
	})
}

// WriteRunwayEnd implements nasr.RunwayWriter.
func (s *ShapefileSink) WriteRunwayEnd(_ context.Context, e nasr.RunwayEnd) error {
	row := int(s.ends.Write(&shp.Point{X: e.Longitude, Y: e.Latitude}))
	length := ""
	if n, err := strconv.Atoi(strings.TrimSpace(e.Length)); err == nil {
		length = strconv.Itoa(n)
	}
	return writeAttributes(s.ends, runwayEndFields, row, []string{
		e.LocID, nasr.UnquoteEndID(e.EndID), length, e.Surface, e.TrueHeading, e.Elevation,
	})
}

// writeAttributes fills every field of row. Values are padded to the field
// width (numbers right-aligned) and cut when longer.
func writeAttributes(w *shp.Writer, fields []shp.Field, row int, values []string) error {
	for i, v := range values {
		size := int(fields[i].Size)
		if len(v) > size {
			v = v[:size]
		}
		pad := strings.Repeat(" ", size-len(v))
		if fields[i].Fieldtype == 'N' {
			v = pad + v
		} else {
			v += pad
		}
		if err := w.WriteAttribute(row, i, v); err != nil {
			return eris.Wrapf(err, "export: write %s", fields[i])
		}
	}
	return nil
}

// Close writes the shapefile headers. It must be called once all rows are
// written.
func (s *ShapefileSink) Close() error {
	s.airports.Close()
	s.ends.Close()
	return nil
}
