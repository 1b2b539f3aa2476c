package nasr

import (
	"errors"
	"io"

	"github.com/rotisserie/eris"
)

// ErrShortRow is returned when a row has fewer columns than the layout needs.
var ErrShortRow = eris.New("nasr: row shorter than layout")

// RowReader yields raw rows. *csv.Reader satisfies it.
type RowReader interface {
	Read() ([]string, error)
}

// FacilitySource yields facility rows in site id order. It returns io.EOF
// when the stream is exhausted.
type FacilitySource interface {
	Next() (Facility, error)
}

// RunwaySource yields runway rows in site id order. It returns io.EOF when
// the stream is exhausted.
type RunwaySource interface {
	Next() (RunwayGroup, error)
}

// FacilityReader projects raw airport rows into Facility records.
type FacilityReader struct {
	rows  RowReader
	cols  Columns
	width int
	line  int
}

// NewFacilityReader wraps rows, which must already be past the header.
func NewFacilityReader(rows RowReader, cols Columns) (*FacilityReader, error) {
	if err := cols.validate(FacilityFields); err != nil {
		return nil, err
	}
	return &FacilityReader{rows: rows, cols: cols, width: cols.width(), line: 1}, nil
}

// Next returns the next facility or io.EOF.
func (r *FacilityReader) Next() (Facility, error) {
	row, err := readRow(r.rows, &r.line, r.width, "airport")
	if err != nil {
		return Facility{}, err
	}
	c := r.cols
	return Facility{
		SiteID:          row[c[FieldSiteID]],
		FacilityType:    row[c[FieldFacilityType]],
		LocID:           row[c[FieldLocID]],
		StateID:         row[c[FieldStateID]],
		Elevation:       row[c[FieldElevation]],
		Latitude:        row[c[FieldARPLatitude]],
		Longitude:       row[c[FieldARPLongitude]],
		PatternAltitude: row[c[FieldPatternAltitude]],
		Use:             row[c[FieldUse]],
	}, nil
}

// RunwayReader projects raw runway rows into RunwayGroup records.
type RunwayReader struct {
	rows  RowReader
	cols  Columns
	width int
	line  int
}

// NewRunwayReader wraps rows, which must already be past the header.
func NewRunwayReader(rows RowReader, cols Columns) (*RunwayReader, error) {
	if err := cols.validate(RunwayFields); err != nil {
		return nil, err
	}
	return &RunwayReader{rows: rows, cols: cols, width: cols.width(), line: 1}, nil
}

// Next returns the next runway row or io.EOF.
func (r *RunwayReader) Next() (RunwayGroup, error) {
	row, err := readRow(r.rows, &r.line, r.width, "runway")
	if err != nil {
		return RunwayGroup{}, err
	}
	c := r.cols
	return RunwayGroup{
		SiteID:   row[c[FieldSiteID]],
		RunwayID: row[c[FieldRunwayID]],
		Length:   row[c[FieldLength]],
		Surface:  row[c[FieldSurface]],
		Base: EndFields{
			ID:          row[c[FieldBaseEndID]],
			TrueHeading: row[c[FieldBaseTrueHeading]],
			Elevation:   row[c[FieldBaseElevation]],
			Latitude:    row[c[FieldBaseLatitude]],
			Longitude:   row[c[FieldBaseLongitude]],
		},
		Reciprocal: EndFields{
			ID:          row[c[FieldRecipEndID]],
			TrueHeading: row[c[FieldRecipTrueHeading]],
			Elevation:   row[c[FieldRecipElevation]],
			Latitude:    row[c[FieldRecipLatitude]],
			Longitude:   row[c[FieldRecipLongitude]],
		},
	}, nil
}

func readRow(rows RowReader, line *int, width int, kind string) ([]string, error) {
	row, err := rows.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, eris.Wrapf(err, "nasr: read %s row", kind)
	}
	*line++
	if len(row) < width {
		return nil, eris.Wrapf(ErrShortRow, "%s line %d: %d columns, need %d", kind, *line, len(row), width)
	}
	return row, nil
}
