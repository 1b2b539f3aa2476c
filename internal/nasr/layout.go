package nasr

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Airport export field names.
const (
	FieldSiteID          = "Site Id"
	FieldFacilityType    = "Facility Type"
	FieldLocID           = "Loc Id"
	FieldStateID         = "State Id"
	FieldUse             = "Use"
	FieldARPLatitude     = "ARP Latitude"
	FieldARPLongitude    = "ARP Longitude"
	FieldElevation       = "Elevation"
	FieldPatternAltitude = "Traffic Pattern Altitude"
)

// Runway export field names. The runway export shares FieldSiteID.
const (
	FieldRunwayID         = "Runway Id"
	FieldLength           = "Length"
	FieldSurface          = "Surface Type Condition"
	FieldBaseEndID        = "Base End Id"
	FieldBaseTrueHeading  = "Base True Heading"
	FieldBaseLatitude     = "Base Latitude DMS"
	FieldBaseLongitude    = "Base Longitude DMS"
	FieldBaseElevation    = "Base Elevation"
	FieldRecipEndID       = "Reciprocal End Id"
	FieldRecipTrueHeading = "Reciprocal True Heading"
	FieldRecipLatitude    = "Reciprocal Latitude DMS"
	FieldRecipLongitude   = "Reciprocal Longitude DMS"
	FieldRecipElevation   = "Reciprocal Elevation"
)

// Columns maps a field name to its 0-based column position.
type Columns map[string]int

// Layout holds the column maps of both exports.
type Layout struct {
	Facility Columns `yaml:"facility" mapstructure:"facility"`
	Runway   Columns `yaml:"runway" mapstructure:"runway"`
}

// FacilityFields lists every field a FacilityReader projects.
var FacilityFields = []string{
	FieldSiteID, FieldFacilityType, FieldLocID, FieldStateID, FieldUse,
	FieldARPLatitude, FieldARPLongitude, FieldElevation, FieldPatternAltitude,
}

// RunwayFields lists every field a RunwayReader projects.
var RunwayFields = []string{
	FieldSiteID, FieldRunwayID, FieldLength, FieldSurface,
	FieldBaseEndID, FieldBaseTrueHeading, FieldBaseLatitude, FieldBaseLongitude, FieldBaseElevation,
	FieldRecipEndID, FieldRecipTrueHeading, FieldRecipLatitude, FieldRecipLongitude, FieldRecipElevation,
}

// DefaultFacilityColumns returns the column positions of the NASR airport
// export.
func DefaultFacilityColumns() Columns {
	return Columns{
		FieldSiteID:          0,
		FieldFacilityType:    1,
		FieldLocID:           2,
		FieldStateID:         6,
		FieldUse:             13,
		FieldARPLatitude:     22,
		FieldARPLongitude:    24,
		FieldElevation:       27,
		FieldPatternAltitude: 31,
	}
}

// DefaultRunwayColumns returns the column positions of the NASR runway
// export.
func DefaultRunwayColumns() Columns {
	return Columns{
		FieldSiteID:           0,
		FieldRunwayID:         2,
		FieldLength:           3,
		FieldSurface:          5,
		FieldBaseEndID:        15,
		FieldBaseTrueHeading:  16,
		FieldBaseLatitude:     21,
		FieldBaseLongitude:    23,
		FieldBaseElevation:    25,
		FieldRecipEndID:       74,
		FieldRecipTrueHeading: 75,
		FieldRecipLatitude:    80,
		FieldRecipLongitude:   82,
		FieldRecipElevation:   84,
	}
}

// DefaultLayout returns the positional layout of the NASR exports.
func DefaultLayout() Layout {
	return Layout{Facility: DefaultFacilityColumns(), Runway: DefaultRunwayColumns()}
}

// LoadLayout reads a YAML layout file. Fields missing from the file keep
// their default positions.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, eris.Wrapf(err, "nasr: read layout %s", path)
	}

	var file Layout
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Layout{}, eris.Wrapf(err, "nasr: parse layout %s", path)
	}

	l := DefaultLayout()
	if err := merge(l.Facility, file.Facility, FacilityFields); err != nil {
		return Layout{}, eris.Wrap(err, "nasr: facility layout")
	}
	if err := merge(l.Runway, file.Runway, RunwayFields); err != nil {
		return Layout{}, eris.Wrap(err, "nasr: runway layout")
	}
	return l, nil
}

func merge(dst, src Columns, known []string) error {
	for name, idx := range src {
		if !contains(known, name) {
			return eris.Errorf("unknown field %q", name)
		}
		if idx < 0 {
			return eris.Errorf("field %q: negative column %d", name, idx)
		}
		dst[name] = idx
	}
	return nil
}

// ResolveColumns finds each field in a header row by name, ignoring case and
// surrounding whitespace.
func ResolveColumns(header []string, fields []string) (Columns, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		key := normalizeCol(col)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	cols := make(Columns, len(fields))
	var missing []string
	for _, f := range fields {
		i, ok := idx[normalizeCol(f)]
		if !ok {
			missing = append(missing, f)
			continue
		}
		cols[f] = i
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, eris.Errorf("nasr: header missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// width is the minimum row length the columns need.
func (c Columns) width() int {
	w := 0
	for _, i := range c {
		if i+1 > w {
			w = i + 1
		}
	}
	return w
}

func (c Columns) validate(fields []string) error {
	var missing []string
	for _, f := range fields {
		if _, ok := c[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("nasr: layout missing fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func normalizeCol(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
