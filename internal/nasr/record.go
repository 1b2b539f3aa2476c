package nasr

// Facility is one raw row of the airport export, projected through a
// FacilityLayout.
type Facility struct {
	SiteID          string
	FacilityType    string
	LocID           string
	StateID         string
	Elevation       string
	Latitude        string // DMS
	Longitude       string // DMS
	PatternAltitude string // empty when not declared
	Use             string
}

// EndFields holds the per-end columns of a runway row.
type EndFields struct {
	ID          string
	TrueHeading string
	Elevation   string
	Latitude    string // DMS
	Longitude   string // DMS
}

// RunwayGroup is one raw row of the runway export. It describes a physical
// strip and both of its ends.
type RunwayGroup struct {
	SiteID     string
	RunwayID   string // combined end ids, e.g. "09/27"
	Length     string
	Surface    string
	Base       EndFields
	Reciprocal EndFields
}

// IsHelipad reports whether the row describes a helipad (H1, H2, ...).
func (g RunwayGroup) IsHelipad() bool {
	return len(g.RunwayID) > 0 && g.RunwayID[0] == 'H'
}

// NormalizedFacility is an admitted airport in output shape.
type NormalizedFacility struct {
	LocID           string
	StateID         string
	Elevation       string
	PatternAltitude string
	Latitude        float64
	Longitude       float64
}

// RunwayEnd is one directional end of an admitted runway in output shape.
// EndID carries literal double quotes around the identifier.
type RunwayEnd struct {
	LocID       string
	EndID       string
	Length      string
	Surface     string
	TrueHeading string
	Elevation   string
	Latitude    float64
	Longitude   float64
}
