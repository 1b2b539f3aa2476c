package nasr

import (
	"strconv"
	"strings"
)

// Reason names why a facility was not admitted. The empty Reason means the
// facility passed.
type Reason string

// Rejection reasons, in the order the checks run.
const (
	ReasonNone      Reason = ""
	ReasonKind      Reason = "facility_kind"
	ReasonUse       Reason = "use"
	ReasonNoRunways Reason = "no_runways"
	ReasonSurface   Reason = "surface"
	ReasonLength    Reason = "length"
)

// Criteria parameterizes the eligibility checks.
type Criteria struct {
	FacilityKind    string
	Use             string
	SurfacePrefixes []string
	MinRunwayLength int
}

// DefaultCriteria admits public-use airports with at least one paved runway
// of 2000 ft or more.
func DefaultCriteria() Criteria {
	return Criteria{
		FacilityKind:    "AIRPORT",
		Use:             "PU",
		SurfacePrefixes: []string{"ASPH", "CONC"},
		MinRunwayLength: 2000,
	}
}

// IsAirport reports whether the facility kind matches, ignoring case.
func (c Criteria) IsAirport(f Facility) bool {
	return strings.ToUpper(f.FacilityType) == strings.ToUpper(c.FacilityKind)
}

// IsPublic reports whether the use classification matches, ignoring case.
func (c Criteria) IsPublic(f Facility) bool {
	return strings.ToUpper(f.Use) == strings.ToUpper(c.Use)
}

// IsPaved reports whether any runway surface starts with a paved prefix.
func (c Criteria) IsPaved(runways []RunwayGroup) bool {
	for _, r := range runways {
		surface := strings.ToUpper(r.Surface)
		for _, p := range c.SurfacePrefixes {
			if strings.HasPrefix(surface, strings.ToUpper(p)) {
				return true
			}
		}
	}
	return false
}

// IsLongEnough reports whether any runway is at least MinRunwayLength long.
// Lengths that do not parse as integers never qualify.
func (c Criteria) IsLongEnough(runways []RunwayGroup) bool {
	for _, r := range runways {
		n, err := strconv.Atoi(strings.TrimSpace(r.Length))
		if err != nil {
			continue
		}
		if n >= c.MinRunwayLength {
			return true
		}
	}
	return false
}

// Candidate runs the checks that need only the facility row.
func (c Criteria) Candidate(f Facility) Reason {
	if !c.IsAirport(f) {
		return ReasonKind
	}
	if !c.IsPublic(f) {
		return ReasonUse
	}
	return ReasonNone
}

// RunwaysQualify runs the checks over the facility's runway set. An empty set
// never qualifies.
func (c Criteria) RunwaysQualify(runways []RunwayGroup) Reason {
	if len(runways) == 0 {
		return ReasonNoRunways
	}
	if !c.IsPaved(runways) {
		return ReasonSurface
	}
	if !c.IsLongEnough(runways) {
		return ReasonLength
	}
	return ReasonNone
}

// Admit applies all four checks.
func (c Criteria) Admit(f Facility, runways []RunwayGroup) bool {
	return c.Candidate(f) == ReasonNone && c.RunwaysQualify(runways) == ReasonNone
}
