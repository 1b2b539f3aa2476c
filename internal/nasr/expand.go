package nasr

import "strings"

// ExpandRunway splits a runway row into its base and reciprocal ends. Length
// and surface are shared; the remaining fields come from the matching side.
func ExpandRunway(locID string, g RunwayGroup) [2]RunwayEnd {
	baseID, recipID, _ := strings.Cut(g.RunwayID, "/")

	return [2]RunwayEnd{
		newRunwayEnd(locID, baseID, g, g.Base),
		newRunwayEnd(locID, recipID, g, g.Reciprocal),
	}
}

func newRunwayEnd(locID, endID string, g RunwayGroup, e EndFields) RunwayEnd {
	return RunwayEnd{
		LocID:       locID,
		EndID:       quote(endID),
		Length:      g.Length,
		Surface:     g.Surface,
		TrueHeading: e.TrueHeading,
		Elevation:   e.Elevation,
		Latitude:    DMSToDecimal(e.Latitude),
		Longitude:   DMSToDecimal(e.Longitude),
	}
}

func quote(s string) string {
	return `"` + s + `"`
}

// UnquoteEndID strips the literal quotes ExpandRunway adds.
func UnquoteEndID(s string) string {
	return strings.Trim(s, `"`)
}
