package nasr

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidElevation is returned when a pattern altitude must be derived
// from an elevation that is not a number.
var ErrInvalidElevation = eris.New("nasr: invalid elevation")

// patternAltitudeOffset is added to field elevation when no traffic pattern
// altitude is published.
const patternAltitudeOffset = 1000

// TransformFacility maps an admitted facility to its output shape.
func TransformFacility(f Facility) (NormalizedFacility, error) {
	pa := f.PatternAltitude
	if strings.TrimSpace(pa) == "" {
		elev, err := strconv.ParseFloat(strings.TrimSpace(f.Elevation), 64)
		if err != nil {
			return NormalizedFacility{}, eris.Wrapf(ErrInvalidElevation, "site %s: elevation %q", f.SiteID, f.Elevation)
		}
		pa = strconv.FormatInt(int64(math.Floor(elev))+patternAltitudeOffset, 10)
	}

	return NormalizedFacility{
		LocID:           f.LocID,
		StateID:         f.StateID,
		Elevation:       f.Elevation,
		PatternAltitude: pa,
		Latitude:        DMSToDecimal(f.Latitude),
		Longitude:       DMSToDecimal(f.Longitude),
	}, nil
}
