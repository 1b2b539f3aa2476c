package nasr

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// dmsPattern matches DD-MM-SS.sss followed by a hemisphere letter.
var dmsPattern = regexp.MustCompile(`(?i)^(\d+)-(\d+)-(\d+\.\d+)([NSEW])$`)

// DMSToDecimal converts a degrees-minutes-seconds string such as
// "40-26-46.302N" to signed decimal degrees rounded to 8 places. South and
// west are negative. Input that does not match the pattern yields 0.
func DMSToDecimal(s string) float64 {
	m := dmsPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	deg, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	mins, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0
	}
	secs, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0
	}

	dd := round8(deg + mins/60 + secs/3600)
	switch strings.ToUpper(m[4]) {
	case "S", "W":
		return -dd
	}
	return dd
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
