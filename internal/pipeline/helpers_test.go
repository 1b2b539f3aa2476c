package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/nasr"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// record is one raw export row keyed by field name.
type record map[string]string

func airportRecord(siteID, loc, use string) record {
	return record{
		nasr.FieldSiteID:       siteID,
		nasr.FieldFacilityType: "AIRPORT",
		nasr.FieldLocID:        loc,
		nasr.FieldStateID:      "NY",
		nasr.FieldUse:          use,
		nasr.FieldARPLatitude:  "40-38-23.740N",
		nasr.FieldARPLongitude: "073-46-43.292W",
		nasr.FieldElevation:    "13",
	}
}

func runwayRecord(siteID, id, length, surface string) record {
	base, recip, _ := strings.Cut(id, "/")
	return record{
		nasr.FieldSiteID:           siteID,
		nasr.FieldRunwayID:         id,
		nasr.FieldLength:           length,
		nasr.FieldSurface:          surface,
		nasr.FieldBaseEndID:        base,
		nasr.FieldBaseTrueHeading:  "031",
		nasr.FieldBaseLatitude:     "40-37-19.000N",
		nasr.FieldBaseLongitude:    "073-47-08.000W",
		nasr.FieldBaseElevation:    "12.5",
		nasr.FieldRecipEndID:       recip,
		nasr.FieldRecipTrueHeading: "211",
		nasr.FieldRecipLatitude:    "40-38-44.000N",
		nasr.FieldRecipLongitude:   "073-45-58.000W",
		nasr.FieldRecipElevation:   "12.8",
	}
}

// positional lays records out at the given column positions. The header
// names every column so the same file also resolves in header mode.
func positional(cols nasr.Columns, recs ...record) [][]string {
	width := 0
	for _, i := range cols {
		if i+1 > width {
			width = i + 1
		}
	}
	header := make([]string, width)
	for i := range header {
		header[i] = "Unused " + strconv.Itoa(i)
	}
	for name, i := range cols {
		header[i] = name
	}

	rows := [][]string{header}
	for _, rec := range recs {
		row := make([]string, width)
		for name, v := range rec {
			row[cols[name]] = v
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(rows))
}

func readLines(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// writeInputs writes the standard two-airport fixture: 001 has no runways,
// 002 is a helipad only, 003 has one paved runway.
func writeInputs(t *testing.T, dir string) {
	t.Helper()
	writeCSV(t, filepath.Join(dir, "all_airports.csv"), positional(nasr.DefaultFacilityColumns(),
		airportRecord("001", "ABC", "PU"),
		airportRecord("003", "JFK", "PU"),
	))
	writeCSV(t, filepath.Join(dir, "all_runways.csv"), positional(nasr.DefaultRunwayColumns(),
		runwayRecord("002", "H1", "60", "ASPH"),
		runwayRecord("003", "04L/22R", "12079", "ASPH-CONC-G"),
	))
}
