package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row builds a CSV row of width cells with the given column values.
func row(width int, cells map[int]string) []string {
	r := make([]string, width)
	for i, v := range cells {
		r[i] = v
	}
	return r
}

func writeRows(t *testing.T, path string, rows ...[]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	require.NoError(t, csv.NewWriter(f).WriteAll(rows))
}

func TestConvertCommand_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeRows(t, filepath.Join(dir, "apt.csv"),
		row(32, map[int]string{0: "Site Id"}),
		row(32, map[int]string{0: "001", 1: "AIRPORT", 2: "ABC", 6: "NY", 13: "PU", 27: "100"}),
		row(32, map[int]string{0: "003", 1: "AIRPORT", 2: "JFK", 6: "NY", 13: "PU",
			22: "40-38-23.740N", 24: "073-46-43.292W", 27: "13"}),
	)
	writeRows(t, filepath.Join(dir, "rwy.csv"),
		row(85, map[int]string{0: "Site Id"}),
		row(85, map[int]string{0: "002", 2: "H1", 3: "60", 5: "ASPH"}),
		row(85, map[int]string{0: "003", 2: "04L/22R", 3: "12079", 5: "ASPH-CONC-G", 16: "031", 75: "211"}),
	)

	rootCmd.SetArgs([]string{"convert", "--airports", "apt.csv", "--runways", "rwy.csv", "--out-dir", "out"})
	require.NoError(t, rootCmd.Execute())

	f, err := os.Open(filepath.Join(dir, "out", "airports.csv"))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	airports, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, airports, 2)
	assert.Equal(t, []string{"JFK", "NY", "13", "1013"}, airports[1][:4])
	assert.FileExists(t, filepath.Join(dir, "out", "runways.csv"))
}
