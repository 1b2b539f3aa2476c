package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteSink(t *testing.T) *SQLiteSink {
	t.Helper()
	s, err := NewSQLiteSink(context.Background(), filepath.Join(t.TempDir(), "nasr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s
}

func TestSQLiteSink_WriteAndFlush(t *testing.T) {
	s := newTestSQLiteSink(t)
	ctx := context.Background()

	require.NoError(t, s.WriteFacility(ctx, testFacility("LAS")))
	require.NoError(t, s.WriteRunwayEnd(ctx, testEnd("LAS", `"01L"`)))
	require.NoError(t, s.WriteRunwayEnd(ctx, testEnd("LAS", `"19R"`)))
	require.NoError(t, s.Flush(ctx))

	airports, ends, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, airports)
	assert.Equal(t, 2, ends)

	var endID string
	var heading float64
	require.NoError(t, s.db.QueryRowContext(ctx,
		"SELECT end_id, true_heading FROM runway_ends WHERE loc_id = ? ORDER BY end_id LIMIT 1", "LAS",
	).Scan(&endID, &heading))
	assert.Equal(t, "01L", endID)
	assert.InDelta(t, 13.0, heading, 1e-9)
}

func TestSQLiteSink_ReplaceOnRewrite(t *testing.T) {
	s := newTestSQLiteSink(t)
	ctx := context.Background()

	f := testFacility("LAS")
	require.NoError(t, s.WriteFacility(ctx, f))
	f.StateID = "AZ"
	require.NoError(t, s.WriteFacility(ctx, f))
	require.NoError(t, s.Flush(ctx))

	airports, _, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, airports)

	var state string
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT state_id FROM airports WHERE loc_id = ?", "LAS").Scan(&state))
	assert.Equal(t, "AZ", state)
}

func TestSQLiteSink_NullableColumns(t *testing.T) {
	s := newTestSQLiteSink(t)
	ctx := context.Background()

	f := testFacility("0NV1")
	f.Elevation, f.PatternAltitude = "", ""
	require.NoError(t, s.WriteFacility(ctx, f))
	require.NoError(t, s.Flush(ctx))

	var pattern *float64
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT pattern_altitude FROM airports WHERE loc_id = ?", "0NV1").Scan(&pattern))
	assert.Nil(t, pattern)
}

func TestSQLiteSink_Truncate(t *testing.T) {
	s := newTestSQLiteSink(t)
	ctx := context.Background()

	require.NoError(t, s.WriteFacility(ctx, testFacility("LAS")))
	require.NoError(t, s.WriteRunwayEnd(ctx, testEnd("LAS", `"01L"`)))
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Truncate(ctx))

	airports, ends, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, airports)
	assert.Zero(t, ends)
}

func TestSQLiteSink_UncommittedRowsDiscardedOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nasr.db")
	ctx := context.Background()

	s, err := NewSQLiteSink(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.WriteFacility(ctx, testFacility("LAS")))
	require.NoError(t, s.Close())

	s, err = NewSQLiteSink(ctx, path)
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck
	airports, _, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, airports)
}
