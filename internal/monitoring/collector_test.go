package monitoring

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/airport-cli/internal/store"
)

type mockRunLog struct {
	entries []store.RunEntry
	err     error
}

func (m *mockRunLog) List(_ context.Context, limit int) ([]store.RunEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.entries) {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func entry(status string, age time.Duration, admitted int) store.RunEntry {
	return store.RunEntry{Status: status, StartedAt: checkTime.Add(-age), Admitted: admitted}
}

func TestCollector_Collect(t *testing.T) {
	runs := &mockRunLog{entries: []store.RunEntry{
		entry(store.StatusRunning, time.Hour, 0),
		entry(store.StatusFailed, 2*time.Hour, 0),
		entry(store.StatusComplete, 3*time.Hour, 5120),
		entry(store.StatusComplete, 30*time.Hour, 5118),
		entry(store.StatusFailed, 200*time.Hour, 0),
	}}
	c := NewCollector(runs, clockwork.NewFakeClockAt(checkTime))

	snap, err := c.Collect(context.Background(), 48)
	require.NoError(t, err)

	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, 2, snap.Complete)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 1, snap.Running)
	assert.InDelta(t, 1.0/3, snap.FailRate, 1e-9)
	require.NotNil(t, snap.LastSuccess)
	assert.Equal(t, checkTime.Add(-3*time.Hour), *snap.LastSuccess)
	assert.Equal(t, 5120, snap.LastAdmitted)
	assert.Equal(t, checkTime, snap.CollectedAt)
}

func TestCollector_LastSuccessOutsideWindow(t *testing.T) {
	runs := &mockRunLog{entries: []store.RunEntry{
		entry(store.StatusComplete, 500*time.Hour, 5000),
	}}
	c := NewCollector(runs, clockwork.NewFakeClockAt(checkTime))

	snap, err := c.Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.FailRate)
	require.NotNil(t, snap.LastSuccess)
}

func TestCollector_ListError(t *testing.T) {
	c := NewCollector(&mockRunLog{err: fmt.Errorf("connection refused")}, nil)

	_, err := c.Collect(context.Background(), 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring: list runs")
}
