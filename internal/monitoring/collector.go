package monitoring

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/store"
)

// Snapshot summarizes load runs within a lookback window.
type Snapshot struct {
	Total    int     `json:"total"`
	Complete int     `json:"complete"`
	Failed   int     `json:"failed"`
	Running  int     `json:"running"`
	FailRate float64 `json:"fail_rate"`

	// Most recent successful run, from the whole log.
	LastSuccess  *time.Time `json:"last_success,omitempty"`
	LastAdmitted int        `json:"last_admitted"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// RunLister abstracts the run log queries needed by the collector.
type RunLister interface {
	List(ctx context.Context, limit int) ([]store.RunEntry, error)
}

// Collector builds snapshots from the run log.
type Collector struct {
	runs  RunLister
	clock clockwork.Clock
	limit int
}

// NewCollector creates a collector. A nil clock uses the real clock.
func NewCollector(runs RunLister, clock clockwork.Clock) *Collector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Collector{runs: runs, clock: clock, limit: 1000}
}

// Collect gathers a snapshot over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*Snapshot, error) {
	now := c.clock.Now().UTC()
	snap := &Snapshot{
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}
	cutoff := now.Add(-time.Duration(lookbackHours) * time.Hour)

	entries, err := c.runs.List(ctx, c.limit)
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	// Entries arrive newest first.
	for _, e := range entries {
		if e.Status == store.StatusComplete && snap.LastSuccess == nil {
			started := e.StartedAt
			snap.LastSuccess = &started
			snap.LastAdmitted = e.Admitted
		}
		if e.StartedAt.Before(cutoff) {
			continue
		}
		snap.Total++
		switch e.Status {
		case store.StatusComplete:
			snap.Complete++
		case store.StatusFailed:
			snap.Failed++
		case store.StatusRunning:
			snap.Running++
		}
	}

	if finished := snap.Complete + snap.Failed; finished > 0 {
		snap.FailRate = float64(snap.Failed) / float64(finished)
	}
	return snap, nil
}
