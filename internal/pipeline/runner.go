package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/airport-cli/internal/config"
	"github.com/sells-group/airport-cli/internal/monitoring"
	"github.com/sells-group/airport-cli/internal/nasr"
	"github.com/sells-group/airport-cli/internal/store"
)

// RunRecorder persists the lifecycle of a run. *store.RunLog implements it.
type RunRecorder interface {
	Start(ctx context.Context, id uuid.UUID, source string, startedAt time.Time) error
	Complete(ctx context.Context, id uuid.UUID, completedAt time.Time, result store.RunResult) error
	Fail(ctx context.Context, id uuid.UUID, completedAt time.Time, errMsg string) error
}

// Result describes a finished run.
type Result struct {
	RunID   uuid.UUID
	Stats   nasr.Stats
	Elapsed time.Duration
}

// Runner executes conversions with a fixed configuration.
type Runner struct {
	cfg     *config.Config
	runLog  RunRecorder
	metrics *monitoring.RunMetrics
	clock   clockwork.Clock
}

// Option configures a Runner.
type Option func(*Runner)

// WithRunLog records each run.
func WithRunLog(r RunRecorder) Option {
	return func(rn *Runner) { rn.runLog = r }
}

// WithMetrics observes each run, writing cfg.Metrics.Textfile when set.
func WithMetrics(m *monitoring.RunMetrics) Option {
	return func(rn *Runner) { rn.metrics = m }
}

// WithClock replaces the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(rn *Runner) { rn.clock = c }
}

// New creates a Runner.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, clock: clockwork.NewRealClock()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run streams in through the synchronizer into sink and flushes it. The
// outcome is recorded whether or not the run succeeds.
func (r *Runner) Run(ctx context.Context, in *Inputs, sink nasr.Sink) (*Result, error) {
	res := &Result{RunID: uuid.New()}
	start := r.clock.Now()

	log := zap.L().With(
		zap.String("component", "pipeline.runner"),
		zap.String("run_id", res.RunID.String()),
	)
	log.Info("conversion starting", zap.String("source", in.Source))

	if r.runLog != nil {
		if err := r.runLog.Start(ctx, res.RunID, in.Source, start); err != nil {
			return nil, eris.Wrap(err, "pipeline: start run")
		}
	}

	stats, err := r.convert(ctx, in, sink)
	res.Stats = stats
	res.Elapsed = r.clock.Since(start)

	r.record(ctx, log, res, err)
	if err != nil {
		log.Error("conversion failed", zap.Duration("elapsed", res.Elapsed), zap.Error(err))
		return res, err
	}

	log.Info("conversion finished",
		zap.Duration("elapsed", res.Elapsed),
		zap.Object("stats", stats),
	)
	return res, nil
}

func (r *Runner) convert(ctx context.Context, in *Inputs, sink nasr.Sink) (nasr.Stats, error) {
	layout, err := ResolveLayout(r.cfg.Layout, in.Airports.Header(), in.Runways.Header())
	if err != nil {
		return nasr.Stats{}, err
	}

	facilities, err := nasr.NewFacilityReader(in.Airports, layout.Facility)
	if err != nil {
		return nasr.Stats{}, eris.Wrap(err, "pipeline: facility reader")
	}
	runways, err := nasr.NewRunwayReader(in.Runways, layout.Runway)
	if err != nil {
		return nasr.Stats{}, eris.Wrap(err, "pipeline: runway reader")
	}

	syncer := nasr.NewSynchronizer(nasr.Options{
		Criteria:    Criteria(r.cfg.Filter),
		StrictOrder: r.cfg.Convert.StrictOrder,
	})
	stats, err := syncer.Run(ctx, facilities, runways, sink)
	if err != nil {
		return stats, err
	}
	return stats, nasr.Flush(ctx, sink)
}

// record writes the run log entry and metrics. Failures here are logged and
// never mask the run's own outcome.
func (r *Runner) record(ctx context.Context, log *zap.Logger, res *Result, runErr error) {
	end := r.clock.Now()
	// The run log must be updated even when ctx was cancelled.
	ctx = context.WithoutCancel(ctx)

	if r.runLog != nil {
		var err error
		if runErr != nil {
			err = r.runLog.Fail(ctx, res.RunID, end, runErr.Error())
		} else {
			err = r.runLog.Complete(ctx, res.RunID, end, store.RunResult{
				Facilities: res.Stats.Facilities,
				Admitted:   res.Stats.Admitted,
				RunwayEnds: res.Stats.RunwayEnds,
				Metadata: map[string]any{
					"candidates":  res.Stats.Candidates,
					"runway_rows": res.Stats.RunwayRows,
					"helipads":    res.Stats.Helipads,
					"rejected":    res.Stats.Rejected,
					"elapsed_ms":  res.Elapsed.Milliseconds(),
				},
			})
		}
		if err != nil {
			log.Warn("pipeline: failed to update run log", zap.Error(err))
		}
	}

	if r.metrics != nil {
		r.metrics.Observe(res.Stats, res.Elapsed, end, runErr)
		if path := r.cfg.Metrics.Textfile; path != "" {
			if err := r.metrics.WriteTextfile(path); err != nil {
				log.Warn("pipeline: failed to write metrics", zap.Error(err))
			}
		}
	}
}
