// Package monitoring reports on NASR load runs: per-run Prometheus metrics
// for the node_exporter textfile collector, and alerts derived from the run
// log.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"

	"github.com/sells-group/airport-cli/internal/nasr"
)

const namespace = "airport_cli"

// RunMetrics holds the gauges describing the most recent run. Each instance
// owns its registry so that a run's output holds only its own series.
type RunMetrics struct {
	registry *prometheus.Registry

	Facilities    prometheus.Gauge
	Candidates    prometheus.Gauge
	Admitted      prometheus.Gauge
	Rejected      *prometheus.GaugeVec // labels: reason
	RunwayRows    prometheus.Gauge
	Helipads      prometheus.Gauge
	RunwayEnds    prometheus.Gauge
	Duration      prometheus.Gauge
	Success       prometheus.Gauge
	LastSuccessTS prometheus.Gauge
}

// NewRunMetrics creates and registers the run gauges on a fresh registry.
func NewRunMetrics() *RunMetrics {
	m := &RunMetrics{
		registry: prometheus.NewRegistry(),
		Facilities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_facilities",
			Help:      "Facility records read by the last run.",
		}),
		Candidates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_candidates",
			Help:      "Public-use airports considered by the last run.",
		}),
		Admitted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_admitted",
			Help:      "Airports written by the last run.",
		}),
		Rejected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_rejected",
			Help:      "Facilities rejected by the last run, by reason.",
		}, []string{"reason"}),
		RunwayRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_runway_rows",
			Help:      "Runway records read by the last run.",
		}),
		Helipads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_helipads",
			Help:      "Helipad records skipped by the last run.",
		}),
		RunwayEnds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_runway_ends",
			Help:      "Runway end rows written by the last run.",
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		Success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed.",
		}),
		LastSuccessTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the last successful run finished.",
		}),
	}

	m.registry.MustRegister(
		m.Facilities,
		m.Candidates,
		m.Admitted,
		m.Rejected,
		m.RunwayRows,
		m.Helipads,
		m.RunwayEnds,
		m.Duration,
		m.Success,
		m.LastSuccessTS,
	)
	return m
}

// Observe records the outcome of a run finished at end.
func (m *RunMetrics) Observe(stats nasr.Stats, elapsed time.Duration, end time.Time, runErr error) {
	m.Facilities.Set(float64(stats.Facilities))
	m.Candidates.Set(float64(stats.Candidates))
	m.Admitted.Set(float64(stats.Admitted))
	for reason, n := range stats.Rejected {
		m.Rejected.WithLabelValues(string(reason)).Set(float64(n))
	}
	m.RunwayRows.Set(float64(stats.RunwayRows))
	m.Helipads.Set(float64(stats.Helipads))
	m.RunwayEnds.Set(float64(stats.RunwayEnds))
	m.Duration.Set(elapsed.Seconds())

	if runErr != nil {
		m.Success.Set(0)
		return
	}
	m.Success.Set(1)
	m.LastSuccessTS.Set(float64(end.Unix()))
}

// Gatherer exposes the registry.
func (m *RunMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in text exposition format. The file is
// replaced atomically.
func (m *RunMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return eris.Wrapf(err, "monitoring: write textfile %s", path)
	}
	return nil
}
