// Package metrics exports local-search phase events as Prometheus metrics.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"planner/pkg/localsearch"
)

// Collector implements localsearch.Observer. One collector may observe
// several phases, including concurrent ones.
type Collector struct {
	phases       *prometheus.CounterVec
	phaseErrors  prometheus.Counter
	steps        prometheus.Counter
	evaluated    prometheus.Counter
	applied      prometheus.Counter
	bestScore    prometheus.Gauge
	stepDuration prometheus.Histogram
}

// NewCollector registers the solver metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		phases: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_phases_total",
			Help: "Finished local-search phases by stop reason",
		}, []string{"reason"}),
		phaseErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "planner_phase_errors_total",
			Help: "Phases that failed to start or were canceled",
		}),
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "planner_steps_total",
			Help: "Completed local-search steps",
		}),
		evaluated: f.NewCounter(prometheus.CounterOpts{
			Name: "planner_moves_evaluated_total",
			Help: "Doable moves scored",
		}),
		applied: f.NewCounter(prometheus.CounterOpts{
			Name: "planner_moves_applied_total",
			Help: "Moves applied to the working solution",
		}),
		bestScore: f.NewGauge(prometheus.GaugeOpts{
			Name: "planner_best_score",
			Help: "Best score of the most recently reported phase",
		}),
		stepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_step_duration_seconds",
			Help:    "Step duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}),
	}
}

func (c *Collector) OnEvent(e localsearch.Event) {
	switch e.Type {
	case localsearch.EventStepEnded:
		c.steps.Inc()
		c.evaluated.Add(float64(e.Evaluated))
		if e.Applied {
			c.applied.Inc()
		}
		c.bestScore.Set(e.BestScore)
		c.stepDuration.Observe(e.Elapsed.Seconds())
	case localsearch.EventPhaseStarted:
		c.bestScore.Set(e.BestScore)
	case localsearch.EventPhaseEnded:
		c.phases.WithLabelValues(string(e.Reason)).Inc()
		c.bestScore.Set(e.BestScore)
	case localsearch.EventPhaseError:
		c.phaseErrors.Inc()
	}
}

// WriteText writes every metric gathered by g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
