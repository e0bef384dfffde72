package metrics

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"planner/pkg/localsearch"
)

func TestCollector_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.OnEvent(localsearch.Event{Type: localsearch.EventPhaseStarted, BestScore: -100})
	c.OnEvent(localsearch.Event{Type: localsearch.EventStepEnded, Evaluated: 7, Applied: true, BestScore: -80, Elapsed: time.Millisecond})
	c.OnEvent(localsearch.Event{Type: localsearch.EventStepEnded, Evaluated: 5, BestScore: -80, Elapsed: time.Millisecond})
	c.OnEvent(localsearch.Event{Type: localsearch.EventPhaseEnded, Reason: localsearch.StopUnimproved, BestScore: -80})
	c.OnEvent(localsearch.Event{Type: localsearch.EventPhaseError, Error: context.Canceled})

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"steps", testutil.ToFloat64(c.steps), 2},
		{"evaluated", testutil.ToFloat64(c.evaluated), 12},
		{"applied", testutil.ToFloat64(c.applied), 1},
		{"best score", testutil.ToFloat64(c.bestScore), -80},
		{"phases", testutil.ToFloat64(c.phases.WithLabelValues("unimproved_limit")), 1},
		{"phase errors", testutil.ToFloat64(c.phaseErrors), 1},
	}
	for _, ck := range checks {
		if ck.got != ck.want {
			t.Errorf("%s = %v, want %v", ck.name, ck.got, ck.want)
		}
	}
	if n := testutil.CollectAndCount(c.stepDuration); n != 1 {
		t.Errorf("step duration series = %d, want 1", n)
	}
}

func TestCollector_PhaseEndedExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.OnEvent(localsearch.Event{Type: localsearch.EventPhaseEnded, Reason: localsearch.StopStepLimit})

	want := `
# HELP planner_phases_total Finished local-search phases by stop reason
# TYPE planner_phases_total counter
planner_phases_total{reason="step_limit"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "planner_phases_total"); err != nil {
		t.Error(err)
	}
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.OnEvent(localsearch.Event{Type: localsearch.EventStepEnded, Evaluated: 3})

	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"planner_moves_evaluated_total 3", "# TYPE planner_step_duration_seconds histogram"} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q:\n%s", want, out)
		}
	}
}

func TestNewCollector_SeparateRegistries(t *testing.T) {
	NewCollector(prometheus.NewRegistry())
	NewCollector(prometheus.NewRegistry())
}
