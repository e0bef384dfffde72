package selector

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLifecycleNotifier_DeliversInRegistrationOrder(t *testing.T) {
	var log []string
	var n LifecycleNotifier
	for _, name := range []string{"A", "B", "C"} {
		n.Add(&stubSelector{name: name, log: &log})
	}
	if n.Len() != 3 {
		t.Fatalf("Len = %d, want 3", n.Len())
	}

	ps := newPhase(1)
	if err := n.PhaseStarted(ps); err != nil {
		t.Fatalf("PhaseStarted: %v", err)
	}
	step := ps.NextStep()
	n.StepStarted(step)
	n.StepEnded(step)
	n.PhaseEnded(ps)

	want := []string{
		"A.phaseStarted", "B.phaseStarted", "C.phaseStarted",
		"A.stepStarted", "B.stepStarted", "C.stepStarted",
		"A.stepEnded", "B.stepEnded", "C.stepEnded",
		"A.phaseEnded", "B.phaseEnded", "C.phaseEnded",
	}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLifecycleNotifier_StopsAtFirstFailure(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	var n LifecycleNotifier
	n.Add(&stubSelector{name: "A", log: &log})
	n.Add(&stubSelector{name: "B", log: &log, phaseErr: boom})
	n.Add(&stubSelector{name: "C", log: &log})

	if err := n.PhaseStarted(newPhase(1)); !errors.Is(err, boom) {
		t.Fatalf("PhaseStarted = %v, want wrapped boom", err)
	}
	want := []string{"A.phaseStarted", "B.phaseStarted", "A.phaseEnded"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLifecycleNotifier_ListenersReturnsCopy(t *testing.T) {
	var n LifecycleNotifier
	n.Add(&stubSelector{name: "A"})
	ls := n.Listeners()
	ls[0] = &stubSelector{name: "B"}
	if got := describe(n.Listeners()[0]); got != "A" {
		t.Errorf("Listeners() leaked internal slice: got %s", got)
	}
}

func TestPhaseScope_NextStep(t *testing.T) {
	ps := newPhase(1)
	if ps.ID == "" {
		t.Error("phase scope has no ID")
	}
	s0, s1 := ps.NextStep(), ps.NextStep()
	if s0.Index != 0 || s1.Index != 1 || ps.StepCount != 2 {
		t.Errorf("step indices = %d, %d (count %d); want 0, 1 (2)", s0.Index, s1.Index, ps.StepCount)
	}
	if s1.WorkingRandom() != ps.WorkingRandom {
		t.Error("step does not expose the phase's random source")
	}
	var nilStep *StepScope
	if nilStep.WorkingRandom() != nil || nilStep.ScoreDirector() != nil {
		t.Error("nil step scope must expose nil collaborators")
	}
}
