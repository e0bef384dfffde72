package selector

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// PhaseScope is the context of one solver phase. The driver creates it and
// passes it by reference to every lifecycle call; selectors only borrow it.
type PhaseScope struct {
	ID            string
	WorkingRandom *rand.Rand
	ScoreDirector ScoreDirector
	StartedAt     time.Time

	// StepCount is the number of steps started so far in this phase.
	StepCount int
}

// NewPhaseScope creates a phase scope with a fresh ID.
func NewPhaseScope(rnd *rand.Rand, sd ScoreDirector) *PhaseScope {
	return &PhaseScope{
		ID:            uuid.NewString(),
		WorkingRandom: rnd,
		ScoreDirector: sd,
		StartedAt:     time.Now(),
	}
}

// NextStep opens the scope of the next step and advances the step counter.
func (ps *PhaseScope) NextStep() *StepScope {
	step := &StepScope{Phase: ps, Index: ps.StepCount}
	ps.StepCount++
	return step
}

// StepScope is the context of one step within a phase.
type StepScope struct {
	Phase *PhaseScope
	Index int
}

// WorkingRandom returns the phase's random source.
func (s *StepScope) WorkingRandom() *rand.Rand {
	if s == nil || s.Phase == nil {
		return nil
	}
	return s.Phase.WorkingRandom
}

// ScoreDirector returns the phase's score director.
func (s *StepScope) ScoreDirector() ScoreDirector {
	if s == nil || s.Phase == nil {
		return nil
	}
	return s.Phase.ScoreDirector
}
