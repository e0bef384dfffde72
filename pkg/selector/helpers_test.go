package selector

import (
	"math/rand/v2"
	"strings"
)

type stubMove struct {
	name string
	log  *[]string
}

func (m *stubMove) IsDoable(ScoreDirector) bool { return true }

func (m *stubMove) Do(ScoreDirector) {
	if m.log != nil {
		*m.log = append(*m.log, "do "+m.name)
	}
}

func (m *stubMove) Undo() Move {
	name := strings.TrimSuffix(m.name, "'")
	if name == m.name {
		name += "'"
	}
	return &stubMove{name: name, log: m.log}
}

func (m *stubMove) String() string { return m.name }

func moves(names ...string) []Move {
	out := make([]Move, len(names))
	for i, n := range names {
		out[i] = &stubMove{name: n}
	}
	return out
}

func moveNames(ms []Move) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = describe(m)
	}
	return out
}

// stubSelector is a leaf that records every lifecycle call into a shared log.
type stubSelector struct {
	name        string
	moves       []Move
	neverEnding bool
	continuous  bool
	phaseErr    error
	log         *[]string
	phases      []*PhaseScope
}

func (s *stubSelector) record(event string) {
	if s.log != nil {
		*s.log = append(*s.log, s.name+"."+event)
	}
}

func (s *stubSelector) PhaseStarted(ps *PhaseScope) error {
	s.record("phaseStarted")
	if s.phaseErr != nil {
		return s.phaseErr
	}
	s.phases = append(s.phases, ps)
	return nil
}

func (s *stubSelector) StepStarted(*StepScope) { s.record("stepStarted") }
func (s *stubSelector) StepEnded(*StepScope)   { s.record("stepEnded") }
func (s *stubSelector) PhaseEnded(*PhaseScope) { s.record("phaseEnded") }

func (s *stubSelector) Iterator(*StepScope) MoveIterator {
	if !s.neverEnding {
		return NewSliceIterator(s.moves)
	}
	i := 0
	return IteratorFunc(func() (Move, bool) {
		if len(s.moves) == 0 {
			return &stubMove{name: s.name}, true
		}
		m := s.moves[i%len(s.moves)]
		i++
		return m, true
	})
}

func (s *stubSelector) IsNeverEnding() bool { return s.neverEnding }
func (s *stubSelector) IsContinuous() bool  { return s.continuous }
func (s *stubSelector) String() string      { return s.name }

// sizedSelector adds a known size to a stub.
type sizedSelector struct {
	*stubSelector
	size int64
}

func (s *sizedSelector) Size(*StepScope) (int64, bool) { return s.size, true }

func newPhase(seed uint64) *PhaseScope {
	return NewPhaseScope(rand.New(rand.NewPCG(seed, seed+1)), nil)
}
