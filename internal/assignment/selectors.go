package assignment

import (
	"fmt"
	"math/rand/v2"

	"planner/pkg/selector"
)

// leaf holds the phase binding shared by the assignment leaf selectors.
type leaf struct {
	name   string
	random bool
	rnd    *rand.Rand
	phase  *selector.PhaseScope
}

func (l *leaf) PhaseStarted(ps *selector.PhaseScope) error {
	if ps == nil {
		return fmt.Errorf("%s: %w", l.name, selector.ErrNilScope)
	}
	if l.phase != nil {
		return fmt.Errorf("%s: %w", l.name, selector.ErrAlreadyInPhase)
	}
	l.phase = ps
	l.rnd = ps.WorkingRandom
	return nil
}

func (l *leaf) StepStarted(*selector.StepScope) {}
func (l *leaf) StepEnded(*selector.StepScope)   {}

func (l *leaf) PhaseEnded(*selector.PhaseScope) {
	l.phase = nil
	l.rnd = nil
}

func (l *leaf) String() string {
	if l.random {
		return l.name + "(random)"
	}
	return l.name
}

// director resolves the working assignment for a step. Random leaves also
// need the phase's random source.
func (l *leaf) director(step *selector.StepScope) *Director {
	if l.phase == nil {
		panic(fmt.Sprintf("%v: %s used outside phaseStarted/phaseEnded", selector.ErrNotInPhase, l.name))
	}
	if sd := step.ScoreDirector(); sd != nil {
		return directorOf(sd)
	}
	return directorOf(l.phase.ScoreDirector)
}

// ChangeMoveSelector generates ChangeMoves: every task to every other
// machine when enumerating, or uniformly sampled pairs forever when random.
type ChangeMoveSelector struct {
	leaf
	tasks, machines int
}

// NewChangeMoveSelector sizes the selector from p.
func NewChangeMoveSelector(p *Problem, random bool) *ChangeMoveSelector {
	return &ChangeMoveSelector{
		leaf:     leaf{name: "change", random: random},
		tasks:    len(p.Tasks),
		machines: len(p.Machines),
	}
}

func (s *ChangeMoveSelector) empty() bool { return s.tasks == 0 || s.machines < 2 }

func (s *ChangeMoveSelector) IsNeverEnding() bool { return s.random && !s.empty() }
func (s *ChangeMoveSelector) IsContinuous() bool  { return false }

func (s *ChangeMoveSelector) Size(*selector.StepScope) (int64, bool) {
	if s.empty() {
		return 0, true
	}
	return int64(s.tasks) * int64(s.machines-1), true
}

func (s *ChangeMoveSelector) Iterator(step *selector.StepScope) selector.MoveIterator {
	d := s.director(step)
	if d == nil || s.empty() {
		return selector.IteratorFunc(func() (selector.Move, bool) { return nil, false })
	}
	if s.random {
		rnd := s.rnd
		return selector.IteratorFunc(func() (selector.Move, bool) {
			ti := rnd.IntN(s.tasks)
			from := d.machine[ti]
			to := rnd.IntN(s.machines - 1)
			if to >= from {
				to++
			}
			return ChangeMove{Task: ti, From: from, To: to}, true
		})
	}
	ti, to := 0, 0
	return selector.IteratorFunc(func() (selector.Move, bool) {
		for ti < s.tasks {
			if to >= s.machines {
				ti, to = ti+1, 0
				continue
			}
			from := d.machine[ti]
			m := to
			to++
			if m != from {
				return ChangeMove{Task: ti, From: from, To: m}, true
			}
		}
		return nil, false
	})
}

// SwapMoveSelector generates SwapMoves between tasks on different machines.
// Enumeration covers every pair once; random mode samples pairs forever and
// may yield pairs that share a machine, which are not doable.
type SwapMoveSelector struct {
	leaf
	tasks int
}

// NewSwapMoveSelector sizes the selector from p.
func NewSwapMoveSelector(p *Problem, random bool) *SwapMoveSelector {
	return &SwapMoveSelector{leaf: leaf{name: "swap", random: random}, tasks: len(p.Tasks)}
}

func (s *SwapMoveSelector) IsNeverEnding() bool { return s.random && s.tasks >= 2 }
func (s *SwapMoveSelector) IsContinuous() bool  { return false }

func (s *SwapMoveSelector) Size(*selector.StepScope) (int64, bool) {
	n := int64(s.tasks)
	return n * (n - 1) / 2, true
}

func (s *SwapMoveSelector) Iterator(step *selector.StepScope) selector.MoveIterator {
	d := s.director(step)
	if d == nil || s.tasks < 2 {
		return selector.IteratorFunc(func() (selector.Move, bool) { return nil, false })
	}
	if s.random {
		rnd := s.rnd
		return selector.IteratorFunc(func() (selector.Move, bool) {
			a := rnd.IntN(s.tasks)
			b := rnd.IntN(s.tasks - 1)
			if b >= a {
				b++
			}
			return SwapMove{A: a, B: b, AMachine: d.machine[a], BMachine: d.machine[b]}, true
		})
	}
	i, j := 0, 1
	return selector.IteratorFunc(func() (selector.Move, bool) {
		for i < s.tasks-1 {
			if j >= s.tasks {
				i++
				j = i + 1
				continue
			}
			a, b := i, j
			j++
			if d.machine[a] != d.machine[b] {
				return SwapMove{A: a, B: b, AMachine: d.machine[a], BMachine: d.machine[b]}, true
			}
		}
		return nil, false
	})
}

// ShedMoveSelector moves tasks off overloaded machines onto the machine with
// the most spare capacity. Its candidates depend on the working assignment,
// so it is continuous.
type ShedMoveSelector struct {
	leaf
}

// NewShedMoveSelector returns a shed selector.
func NewShedMoveSelector(random bool) *ShedMoveSelector {
	return &ShedMoveSelector{leaf: leaf{name: "shed", random: random}}
}

// IsNeverEnding reports random mode. Candidates depend on the working
// assignment, so a random shed still ends in a step where no machine is
// overloaded.
func (s *ShedMoveSelector) IsNeverEnding() bool { return s.random }
func (s *ShedMoveSelector) IsContinuous() bool  { return true }

func (s *ShedMoveSelector) Iterator(step *selector.StepScope) selector.MoveIterator {
	d := s.director(step)
	if d == nil {
		return selector.IteratorFunc(func() (selector.Move, bool) { return nil, false })
	}
	candidates := shedCandidates(d)
	if !s.random {
		return selector.NewSliceIterator(candidates)
	}
	rnd := s.rnd
	return selector.IteratorFunc(func() (selector.Move, bool) {
		if len(candidates) == 0 {
			return nil, false
		}
		return candidates[rnd.IntN(len(candidates))], true
	})
}

// shedCandidates lists a ChangeMove for every task on an overloaded machine
// towards the machine with the most spare capacity.
func shedCandidates(d *Director) []selector.Move {
	machines := d.problem.Machines
	target, spare := -1, 0
	for mi, m := range machines {
		if free := m.Capacity - d.load[mi]; target < 0 || free > spare {
			target, spare = mi, free
		}
	}
	var out []selector.Move
	for ti, mi := range d.machine {
		if mi == target || d.load[mi] <= machines[mi].Capacity {
			continue
		}
		out = append(out, ChangeMove{Task: ti, From: mi, To: target})
	}
	return out
}
