package selector

import (
	"fmt"
	"math/rand/v2"
)

// LeafOption configures a FixedMoveSelector.
type LeafOption func(*FixedMoveSelector)

// WithLeafRandomSelection makes the leaf sample with replacement forever
// instead of enumerating its moves once.
func WithLeafRandomSelection(random bool) LeafOption {
	return func(f *FixedMoveSelector) { f.randomSelection = random }
}

// WithContinuous marks the leaf's move set as dependent on working-solution
// state.
func WithContinuous(continuous bool) LeafOption {
	return func(f *FixedMoveSelector) { f.continuous = continuous }
}

// WithName sets the name used in String and in validation errors.
func WithName(name string) LeafOption {
	return func(f *FixedMoveSelector) { f.name = name }
}

// FixedMoveSelector is a leaf over a fixed list of moves.
type FixedMoveSelector struct {
	name            string
	moves           []Move
	randomSelection bool
	continuous      bool
	workingRandom   *rand.Rand
	phase           phaseState
}

// NewFixedMoveSelector copies moves into a new leaf.
func NewFixedMoveSelector(moves []Move, opts ...LeafOption) *FixedMoveSelector {
	f := &FixedMoveSelector{
		name:  "FixedMoveSelector",
		moves: make([]Move, len(moves)),
	}
	copy(f.moves, moves)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FixedMoveSelector) PhaseStarted(ps *PhaseScope) error {
	if err := f.phase.enter(ps); err != nil {
		return fmt.Errorf("%s phase started: %w", f.name, err)
	}
	f.workingRandom = ps.WorkingRandom
	return nil
}

func (f *FixedMoveSelector) StepStarted(*StepScope) {}
func (f *FixedMoveSelector) StepEnded(*StepScope)   {}

func (f *FixedMoveSelector) PhaseEnded(*PhaseScope) {
	f.workingRandom = nil
	f.phase.leave()
}

// IsNeverEnding is true for a random leaf with at least one move.
func (f *FixedMoveSelector) IsNeverEnding() bool {
	return f.randomSelection && len(f.moves) > 0
}

func (f *FixedMoveSelector) IsContinuous() bool { return f.continuous }

func (f *FixedMoveSelector) Size(*StepScope) (int64, bool) {
	return int64(len(f.moves)), true
}

func (f *FixedMoveSelector) Iterator(*StepScope) MoveIterator {
	if !f.randomSelection {
		return NewSliceIterator(f.moves)
	}
	f.phase.mustBeInPhase(f.name)
	if len(f.moves) == 0 {
		return emptyIterator{}
	}
	rnd := f.workingRandom
	return IteratorFunc(func() (Move, bool) {
		return f.moves[rnd.IntN(len(f.moves))], true
	})
}

func (f *FixedMoveSelector) String() string { return f.name }
