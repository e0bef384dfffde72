// Package selector defines the move-selection core of a local-search solver.
// Leaf selectors produce candidate moves from the working solution; composite
// selectors combine child selectors into arbitrarily nested trees that either
// enumerate deterministically or sample randomly. Every node of a tree shares
// the MoveSelector capability and receives phase and step lifecycle events
// from its parent.
package selector

import "math"

// MoveSelector is the capability every node of a selection tree implements.
type MoveSelector interface {
	PhaseLifecycleListener

	// Iterator starts a fresh, lazy move sequence for the given step. An
	// exhausted sequence is a legal outcome, never a failure.
	Iterator(step *StepScope) MoveIterator

	// IsNeverEnding reports whether the sequence has no natural end.
	IsNeverEnding() bool

	// IsContinuous reports whether the set of producible moves can change
	// within a phase because it depends on mutable working-solution state.
	IsContinuous() bool
}

// MoveIterator pulls moves one at a time. Next returns false once the
// sequence is exhausted and keeps returning false afterwards.
type MoveIterator interface {
	Next() (Move, bool)
}

// Sizer is implemented by selectors that can count the moves they would
// produce in a step. ok is false when the count is not known up front.
type Sizer interface {
	Size(step *StepScope) (n int64, ok bool)
}

// SizeOf returns the size of s when s is a Sizer that knows its size.
func SizeOf(s MoveSelector, step *StepScope) (int64, bool) {
	sz, ok := s.(Sizer)
	if !ok {
		return 0, false
	}
	return sz.Size(step)
}

// addSize and mulSize combine child sizes, saturating at math.MaxInt64.
// Sizes are never negative.
func addSize(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func mulSize(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

// IteratorFunc adapts a plain function to the MoveIterator interface.
type IteratorFunc func() (Move, bool)

func (f IteratorFunc) Next() (Move, bool) { return f() }

// SliceIterator yields the moves of a slice in order.
type SliceIterator struct {
	moves []Move
	pos   int
}

// NewSliceIterator iterates over moves without copying them.
func NewSliceIterator(moves []Move) *SliceIterator {
	return &SliceIterator{moves: moves}
}

func (it *SliceIterator) Next() (Move, bool) {
	if it.pos >= len(it.moves) {
		return nil, false
	}
	m := it.moves[it.pos]
	it.pos++
	return m, true
}

// emptyIterator never yields.
type emptyIterator struct{}

func (emptyIterator) Next() (Move, bool) { return nil, false }

// Collect pulls at most limit moves from it. A limit <= 0 drains the
// iterator, which never returns for a never-ending sequence.
func Collect(it MoveIterator, limit int) []Move {
	var out []Move
	for limit <= 0 || len(out) < limit {
		m, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, m)
	}
	return out
}
