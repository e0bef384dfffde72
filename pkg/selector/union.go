package selector

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// UnionMoveSelector concatenates the move streams of its children. In
// deterministic mode it yields every move of child 0, then child 1, and so
// on. In random mode each pull picks a child, weighted by size when every
// live child knows its size, and draws one move from it.
type UnionMoveSelector struct {
	*CompositeMoveSelector
}

// NewUnionMoveSelector builds a union over children.
func NewUnionMoveSelector(children []MoveSelector, opts ...CompositeOption) (*UnionMoveSelector, error) {
	base, err := NewCompositeMoveSelector("UnionMoveSelector", children, opts...)
	if err != nil {
		return nil, err
	}
	return &UnionMoveSelector{CompositeMoveSelector: base}, nil
}

// IsNeverEnding is true when any child is never-ending. In deterministic
// mode validation restricts that to the last child.
func (u *UnionMoveSelector) IsNeverEnding() bool {
	for _, child := range u.children {
		if child.IsNeverEnding() {
			return true
		}
	}
	return false
}

// Size is the sum of the child sizes when every child knows its size. The
// sum saturates at math.MaxInt64.
func (u *UnionMoveSelector) Size(step *StepScope) (int64, bool) {
	var total int64
	for _, child := range u.children {
		n, ok := SizeOf(child, step)
		if !ok {
			return 0, false
		}
		total = addSize(total, n)
	}
	return total, true
}

// Iterator panics outside a phase.
func (u *UnionMoveSelector) Iterator(step *StepScope) MoveIterator {
	u.mustBeInPhase()
	if len(u.children) == 0 {
		return emptyIterator{}
	}
	if !u.randomSelection {
		return &sequentialUnionIterator{children: u.children, step: step}
	}
	it := &randomUnionIterator{
		rnd:  u.workingRandom,
		step: step,
		live: make([]unionChild, len(u.children)),
	}
	for i, child := range u.children {
		it.live[i] = unionChild{selector: child, iter: child.Iterator(step)}
	}
	return it
}

func (u *UnionMoveSelector) String() string {
	return fmt.Sprintf("UnionMoveSelector(children=%d, random=%t)", len(u.children), u.randomSelection)
}

// sequentialUnionIterator opens child iterators lazily, one after another.
type sequentialUnionIterator struct {
	children []MoveSelector
	step     *StepScope
	index    int
	current  MoveIterator
}

func (it *sequentialUnionIterator) Next() (Move, bool) {
	for it.index < len(it.children) {
		if it.current == nil {
			it.current = it.children[it.index].Iterator(it.step)
		}
		if m, ok := it.current.Next(); ok {
			return m, true
		}
		it.current = nil
		it.index++
	}
	return nil, false
}

type unionChild struct {
	selector MoveSelector
	iter     MoveIterator
}

// randomUnionIterator samples a live child per pull. Exhausted children drop
// out; the iterator ends when none is left.
type randomUnionIterator struct {
	rnd  *rand.Rand
	step *StepScope
	live []unionChild
}

func (it *randomUnionIterator) Next() (Move, bool) {
	for len(it.live) > 0 {
		i := it.pick()
		if m, ok := it.live[i].iter.Next(); ok {
			return m, true
		}
		it.live = append(it.live[:i], it.live[i+1:]...)
	}
	return nil, false
}

func (it *randomUnionIterator) pick() int {
	if len(it.live) == 1 {
		return 0
	}
	weights := make([]int64, len(it.live))
	var total int64
	for i, c := range it.live {
		n, ok := SizeOf(c.selector, it.step)
		if !ok || n <= 0 {
			return it.rnd.IntN(len(it.live))
		}
		weights[i] = n
		total = addSize(total, n)
	}
	if total == math.MaxInt64 {
		// Saturated: the weights no longer add up.
		return it.rnd.IntN(len(it.live))
	}
	r := it.rnd.Int64N(total)
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(it.live) - 1
}
