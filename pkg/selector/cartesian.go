package selector

import "fmt"

// CartesianProductMoveSelector combines one move from every child into a
// CompositeMove. Deterministic mode enumerates all combinations with the last
// child innermost; random mode draws one move per child on every pull.
type CartesianProductMoveSelector struct {
	*CompositeMoveSelector
}

// NewCartesianProductMoveSelector builds a product over children.
func NewCartesianProductMoveSelector(children []MoveSelector, opts ...CompositeOption) (*CartesianProductMoveSelector, error) {
	base, err := NewCompositeMoveSelector("CartesianProductMoveSelector", children, opts...)
	if err != nil {
		return nil, err
	}
	return &CartesianProductMoveSelector{CompositeMoveSelector: base}, nil
}

// IsNeverEnding follows the combination algebra: random sampling restarts
// exhausted children so it is never-ending, while enumeration only fails to
// end when the innermost (last) child does. The random flag is conservative:
// a random product without children, or with a child that stays empty,
// still ends.
func (p *CartesianProductMoveSelector) IsNeverEnding() bool {
	if p.randomSelection {
		return true
	}
	if len(p.children) == 0 {
		return false
	}
	return p.children[len(p.children)-1].IsNeverEnding()
}

// Size is the product of the child sizes when every child knows its size. The
// product saturates at math.MaxInt64.
func (p *CartesianProductMoveSelector) Size(step *StepScope) (int64, bool) {
	if len(p.children) == 0 {
		return 0, true
	}
	total := int64(1)
	for _, child := range p.children {
		n, ok := SizeOf(child, step)
		if !ok {
			return 0, false
		}
		total = mulSize(total, n)
	}
	return total, true
}

// Iterator panics outside a phase.
func (p *CartesianProductMoveSelector) Iterator(step *StepScope) MoveIterator {
	p.mustBeInPhase()
	if len(p.children) == 0 {
		return emptyIterator{}
	}
	if p.randomSelection {
		return &randomProductIterator{
			children: p.children,
			step:     step,
			iters:    make([]MoveIterator, len(p.children)),
		}
	}
	return &sequentialProductIterator{
		children: p.children,
		step:     step,
		iters:    make([]MoveIterator, len(p.children)),
		current:  make([]Move, len(p.children)),
	}
}

func (p *CartesianProductMoveSelector) String() string {
	return fmt.Sprintf("CartesianProductMoveSelector(children=%d, random=%t)", len(p.children), p.randomSelection)
}

// sequentialProductIterator is an odometer over the child sequences. Inner
// dimensions are restarted every time an outer dimension advances.
type sequentialProductIterator struct {
	children []MoveSelector
	step     *StepScope
	iters    []MoveIterator
	current  []Move
	started  bool
	done     bool
}

func (it *sequentialProductIterator) Next() (Move, bool) {
	if it.done {
		return nil, false
	}
	if !it.started {
		it.started = true
		if !it.fill(0) {
			return it.finish()
		}
		return NewCompositeMove(it.current...), true
	}
	for i := len(it.iters) - 1; i >= 0; i-- {
		m, ok := it.iters[i].Next()
		if !ok {
			continue
		}
		it.current[i] = m
		if !it.fill(i + 1) {
			return it.finish()
		}
		return NewCompositeMove(it.current...), true
	}
	return it.finish()
}

// fill restarts every dimension from index from onwards and takes its first
// move. It fails when a dimension is empty.
func (it *sequentialProductIterator) fill(from int) bool {
	for i := from; i < len(it.children); i++ {
		it.iters[i] = it.children[i].Iterator(it.step)
		m, ok := it.iters[i].Next()
		if !ok {
			return false
		}
		it.current[i] = m
	}
	return true
}

func (it *sequentialProductIterator) finish() (Move, bool) {
	it.done = true
	it.iters = nil
	return nil, false
}

// randomProductIterator draws one move from every child per pull. A child
// that is exhausted gets a fresh iterator; one that is empty even then ends
// the product.
type randomProductIterator struct {
	children []MoveSelector
	step     *StepScope
	iters    []MoveIterator
	done     bool
}

func (it *randomProductIterator) Next() (Move, bool) {
	if it.done {
		return nil, false
	}
	parts := make([]Move, len(it.children))
	for i, child := range it.children {
		if it.iters[i] == nil {
			it.iters[i] = child.Iterator(it.step)
		}
		m, ok := it.iters[i].Next()
		if !ok {
			it.iters[i] = child.Iterator(it.step)
			m, ok = it.iters[i].Next()
			if !ok {
				it.done = true
				return nil, false
			}
		}
		parts[i] = m
	}
	return &CompositeMove{moves: parts}, true
}
