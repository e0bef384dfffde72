package selector

import (
	"fmt"
	"math/rand/v2"
)

type compositeState int

const (
	stateConfiguring compositeState = iota
	stateActive
)

// CompositeOption configures a composite during construction.
type CompositeOption func(*CompositeMoveSelector)

// WithRandomSelection switches a composite between deterministic enumeration
// (false, the default) and random sampling (true).
func WithRandomSelection(random bool) CompositeOption {
	return func(c *CompositeMoveSelector) {
		c.randomSelection = random
	}
}

// CompositeMoveSelector is the shared base of every composite selector. It
// exclusively owns an ordered, fixed list of children, validates them at
// phase start, cascades lifecycle events to them and aggregates continuity.
// IsNeverEnding and Iterator are left to the concrete composite that embeds
// it, since their algebra depends on how children are combined.
//
// A composite is configuring until its first successful phase start and
// active (frozen) from then on.
type CompositeMoveSelector struct {
	kind            string
	children        []MoveSelector
	randomSelection bool
	workingRandom   *rand.Rand
	notifier        LifecycleNotifier
	state           compositeState
	phase           phaseState
}

// NewCompositeMoveSelector builds the base for a concrete composite. kind
// names the concrete type in validation errors. The child list is copied and
// every child is registered with the composite's notifier once, in order.
func NewCompositeMoveSelector(kind string, children []MoveSelector, opts ...CompositeOption) (*CompositeMoveSelector, error) {
	c := &CompositeMoveSelector{
		kind:     kind,
		children: make([]MoveSelector, len(children)),
	}
	for i, child := range children {
		if child == nil {
			return nil, fmt.Errorf("%w: %s child at index %d", ErrNilChild, kind, i)
		}
		c.children[i] = child
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, child := range c.children {
		c.notifier.Add(child)
	}
	return c, nil
}

// Kind returns the concrete composite kind given at construction.
func (c *CompositeMoveSelector) Kind() string { return c.kind }

// Children returns a copy of the child list in order.
func (c *CompositeMoveSelector) Children() []MoveSelector {
	out := make([]MoveSelector, len(c.children))
	copy(out, c.children)
	return out
}

func (c *CompositeMoveSelector) IsRandomSelection() bool { return c.randomSelection }

// SetRandomSelection changes the selection mode. It fails with ErrFrozen once
// the composite has been validated for a phase.
func (c *CompositeMoveSelector) SetRandomSelection(random bool) error {
	if c.state != stateConfiguring {
		return fmt.Errorf("%w: %s randomSelection", ErrFrozen, c.kind)
	}
	c.randomSelection = random
	return nil
}

// Frozen reports whether the composite has left the configuring state.
func (c *CompositeMoveSelector) Frozen() bool { return c.state == stateActive }

// InPhase reports whether the composite is between a successful
// PhaseStarted and the matching PhaseEnded.
func (c *CompositeMoveSelector) InPhase() bool { return c.phase.inPhase() }

// WorkingRandom returns the random source bound for the current phase, or
// nil outside a phase.
func (c *CompositeMoveSelector) WorkingRandom() *rand.Rand { return c.workingRandom }

// PhaseStarted validates the composite, binds the phase's random source and
// then cascades the event to every child in list order. A validation failure
// leaves the composite outside the phase and no child is notified.
func (c *CompositeMoveSelector) PhaseStarted(ps *PhaseScope) error {
	if err := c.phase.enter(ps); err != nil {
		return fmt.Errorf("%s phase started: %w", c.kind, err)
	}
	if err := c.Validate(); err != nil {
		c.phase.leave()
		return err
	}
	c.workingRandom = ps.WorkingRandom
	if err := c.notifier.PhaseStarted(ps); err != nil {
		c.workingRandom = nil
		c.phase.leave()
		return fmt.Errorf("%s: %w", c.kind, err)
	}
	c.state = stateActive
	return nil
}

// Validate enforces that in deterministic mode only the last child may be
// never-ending: the composite has to exhaust earlier children to reach later
// ones. Random mode samples instead of enumerating, so it is exempt.
func (c *CompositeMoveSelector) Validate() error {
	if c.randomSelection || len(c.children) == 0 {
		return nil
	}
	for i, child := range c.children[:len(c.children)-1] {
		if child.IsNeverEnding() {
			return &ValidationError{
				Selector:        c.kind,
				Child:           describe(child),
				Index:           i,
				RandomSelection: c.randomSelection,
			}
		}
	}
	return nil
}

func (c *CompositeMoveSelector) StepStarted(step *StepScope) {
	c.notifier.StepStarted(step)
}

func (c *CompositeMoveSelector) StepEnded(step *StepScope) {
	c.notifier.StepEnded(step)
}

// PhaseEnded cascades to the children and then drops the random source, so
// no handle survives into the next phase.
func (c *CompositeMoveSelector) PhaseEnded(ps *PhaseScope) {
	c.notifier.PhaseEnded(ps)
	c.workingRandom = nil
	c.phase.leave()
}

// IsContinuous is true when any child is continuous.
func (c *CompositeMoveSelector) IsContinuous() bool {
	for _, child := range c.children {
		if child.IsContinuous() {
			return true
		}
	}
	return false
}

// mustBeInPhase panics when an iterator is requested outside a phase.
func (c *CompositeMoveSelector) mustBeInPhase() {
	c.phase.mustBeInPhase(c.kind)
}
