package selector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when a selector tree cannot run a
	// phase as configured. It is fatal for the phase and never retried.
	ErrInvalidConfiguration = errors.New("selector: invalid configuration")

	// ErrNilChild is returned when a composite is built with a nil child.
	ErrNilChild = errors.New("selector: nil child selector")

	// ErrFrozen is returned when configuration is changed after the selector
	// has been validated for its first phase.
	ErrFrozen = errors.New("selector: configuration frozen after first phase start")

	// ErrNotInPhase marks use of a phase-scoped selector outside a phase.
	ErrNotInPhase = errors.New("selector: not in phase")

	// ErrAlreadyInPhase is returned when PhaseStarted arrives before the
	// previous phase ended.
	ErrAlreadyInPhase = errors.New("selector: already in phase")

	// ErrNilScope is returned when a lifecycle event carries no scope.
	ErrNilScope = errors.New("selector: nil scope")
)

// ValidationError reports a non-last never-ending child of a composite in
// deterministic mode. Every child after it would be unreachable.
type ValidationError struct {
	Selector        string // concrete composite kind, e.g. "UnionMoveSelector"
	Child           string
	Index           int
	RandomSelection bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: the non-last child (%s) at index %d has neverEnding (true) on a %s instance with randomSelection (%t)",
		ErrInvalidConfiguration, e.Child, e.Index, e.Selector, e.RandomSelection)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }
