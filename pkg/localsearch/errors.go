package localsearch

import "errors"

var (
	// ErrNilSelector is returned when a phase is built without a root selector.
	ErrNilSelector = errors.New("localsearch: nil root selector")

	// ErrUnboundedStep is returned when the root selector never ends and no
	// per-step move limit caps how many moves a step pulls from it.
	ErrUnboundedStep = errors.New("localsearch: never-ending selector without a per-step move limit")

	// ErrNoTermination is returned when a phase has neither a step limit, a
	// time limit nor an unimproved-step limit.
	ErrNoTermination = errors.New("localsearch: phase has no termination")
)
