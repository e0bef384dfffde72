package selector

import "fmt"

// PhaseLifecycleListener receives phase and step boundary events. Only
// PhaseStarted can fail: a failure there aborts the phase before any step.
type PhaseLifecycleListener interface {
	PhaseStarted(ps *PhaseScope) error
	StepStarted(step *StepScope)
	StepEnded(step *StepScope)
	PhaseEnded(ps *PhaseScope)
}

// LifecycleNotifier fans lifecycle events out to listeners in registration
// order. It holds references for dispatch only and owns none of them.
// The zero value is ready to use.
type LifecycleNotifier struct {
	listeners []PhaseLifecycleListener
}

// Add registers a listener. There is no removal.
func (n *LifecycleNotifier) Add(l PhaseLifecycleListener) {
	n.listeners = append(n.listeners, l)
}

// Len returns the number of registered listeners.
func (n *LifecycleNotifier) Len() int { return len(n.listeners) }

// Listeners returns a copy of the registered listeners in order.
func (n *LifecycleNotifier) Listeners() []PhaseLifecycleListener {
	out := make([]PhaseLifecycleListener, len(n.listeners))
	copy(out, n.listeners)
	return out
}

// PhaseStarted notifies every listener in order and stops at the first
// failure. Listeners that already started receive PhaseEnded in reverse
// order so no listener is left half inside a phase that never runs.
func (n *LifecycleNotifier) PhaseStarted(ps *PhaseScope) error {
	for i, l := range n.listeners {
		if err := l.PhaseStarted(ps); err != nil {
			for j := i - 1; j >= 0; j-- {
				n.listeners[j].PhaseEnded(ps)
			}
			return fmt.Errorf("listener %d (%s): %w", i, describe(l), err)
		}
	}
	return nil
}

func (n *LifecycleNotifier) StepStarted(step *StepScope) {
	for _, l := range n.listeners {
		l.StepStarted(step)
	}
}

func (n *LifecycleNotifier) StepEnded(step *StepScope) {
	for _, l := range n.listeners {
		l.StepEnded(step)
	}
}

func (n *LifecycleNotifier) PhaseEnded(ps *PhaseScope) {
	for _, l := range n.listeners {
		l.PhaseEnded(ps)
	}
}

// phaseState is the bookkeeping every selector keeps about the phase it is
// participating in.
type phaseState struct {
	phase *PhaseScope
}

func (s *phaseState) enter(ps *PhaseScope) error {
	if ps == nil {
		return ErrNilScope
	}
	if s.phase != nil {
		return ErrAlreadyInPhase
	}
	s.phase = ps
	return nil
}

func (s *phaseState) leave() { s.phase = nil }

func (s *phaseState) inPhase() bool { return s.phase != nil }

func (s *phaseState) mustBeInPhase(who string) {
	if s.phase == nil {
		panic(fmt.Sprintf("%v: %s used outside phaseStarted/phaseEnded", ErrNotInPhase, who))
	}
}
