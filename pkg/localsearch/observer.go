package localsearch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventType classifies phase events for filtering and routing.
type EventType string

const (
	EventPhaseStarted EventType = "phase_started"
	EventStepStarted  EventType = "step_started"
	EventStepEnded    EventType = "step_ended"
	EventPhaseEnded   EventType = "phase_ended"
	EventPhaseError   EventType = "phase_error"
)

// Event is a single observation from a running phase. Step is -1 for
// phase-level events. Metadata is the extension point for new fields.
type Event struct {
	Type      EventType
	Phase     string
	Step      int
	Score     float64
	BestScore float64
	Evaluated int
	Applied   bool
	Reason    StopReason
	Elapsed   time.Duration
	Error     error
	Metadata  map[string]any
}

// Observer receives events while a phase runs. It is called synchronously
// from the solving goroutine.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// MultiObserver fans out events to multiple observers.
type MultiObserver []Observer

func (m MultiObserver) OnEvent(e Event) {
	for _, obs := range m {
		obs.OnEvent(e)
	}
}

// LogObserver writes phase events as structured slog lines. Step events go
// to debug so a long phase does not flood info output.
type LogObserver struct {
	Logger *slog.Logger
}

func (o *LogObserver) OnEvent(e Event) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []slog.Attr{
		slog.String("event", string(e.Type)),
		slog.String("phase", e.Phase),
	}
	if e.Step >= 0 {
		attrs = append(attrs, slog.Int("step", e.Step))
	}
	switch e.Type {
	case EventStepEnded:
		attrs = append(attrs,
			slog.Float64("score", e.Score),
			slog.Int("evaluated", e.Evaluated),
			slog.Bool("applied", e.Applied),
		)
	case EventPhaseStarted, EventPhaseEnded:
		attrs = append(attrs, slog.Float64("score", e.Score))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", string(e.Reason)))
	}
	if e.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", e.Elapsed))
	}
	if e.Error != nil {
		attrs = append(attrs, slog.String("error", e.Error.Error()))
	}

	level := slog.LevelInfo
	switch {
	case e.Error != nil:
		level = slog.LevelWarn
	case e.Type == EventStepStarted || e.Type == EventStepEnded:
		level = slog.LevelDebug
	}
	logger.LogAttrs(context.Background(), level, "phase", attrs...)
}

// TraceCollector accumulates events in memory for post-phase analysis.
// Safe for concurrent use.
type TraceCollector struct {
	mu     sync.Mutex
	events []Event
}

func (t *TraceCollector) OnEvent(e Event) {
	t.mu.Lock()
	t.events = append(t.events, e)
	t.mu.Unlock()
}

// Events returns a copy of all collected events.
func (t *TraceCollector) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Reset clears collected events.
func (t *TraceCollector) Reset() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}

// EventsOfType returns only events matching the given type.
func (t *TraceCollector) EventsOfType(typ EventType) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Event
	for _, e := range t.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func emitEvent(obs Observer, e Event) {
	if obs != nil {
		obs.OnEvent(e)
	}
}
