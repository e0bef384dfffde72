package selector

import (
	"fmt"
	"strings"
)

// ScoreDirector gives moves access to the working solution. Score
// calculation lives behind richer interfaces owned by the solving driver.
type ScoreDirector interface {
	WorkingSolution() any
}

// Move is an atomic, reversible transformation of the working solution.
// Moves are transient: a leaf selector creates them on demand and the caller
// applies or discards them within the same step.
type Move interface {
	// IsDoable reports whether the move still applies to the working solution.
	// The driver checks it before calling Do.
	IsDoable(sd ScoreDirector) bool
	Do(sd ScoreDirector)
	// Undo returns the inverse move. It relies on state captured when the move
	// was created, so it must be taken before the working solution drifts.
	Undo() Move
}

// CompositeMove applies its parts in order. Parts should touch independent
// parts of the solution since each part's undo was captured at creation.
type CompositeMove struct {
	moves []Move
}

// NewCompositeMove copies parts into a new CompositeMove.
func NewCompositeMove(parts ...Move) *CompositeMove {
	moves := make([]Move, len(parts))
	copy(moves, parts)
	return &CompositeMove{moves: moves}
}

// Moves returns a copy of the parts.
func (m *CompositeMove) Moves() []Move {
	out := make([]Move, len(m.moves))
	copy(out, m.moves)
	return out
}

func (m *CompositeMove) IsDoable(sd ScoreDirector) bool {
	for _, part := range m.moves {
		if !part.IsDoable(sd) {
			return false
		}
	}
	return true
}

func (m *CompositeMove) Do(sd ScoreDirector) {
	for _, part := range m.moves {
		part.Do(sd)
	}
}

// Undo undoes every part in reverse order.
func (m *CompositeMove) Undo() Move {
	undo := make([]Move, len(m.moves))
	for i, part := range m.moves {
		undo[len(m.moves)-1-i] = part.Undo()
	}
	return &CompositeMove{moves: undo}
}

func (m *CompositeMove) String() string {
	parts := make([]string, len(m.moves))
	for i, part := range m.moves {
		parts[i] = describe(part)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// describe names a move or selector for error messages.
func describe(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", v)
}
