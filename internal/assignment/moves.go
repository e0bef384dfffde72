package assignment

import (
	"fmt"

	"planner/pkg/selector"
)

// ChangeMove moves one task from one machine to another.
type ChangeMove struct {
	Task, From, To int
}

func (m ChangeMove) IsDoable(sd selector.ScoreDirector) bool {
	d := directorOf(sd)
	return d != nil && m.From != m.To && d.machine[m.Task] == m.From
}

func (m ChangeMove) Do(sd selector.ScoreDirector) { mustDirector(sd).assign(m.Task, m.To) }

func (m ChangeMove) Undo() selector.Move { return ChangeMove{Task: m.Task, From: m.To, To: m.From} }

func (m ChangeMove) String() string {
	return fmt.Sprintf("change(t%d: m%d->m%d)", m.Task, m.From, m.To)
}

// SwapMove exchanges the machines of two tasks.
type SwapMove struct {
	A, B               int
	AMachine, BMachine int
}

func (m SwapMove) IsDoable(sd selector.ScoreDirector) bool {
	d := directorOf(sd)
	return d != nil && m.AMachine != m.BMachine &&
		d.machine[m.A] == m.AMachine && d.machine[m.B] == m.BMachine
}

func (m SwapMove) Do(sd selector.ScoreDirector) {
	d := mustDirector(sd)
	d.assign(m.A, m.BMachine)
	d.assign(m.B, m.AMachine)
}

func (m SwapMove) Undo() selector.Move {
	return SwapMove{A: m.A, B: m.B, AMachine: m.BMachine, BMachine: m.AMachine}
}

func (m SwapMove) String() string {
	return fmt.Sprintf("swap(t%d@m%d <-> t%d@m%d)", m.A, m.AMachine, m.B, m.BMachine)
}
