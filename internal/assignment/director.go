package assignment

import "fmt"

// overloadWeight makes any capacity violation dominate the balance term.
const overloadWeight = 1000

// Director owns the working assignment and scores it. It is the score
// director handed to moves and to the local-search phase.
type Director struct {
	problem *Problem
	machine []int // task index -> machine index
	load    []int // machine index -> summed duration
}

// NewDirector builds the starting assignment. Tasks pinned in Initial start
// on their machine; the rest start on the first machine.
func NewDirector(p *Problem) (*Director, error) {
	if p.machineIndex == nil {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	d := &Director{
		problem: p,
		machine: make([]int, len(p.Tasks)),
		load:    make([]int, len(p.Machines)),
	}
	for ti, t := range p.Tasks {
		mi := 0
		if name, ok := p.Initial[t.Name]; ok {
			mi = p.machineIndex[name]
		}
		d.machine[ti] = mi
		d.load[mi] += t.Duration
	}
	return d, nil
}

func (d *Director) WorkingSolution() any { return d }

// Problem returns the instance being solved.
func (d *Director) Problem() *Problem { return d.problem }

// MachineOf returns the machine index task ti is on.
func (d *Director) MachineOf(ti int) int { return d.machine[ti] }

// Load returns the summed duration on machine mi.
func (d *Director) Load(mi int) int { return d.load[mi] }

// Overload is the total duration above capacity over all machines.
func (d *Director) Overload() int {
	over := 0
	for mi, l := range d.load {
		if excess := l - d.problem.Machines[mi].Capacity; excess > 0 {
			over += excess
		}
	}
	return over
}

// CalculateScore is higher-is-better: capacity violations first, then the
// sum of squared loads, which rewards even spreading.
func (d *Director) CalculateScore() float64 {
	sq := 0
	for _, l := range d.load {
		sq += l * l
	}
	return -float64(overloadWeight*d.Overload() + sq)
}

func (d *Director) assign(ti, mi int) {
	from := d.machine[ti]
	if from == mi {
		return
	}
	dur := d.problem.Tasks[ti].Duration
	d.load[from] -= dur
	d.load[mi] += dur
	d.machine[ti] = mi
}

// Assignment maps task names to machine names.
func (d *Director) Assignment() map[string]string {
	out := make(map[string]string, len(d.machine))
	for ti, mi := range d.machine {
		out[d.problem.Tasks[ti].Name] = d.problem.Machines[mi].Name
	}
	return out
}

// MachineLoad summarizes one machine of the working assignment.
type MachineLoad struct {
	Machine  string
	Load     int
	Capacity int
	Tasks    []string
}

// Loads reports every machine in problem order.
func (d *Director) Loads() []MachineLoad {
	out := make([]MachineLoad, len(d.problem.Machines))
	for mi, m := range d.problem.Machines {
		out[mi] = MachineLoad{Machine: m.Name, Load: d.load[mi], Capacity: m.Capacity}
	}
	for ti, mi := range d.machine {
		out[mi].Tasks = append(out[mi].Tasks, d.problem.Tasks[ti].Name)
	}
	return out
}

func directorOf(sd any) *Director {
	switch v := sd.(type) {
	case *Director:
		return v
	case interface{ WorkingSolution() any }:
		if d, ok := v.WorkingSolution().(*Director); ok {
			return d
		}
	}
	return nil
}

func mustDirector(sd any) *Director {
	d := directorOf(sd)
	if d == nil {
		panic(fmt.Sprintf("assignment: move applied to %T", sd))
	}
	return d
}
