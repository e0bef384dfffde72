// Package assignment is a small load-balancing domain for the local-search
// solver: tasks with durations are assigned to machines with capacities.
package assignment

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var problemValidate = validator.New()

// Machine is a resource with a capacity in duration units.
type Machine struct {
	Name     string `yaml:"name" validate:"required"`
	Capacity int    `yaml:"capacity" validate:"gt=0"`
}

// Task is a unit of work with a duration.
type Task struct {
	Name     string `yaml:"name" validate:"required"`
	Duration int    `yaml:"duration" validate:"gt=0"`
}

// Problem is a task-to-machine assignment instance. Initial optionally pins
// the starting machine of tasks by name.
type Problem struct {
	Name     string            `yaml:"name" validate:"required"`
	Machines []Machine         `yaml:"machines" validate:"required,min=1,dive"`
	Tasks    []Task            `yaml:"tasks" validate:"dive"`
	Initial  map[string]string `yaml:"initial,omitempty"`

	machineIndex map[string]int
	taskIndex    map[string]int
}

// LoadProblem reads and validates a problem YAML file.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem %s: %w", path, err)
	}
	p, err := ParseProblem(data)
	if err != nil {
		return nil, fmt.Errorf("problem %s: %w", path, err)
	}
	return p, nil
}

// ParseProblem decodes and validates a problem from YAML bytes.
func ParseProblem(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse problem YAML: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks field constraints, name uniqueness and that Initial only
// references known tasks and machines. It also builds the name indexes.
func (p *Problem) Validate() error {
	if err := problemValidate.Struct(p); err != nil {
		return fmt.Errorf("validate problem: %w", err)
	}
	p.machineIndex = make(map[string]int, len(p.Machines))
	for i, m := range p.Machines {
		if _, dup := p.machineIndex[m.Name]; dup {
			return fmt.Errorf("duplicate machine %q", m.Name)
		}
		p.machineIndex[m.Name] = i
	}
	p.taskIndex = make(map[string]int, len(p.Tasks))
	for i, t := range p.Tasks {
		if _, dup := p.taskIndex[t.Name]; dup {
			return fmt.Errorf("duplicate task %q", t.Name)
		}
		p.taskIndex[t.Name] = i
	}
	for task, machine := range p.Initial {
		if _, ok := p.taskIndex[task]; !ok {
			return fmt.Errorf("initial: unknown task %q", task)
		}
		if _, ok := p.machineIndex[machine]; !ok {
			return fmt.Errorf("initial: task %q on unknown machine %q", task, machine)
		}
	}
	return nil
}

// TotalCapacity is the sum of machine capacities.
func (p *Problem) TotalCapacity() int {
	n := 0
	for _, m := range p.Machines {
		n += m.Capacity
	}
	return n
}

// TotalDuration is the sum of task durations.
func (p *Problem) TotalDuration() int {
	n := 0
	for _, t := range p.Tasks {
		n += t.Duration
	}
	return n
}
