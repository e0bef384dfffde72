// Package config loads solver configuration from YAML and builds selector
// trees from it.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"planner/pkg/localsearch"
)

var (
	// ErrUnknownKind is returned for a selector kind that is neither a
	// composite nor a registered leaf.
	ErrUnknownKind = errors.New("config: unknown selector kind")

	// ErrMissingChildren is returned for a composite without children.
	ErrMissingChildren = errors.New("config: composite selector has no children")

	// ErrUnexpectedChildren is returned for a leaf that declares children.
	ErrUnexpectedChildren = errors.New("config: leaf selector declares children")
)

var solverValidate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(validatePhaseTermination, PhaseDef{})
	return v
}

// validatePhaseTermination requires at least one limit that ends a phase.
func validatePhaseTermination(sl validator.StructLevel) {
	p := sl.Current().Interface().(PhaseDef)
	if p.StepLimit == 0 && p.TimeLimit == 0 && p.UnimprovedStepLimit == 0 {
		sl.ReportError(p.StepLimit, "StepLimit", "step_limit", "termination", "")
	}
}

// Solver is the top-level solver configuration.
type Solver struct {
	Seed     uint64      `yaml:"seed"`
	Phase    PhaseDef    `yaml:"phase"`
	Selector SelectorDef `yaml:"selector"`
}

// PhaseDef bounds the local-search phase. See localsearch.Config.
type PhaseDef struct {
	StepLimit           int           `yaml:"step_limit" validate:"gte=0"`
	MovesPerStep        int           `yaml:"moves_per_step" validate:"gte=0"`
	TimeLimit           time.Duration `yaml:"time_limit" validate:"gte=0"`
	UnimprovedStepLimit int           `yaml:"unimproved_step_limit" validate:"gte=0"`
	AcceptEqual         bool          `yaml:"accept_equal,omitempty"`
}

// SelectorDef declares one node of a selector tree.
type SelectorDef struct {
	Kind     string        `yaml:"kind" validate:"required"`
	Random   bool          `yaml:"random,omitempty"`
	Children []SelectorDef `yaml:"children,omitempty" validate:"dive"`
}

// Default is used when no configuration file is given: a random union of the
// assignment leaves with a per-step budget.
func Default() *Solver {
	return &Solver{
		Seed: 1,
		Phase: PhaseDef{
			StepLimit:           1000,
			MovesPerStep:        100,
			TimeLimit:           5 * time.Second,
			UnimprovedStepLimit: 50,
		},
		Selector: SelectorDef{
			Kind:   KindUnion,
			Random: true,
			Children: []SelectorDef{
				{Kind: "change", Random: true},
				{Kind: "swap", Random: true},
				{Kind: "shed", Random: true},
			},
		},
	}
}

// Load reads and validates a solver configuration file.
func Load(path string) (*Solver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a solver configuration from YAML bytes.
func Parse(data []byte) (*Solver, error) {
	var s Solver
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse solver YAML: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate runs field and termination checks. Selector kinds are checked by
// Build, which knows the registry.
func (s *Solver) Validate() error {
	if err := solverValidate.Struct(s); err != nil {
		return fmt.Errorf("validate solver config: %w", err)
	}
	return nil
}

// PhaseConfig converts the phase section for the local-search driver.
func (s *Solver) PhaseConfig() localsearch.Config {
	return localsearch.Config{
		StepLimit:           s.Phase.StepLimit,
		MovesPerStep:        s.Phase.MovesPerStep,
		TimeLimit:           s.Phase.TimeLimit,
		UnimprovedStepLimit: s.Phase.UnimprovedStepLimit,
		AcceptEqual:         s.Phase.AcceptEqual,
	}
}

// Marshal serializes the configuration back to YAML.
func (s *Solver) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
