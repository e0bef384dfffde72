package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"planner/internal/assignment"
	"planner/internal/config"
	"planner/pkg/localsearch"
	"planner/pkg/selector"
)

var validateFlags struct {
	config  string
	problem string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a solver configuration without solving",
	Long: "Validate parses the solver YAML, builds the selector tree and starts and\n" +
		"ends a phase on it without taking any step, which surfaces tree\n" +
		"configuration errors such as a never-ending selector before the last\n" +
		"child of a deterministic union.",
	RunE: runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateFlags.config, "config", "", "Solver YAML file (required)")
	f.StringVar(&validateFlags.problem, "problem", "", "Problem YAML file (default: a small probe problem)")

	_ = validateCmd.MarkFlagRequired("config")
}

// probeProblem stands in when no problem is given. It has enough tasks and
// machines for every assignment leaf to be non-empty.
func probeProblem() *assignment.Problem {
	return &assignment.Problem{
		Name:     "probe",
		Machines: []assignment.Machine{{Name: "m1", Capacity: 1}, {Name: "m2", Capacity: 1}},
		Tasks:    []assignment.Task{{Name: "t1", Duration: 1}, {Name: "t2", Duration: 1}},
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(validateFlags.config)
	if err != nil {
		return err
	}
	p := probeProblem()
	if validateFlags.problem != "" {
		if p, err = assignment.LoadProblem(validateFlags.problem); err != nil {
			return err
		}
	}

	root, err := config.Build(cfg.Selector, assignment.Leaves(p))
	if err != nil {
		return err
	}
	if _, err := localsearch.NewPhase(root, cfg.PhaseConfig()); err != nil {
		return err
	}

	ps := selector.NewPhaseScope(newRandom(cfg.Seed), nil)
	if err := root.PhaseStarted(ps); err != nil {
		return fmt.Errorf("selector tree: %w", err)
	}
	root.PhaseEnded(ps)

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Selector tree:\n%s", cfg.Selector.Outline())
	fmt.Fprintf(w, "Never-ending: %t\n", root.IsNeverEnding())
	fmt.Fprintf(w, "Continuous:   %t\n", root.IsContinuous())
	if size, ok := selector.SizeOf(root, nil); ok {
		fmt.Fprintf(w, "Moves/step:   %d\n", size)
	}
	fmt.Fprintln(w, "Configuration OK")
	return nil
}
