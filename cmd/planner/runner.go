package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"planner/internal/assignment"
	"planner/internal/config"
	"planner/internal/store"
	"planner/pkg/localsearch"
)

// loadInputs reads the problem and the solver configuration. An empty
// configPath selects config.Default.
func loadInputs(problemPath, configPath string) (*assignment.Problem, *config.Solver, error) {
	p, err := assignment.LoadProblem(problemPath)
	if err != nil {
		return nil, nil, err
	}
	cfg := config.Default()
	if configPath != "" {
		if cfg, err = config.Load(configPath); err != nil {
			return nil, nil, err
		}
	}
	return p, cfg, nil
}

// newRandom derives the working random of a run from its seed.
func newRandom(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type runOutcome struct {
	seed     uint64
	result   localsearch.Result
	director *assignment.Director
}

// solveOnce runs one phase on a fresh working assignment and a freshly built
// selector tree, so concurrent runs share nothing but the observer.
func solveOnce(ctx context.Context, p *assignment.Problem, cfg *config.Solver, seed uint64, obs localsearch.Observer) (runOutcome, error) {
	d, err := assignment.NewDirector(p)
	if err != nil {
		return runOutcome{}, err
	}
	root, err := config.Build(cfg.Selector, assignment.Leaves(p))
	if err != nil {
		return runOutcome{}, err
	}
	var opts []localsearch.Option
	if obs != nil {
		opts = append(opts, localsearch.WithObserver(obs))
	}
	phase, err := localsearch.NewPhase(root, cfg.PhaseConfig(), opts...)
	if err != nil {
		return runOutcome{}, err
	}
	res, err := phase.Solve(ctx, d, newRandom(seed))
	if err != nil {
		return runOutcome{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	return runOutcome{seed: seed, result: res, director: d}, nil
}

// openStore opens the run history at path, or returns nil for an empty path.
func openStore(path string) (store.Store, error) {
	if path == "" {
		return nil, nil
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func recordRun(st store.Store, problem string, out runOutcome) error {
	if st == nil {
		return nil
	}
	res := out.result
	_, err := st.SaveRun(&store.Run{
		PhaseID:       res.PhaseID,
		Problem:       problem,
		Seed:          out.seed,
		Steps:         res.Steps,
		Evaluated:     res.Evaluated,
		Applied:       res.Applied,
		StartingScore: res.StartingScore,
		BestScore:     res.BestScore,
		Reason:        string(res.Reason),
		ElapsedMS:     res.Elapsed.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}
