// Package localsearch drives a move selector tree through one local-search
// phase: it delivers lifecycle events to the tree, pulls candidate moves
// every step, scores them and applies the best accepted one.
package localsearch

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"planner/pkg/selector"
)

// Director is the score director a phase works against. Moves mutate the
// working solution through it and the phase scores the result.
type Director interface {
	selector.ScoreDirector
	CalculateScore() float64
}

// Config bounds a phase. Zero values disable the corresponding limit.
type Config struct {
	// StepLimit caps the number of steps.
	StepLimit int
	// MovesPerStep caps the moves pulled from the root per step. Zero drains
	// the root iterator, which requires a root that is not never-ending.
	MovesPerStep int
	// TimeLimit bounds the wall time of the phase. It is checked between steps.
	TimeLimit time.Duration
	// UnimprovedStepLimit ends the phase after this many consecutive steps
	// without a new best score.
	UnimprovedStepLimit int
	// AcceptEqual lets the default hill climbing acceptor take sideways moves.
	AcceptEqual bool
}

// StopReason says why a phase ended.
type StopReason string

const (
	StopStepLimit      StopReason = "step_limit"
	StopTimeLimit      StopReason = "time_limit"
	StopUnimproved     StopReason = "unimproved_limit"
	StopLocalOptimum   StopReason = "local_optimum"
	StopNoMoves        StopReason = "no_moves"
	StopCanceled       StopReason = "canceled"
	StopStartupFailure StopReason = "startup_failure"
)

// Result summarizes a finished phase.
type Result struct {
	PhaseID       string
	Steps         int
	Evaluated     int
	Applied       int
	StartingScore float64
	BestScore     float64
	Reason        StopReason
	Elapsed       time.Duration
}

// Option configures a Phase.
type Option func(*Phase)

// WithObserver sets the observer that receives phase events.
func WithObserver(obs Observer) Option {
	return func(p *Phase) { p.observer = obs }
}

// WithAcceptor replaces the default hill climbing acceptor.
func WithAcceptor(a Acceptor) Option {
	return func(p *Phase) { p.acceptor = a }
}

// Phase runs a selector tree as a best-of-step local search.
type Phase struct {
	root     selector.MoveSelector
	cfg      Config
	acceptor Acceptor
	observer Observer
}

// NewPhase checks that cfg terminates for root and returns a ready phase.
func NewPhase(root selector.MoveSelector, cfg Config, opts ...Option) (*Phase, error) {
	if root == nil {
		return nil, ErrNilSelector
	}
	if cfg.MovesPerStep < 0 {
		cfg.MovesPerStep = 0
	}
	if root.IsNeverEnding() && cfg.MovesPerStep == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnboundedStep, root)
	}
	if cfg.StepLimit <= 0 && cfg.TimeLimit <= 0 && cfg.UnimprovedStepLimit <= 0 {
		return nil, ErrNoTermination
	}
	p := &Phase{
		root:     root,
		cfg:      cfg,
		acceptor: HillClimbing{AcceptEqual: cfg.AcceptEqual},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the phase bounds.
func (p *Phase) Config() Config { return p.cfg }

// Solve runs the phase against sd. rnd becomes the working random of every
// selector in the tree for this phase only; a nil rnd gets a randomly seeded
// source. Cancellation of ctx ends the phase between steps and is returned
// as an error; reaching TimeLimit is a normal stop.
func (p *Phase) Solve(ctx context.Context, sd Director, rnd *rand.Rand) (Result, error) {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	obs := p.observer
	ps := selector.NewPhaseScope(rnd, sd)
	res := Result{PhaseID: ps.ID}

	runCtx := ctx
	if p.cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.cfg.TimeLimit)
		defer cancel()
	}

	if err := p.root.PhaseStarted(ps); err != nil {
		res.Reason = StopStartupFailure
		err = fmt.Errorf("phase started: %w", err)
		emitEvent(obs, Event{Type: EventPhaseError, Phase: ps.ID, Step: -1, Error: err})
		return res, err
	}

	current := sd.CalculateScore()
	res.StartingScore = current
	res.BestScore = current
	emitEvent(obs, Event{Type: EventPhaseStarted, Phase: ps.ID, Step: -1, Score: current, BestScore: current})

	var runErr error
	unimproved := 0
	for {
		if reason, err := p.checkLimits(ctx, runCtx, ps.StepCount, unimproved); reason != "" {
			res.Reason, runErr = reason, err
			break
		}

		step := ps.NextStep()
		stepStart := time.Now()
		p.root.StepStarted(step)
		emitEvent(obs, Event{Type: EventStepStarted, Phase: ps.ID, Step: step.Index, Score: current})

		out := p.runStep(step, sd, current)
		res.Evaluated += out.evaluated
		if out.best != nil {
			out.best.Do(sd)
			current = sd.CalculateScore()
			res.Applied++
		}
		if current > res.BestScore {
			res.BestScore = current
			unimproved = 0
		} else {
			unimproved++
		}

		p.root.StepEnded(step)
		emitEvent(obs, Event{
			Type:      EventStepEnded,
			Phase:     ps.ID,
			Step:      step.Index,
			Score:     current,
			BestScore: res.BestScore,
			Evaluated: out.evaluated,
			Applied:   out.best != nil,
			Elapsed:   time.Since(stepStart),
		})

		if out.pulled == 0 {
			res.Reason = StopNoMoves
			break
		}
		if out.best == nil && out.drained && !p.root.IsContinuous() && !p.root.IsNeverEnding() {
			// An unchanged solution yields the same finite move set again.
			res.Reason = StopLocalOptimum
			break
		}
	}

	p.root.PhaseEnded(ps)
	res.Steps = ps.StepCount
	res.Elapsed = time.Since(ps.StartedAt)
	if runErr != nil {
		emitEvent(obs, Event{Type: EventPhaseError, Phase: ps.ID, Step: -1, Reason: res.Reason, Elapsed: res.Elapsed, Error: runErr})
		return res, runErr
	}
	emitEvent(obs, Event{
		Type:      EventPhaseEnded,
		Phase:     ps.ID,
		Step:      -1,
		Score:     current,
		BestScore: res.BestScore,
		Reason:    res.Reason,
		Elapsed:   res.Elapsed,
	})
	return res, nil
}

// checkLimits returns a non-empty reason when the phase must stop before the
// next step. Only cancellation of the caller's ctx is an error.
func (p *Phase) checkLimits(ctx, runCtx context.Context, steps, unimproved int) (StopReason, error) {
	if err := ctx.Err(); err != nil {
		return StopCanceled, err
	}
	if err := runCtx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return StopTimeLimit, nil
		}
		return StopCanceled, err
	}
	if p.cfg.StepLimit > 0 && steps >= p.cfg.StepLimit {
		return StopStepLimit, nil
	}
	if p.cfg.UnimprovedStepLimit > 0 && unimproved >= p.cfg.UnimprovedStepLimit {
		return StopUnimproved, nil
	}
	return "", nil
}

type stepOutcome struct {
	best      selector.Move
	pulled    int
	evaluated int
	drained   bool
}

// runStep scores up to MovesPerStep doable moves by doing and undoing each
// one, and keeps the best that the acceptor takes over current.
func (p *Phase) runStep(step *selector.StepScope, sd Director, current float64) stepOutcome {
	var out stepOutcome
	bestScore := current
	it := p.root.Iterator(step)
	for p.cfg.MovesPerStep == 0 || out.pulled < p.cfg.MovesPerStep {
		m, ok := it.Next()
		if !ok {
			out.drained = true
			break
		}
		out.pulled++
		if !m.IsDoable(sd) {
			continue
		}
		undo := m.Undo()
		m.Do(sd)
		score := sd.CalculateScore()
		undo.Do(sd)
		out.evaluated++

		if !p.acceptor.Accept(current, score) {
			continue
		}
		if out.best == nil || score > bestScore {
			out.best, bestScore = m, score
		}
	}
	return out
}
