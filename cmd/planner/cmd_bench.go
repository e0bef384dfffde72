package main

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"planner/internal/format"
	"planner/internal/logging"
	"planner/internal/metrics"
	"planner/pkg/localsearch"
)

var benchFlags struct {
	problem  string
	config   string
	runs     int
	parallel int
	metrics  bool
	store    string
	markdown bool
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run independent seeded solves in parallel and compare them",
	RunE:  runBench,
}

func init() {
	f := benchCmd.Flags()
	f.StringVar(&benchFlags.problem, "problem", "", "Problem YAML file (required)")
	f.StringVar(&benchFlags.config, "config", "", "Solver YAML file (default: built-in random union)")
	f.IntVar(&benchFlags.runs, "runs", 8, "Number of runs; run i uses seed config.seed+i")
	f.IntVar(&benchFlags.parallel, "parallel", 4, "Maximum concurrent runs")
	f.BoolVar(&benchFlags.metrics, "metrics", false, "Print Prometheus metrics aggregated over all runs")
	f.StringVar(&benchFlags.store, "store", "", "Record every run in this SQLite history DB")
	f.BoolVar(&benchFlags.markdown, "markdown", false, "Render tables as Markdown")

	_ = benchCmd.MarkFlagRequired("problem")
}

func runBench(cmd *cobra.Command, _ []string) error {
	if benchFlags.runs < 1 || benchFlags.parallel < 1 {
		return fmt.Errorf("--runs and --parallel must be positive")
	}
	p, cfg, err := loadInputs(benchFlags.problem, benchFlags.config)
	if err != nil {
		return err
	}
	st, err := openStore(benchFlags.store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	logger := logging.New("bench")
	reg := prometheus.NewRegistry()
	var obs localsearch.Observer
	if benchFlags.metrics {
		obs = metrics.NewCollector(reg)
	}

	logger.Info("bench started", "problem", p.Name, "runs", benchFlags.runs, "parallel", benchFlags.parallel)
	outcomes := make([]runOutcome, benchFlags.runs)
	var recordMu sync.Mutex
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(benchFlags.parallel)
	for i := range outcomes {
		seed := cfg.Seed + uint64(i)
		g.Go(func() error {
			out, err := solveOnce(ctx, p, cfg, seed, obs)
			if err != nil {
				return err
			}
			outcomes[i] = out
			logger.Debug("run finished", "seed", seed, "best", out.result.BestScore, "reason", out.result.Reason)
			recordMu.Lock()
			defer recordMu.Unlock()
			return recordRun(st, p.Name, out)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, benchTable(outcomes, tableMode(benchFlags.markdown)))
	if benchFlags.metrics {
		if err := metrics.WriteText(w, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func benchTable(outcomes []runOutcome, mode format.Mode) string {
	tb := format.NewTable(mode)
	tb.Header("Run", "Seed", "Steps", "Evaluated", "Reason", "Overload", "Best", "Elapsed")
	scores := make([]float64, len(outcomes))
	best := 0
	for i, out := range outcomes {
		res := out.result
		scores[i] = res.BestScore
		if res.BestScore > outcomes[best].result.BestScore {
			best = i
		}
		tb.Row(i+1, out.seed, res.Steps, res.Evaluated, res.Reason, out.director.Overload(),
			format.FmtScore(res.BestScore), format.FmtDuration(res.Elapsed))
	}
	tb.Footer("", "", "", "", "", "best", format.FmtScore(outcomes[best].result.BestScore), "")
	tb.Footer("", "", "", "", "", "mean", format.FmtScore(format.Mean(scores)), "")
	tb.AlignRight(2, 3, 4, 6, 7, 8)
	return tb.String()
}
