package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"planner/internal/format"
	"planner/internal/logging"
	"planner/internal/metrics"
	"planner/pkg/localsearch"
)

var solveFlags struct {
	problem  string
	config   string
	seed     uint64
	metrics  bool
	store    string
	markdown bool
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one problem and print the resulting assignment",
	RunE:  runSolve,
}

func init() {
	f := solveCmd.Flags()
	f.StringVar(&solveFlags.problem, "problem", "", "Problem YAML file (required)")
	f.StringVar(&solveFlags.config, "config", "", "Solver YAML file (default: built-in random union)")
	f.Uint64Var(&solveFlags.seed, "seed", 0, "Random seed (overrides the config seed)")
	f.BoolVar(&solveFlags.metrics, "metrics", false, "Print Prometheus metrics after solving")
	f.StringVar(&solveFlags.store, "store", "", "Record the run in this SQLite history DB")
	f.BoolVar(&solveFlags.markdown, "markdown", false, "Render tables as Markdown")

	_ = solveCmd.MarkFlagRequired("problem")
}

func runSolve(cmd *cobra.Command, _ []string) error {
	p, cfg, err := loadInputs(solveFlags.problem, solveFlags.config)
	if err != nil {
		return err
	}
	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = solveFlags.seed
	}

	st, err := openStore(solveFlags.store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	logger := logging.New("solve")
	obs := localsearch.MultiObserver{&localsearch.LogObserver{Logger: logger}}
	reg := prometheus.NewRegistry()
	if solveFlags.metrics {
		obs = append(obs, metrics.NewCollector(reg))
	}

	logger.Info("solving", "problem", p.Name, "tasks", len(p.Tasks), "machines", len(p.Machines), "seed", seed)
	out, err := solveOnce(cmd.Context(), p, cfg, seed, obs)
	if err != nil {
		return err
	}
	if err := recordRun(st, p.Name, out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	res := out.result
	fmt.Fprintf(w, "Problem:  %s\n", p.Name)
	fmt.Fprintf(w, "Seed:     %d\n", seed)
	fmt.Fprintf(w, "Steps:    %d (%s)\n", res.Steps, res.Reason)
	fmt.Fprintf(w, "Moves:    %d evaluated, %d applied\n", res.Evaluated, res.Applied)
	fmt.Fprintf(w, "Score:    %s -> %s\n", format.FmtScore(res.StartingScore), format.FmtScore(res.BestScore))
	fmt.Fprintf(w, "Overload: %d\n", out.director.Overload())
	fmt.Fprintf(w, "Elapsed:  %s\n\n", format.FmtDuration(res.Elapsed))

	tb := format.NewTable(tableMode(solveFlags.markdown))
	tb.Header("Machine", "Load", "Capacity", "Tasks")
	for _, ml := range out.director.Loads() {
		tb.Row(ml.Machine, ml.Load, ml.Capacity, fmt.Sprint(ml.Tasks))
	}
	tb.AlignRight(2, 3)
	fmt.Fprintln(w, tb.String())

	if solveFlags.metrics {
		fmt.Fprintln(w)
		if err := metrics.WriteText(w, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func tableMode(markdown bool) format.Mode {
	if markdown {
		return format.Markdown
	}
	return format.ASCII
}
