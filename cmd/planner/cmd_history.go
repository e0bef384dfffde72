package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/format"
	"planner/internal/store"
)

var historyFlags struct {
	store    string
	problem  string
	limit    int
	markdown bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs, newest first",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyFlags.store, "store", store.DefaultDBPath, "SQLite history DB")
	f.StringVar(&historyFlags.problem, "problem", "", "Only runs of this problem name")
	f.IntVar(&historyFlags.limit, "limit", 20, "Maximum runs to list (0 = all)")
	f.BoolVar(&historyFlags.markdown, "markdown", false, "Render the table as Markdown")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(historyFlags.store)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(store.Filter{Problem: historyFlags.problem, Limit: historyFlags.limit})
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tb := format.NewTable(tableMode(historyFlags.markdown))
	tb.Header("ID", "Problem", "Seed", "Steps", "Reason", "Start", "Best", "Elapsed", "When")
	for _, r := range runs {
		tb.Row(r.ID, r.Problem, r.Seed, r.Steps, r.Reason,
			format.FmtScore(r.StartingScore), format.FmtScore(r.BestScore),
			format.FmtDuration(time.Duration(r.ElapsedMS)*time.Millisecond),
			r.CreatedAt.Local().Format(time.DateTime))
	}
	tb.AlignRight(1, 3, 4, 6, 7, 8)
	fmt.Fprintln(w, tb.String())
	return nil
}
