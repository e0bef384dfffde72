package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"planner/pkg/selector"
)

// execute runs the CLI in-process with flags reset to their defaults, since
// cobra keeps flag values on the package-level commands between runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func TestSolve_PrintsBalancedAssignment(t *testing.T) {
	out, err := execute(t, "solve", "--problem", "testdata/problem.yaml", "--config", "testdata/solver.yaml", "--metrics")
	if err != nil {
		t.Fatalf("solve: %v\n%s", err, out)
	}
	for _, want := range []string{
		"Problem:  small-shop",
		"Seed:     7",
		"Overload: 0",
		"lathe",
		"planner_steps_total",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSolve_SeedFlagOverridesConfig(t *testing.T) {
	out, err := execute(t, "solve", "--problem", "testdata/problem.yaml", "--seed", "99")
	if err != nil {
		t.Fatalf("solve: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Seed:     99") {
		t.Errorf("seed flag ignored:\n%s", out)
	}
	if strings.Contains(out, "planner_steps_total") {
		t.Errorf("metrics printed without --metrics:\n%s", out)
	}
}

func TestBench_RecordsHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, "bench", "--problem", "testdata/problem.yaml", "--config", "testdata/solver.yaml",
		"--runs", "4", "--parallel", "2", "--store", db, "--markdown")
	if err != nil {
		t.Fatalf("bench: %v\n%s", err, out)
	}
	for _, want := range []string{"| Run", "mean", "best"} {
		if !strings.Contains(out, want) {
			t.Errorf("bench output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "history", "--store", db, "--problem", "small-shop", "--limit", "3")
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if n := strings.Count(out, "small-shop"); n != 3 {
		t.Errorf("history listed %d runs, want 3:\n%s", n, out)
	}
}

func TestBench_RejectsNonPositiveRuns(t *testing.T) {
	if _, err := execute(t, "bench", "--problem", "testdata/problem.yaml", "--runs", "0"); err == nil {
		t.Error("bench accepted --runs 0")
	}
}

func TestHistory_Empty(t *testing.T) {
	out, err := execute(t, "history", "--store", filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No runs recorded.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestValidate_OK(t *testing.T) {
	out, err := execute(t, "validate", "--config", "testdata/solver.yaml", "--problem", "testdata/problem.yaml")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	for _, want := range []string{"union (random)", "  shed (random)", "Never-ending: true", "Continuous:   true", "Configuration OK"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q:\n%s", want, out)
		}
	}
}

func TestValidate_NeverEndingBeforeLastChild(t *testing.T) {
	_, err := execute(t, "validate", "--config", "testdata/never_ending_first.yaml")
	var verr *selector.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("validate err = %v, want a selector validation error", err)
	}
	if verr.Index != 0 || verr.Child != "change(random)" {
		t.Errorf("ValidationError = %+v, want change(random) at index 0", verr)
	}
	if !errors.Is(err, selector.ErrInvalidConfiguration) {
		t.Error("validation error does not wrap ErrInvalidConfiguration")
	}
}

func TestRoot_RejectsBadLogFlags(t *testing.T) {
	for _, args := range [][]string{
		{"validate", "--config", "testdata/solver.yaml", "--log-level", "loud"},
		{"validate", "--config", "testdata/solver.yaml", "--log-format", "xml"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v accepted", args)
		}
	}
}

func TestRoot_RegistersCommands(t *testing.T) {
	want := map[string]bool{"solve": true, "bench": true, "validate": true, "history": true}
	for _, c := range rootCmd.Commands() {
		delete(want, c.Name())
	}
	if len(want) != 0 {
		t.Errorf("missing commands: %v", want)
	}
}
