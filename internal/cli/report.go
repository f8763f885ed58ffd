package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/store"
	"github.com/aidanlsb/oxcheck/internal/ui"
)

var (
	reportRuns   int
	reportTop    int
	reportWindow int
	reportPrune  int
)

// ReportResult is the JSON payload of `oxc report`.
type ReportResult struct {
	Runs     []store.Run          `json:"runs"`
	TopPaths []store.PathProblems `json:"top_paths"`
	Pruned   int64                `json:"pruned,omitempty"`
}

// RunResult is the JSON payload of `oxc report <run-id>`.
type RunResult struct {
	Run         store.Run                `json:"run"`
	Diagnostics []store.StoredDiagnostic `json:"diagnostics"`
}

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "Show recorded check runs and recurring problems",
	Long: `Shows the history written by 'oxc check --record': the most recent runs and
the schema paths with the most unresolved references across them.

A path that keeps showing up at the top is usually a sign that the schema
entry is too strict for how mods use it, and a candidate for the schema
block of oxcheck.yaml.

Examples:
  oxc report                   # Last runs and top paths
  oxc report --window 5        # Top paths of the last 5 runs only
  oxc report 12                # Diagnostics stored for run 12
  oxc report --prune 20        # Keep only the 20 newest runs`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		db, err := store.Open(getModPath())
		if err != nil {
			return handleError(ErrDatabaseError, err, "Delete .oxcheck/runs.db to start a fresh history")
		}
		defer db.Close()

		if len(args) == 1 {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid run id: %s", args[0]), "Run 'oxc report' to list runs")
			}
			return showRun(db, id, start)
		}

		var pruned int64
		if reportPrune > 0 {
			pruned, err = db.Prune(reportPrune)
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
		}

		runs, err := db.Runs(reportRuns)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		top, err := db.TopPaths(reportWindow, reportTop)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			result := ReportResult{Runs: runs, TopPaths: top, Pruned: pruned}
			if result.Runs == nil {
				result.Runs = []store.Run{}
			}
			if result.TopPaths == nil {
				result.TopPaths = []store.PathProblems{}
			}
			outputSuccess(result, &Meta{Count: len(runs), DurationMs: elapsed})
			return nil
		}

		if pruned > 0 {
			fmt.Println(ui.Successf("Pruned %d old %s", pruned, pluralize("run", int(pruned))))
		}
		if len(runs) == 0 {
			fmt.Println(ui.Info("No runs recorded yet"))
			fmt.Println(ui.Hint("Run 'oxc check --record' to start a history"))
			return nil
		}

		fmt.Println(ui.Header("Recent runs"))
		tbl := ui.NewTable(5)
		for _, r := range runs {
			tbl.AddRow(
				ui.Muted.Render(fmt.Sprintf("#%d", r.ID)),
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d %s", r.Errors, pluralize("error", r.Errors)),
				fmt.Sprintf("%d %s", r.Warnings, pluralize("warning", r.Warnings)),
				ui.Hint(r.Duration.Round(time.Millisecond).String()),
			)
		}
		fmt.Print(tbl.String())

		if len(top) > 0 {
			fmt.Println()
			fmt.Println(ui.Header("Paths with the most missing references"))
			tbl = ui.NewTable(3)
			for _, p := range top {
				tbl.AddRow(ui.Accent.Render(p.Path), strconv.Itoa(p.Total), ui.Hint(fmt.Sprintf("in %d %s", p.Runs, pluralize("run", p.Runs))))
			}
			fmt.Print(tbl.String())
		}
		return nil
	},
}

func showRun(db *store.Store, id int64, start time.Time) error {
	run, err := db.RunByID(id)
	if errors.Is(err, store.ErrRunNotFound) {
		return handleErrorMsg(ErrRunNotFound, fmt.Sprintf("run %d not found", id), "Run 'oxc report' to list runs")
	}
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	diags, err := db.Diagnostics(id)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		if diags == nil {
			diags = []store.StoredDiagnostic{}
		}
		outputSuccess(RunResult{Run: run, Diagnostics: diags}, &Meta{Count: len(diags), DurationMs: elapsed})
		return nil
	}

	fmt.Printf("%s %s\n", ui.Header(fmt.Sprintf("Run #%d", run.ID)), ui.Hint(run.StartedAt.Local().Format(time.RFC1123)))
	if len(diags) == 0 {
		fmt.Println(ui.Success("No problems recorded"))
		return nil
	}
	file := ""
	for _, d := range diags {
		if d.File != file {
			if file != "" {
				fmt.Println()
			}
			file = d.File
			fmt.Println(ui.FilePath(file))
		}
		symbol := ui.SymbolError
		if d.Severity == "warning" {
			symbol = ui.SymbolWarning
		}
		fmt.Printf("  %s  %s %s  %s\n", ui.Muted.Render(fmt.Sprintf("%d:%d", d.Line, d.Column)), symbol, d.Message, ui.Muted.Render(d.Code))
	}
	return nil
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func init() {
	reportCmd.Flags().IntVar(&reportRuns, "runs", 10, "Number of recent runs to list (0 = all)")
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "Number of problem paths to list (0 = all)")
	reportCmd.Flags().IntVar(&reportWindow, "window", 0, "Only count problems from the newest N runs (0 = all)")
	reportCmd.Flags().IntVar(&reportPrune, "prune", 0, "Delete all but the newest N runs first")
	rootCmd.AddCommand(reportCmd)
}
