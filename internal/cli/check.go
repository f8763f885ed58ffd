package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/oxcheck/internal/atomicfile"
	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/store"
	"github.com/aidanlsb/oxcheck/internal/ui"
)

// severityValue is a pflag.Value accepting "error" or "warning".
type severityValue struct {
	level check.Level
}

var _ pflag.Value = (*severityValue)(nil)

func (v *severityValue) String() string { return v.level.String() }

func (v *severityValue) Set(s string) error {
	level, err := check.ParseLevel(s)
	if err != nil {
		return err
	}
	v.level = level
	return nil
}

func (v *severityValue) Type() string { return "severity" }

var (
	checkRecord      bool
	checkStrict      bool
	checkOutput      string
	checkSchemaFile  string
	checkMinSeverity = severityValue{level: check.LevelWarning}
)

// CheckResult is the JSON payload of `oxc check`.
type CheckResult struct {
	Mod         string             `json:"mod"`
	Vanilla     string             `json:"vanilla,omitempty"`
	Files       int                `json:"files"`
	Errors      int                `json:"errors"`
	Warnings    int                `json:"warnings"`
	Diagnostics []check.Diagnostic `json:"diagnostics"`
	RunID       int64              `json:"run_id,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the mod against its vanilla base",
	Long: `Scans every rule and locale file of the mod and its vanilla base, then
reports references to missing content, duplicate definitions and known engine
pitfalls in the mod's files.

Exits with status 1 when errors are found (or warnings, with --strict).

Examples:
  oxc check
  oxc check --mod ~/mods/MyMod --vanilla ~/openxcom/standard/xcom1
  oxc check --min-severity error --json
  oxc check --record --output report.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := runCheck(cmd)
		if err != nil {
			return err
		}
		if code != 0 {
			return &silentError{msg: "validation failed"}
		}
		return nil
	},
}

func runCheck(cmd *cobra.Command) (int, error) {
	start := time.Now()

	s, err := openSession(sessionOptions{schemaFile: checkSchemaFile})
	if err != nil {
		return 0, err
	}

	var spinner *ui.Spinner
	if !isJSONOutput() {
		spinner = ui.NewSpinner("Scanning " + s.modRoot)
		spinner.Start()
	}
	res, err := s.ws.Load(commandContext(cmd))
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return 0, handleError(ErrFileReadError, err, "")
	}

	full := s.ws.Report()
	if full == nil {
		return 0, handleErrorMsg(ErrInternal, "validation pass did not run", "Run again with --json for details")
	}
	rep := full.Filter(checkMinSeverity.level)
	elapsed := time.Since(start)
	warnings := s.loadWarnings(res)

	result := CheckResult{
		Mod:         s.modRoot,
		Vanilla:     s.vanilla,
		Files:       len(rep.Files()),
		Errors:      rep.Count(check.LevelError),
		Warnings:    rep.Count(check.LevelWarning),
		Diagnostics: rep.All(),
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []check.Diagnostic{}
	}

	if checkRecord {
		id, err := recordRun(s, full, start, elapsed, len(s.ws.ParseErrors()))
		if err != nil {
			warnings = append(warnings, Warning{Code: WarnRecordFailed, Message: err.Error()})
		} else {
			result.RunID = id
		}
	}

	if checkOutput != "" {
		if err := writeJSONReport(checkOutput, result); err != nil {
			return 0, handleError(ErrFileWriteError, err, "")
		}
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(result, warnings, &Meta{Count: len(result.Diagnostics), DurationMs: elapsed.Milliseconds()})
	} else {
		for _, w := range warnings {
			if w.Code == WarnNoVanilla || w.Code == WarnRecordFailed {
				fmt.Fprintln(os.Stderr, ui.Warning(w.Message))
			}
		}
		ui.RenderReport(os.Stdout, rep, s.modRoot, ui.NewDisplayContext())
		if rep.Len() > 0 {
			fmt.Println()
		}
		fmt.Println(ui.Summary(rep))
		if result.RunID != 0 {
			fmt.Println(ui.Hint(fmt.Sprintf("Recorded as run %d", result.RunID)))
		}
	}

	if result.Errors > 0 || (checkStrict && result.Warnings > 0) {
		return 1, nil
	}
	return 0, nil
}

// recordRun stores the unfiltered report in the mod's run history.
func recordRun(s *session, rep *check.Report, start time.Time, elapsed time.Duration, parseFails int) (int64, error) {
	db, err := store.Open(s.modRoot)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	return db.RecordRun(rep, store.RunInfo{
		StartedAt:  start,
		Duration:   elapsed,
		Vanilla:    s.vanilla,
		ParseFails: parseFails,
	})
}

// writeJSONReport writes the check result to a file. File names in the
// written report stay absolute so other tools can open them directly.
func writeJSONReport(path string, result CheckResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	abs, err := paths.Clean(path)
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(abs, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

func init() {
	checkCmd.Flags().BoolVar(&checkRecord, "record", false, "Record the run in .oxcheck/runs.db")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as errors for the exit status")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Also write the JSON result to this file")
	checkCmd.Flags().StringVar(&checkSchemaFile, "schema", "", "Extra schema contribution (YAML) merged over the built-in tables")
	checkCmd.Flags().Var(&checkMinSeverity, "min-severity", "Lowest severity to report: error or warning")
	rootCmd.AddCommand(checkCmd)
}
