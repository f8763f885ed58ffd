package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/ui"
	"github.com/aidanlsb/oxcheck/internal/workspace"
)

// StatsResult is the JSON payload of `oxc stats`.
type StatsResult struct {
	workspace.Stats
	Mod     string `json:"mod"`
	Vanilla string `json:"vanilla,omitempty"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show what oxcheck finds in the mod and its vanilla base",
	Long: `Scans the mod and its vanilla base and prints file, definition, reference and
translation counts.

Examples:
  oxc stats
  oxc stats --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		s, err := openSession(sessionOptions{})
		if err != nil {
			return err
		}
		res, err := s.ws.Load(commandContext(cmd))
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		stats := s.ws.Stats()
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			outputSuccessWithWarnings(StatsResult{Stats: stats, Mod: s.modRoot, Vanilla: s.vanilla}, s.loadWarnings(res), &Meta{DurationMs: elapsed})
			return nil
		}

		// Human-readable output
		row := func(label string, n int) {
			fmt.Printf("%s  %s\n", ui.Muted.Render(fmt.Sprintf("%-14s", label)), ui.Accent.Render(fmt.Sprintf("%d", n)))
		}
		fmt.Println(ui.Header("Mod statistics"))
		row("Mod files:", stats.ModFiles)
		row("Vanilla files:", stats.VanillaFiles)
		row("Locale files:", stats.LocaleFiles)
		row("Definitions:", stats.Definitions)
		row("References:", stats.References)
		row("Translations:", stats.Translations)
		if stats.ParseErrors > 0 {
			fmt.Println(ui.Warningf("%d %s failed to parse", stats.ParseErrors, pluralize("file", stats.ParseErrors)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
