package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/ui"
	"github.com/aidanlsb/oxcheck/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check the mod whenever its files change",
	Long: `Watch the mod directory and re-run validation after every burst of edits.

This runs in the foreground. The vanilla ruleset is read once at start and
is not watched.

The watcher:
- Monitors rule and locale files matched by the globs in oxcheck.yaml
- Debounces rapid changes (debounce_ms, default 100ms)
- Ignores .oxcheck/, .git/ and similar directories
- Runs one validation pass once every pending change has been applied

With --json every pass prints one compact JSON line.

Examples:
  oxc watch
  oxc watch --debug
  oxc watch --mod ~/mods/MyMod --json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Bool("debug", false, "Enable debug logging")
	watchCmd.Flags().StringVar(&checkSchemaFile, "schema", "", "Extra schema contribution (YAML) merged over the built-in tables")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")

	var s *session
	onReport := func(rep *check.Report) {
		printPass(s, rep)
	}

	s, err := openSession(sessionOptions{
		schemaFile: checkSchemaFile,
		debug:      debug,
		onReport:   onReport,
	})
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		Workspace:     s.ws,
		DebounceDelay: s.project.Debounce(),
		Debug:         debug,
		OnChange: func(path string, err error) {
			if err != nil {
				fmt.Fprintln(os.Stderr, ui.Errorf("Error reading %s: %v", paths.Display(s.modRoot, path), err))
			} else if debug {
				fmt.Fprintf(os.Stderr, "Rescanned: %s\n", paths.Display(s.modRoot, path))
			}
		},
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		if !isJSONOutput() {
			fmt.Println("\nShutting down watcher...")
		}
		cancel()
	}()

	if !isJSONOutput() {
		fmt.Printf("Watching mod: %s\n", ui.FilePath(s.modRoot))
		if s.vanilla != "" {
			fmt.Printf("Vanilla:      %s\n", ui.FilePath(s.vanilla))
		}
		fmt.Println(ui.Hint("Press Ctrl+C to stop"))
		fmt.Println()
	}

	if _, err := s.ws.Load(ctx); err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	// Start watching
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrInternal, err, "")
	}
	return nil
}

// printPass prints the outcome of one validation pass.
func printPass(s *session, rep *check.Report) {
	if s == nil || rep == nil {
		return
	}
	if isJSONOutput() {
		printPassJSON(rep)
		return
	}

	fmt.Println(ui.Muted.Render(time.Now().Format("15:04:05")))
	ui.RenderReport(os.Stdout, rep, s.modRoot, ui.NewDisplayContext())
	fmt.Println(ui.Summary(rep))
	fmt.Println()
}

// passLine is one line of `oxc watch --json` output.
type passLine struct {
	Time        time.Time          `json:"time"`
	Errors      int                `json:"errors"`
	Warnings    int                `json:"warnings"`
	Diagnostics []check.Diagnostic `json:"diagnostics"`
}

func printPassJSON(rep *check.Report) {
	line := passLine{
		Time:        time.Now(),
		Errors:      rep.Count(check.LevelError),
		Warnings:    rep.Count(check.LevelWarning),
		Diagnostics: rep.All(),
	}
	if line.Diagnostics == nil {
		line.Diagnostics = []check.Diagnostic{}
	}
	_ = json.NewEncoder(os.Stdout).Encode(line)
}
