package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/ui"
)

var stringsLocale string

// StringEntry is one merged translation in `oxc strings` output.
type StringEntry struct {
	Locale string `json:"locale"`
	Key    string `json:"key"`
	Text   string `json:"text"`
	File   string `json:"file"`
	Line   int    `json:"line"`
}

var stringsCmd = &cobra.Command{
	Use:   "strings [prefix]",
	Short: "List translations after mod overrides",
	Long: `Lists the locale strings of the mod and its vanilla base after merging: mod
text replaces vanilla text for the same locale and key.

Examples:
  oxc strings STR_PLASMA
  oxc strings --locale en-US --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		s, err := openSession(sessionOptions{})
		if err != nil {
			return err
		}
		if _, err := s.ws.Load(commandContext(cmd)); err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		var entries []StringEntry
		for _, tr := range s.ws.Translations() {
			if stringsLocale != "" && tr.Locale != stringsLocale {
				continue
			}
			if !strings.HasPrefix(tr.Key, prefix) {
				continue
			}
			entries = append(entries, StringEntry{
				Locale: tr.Locale,
				Key:    tr.Key,
				Text:   tr.Text,
				File:   s.display(tr.File),
				Line:   tr.Range.Start.Line,
			})
		}
		elapsed := time.Since(start).Milliseconds()

		if isJSONOutput() {
			if entries == nil {
				entries = []StringEntry{}
			}
			outputSuccess(map[string]interface{}{"strings": entries}, &Meta{Count: len(entries), DurationMs: elapsed})
			return nil
		}

		if len(entries) == 0 {
			fmt.Println(ui.Info("No matching strings"))
			return nil
		}
		tbl := ui.NewTable(3)
		for _, e := range entries {
			tbl.AddRow(ui.Muted.Render(e.Locale), ui.Accent.Render(e.Key), e.Text)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func init() {
	stringsCmd.Flags().StringVar(&stringsLocale, "locale", "", "Only list one locale (e.g. en-US)")
	rootCmd.AddCommand(stringsCmd)
}
