package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/schema"
	"github.com/aidanlsb/oxcheck/internal/ui"
)

// PathInfo is the JSON payload of `oxc schema path <path>`.
type PathInfo struct {
	Path     string     `json:"path"`
	Targets  [][]string `json:"targets"`
	Ignored  bool       `json:"ignored"`
	String   bool       `json:"string"`
	Dummy    bool       `json:"dummy"`
	Variants bool       `json:"variants"`
	Metadata []string   `json:"metadata,omitempty"`
}

// TypeInfo describes one top-level rule type that defines named entities.
type TypeInfo struct {
	Type      string `json:"type"`
	Field     string `json:"field"`
	Qualifier string `json:"qualifier,omitempty"`
}

var schemaFile string

var schemaCmd = &cobra.Command{
	Use:   "schema [types|path <path>]",
	Short: "Show the effective schema tables",
	Long: `Shows the path schema in effect for the mod: the built-in tables merged with
the schema block of oxcheck.yaml and an optional --schema file.

Examples:
  oxc schema                      # Every path and its target types
  oxc schema types                # Types that define named entities
  oxc schema path items.requires  # How one path is checked`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		pc, err := loadProjectConfigSafe(getModPath())
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		sch, err := buildSchema(pc, schemaFile)
		if err != nil {
			return handleError(ErrSchemaInvalid, err, "")
		}

		if len(args) == 0 {
			return dumpSchema(sch, start)
		}

		switch args[0] {
		case "types":
			return listSchemaTypes(sch, start)
		case "path":
			if len(args) < 2 {
				return handleErrorMsg(ErrMissingArgument, "specify a path", "Usage: oxc schema path <path>")
			}
			return showSchemaPath(sch, args[1], start)
		default:
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown schema subcommand: %s", args[0]), "Use: types or path <path>")
		}
	},
}

func dumpSchema(sch *schema.Schema, start time.Time) error {
	entries := sch.Entries()
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries), DurationMs: elapsed})
		return nil
	}

	tbl := ui.NewTable(2)
	for _, e := range entries {
		path := e.Path
		if e.Pattern {
			path = ui.Muted.Render("~") + path
		}
		tbl.AddRow(path, strings.Join(e.Targets, ", "))
	}
	fmt.Print(tbl.String())
	fmt.Println(ui.Hint(fmt.Sprintf("\n%d entries (~ marks pattern rules)", len(entries))))
	return nil
}

func listSchemaTypes(sch *schema.Schema, start time.Time) error {
	var types []TypeInfo
	for _, t := range sch.DefinitionTypes() {
		field, _ := sch.DefinitionField(t)
		qualifier, _ := sch.Qualifier(t)
		types = append(types, TypeInfo{Type: t, Field: field, Qualifier: qualifier})
	}
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"types": types}, &Meta{Count: len(types), DurationMs: elapsed})
		return nil
	}

	tbl := ui.NewTable(3)
	for _, t := range types {
		qualifier := ""
		if t.Qualifier != "" {
			qualifier = ui.Hint("qualified by " + t.Qualifier)
		}
		tbl.AddRow(ui.Accent.Render(t.Type), t.Field, qualifier)
	}
	fmt.Print(tbl.String())
	return nil
}

func showSchemaPath(sch *schema.Schema, path string, start time.Time) error {
	info := PathInfo{
		Path:     path,
		Targets:  [][]string{},
		Ignored:  sch.IsIgnored(path),
		String:   sch.IsString(path),
		Dummy:    sch.IsDummy(path),
		Metadata: sch.MetadataFields(path),
	}
	for _, t := range sch.Lookup(path) {
		info.Targets = append(info.Targets, append([]string(nil), t...))
	}
	_, info.Variants = sch.Variants(path)

	if len(info.Targets) == 0 && !info.Ignored && !info.String {
		return handleErrorMsg(ErrSchemaNotFound,
			fmt.Sprintf("no schema entry for %s", path),
			"Run 'oxc schema' to list every path")
	}
	elapsed := time.Since(start).Milliseconds()

	if isJSONOutput() {
		outputSuccess(info, &Meta{DurationMs: elapsed})
		return nil
	}

	fmt.Println(ui.Header(path))
	list := ui.NewList()
	for _, t := range info.Targets {
		list.Add("targets " + strings.Join(t, ", "))
	}
	if info.Ignored {
		list.Add("ignored")
	}
	if info.String {
		list.Add("free text, not checked")
	}
	if info.Dummy {
		list.Add("checked by a logic rule")
	}
	if info.Variants {
		list.Add("keys expand to variants before lookup")
	}
	if len(info.Metadata) > 0 {
		list.Add("captures " + strings.Join(info.Metadata, ", "))
	}
	fmt.Print(list.String())
	return nil
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFile, "schema", "", "Extra schema contribution (YAML) merged over the built-in tables")
	rootCmd.AddCommand(schemaCmd)
}
