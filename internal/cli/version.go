package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/buildinfo"
	"github.com/aidanlsb/oxcheck/internal/logic"
	"github.com/aidanlsb/oxcheck/internal/schema"
	"github.com/aidanlsb/oxcheck/internal/ui"
)

const defaultModulePath = "github.com/aidanlsb/oxcheck"

// VersionResult is the payload of `oxc version`.
type VersionResult struct {
	Version  string       `json:"version"`
	Module   string       `json:"module"`
	Commit   string       `json:"commit,omitempty"`
	Built    string       `json:"built,omitempty"`
	Dirty    bool         `json:"dirty"`
	Go       string       `json:"go"`
	Platform string       `json:"platform"`
	Engine   EngineTables `json:"engine"`
}

// EngineTables counts what the built-in checks know about.
type EngineTables struct {
	SchemaPaths     int      `json:"schema_paths"`
	PatternRules    int      `json:"pattern_rules"`
	DefinitionTypes int      `json:"definition_types"`
	LogicRules      []string `json:"logic_rules"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show oxc version, build and built-in table information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := currentVersion()

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}

		fmt.Printf("%s %s\n", ui.AccentBold.Render("oxc"), result.Version)
		t := ui.NewTable(2)
		t.AddRow(ui.Muted.Render("module"), result.Module)
		if result.Commit != "" {
			commit := result.Commit
			if result.Dirty {
				commit += " (dirty)"
			}
			t.AddRow(ui.Muted.Render("commit"), commit)
		}
		if result.Built != "" {
			t.AddRow(ui.Muted.Render("built"), result.Built)
		}
		t.AddRow(ui.Muted.Render("go"), result.Go+" "+result.Platform)
		t.AddRow(ui.Muted.Render("schema"), fmt.Sprintf("%d paths, %d pattern rules, %d definition types",
			result.Engine.SchemaPaths, result.Engine.PatternRules, result.Engine.DefinitionTypes))
		t.AddRow(ui.Muted.Render("logic"), strings.Join(result.Engine.LogicRules, ", "))
		fmt.Print(t.String())
		return nil
	},
}

func currentVersion() VersionResult {
	result := VersionResult{
		Version:  "devel",
		Module:   defaultModulePath,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Engine:   engineTables(),
	}

	if info, ok := readBuildInfo(); ok && info != nil {
		applyBuildInfo(&result, info)
	}

	// ldflags stamps fill in what the module build info left empty.
	if result.Version == "devel" && buildinfo.Version != "" {
		result.Version = releaseVersion(buildinfo.Version)
	}
	if result.Commit == "" {
		result.Commit = buildinfo.Commit
	}
	if result.Built == "" {
		result.Built = buildinfo.Date
	}
	return result
}

func applyBuildInfo(result *VersionResult, info *debug.BuildInfo) {
	if info.Main.Path != "" {
		result.Module = info.Main.Path
	}
	result.Version = releaseVersion(info.Main.Version)
	if info.GoVersion != "" {
		result.Go = info.GoVersion
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	goos, goarch := settings["GOOS"], settings["GOARCH"]
	if goos != "" && goarch != "" {
		result.Platform = goos + "/" + goarch
	}
	result.Commit = settings["vcs.revision"]
	result.Built = settings["vcs.time"]
	result.Dirty = strings.EqualFold(settings["vcs.modified"], "true")
}

func releaseVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}

func engineTables() EngineTables {
	s := schema.MustNew()
	var tables EngineTables
	for _, e := range s.Entries() {
		if e.Pattern {
			tables.PatternRules++
		} else {
			tables.SchemaPaths++
		}
	}
	tables.DefinitionTypes = len(s.DefinitionTypes())
	for _, r := range logic.Default() {
		tables.LogicRules = append(tables.LogicRules, r.Name())
	}
	return tables
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
