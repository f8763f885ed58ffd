package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/config"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/schema"
	"github.com/aidanlsb/oxcheck/internal/ui"
	"github.com/aidanlsb/oxcheck/internal/workspace"
)

// session is everything a command needs to scan one mod.
type session struct {
	modRoot string
	vanilla string // empty when none is configured
	project *config.ProjectConfig
	schema  *schema.Schema
	ws      *workspace.Workspace

	warnings []Warning
}

type sessionOptions struct {
	schemaFile string
	debug      bool
	onReport   func(*check.Report)
}

// loadProjectConfigSafe loads oxcheck.yaml from the mod.
func loadProjectConfigSafe(modRoot string) (*config.ProjectConfig, error) {
	pc, err := config.LoadProjectConfig(modRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ProjectFile, err)
	}
	if pc == nil {
		return config.DefaultProjectConfig(), nil
	}
	return pc, nil
}

// buildSchema merges the project's schema block and an optional extra
// contribution file over the built-in tables.
func buildSchema(pc *config.ProjectConfig, schemaFile string) (*schema.Schema, error) {
	var contribs []*schema.Contribution
	if pc != nil && pc.Schema != nil {
		contribs = append(contribs, pc.Schema)
	}
	if schemaFile != "" {
		extra, err := schema.LoadContribution(schemaFile)
		if err != nil {
			return nil, err
		}
		contribs = append(contribs, extra)
	}
	return schema.New(contribs...)
}

// openSession resolves configuration for the current mod and creates an
// empty workspace. Errors are already converted for the output mode.
func openSession(opts sessionOptions) (*session, error) {
	modRoot := getModPath()

	pc, err := loadProjectConfigSafe(modRoot)
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "Fix "+config.ProjectFile+" or run 'oxc init' to recreate it")
	}

	sch, err := buildSchema(pc, opts.schemaFile)
	if err != nil {
		return nil, handleError(ErrSchemaInvalid, err, "")
	}

	s := &session{modRoot: modRoot, project: pc, schema: sch}

	vanilla, err := pc.ResolveVanilla(modRoot, vanillaFlag, getConfig())
	switch {
	case errors.Is(err, config.ErrNoVanilla):
		s.warnings = append(s.warnings, Warning{
			Code:    WarnNoVanilla,
			Message: "no vanilla ruleset configured; references to vanilla content will be reported as missing",
		})
	case err != nil:
		return nil, handleError(ErrConfigInvalid, err, "")
	default:
		vanilla, err = paths.Clean(vanilla)
		if err != nil {
			return nil, handleError(ErrVanillaNotFound, err, "")
		}
		if info, statErr := os.Stat(vanilla); statErr != nil || !info.IsDir() {
			return nil, handleErrorMsg(ErrVanillaNotFound,
				fmt.Sprintf("vanilla ruleset not found: %s", vanilla),
				"Set vanilla_path in "+config.ProjectFile+", pass --vanilla, or run 'oxc config set --vanilla-path <path>'")
		}
		s.vanilla = vanilla
	}

	ws, err := workspace.New(workspace.Options{
		ModRoot:        modRoot,
		VanillaRoot:    s.vanilla,
		RulesGlob:      pc.Rules,
		LocalesGlob:    pc.Locales,
		Schema:         sch,
		SkipDuplicates: !pc.DuplicatesEnabled(),
		SkipLogic:      !pc.LogicEnabled(),
		Debug:          opts.debug,
		Logf:           s.logf,
		OnReport:       opts.onReport,
	})
	if err != nil {
		return nil, handleError(ErrInternal, err, "")
	}
	s.ws = ws
	return s, nil
}

// logf receives non-fatal workspace messages. JSON output reports parse
// failures as warnings instead, so nothing is printed there.
func (s *session) logf(format string, args ...any) {
	if isJSONOutput() {
		return
	}
	fmt.Fprintln(os.Stderr, ui.Warningf(format, args...))
}

// loadWarnings converts skipped and unparsable files into warnings.
func (s *session) loadWarnings(res *workspace.LoadResult) []Warning {
	warnings := append([]Warning(nil), s.warnings...)
	if res != nil {
		for _, path := range res.Skipped {
			warnings = append(warnings, Warning{
				Code:    WarnFileSkipped,
				Message: "file could not be read",
				File:    s.display(path),
			})
		}
	}

	parseErrs := s.ws.ParseErrors()
	files := make([]string, 0, len(parseErrs))
	for f := range parseErrs {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		warnings = append(warnings, Warning{
			Code:    WarnParseFailed,
			Message: parseErrs[f].Error(),
			File:    s.display(f),
		})
	}
	return warnings
}

// display shows mod files relative to the mod root and vanilla files
// relative to the vanilla root.
func (s *session) display(path string) string {
	if paths.Within(s.modRoot, path) {
		return paths.Display(s.modRoot, path)
	}
	if s.vanilla != "" && paths.Within(s.vanilla, path) {
		return paths.Display(s.vanilla, path)
	}
	return path
}

// commandContext returns the command's context, or a background context
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
