package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/config"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/testutil"
)

const riflesRul = `items:
  - type: STR_RIFLE
    requires:
      - STR_LASER_WEAPONS
      - STR_PLASMA
`

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	return <-outputCh
}

// useProject points the command globals at a test project and restores them
// afterwards.
func useProject(t *testing.T, p *testutil.TestProject) {
	t.Helper()
	prev := struct {
		mod, vanilla, configPath, resolvedConfig string
		cfg                                      *config.Config
		json                                     bool
		minSeverity                              severityValue
		record, strict                           bool
		output, schema                           string
	}{
		resolvedModPath, vanillaFlag, configPath, resolvedConfigPath,
		cfg, jsonOutput, checkMinSeverity, checkRecord, checkStrict, checkOutput, checkSchemaFile,
	}
	t.Cleanup(func() {
		resolvedModPath, vanillaFlag, configPath, resolvedConfigPath = prev.mod, prev.vanilla, prev.configPath, prev.resolvedConfig
		cfg, jsonOutput, checkMinSeverity = prev.cfg, prev.json, prev.minSeverity
		checkRecord, checkStrict, checkOutput, checkSchemaFile = prev.record, prev.strict, prev.output, prev.schema
	})

	resolvedModPath = p.Mod
	vanillaFlag = p.Vanilla
	configPath = filepath.Join(p.Root, "config.toml")
	resolvedConfigPath = configPath
	cfg = &config.Config{}
	jsonOutput = true
	checkMinSeverity = severityValue{level: check.LevelWarning}
	checkRecord, checkStrict = false, false
	checkOutput, checkSchemaFile = "", ""
}

type envelope struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func decode(t *testing.T, out string, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal([]byte(out), &env); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if data != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("invalid data payload: %v\n%s", err, out)
		}
	}
	return env
}

// checkResult mirrors CheckResult with plain diagnostic fields.
type checkResult struct {
	Files       int   `json:"files"`
	Errors      int   `json:"errors"`
	Warnings    int   `json:"warnings"`
	RunID       int64 `json:"run_id"`
	Diagnostics []struct {
		File     string `json:"file"`
		Severity string `json:"severity"`
		Code     string `json:"code"`
		Path     string `json:"path"`
		Message  string `json:"message"`
		Range    struct {
			Start struct {
				Line int `json:"line"`
			} `json:"start"`
		} `json:"range"`
	} `json:"diagnostics"`
}

func runCheckJSON(t *testing.T) (checkResult, envelope, int) {
	t.Helper()
	var code int
	var runErr error
	out := captureStdout(t, func() {
		code, runErr = runCheck(&cobra.Command{})
	})
	if runErr != nil {
		t.Fatalf("runCheck() error = %v\n%s", runErr, out)
	}
	var res checkResult
	env := decode(t, out, &res)
	return res, env, code
}

func TestSeverityValue(t *testing.T) {
	tests := []struct {
		in      string
		want    check.Level
		wantErr bool
	}{
		{"error", check.LevelError, false},
		{"WARNING", check.LevelWarning, false},
		{"warn", check.LevelWarning, false},
		{"info", check.LevelWarning, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := severityValue{level: check.LevelWarning}
			err := v.Set(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v", tt.in, err)
			}
			if v.level != tt.want {
				t.Errorf("level = %s, want %s", v.level, tt.want)
			}
		})
	}
	if (&severityValue{}).Type() != "severity" {
		t.Error("unexpected flag type name")
	}
}

func TestCheckReportsMissingReference(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Ruleset/items.rul", testutil.VanillaItems()).
		WithModFile("Ruleset/rifles.rul", riflesRul).
		Build()
	useProject(t, p)

	res, env, code := runCheckJSON(t)
	if !env.OK {
		t.Fatalf("expected ok envelope, got %+v", env.Error)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if res.Errors != 1 || len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %+v", res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Code != check.CodeMissingReference || d.Severity != "error" || !strings.Contains(d.Message, "STR_PLASMA") {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Range.Start.Line != 5 {
		t.Errorf("line = %d, want 5", d.Range.Start.Line)
	}
	if env.Meta == nil || env.Meta.Count != 1 {
		t.Errorf("meta = %+v", env.Meta)
	}
}

func TestCheckCleanMod(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Ruleset/items.rul", testutil.VanillaItems()).
		WithModFile("Ruleset/rifles.rul", "items:\n  - type: STR_RIFLE\n    requires:\n      - STR_LASER_WEAPONS\n").
		Build()
	useProject(t, p)

	res, _, code := runCheckJSON(t)
	if code != 0 || res.Errors != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("code = %d, result = %+v", code, res)
	}
	if res.Files != 1 {
		t.Errorf("files = %d, want 1", res.Files)
	}
}

func TestCheckWithoutVanillaWarns(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithModFile("Ruleset/rifles.rul", riflesRul).
		Build()
	useProject(t, p)
	vanillaFlag = ""

	_, env, _ := runCheckJSON(t)
	found := false
	for _, w := range env.Warnings {
		if w.Code == WarnNoVanilla {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s warning, got %+v", WarnNoVanilla, env.Warnings)
	}
}

func TestCheckMissingVanillaDirFails(t *testing.T) {
	p := testutil.NewTestProject(t).Build()
	useProject(t, p)
	vanillaFlag = filepath.Join(p.Root, "nope")

	var err error
	out := captureStdout(t, func() {
		_, err = runCheck(&cobra.Command{})
	})
	if err == nil {
		t.Fatal("expected error for missing vanilla directory")
	}
	env := decode(t, out, nil)
	if env.OK || env.Error == nil || env.Error.Code != ErrVanillaNotFound {
		t.Errorf("envelope = %+v", env)
	}
}

func TestCheckParseFailureIsWarning(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Ruleset/items.rul", testutil.VanillaItems()).
		WithModFile("Ruleset/broken.rul", "items:\n  - type: [unclosed\n").
		WithModFile("Ruleset/rifles.rul", riflesRul).
		Build()
	useProject(t, p)

	res, env, _ := runCheckJSON(t)
	if res.Errors != 1 {
		t.Errorf("errors = %d, want 1 (other files still checked)", res.Errors)
	}
	found := false
	for _, w := range env.Warnings {
		if w.Code == WarnParseFailed && w.File == "Ruleset/broken.rul" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parse warning for broken.rul, got %+v", env.Warnings)
	}
}

func TestCheckMinSeverityAndStrict(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Ruleset/items.rul", testutil.VanillaItems()).
		WithModFile("Ruleset/guns.rul", `items:
  - type: STR_AUTO_GUN
    autoShots: 3
    confAuto:
      shots: 5
`).
		Build()
	useProject(t, p)

	res, _, code := runCheckJSON(t)
	if res.Warnings != 1 || code != 0 {
		t.Fatalf("warnings = %d, code = %d; want 1 warning and exit 0", res.Warnings, code)
	}

	checkStrict = true
	if _, _, code := runCheckJSON(t); code != 1 {
		t.Errorf("--strict exit code = %d, want 1", code)
	}

	checkStrict = false
	checkMinSeverity = severityValue{level: check.LevelError}
	res, _, _ = runCheckJSON(t)
	if len(res.Diagnostics) != 0 {
		t.Errorf("--min-severity error kept %+v", res.Diagnostics)
	}
}

func TestCheckRecordAndOutput(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Ruleset/items.rul", testutil.VanillaItems()).
		WithModFile("Ruleset/rifles.rul", riflesRul).
		Build()
	useProject(t, p)
	checkRecord = true
	checkOutput = filepath.Join(p.Root, "out", "report.json")
	if err := os.MkdirAll(filepath.Dir(checkOutput), 0o755); err != nil {
		t.Fatal(err)
	}

	res, _, _ := runCheckJSON(t)
	if res.RunID == 0 {
		t.Fatal("expected a recorded run id")
	}

	data, err := os.ReadFile(checkOutput)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	var written checkResult
	if err := json.Unmarshal(data, &written); err != nil {
		t.Fatalf("report file is not JSON: %v", err)
	}
	if written.Errors != 1 || written.RunID != res.RunID {
		t.Errorf("written report = %+v", written)
	}

	if _, err := os.Stat(filepath.Join(p.Mod, paths.DataDir, "runs.db")); err != nil {
		t.Errorf("run history not created: %v", err)
	}

	var report ReportResult
	out := captureStdout(t, func() {
		if err := reportCmd.RunE(reportCmd, nil); err != nil {
			t.Fatalf("report: %v", err)
		}
	})
	decode(t, out, &report)
	if len(report.Runs) != 1 || report.Runs[0].Errors != 1 {
		t.Errorf("runs = %+v", report.Runs)
	}
	if len(report.TopPaths) != 1 || report.TopPaths[0].Path != "items.requires" {
		t.Errorf("top paths = %+v", report.TopPaths)
	}
}

func TestReportUnknownRun(t *testing.T) {
	p := testutil.NewTestProject(t).Build()
	useProject(t, p)

	var err error
	out := captureStdout(t, func() {
		err = reportCmd.RunE(reportCmd, []string{"7"})
	})
	if err == nil {
		t.Fatal("expected error")
	}
	env := decode(t, out, nil)
	if env.Error == nil || env.Error.Code != ErrRunNotFound {
		t.Errorf("envelope = %+v", env)
	}
}

func TestBuildSchemaMergesContributions(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "extra.yaml")
	if err := os.WriteFile(extra, []byte("ignore:\n  - items.requires\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pc := config.DefaultProjectConfig()
	sch, err := buildSchema(pc, extra)
	if err != nil {
		t.Fatalf("buildSchema() error = %v", err)
	}
	if !sch.IsIgnored("items.requires") {
		t.Error("extra contribution not merged")
	}

	if _, err := buildSchema(pc, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing contribution file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("ignore_patterns:\n  - \"items.(\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = buildSchema(pc, bad)
	if err == nil || !strings.Contains(err.Error(), "invalid schema contribution") || strings.Count(err.Error(), bad) != 1 {
		t.Errorf("buildSchema(bad) error = %v, want one invalid contribution error naming the file", err)
	}
}

func TestCheckSchemaFileSilencesPath(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Ruleset/items.rul", testutil.VanillaItems()).
		WithModFile("Ruleset/rifles.rul", riflesRul).
		Build()
	useProject(t, p)
	checkSchemaFile = filepath.Join(p.Root, "extra.yaml")
	if err := os.WriteFile(checkSchemaFile, []byte("ignore:\n  - items.requires\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, _, code := runCheckJSON(t)
	if code != 0 || len(res.Diagnostics) != 0 {
		t.Errorf("code = %d, diagnostics = %+v", code, res.Diagnostics)
	}
}

func TestEnsureGitignore(t *testing.T) {
	t.Run("creates", func(t *testing.T) {
		dir := t.TempDir()
		status, err := ensureGitignore(dir)
		if err != nil || status != "created" {
			t.Fatalf("status = %q, err = %v", status, err)
		}
		data, _ := os.ReadFile(filepath.Join(dir, ".gitignore"))
		if !strings.Contains(string(data), paths.DataDir+"/") {
			t.Errorf(".gitignore = %q", data)
		}
	})

	t.Run("appends once", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".gitignore")
		if err := os.WriteFile(path, []byte("*.bak\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if status, err := ensureGitignore(dir); err != nil || status != "updated" {
			t.Fatalf("status = %q, err = %v", status, err)
		}
		if status, err := ensureGitignore(dir); err != nil || status != "unchanged" {
			t.Fatalf("second status = %q, err = %v", status, err)
		}
		data, _ := os.ReadFile(path)
		if !strings.HasPrefix(string(data), "*.bak\n") || strings.Count(string(data), paths.DataDir+"/") != 1 {
			t.Errorf(".gitignore = %q", data)
		}
	})
}

func TestInitCreatesProjectFiles(t *testing.T) {
	p := testutil.NewTestProject(t).Build()
	useProject(t, p)
	resolvedModPath = filepath.Join(p.Root, "newmod")

	var res InitResult
	out := captureStdout(t, func() {
		if err := initCmd.RunE(initCmd, nil); err != nil {
			t.Fatalf("init: %v", err)
		}
	})
	decode(t, out, &res)
	if !res.ProjectConfig || res.Gitignore != "created" {
		t.Errorf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(resolvedModPath, config.ProjectFile)); err != nil {
		t.Errorf("%s not created: %v", config.ProjectFile, err)
	}
	if _, err := os.Stat(filepath.Join(resolvedModPath, paths.DataDir)); err != nil {
		t.Errorf("%s not created: %v", paths.DataDir, err)
	}

	// Running again keeps the existing config.
	out = captureStdout(t, func() {
		if err := initCmd.RunE(initCmd, nil); err != nil {
			t.Fatalf("init: %v", err)
		}
	})
	decode(t, out, &res)
	if res.ProjectConfig {
		t.Error("second init recreated the project config")
	}
}

func TestConfigSetAndUnset(t *testing.T) {
	p := testutil.NewTestProject(t).Build()
	useProject(t, p)
	t.Cleanup(func() {
		configSetVanilla, configSetMods, configSetUIAccent = "", nil, ""
		configUnsetVanilla, configUnsetMods, configUnsetUIAccent = false, nil, false
		_ = configSetCmd.Flags().Set("vanilla-path", "")
	})

	if err := configSetCmd.Flags().Set("vanilla-path", p.Vanilla); err != nil {
		t.Fatal(err)
	}
	configSetMods = []string{"mine=" + p.Mod}
	captureStdout(t, func() {
		if err := configSetCmd.RunE(configSetCmd, nil); err != nil {
			t.Fatalf("config set: %v", err)
		}
	})

	saved, err := config.LoadFrom(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.VanillaPath != p.Vanilla || saved.Mods["mine"] != p.Mod {
		t.Errorf("saved config = %+v", saved)
	}
	if got := saved.ResolveMod("mine"); got != p.Mod {
		t.Errorf("ResolveMod(mine) = %q", got)
	}

	configUnsetVanilla = true
	configUnsetMods = []string{"mine"}
	captureStdout(t, func() {
		if err := configUnsetCmd.RunE(configUnsetCmd, nil); err != nil {
			t.Fatalf("config unset: %v", err)
		}
	})
	saved, err = config.LoadFrom(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.VanillaPath != "" || len(saved.Mods) != 0 {
		t.Errorf("config after unset = %+v", saved)
	}
}

func TestSchemaPathLookup(t *testing.T) {
	p := testutil.NewTestProject(t).Build()
	useProject(t, p)

	var info PathInfo
	out := captureStdout(t, func() {
		if err := schemaCmd.RunE(schemaCmd, []string{"path", "items.requires"}); err != nil {
			t.Fatalf("schema path: %v", err)
		}
	})
	decode(t, out, &info)
	if len(info.Targets) == 0 || info.Ignored {
		t.Errorf("info = %+v", info)
	}

	var err error
	out = captureStdout(t, func() {
		err = schemaCmd.RunE(schemaCmd, []string{"path", "no.such.path"})
	})
	if err == nil {
		t.Fatal("expected error for unknown path")
	}
	if env := decode(t, out, nil); env.Error == nil || env.Error.Code != ErrSchemaNotFound {
		t.Errorf("envelope = %+v", env)
	}
}

func TestStringsMergesOverrides(t *testing.T) {
	p := testutil.NewTestProject(t).
		WithVanillaFile("Language/en-US.yml", "en-US:\n  STR_RIFLE: Rifle\n  STR_PISTOL: Pistol\n").
		WithModFile("Language/en-US.yml", "en-US:\n  STR_RIFLE: Heavy Rifle\n").
		Build()
	useProject(t, p)

	var res struct {
		Strings []StringEntry `json:"strings"`
	}
	out := captureStdout(t, func() {
		if err := stringsCmd.RunE(stringsCmd, []string{"STR_RIFLE"}); err != nil {
			t.Fatalf("strings: %v", err)
		}
	})
	decode(t, out, &res)
	if len(res.Strings) != 1 || res.Strings[0].Text != "Heavy Rifle" || res.Strings[0].File != "Language/en-US.yml" {
		t.Errorf("strings = %+v", res.Strings)
	}
}
