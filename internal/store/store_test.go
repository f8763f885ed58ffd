package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/paths"
)

const modRoot = "/mods/MyMod"

func at(line int) model.SourceRange {
	return model.SourceRange{
		Start: model.Position{Line: line, Column: 5},
		End:   model.Position{Line: line, Column: 12},
	}
}

func sampleReport(missing ...string) *check.Report {
	r := check.NewReport()
	file := filepath.Join(modRoot, "Ruleset", "items.rul")
	r.Touch(file)
	r.Touch(filepath.Join(modRoot, "Ruleset", "clean.rul"))
	for i, path := range missing {
		r.Add(check.NewDiagnostic(file, at(i+1), check.LevelError, check.CodeMissingReference, path, "missing"))
	}
	r.Add(check.NewDiagnostic(file, at(40), check.LevelWarning, "auto-shots", "items.autoShots", "both set"))
	return r
}

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(modRoot)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordRun(t *testing.T) {
	s := openTest(t)
	started := time.UnixMilli(1_700_000_000_000)

	id, err := s.RecordRun(sampleReport("items.requires", "items.requires", "units.armor"), RunInfo{
		StartedAt:  started,
		Duration:   1500 * time.Millisecond,
		Vanilla:    "/games/xcom1",
		ParseFails: 1,
	})
	if err != nil {
		t.Fatalf("RecordRun() error = %v", err)
	}

	run, err := s.LastRun()
	if err != nil {
		t.Fatalf("LastRun() error = %v", err)
	}
	if run.ID != id || run.Files != 2 || run.Errors != 3 || run.Warnings != 1 || run.ParseFails != 1 {
		t.Errorf("run = %+v", run)
	}
	if !run.StartedAt.Equal(started) || run.Duration != 1500*time.Millisecond || run.Vanilla != "/games/xcom1" {
		t.Errorf("run = %+v", run)
	}

	byID, err := s.RunByID(id)
	if err != nil || byID != run {
		t.Errorf("RunByID() = %+v, %v; want %+v", byID, err, run)
	}

	diags, err := s.Diagnostics(id)
	if err != nil {
		t.Fatalf("Diagnostics() error = %v", err)
	}
	if len(diags) != 4 {
		t.Fatalf("diagnostics = %+v", diags)
	}
	want := filepath.ToSlash(filepath.Join("Ruleset", "items.rul"))
	if diags[0].File != want || diags[0].Line != 1 || diags[0].Severity != "error" {
		t.Errorf("first diagnostic = %+v", diags[0])
	}
	if diags[3].Code != "auto-shots" || diags[3].Severity != "warning" {
		t.Errorf("last diagnostic = %+v", diags[3])
	}
}

func TestDiagnosticsUnknownRun(t *testing.T) {
	s := openTest(t)
	if _, err := s.Diagnostics(42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
	if _, err := s.RunByID(42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("RunByID() error = %v, want ErrRunNotFound", err)
	}
	if _, err := s.LastRun(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LastRun() error = %v, want ErrRunNotFound", err)
	}
}

func TestTopPaths(t *testing.T) {
	s := openTest(t)
	record := func(missing ...string) {
		t.Helper()
		if _, err := s.RecordRun(sampleReport(missing...), RunInfo{StartedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}
	record("units.armor", "units.armor", "units.armor")
	record("items.requires")
	record("items.requires", "research.dependencies")

	t.Run("all runs", func(t *testing.T) {
		top, err := s.TopPaths(0, 0)
		if err != nil {
			t.Fatal(err)
		}
		want := []PathProblems{
			{Path: "units.armor", Total: 3, Runs: 1},
			{Path: "items.requires", Total: 2, Runs: 2},
			{Path: "research.dependencies", Total: 1, Runs: 1},
		}
		if len(top) != len(want) {
			t.Fatalf("TopPaths() = %+v", top)
		}
		for i := range want {
			if top[i] != want[i] {
				t.Errorf("TopPaths()[%d] = %+v, want %+v", i, top[i], want[i])
			}
		}
	})

	t.Run("window and limit", func(t *testing.T) {
		top, err := s.TopPaths(2, 1)
		if err != nil {
			t.Fatal(err)
		}
		if len(top) != 1 || top[0].Path != "items.requires" || top[0].Total != 2 {
			t.Errorf("TopPaths(2, 1) = %+v", top)
		}
	})
}

func TestRunsAndPrune(t *testing.T) {
	s := openTest(t)
	for i := 0; i < 5; i++ {
		if _, err := s.RecordRun(sampleReport("items.requires"), RunInfo{StartedAt: time.Now()}); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Runs(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].ID < runs[1].ID {
		t.Errorf("Runs(3) = %+v", runs)
	}

	removed, err := s.Prune(2)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("Prune() removed %d, want 3", removed)
	}
	runs, err = s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("Runs() after prune = %+v", runs)
	}
	top, err := s.TopPaths(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].Total != 2 {
		t.Errorf("problem counts of pruned runs kept: %+v", top)
	}
}

func TestOpenCreatesDataDir(t *testing.T) {
	root := t.TempDir()
	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.RecordRun(sampleReport(), RunInfo{StartedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	if _, err := os.Stat(filepath.Join(root, paths.DataDir, FileName)); err != nil {
		t.Fatalf("database not created: %v", err)
	}

	// Reopening keeps history.
	s, err = Open(root)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runs, err := s.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("runs after reopen = %d", len(runs))
	}
}

func TestOpenRecreatesIncompatibleDatabase(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, paths.DataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("not a database"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(root)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	if _, err := s.Runs(0); err != nil {
		t.Errorf("Runs() error = %v", err)
	}
}
