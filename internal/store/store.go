// Package store persists validation runs in SQLite so problem trends and
// the noisiest reference paths survive between invocations.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/sqlutil"
)

// ErrRunNotFound indicates the requested run is not in the store.
var ErrRunNotFound = errors.New("run not found")

// FileName is the database file inside the mod's data directory.
const FileName = "runs.db"

// CurrentVersion is the current database schema version.
const CurrentVersion = 1

// Store is the SQLite handle for one mod.
type Store struct {
	db   *sql.DB
	root string
}

// Run summarizes one recorded validation pass.
type Run struct {
	ID         int64         `json:"id"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Files      int           `json:"files"`
	Errors     int           `json:"errors"`
	Warnings   int           `json:"warnings"`
	Vanilla    string        `json:"vanilla,omitempty"`
	ParseFails int           `json:"parse_failures"`
}

// PathProblems is the accumulated missing-reference count of one path.
type PathProblems struct {
	Path  string `json:"path"`
	Total int    `json:"total"`
	Runs  int    `json:"runs"`
}

// Open opens or creates <modRoot>/.oxcheck/runs.db. A database written by an
// incompatible version is recreated.
func Open(modRoot string) (*Store, error) {
	dir := filepath.Join(modRoot, paths.DataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", paths.DataDir, err)
	}

	dbPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(dbPath); err == nil {
		if err := dropIfIncompatible(dbPath); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// PRAGMAs are per connection; one connection keeps them in force.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, root: modRoot}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory(modRoot string) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every connection would get its own empty database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, root: modRoot}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func dropIfIncompatible(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	var version string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version)
	db.Close()
	if err == nil && version == strconv.Itoa(CurrentVersion) {
		return nil
	}

	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale database %s: %w", p, err)
		}
	}
	return nil
}

func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,     -- Unix milliseconds
			duration_ns INTEGER NOT NULL,
			files INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			warnings INTEGER NOT NULL,
			parse_failures INTEGER NOT NULL DEFAULT 0,
			vanilla TEXT
		);

		CREATE TABLE IF NOT EXISTS diagnostics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL,
			file_path TEXT NOT NULL,         -- Relative to the mod root when inside it
			line INTEGER NOT NULL,
			col INTEGER NOT NULL,
			end_line INTEGER NOT NULL,
			end_col INTEGER NOT NULL,
			severity TEXT NOT NULL,
			code TEXT NOT NULL,
			path TEXT,
			message TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS path_problems (
			run_id INTEGER NOT NULL,
			path TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, path)
		);

		CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
		CREATE INDEX IF NOT EXISTS idx_path_problems_path ON path_problems(path);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}
	return nil
}

// RunInfo is what the caller knows about a pass besides its report.
type RunInfo struct {
	StartedAt  time.Time
	Duration   time.Duration
	Vanilla    string
	ParseFails int
}

// RecordRun stores a report with its per-path problem counts and returns
// the new run id.
func (s *Store) RecordRun(report *check.Report, info RunInfo) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (started_at, duration_ns, files, errors, warnings, parse_failures, vanilla)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		info.StartedAt.UnixMilli(), int64(info.Duration), len(report.Files()),
		report.Count(check.LevelError), report.Count(check.LevelWarning),
		info.ParseFails, sqlutil.NullIfEmpty(info.Vanilla))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	diagStmt, err := tx.Prepare(`
		INSERT INTO diagnostics (run_id, file_path, line, col, end_line, end_col, severity, code, path, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer diagStmt.Close()

	for _, d := range report.All() {
		_, err := diagStmt.Exec(runID, paths.Display(s.root, d.File),
			d.Range.Start.Line, d.Range.Start.Column, d.Range.End.Line, d.Range.End.Column,
			d.Level.String(), d.Code, sqlutil.NullIfEmpty(d.Path), d.Message)
		if err != nil {
			return 0, fmt.Errorf("failed to insert diagnostic: %w", err)
		}
	}

	probStmt, err := tx.Prepare(`INSERT INTO path_problems (run_id, path, count) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer probStmt.Close()

	for path, count := range report.ProblemCounts() {
		if _, err := probStmt.Exec(runID, path, count); err != nil {
			return 0, fmt.Errorf("failed to insert path problems: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, duration_ns, files, errors, warnings, parse_failures, COALESCE(vanilla, '')
		FROM runs ORDER BY id DESC LIMIT ?`, sqlutil.LimitOrAll(limit))
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, scanRun)
}

// LastRun returns the newest run.
func (s *Store) LastRun() (Run, error) {
	runs, err := s.Runs(1)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrRunNotFound
	}
	return runs[0], nil
}

// RunByID returns one run.
func (s *Store) RunByID(id int64) (Run, error) {
	rows, err := s.db.Query(`
		SELECT id, started_at, duration_ns, files, errors, warnings, parse_failures, COALESCE(vanilla, '')
		FROM runs WHERE id = ?`, id)
	if err != nil {
		return Run{}, err
	}
	runs, err := sqlutil.ScanRows(rows, scanRun)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return runs[0], nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r        Run
		started  int64
		duration int64
	)
	if err := rows.Scan(&r.ID, &started, &duration, &r.Files, &r.Errors, &r.Warnings, &r.ParseFails, &r.Vanilla); err != nil {
		return Run{}, err
	}
	r.StartedAt = time.UnixMilli(started)
	r.Duration = time.Duration(duration)
	return r, nil
}

// StoredDiagnostic is a diagnostic as persisted, with the file relative to
// the mod root.
type StoredDiagnostic struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

// Diagnostics returns the diagnostics of one run in report order.
func (s *Store) Diagnostics(runID int64) ([]StoredDiagnostic, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %d: %w", runID, ErrRunNotFound)
	}

	rows, err := s.db.Query(`
		SELECT file_path, line, col, severity, code, COALESCE(path, ''), message
		FROM diagnostics WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (StoredDiagnostic, error) {
		var d StoredDiagnostic
		err := rows.Scan(&d.File, &d.Line, &d.Column, &d.Severity, &d.Code, &d.Path, &d.Message)
		return d, err
	})
}

// TopPaths returns the reference paths with the most missing-reference
// problems over the last `window` runs (0 means all runs), highest first.
// A path that keeps failing across many runs is a candidate for a schema
// ignore or link entry.
func (s *Store) TopPaths(window, limit int) ([]PathProblems, error) {
	ids, err := s.recentRunIDs(window)
	if err != nil {
		return nil, err
	}
	placeholders, args := sqlutil.InClauseArgs(ids)
	args = append(args, sqlutil.LimitOrAll(limit))

	rows, err := s.db.Query(`
		SELECT path, SUM(count) AS total, COUNT(DISTINCT run_id)
		FROM path_problems
		WHERE run_id IN (`+placeholders+`)
		GROUP BY path
		ORDER BY total DESC, path
		LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (PathProblems, error) {
		var p PathProblems
		err := rows.Scan(&p.Path, &p.Total, &p.Runs)
		return p, err
	})
}

// Prune deletes all but the newest keep runs and returns how many went.
func (s *Store) Prune(keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	const stale = `SELECT id FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`
	for _, table := range []string{"diagnostics", "path_problems"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE run_id IN (`+stale+`)`, keep); err != nil {
			return 0, fmt.Errorf("failed to prune %s: %w", table, err)
		}
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id IN (`+stale+`)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (s *Store) recentRunIDs(window int) ([]int64, error) {
	rows, err := s.db.Query(`SELECT id FROM runs ORDER BY id DESC LIMIT ?`, sqlutil.LimitOrAll(window))
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (int64, error) {
		var id int64
		err := rows.Scan(&id)
		return id, err
	})
}
