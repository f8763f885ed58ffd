// Package workspace keeps the scanned corpus of a mod and its vanilla base,
// decides when the corpus has settled and runs full validation passes.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/logic"
	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/parser"
	"github.com/aidanlsb/oxcheck/internal/paths"
	"github.com/aidanlsb/oxcheck/internal/schema"
)

// Default discovery patterns, relative to each root.
const (
	DefaultRulesGlob   = "**/*.rul"
	DefaultLocalesGlob = "**/Language/*.yml"
)

// ErrUnknownFile is returned for paths outside both roots or not matching
// either discovery pattern.
var ErrUnknownFile = errors.New("file is not part of the workspace")

// Options configures a Workspace.
type Options struct {
	ModRoot     string
	VanillaRoot string // optional

	RulesGlob   string // default DefaultRulesGlob
	LocalesGlob string // default DefaultLocalesGlob

	Schema *schema.Schema
	Rules  []logic.Rule // nil means logic.Default()

	SkipDuplicates bool
	SkipLogic      bool

	Debug bool

	// Logf receives parse failures and other non-fatal problems.
	// Defaults to a "[oxc-workspace]" line on stderr.
	Logf func(format string, args ...any)

	// OnReport is called with the report of every pass the scheduler runs.
	OnReport func(*check.Report)
}

// FileKind tells rule files from locale files.
type FileKind int

const (
	KindRules FileKind = iota
	KindLocale
)

type fileEntry struct {
	path  string
	layer model.Layer
	kind  FileKind

	doc          *parser.ParsedDocument
	translations []parser.Translation
	parseErr     error
}

// Workspace is the per-file corpus store. Every mutation replaces or removes
// exactly one file's contribution; derived state is rebuilt on each pass.
type Workspace struct {
	opts     Options
	registry *logic.Registry

	mu    sync.Mutex
	files map[string]*fileEntry

	// passMu serializes full passes. A pass only reads immutable entries,
	// so it never blocks SetFile.
	passMu sync.Mutex
	sched  scheduler
	last   *check.Report
}

// New creates an empty workspace.
func New(opts Options) (*Workspace, error) {
	if opts.ModRoot == "" {
		return nil, fmt.Errorf("mod root is required")
	}
	if opts.Schema == nil {
		return nil, fmt.Errorf("schema is required")
	}

	modRoot, err := paths.Clean(opts.ModRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid mod root: %w", err)
	}
	opts.ModRoot = modRoot
	if opts.VanillaRoot != "" {
		vanillaRoot, err := paths.Clean(opts.VanillaRoot)
		if err != nil {
			return nil, fmt.Errorf("invalid vanilla root: %w", err)
		}
		opts.VanillaRoot = vanillaRoot
	}
	if opts.RulesGlob == "" {
		opts.RulesGlob = DefaultRulesGlob
	}
	if opts.LocalesGlob == "" {
		opts.LocalesGlob = DefaultLocalesGlob
	}

	rules := opts.Rules
	if rules == nil {
		rules = logic.Default()
	}
	registry, err := logic.NewRegistry(rules...)
	if err != nil {
		return nil, err
	}

	w := &Workspace{
		opts:     opts,
		registry: registry,
		files:    make(map[string]*fileEntry),
	}
	if w.opts.Logf == nil {
		w.opts.Logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "[oxc-workspace] "+format+"\n", args...)
		}
	}
	return w, nil
}

// ModRoot returns the absolute mod root.
func (w *Workspace) ModRoot() string { return w.opts.ModRoot }

// VanillaRoot returns the absolute vanilla root, or "".
func (w *Workspace) VanillaRoot() string { return w.opts.VanillaRoot }

// Schema returns the schema the workspace scans with.
func (w *Workspace) Schema() *schema.Schema { return w.opts.Schema }

// SetFile parses data as the new content of path and replaces whatever the
// file contributed before. A parse failure is logged and leaves the file
// with an empty contribution; it is never returned as an error.
func (w *Workspace) SetFile(path string, data []byte) error {
	abs, err := paths.Clean(path)
	if err != nil {
		return err
	}
	layer, kind, ok := w.Classify(abs)
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrUnknownFile)
	}

	entry := &fileEntry{path: abs, layer: layer, kind: kind}
	switch kind {
	case KindLocale:
		entry.translations, entry.parseErr = parser.ParseTranslations(abs, data)
	default:
		root, err := parser.ParseRules(data)
		if err != nil {
			entry.parseErr = err
		} else {
			entry.doc = parser.Scan(abs, root, w.opts.Schema)
		}
	}
	if entry.parseErr != nil {
		w.opts.Logf("skipping %s: %v", w.display(abs), entry.parseErr)
		entry.doc = nil
		entry.translations = nil
	}

	w.mu.Lock()
	w.files[abs] = entry
	w.mu.Unlock()

	w.logDebug("Scanned %s (%s)", w.display(abs), layer)
	return nil
}

// RemoveFile drops everything path contributed. Unknown paths are ignored.
func (w *Workspace) RemoveFile(path string) {
	abs, err := paths.Clean(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	_, existed := w.files[abs]
	delete(w.files, abs)
	w.mu.Unlock()

	if existed {
		w.logDebug("Removed %s", w.display(abs))
	}
}

// Files returns every known file, vanilla first, each layer sorted.
func (w *Workspace) Files() []string {
	entries := w.snapshot()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.path)
	}
	return out
}

// ParseErrors returns the files that failed to parse, keyed by path.
func (w *Workspace) ParseErrors() map[string]error {
	out := make(map[string]error)
	for _, e := range w.snapshot() {
		if e.parseErr != nil {
			out[e.path] = e.parseErr
		}
	}
	return out
}

// Stats summarizes the corpus.
type Stats struct {
	VanillaFiles int `json:"vanilla_files"`
	ModFiles     int `json:"mod_files"`
	LocaleFiles  int `json:"locale_files"`
	ParseErrors  int `json:"parse_errors"`
	Definitions  int `json:"definitions"`
	References   int `json:"references"`
	Translations int `json:"translations"`
}

// Stats counts files, definitions and references.
func (w *Workspace) Stats() Stats {
	var s Stats
	for _, e := range w.snapshot() {
		switch {
		case e.kind == KindLocale:
			s.LocaleFiles++
		case e.layer == model.LayerVanilla:
			s.VanillaFiles++
		default:
			s.ModFiles++
		}
		if e.parseErr != nil {
			s.ParseErrors++
		}
		if e.doc != nil {
			s.Definitions += len(e.doc.Definitions)
			s.References += len(e.doc.References)
		}
		s.Translations += len(e.translations)
	}
	return s
}

// snapshot returns the entries ordered vanilla first, then mod, each by path.
// Entries are immutable once stored, so the copy can be used without the lock.
func (w *Workspace) snapshot() []*fileEntry {
	w.mu.Lock()
	entries := make([]*fileEntry, 0, len(w.files))
	for _, e := range w.files {
		entries = append(entries, e)
	}
	w.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].layer != entries[j].layer {
			return entries[i].layer < entries[j].layer
		}
		return entries[i].path < entries[j].path
	})
	return entries
}

func (w *Workspace) display(path string) string {
	if paths.Within(w.opts.ModRoot, path) {
		return paths.Display(w.opts.ModRoot, path)
	}
	if w.opts.VanillaRoot != "" && paths.Within(w.opts.VanillaRoot, path) {
		return "vanilla:" + paths.Display(w.opts.VanillaRoot, path)
	}
	return path
}

// logDebug logs a debug message if debug mode is enabled.
func (w *Workspace) logDebug(format string, args ...any) {
	if w.opts.Debug {
		fmt.Fprintf(os.Stderr, "[oxc-workspace] "+format+"\n", args...)
	}
}
