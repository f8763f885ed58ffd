package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/paths"
)

// Classify reports the layer and kind of path. When one root is nested in the
// other, the longer root wins. Paths under an ignored directory, or matching
// neither pattern, are not part of the workspace.
func (w *Workspace) Classify(path string) (model.Layer, FileKind, bool) {
	var (
		root  string
		layer model.Layer
	)
	if paths.Within(w.opts.ModRoot, path) {
		root, layer = w.opts.ModRoot, model.LayerMod
	}
	if w.opts.VanillaRoot != "" && paths.Within(w.opts.VanillaRoot, path) && len(w.opts.VanillaRoot) > len(root) {
		root, layer = w.opts.VanillaRoot, model.LayerVanilla
	}
	if root == "" || paths.HasIgnoredDir(root, path) {
		return 0, 0, false
	}

	rel, err := paths.Rel(root, path)
	if err != nil {
		return 0, 0, false
	}
	kind, ok := w.kindOf(rel)
	return layer, kind, ok
}

// kindOf matches a root-relative slash path against the discovery patterns.
// Locale files are checked first so a broad rules pattern cannot claim them.
func (w *Workspace) kindOf(rel string) (FileKind, bool) {
	if ok, _ := doublestar.Match(w.opts.LocalesGlob, rel); ok {
		return KindLocale, true
	}
	if ok, _ := doublestar.Match(w.opts.RulesGlob, rel); ok {
		return KindRules, true
	}
	return 0, false
}

// Discover lists every workspace file under both roots, vanilla first, each
// root sorted. A missing vanilla root is not an error.
func (w *Workspace) Discover() ([]string, error) {
	var out []string
	if w.opts.VanillaRoot != "" {
		found, err := w.discoverRoot(w.opts.VanillaRoot)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("discover vanilla: %w", err)
		}
		out = append(out, found...)
	}
	found, err := w.discoverRoot(w.opts.ModRoot)
	if err != nil {
		return nil, fmt.Errorf("discover mod: %w", err)
	}
	return append(out, found...), nil
}

func (w *Workspace) discoverRoot(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}
	fsys := os.DirFS(root)

	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range []string{w.opts.RulesGlob, w.opts.LocalesGlob} {
		err := doublestar.GlobWalk(fsys, pattern, func(rel string, d fs.DirEntry) error {
			if d.IsDir() {
				return nil
			}
			abs := filepath.Join(root, filepath.FromSlash(rel))
			if _, dup := seen[abs]; dup {
				return nil
			}
			seen[abs] = struct{}{}
			// A nested root owns its own files.
			if layer, _, ok := w.Classify(abs); !ok || (root == w.opts.ModRoot) != (layer == model.LayerMod) {
				return nil
			}
			out = append(out, abs)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load discovers and scans every file as one batch; the batch settles into a
// single validation pass once every file has been read. Unreadable files are
// logged and skipped. Report returns the result of the pass afterwards.
// A cancelled Load ends its operation without a pass.
func (w *Workspace) Load(ctx context.Context) (*LoadResult, error) {
	files, err := w.Discover()
	if err != nil {
		return nil, err
	}

	done := w.Begin(OpLoad)

	result := &LoadResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			w.abandon(OpLoad)
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			w.opts.Logf("skipping %s: %v", w.display(path), err)
			result.Skipped = append(result.Skipped, path)
			continue
		}
		if err := w.SetFile(path, data); err != nil {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		result.Loaded++
	}
	w.logDebug("Loaded %d files (%d skipped)", result.Loaded, len(result.Skipped))
	done()
	return result, nil
}

// LoadResult summarizes a Load.
type LoadResult struct {
	Loaded  int
	Skipped []string
}
