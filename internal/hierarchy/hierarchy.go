// Package hierarchy applies the mod layer's delete directives to the vanilla
// layer and answers visibility questions.
package hierarchy

import (
	"regexp"
	"sort"

	"github.com/aidanlsb/oxcheck/internal/model"
)

var deletePath = regexp.MustCompile(`^([^.\[\]]+)\.delete$`)

// Deletion is a (type, name) pair hidden from the vanilla layer.
type Deletion struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// File is one scanned file with its layer.
type File struct {
	Path        string
	Layer       model.Layer
	Definitions []model.Definition
	References  []model.Reference
}

// Resolver holds the deletions collected from one snapshot of the corpus.
// Build a new one on every refresh; it is never patched in place.
type Resolver struct {
	deleted map[Deletion]struct{}
}

// Resolve collects the delete directives of every mod-layer file.
func Resolve(files []File) *Resolver {
	r := &Resolver{deleted: make(map[Deletion]struct{})}
	for _, f := range files {
		if f.Layer != model.LayerMod {
			continue
		}
		for _, ref := range f.References {
			m := deletePath.FindStringSubmatch(ref.Path)
			if m == nil {
				continue
			}
			r.deleted[Deletion{Type: m[1], Name: ref.Key}] = struct{}{}
		}
	}
	return r
}

// IsDeletionPath reports whether references at path are delete directives.
func IsDeletionPath(path string) bool {
	return deletePath.MatchString(path)
}

// Deleted reports whether (ruleType, name) is hidden from the vanilla layer.
func (r *Resolver) Deleted(ruleType, name string) bool {
	_, ok := r.deleted[Deletion{Type: ruleType, Name: name}]
	return ok
}

// IsVisible reports whether a definition declared in layer is visible.
// Mod definitions are always visible; deletions only reach vanilla.
func (r *Resolver) IsVisible(layer model.Layer, ruleType, name string) bool {
	if layer != model.LayerVanilla {
		return true
	}
	return !r.Deleted(ruleType, name)
}

// Visible filters the definitions of one file. The input slice is not
// modified.
func (r *Resolver) Visible(layer model.Layer, defs []model.Definition) []model.Definition {
	if layer != model.LayerVanilla || len(r.deleted) == 0 {
		return defs
	}
	out := make([]model.Definition, 0, len(defs))
	for _, d := range defs {
		if r.Deleted(d.Type, d.Name) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Deletions returns the de-duplicated deletions, sorted.
func (r *Resolver) Deletions() []Deletion {
	out := make([]Deletion, 0, len(r.deleted))
	for d := range r.deleted {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}
