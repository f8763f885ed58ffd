// Package index aggregates the visible definitions of a corpus by name.
package index

import (
	"sort"

	"github.com/aidanlsb/oxcheck/internal/model"
)

// Entry is one occurrence of a name in the index.
type Entry struct {
	Type  string            `json:"type"`
	File  string            `json:"file"`
	Range model.SourceRange `json:"range"`
	Layer model.Layer       `json:"layer"`

	Definition model.Definition `json:"-"`
}

// Index maps a definition name to every occurrence, in insertion order.
// Duplicates accumulate; nothing is overwritten.
type Index struct {
	byName map[string][]Entry
	size   int
}

// New returns an empty index.
func New() *Index {
	return &Index{byName: make(map[string][]Entry)}
}

// Add appends the definitions of one file. Callers add files in a stable
// order and pass definitions already filtered for visibility.
func (x *Index) Add(layer model.Layer, defs []model.Definition) {
	for _, d := range defs {
		x.byName[d.Name] = append(x.byName[d.Name], Entry{
			Type:       d.Type,
			File:       d.File,
			Range:      d.Range,
			Layer:      layer,
			Definition: d,
		})
		x.size++
	}
}

// Lookup returns every occurrence of name.
func (x *Index) Lookup(name string) []Entry {
	return x.byName[name]
}

// Has reports whether name is defined at all.
func (x *Index) Has(name string) bool {
	return len(x.byName[name]) > 0
}

// HasType reports whether name is defined as one of the given types.
func (x *Index) HasType(name string, types ...string) bool {
	for _, e := range x.byName[name] {
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
	}
	return false
}

// TypesOf returns the distinct types name is defined as, sorted.
func (x *Index) TypesOf(name string) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, e := range x.byName[name] {
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		types = append(types, e.Type)
	}
	sort.Strings(types)
	return types
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return x.size
}

// Names returns every indexed name, sorted.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.byName))
	for name := range x.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
