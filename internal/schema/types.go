// Package schema holds the path schema tables that drive reference checking.
package schema

import (
	"regexp"
	"sort"
	"strconv"
)

// Reserved tokens that may appear in a target list.
const (
	// TokenNumeric marks keys that are derived numeric ids. They resolve
	// through built-in id ranges or derived keys rather than direct lookup.
	TokenNumeric = "_numeric_"

	// TokenDummy hands existence and type checking to a logic validator.
	TokenDummy = "_dummy_"

	// TokenAny requires at least one possible key to resolve (default).
	TokenAny = "_any_"

	// TokenAll requires every possible key to resolve.
	TokenAll = "_all_"
)

// Targets is the list of definition types a reference may point at,
// possibly mixed with reserved tokens.
type Targets []string

// Has reports whether the list carries the given type or token.
func (t Targets) Has(item string) bool {
	for _, v := range t {
		if v == item {
			return true
		}
	}
	return false
}

// Types returns the concrete definition types, tokens stripped.
func (t Targets) Types() []string {
	var types []string
	for _, v := range t {
		if isToken(v) {
			continue
		}
		types = append(types, v)
	}
	return types
}

func isToken(v string) bool {
	switch v {
	case TokenNumeric, TokenDummy, TokenAny, TokenAll:
		return true
	}
	return false
}

// PatternRule is a schema entry keyed by a regular expression over paths.
// Rules are evaluated in order, only when no exact entry exists.
type PatternRule struct {
	Source  string
	Pattern *regexp.Regexp
	Targets Targets
}

// Range is an inclusive integer interval.
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// BuiltIn lists literal values and id ranges that are valid without any
// user-supplied definition.
type BuiltIn struct {
	Values []string `yaml:"values,omitempty" json:"values,omitempty"`
	Ranges []Range  `yaml:"ranges,omitempty" json:"ranges,omitempty"`
}

// Contains reports whether key is one of the literal values or falls in a range.
func (b BuiltIn) Contains(key string) bool {
	for _, v := range b.Values {
		if v == key {
			return true
		}
	}
	if len(b.Ranges) == 0 {
		return false
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return false
	}
	for _, r := range b.Ranges {
		if n >= r.Min && n <= r.Max {
			return true
		}
	}
	return false
}

// BuiltInRule is a built-in table entry keyed by a path pattern.
type BuiltInRule struct {
	Source  string
	Pattern *regexp.Regexp
	BuiltIn BuiltIn
}

// Schema is the immutable, compiled set of tables. Build one with New.
type Schema struct {
	links    map[string]Targets
	patterns []PatternRule

	ignored         map[string]struct{}
	ignoredPatterns []*regexp.Regexp

	stringPaths    map[string]struct{}
	stringPatterns []*regexp.Regexp

	builtins        map[string]BuiltIn
	builtinPatterns []BuiltInRule

	definitions map[string]string
	qualified   map[string]string
	keyRefs     map[string]struct{}
	metadata    map[string][]string

	duplicateIgnore         map[string]map[string]struct{}
	duplicateIgnorePatterns []*regexp.Regexp

	variants map[string]KeyGenerator
}

// Entry is a flattened view of one schema entry, used for dumps.
type Entry struct {
	Path    string  `json:"path"`
	Pattern bool    `json:"pattern,omitempty"`
	Targets Targets `json:"targets"`
}

// Entries returns every exact entry (sorted) followed by pattern rules in
// evaluation order.
func (s *Schema) Entries() []Entry {
	entries := make([]Entry, 0, len(s.links)+len(s.patterns))
	for path, targets := range s.links {
		entries = append(entries, Entry{Path: path, Targets: append(Targets(nil), targets...)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	for _, rule := range s.patterns {
		entries = append(entries, Entry{Path: rule.Source, Pattern: true, Targets: append(Targets(nil), rule.Targets...)})
	}
	return entries
}

// DefinitionTypes returns the top-level types that declare named entities.
func (s *Schema) DefinitionTypes() []string {
	types := make([]string, 0, len(s.definitions))
	for t := range s.definitions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
