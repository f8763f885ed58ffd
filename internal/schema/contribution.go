package schema

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Contribution is an additive set of table entries. The built-in tables are
// a Contribution too, so user additions go through the same merge.
type Contribution struct {
	Links    map[string][]string `yaml:"links,omitempty"`
	Patterns []PatternSpec       `yaml:"patterns,omitempty"`

	Ignore         []string `yaml:"ignore,omitempty"`
	IgnorePatterns []string `yaml:"ignore_patterns,omitempty"`

	Strings        []string `yaml:"strings,omitempty"`
	StringPatterns []string `yaml:"string_patterns,omitempty"`

	BuiltIns        map[string]BuiltIn `yaml:"builtins,omitempty"`
	BuiltInPatterns []BuiltInSpec      `yaml:"builtin_patterns,omitempty"`

	// Definitions maps a top-level type to the field naming its entities.
	Definitions map[string]string `yaml:"definitions,omitempty"`

	// Qualified maps a top-level type to the field appended to its path prefix.
	Qualified map[string]string `yaml:"qualified,omitempty"`

	// KeyReferences lists paths whose map keys are references.
	KeyReferences []string `yaml:"key_references,omitempty"`

	// Metadata maps a path to the sibling fields captured with its references.
	Metadata map[string][]string `yaml:"metadata,omitempty"`

	DuplicateIgnore         map[string][]string `yaml:"duplicate_ignore,omitempty"`
	DuplicateIgnorePatterns []string            `yaml:"duplicate_ignore_patterns,omitempty"`
}

// PatternSpec is the serialized form of a PatternRule.
type PatternSpec struct {
	Pattern string   `yaml:"pattern"`
	Targets []string `yaml:"targets"`
}

// BuiltInSpec is the serialized form of a BuiltInRule.
type BuiltInSpec struct {
	Pattern string   `yaml:"pattern"`
	Values  []string `yaml:"values,omitempty"`
	Ranges  []Range  `yaml:"ranges,omitempty"`
}

// LoadContribution reads a YAML contribution document.
func LoadContribution(path string) (*Contribution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema contribution %s: %w", path, err)
	}
	var c Contribution
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse schema contribution %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schema contribution %s: %w", path, err)
	}
	return &c, nil
}

// Validate checks that every pattern compiles.
func (c *Contribution) Validate() error {
	check := func(kind, src string) error {
		if _, err := regexp.Compile(src); err != nil {
			return fmt.Errorf("%s %q: %w", kind, src, err)
		}
		return nil
	}
	for _, p := range c.Patterns {
		if err := check("pattern", p.Pattern); err != nil {
			return err
		}
	}
	for _, p := range c.BuiltInPatterns {
		if err := check("builtin pattern", p.Pattern); err != nil {
			return err
		}
	}
	for _, groups := range [][]string{c.IgnorePatterns, c.StringPatterns, c.DuplicateIgnorePatterns} {
		for _, src := range groups {
			if err := check("pattern", src); err != nil {
				return err
			}
		}
	}
	return nil
}

// Merge folds other into c. Entries are keyed by their path (or pattern
// source); a key present in both takes the value from other. Nothing is
// ever removed.
func (c *Contribution) Merge(other *Contribution) {
	if other == nil {
		return
	}

	c.Links = mergeMap(c.Links, other.Links)
	c.BuiltIns = mergeMap(c.BuiltIns, other.BuiltIns)
	c.Definitions = mergeMap(c.Definitions, other.Definitions)
	c.Qualified = mergeMap(c.Qualified, other.Qualified)
	c.Metadata = mergeMap(c.Metadata, other.Metadata)
	c.DuplicateIgnore = mergeMap(c.DuplicateIgnore, other.DuplicateIgnore)

	c.Ignore = union(c.Ignore, other.Ignore)
	c.IgnorePatterns = union(c.IgnorePatterns, other.IgnorePatterns)
	c.Strings = union(c.Strings, other.Strings)
	c.StringPatterns = union(c.StringPatterns, other.StringPatterns)
	c.KeyReferences = union(c.KeyReferences, other.KeyReferences)
	c.DuplicateIgnorePatterns = union(c.DuplicateIgnorePatterns, other.DuplicateIgnorePatterns)

	for _, p := range other.Patterns {
		replaced := false
		for i := range c.Patterns {
			if c.Patterns[i].Pattern == p.Pattern {
				c.Patterns[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			c.Patterns = append(c.Patterns, p)
		}
	}

	for _, p := range other.BuiltInPatterns {
		replaced := false
		for i := range c.BuiltInPatterns {
			if c.BuiltInPatterns[i].Pattern == p.Pattern {
				c.BuiltInPatterns[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			c.BuiltInPatterns = append(c.BuiltInPatterns, p)
		}
	}
}

func mergeMap[V any](dst, src map[string]V) map[string]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]V, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func union(dst, src []string) []string {
	if len(src) == 0 {
		return dst
	}
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range src {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
