package schema

import (
	"fmt"
	"regexp"
)

// New builds an immutable Schema from the built-in tables plus the given
// contributions, applied in order.
func New(contributions ...*Contribution) (*Schema, error) {
	merged := Default()
	for _, c := range contributions {
		merged.Merge(c)
	}
	return Compile(merged)
}

// MustNew is New for tests and the built-in tables; it panics on error.
func MustNew(contributions ...*Contribution) *Schema {
	s, err := New(contributions...)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}

// Compile turns a merged contribution into a Schema without adding the
// built-in tables.
func Compile(c *Contribution) (*Schema, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	s := &Schema{
		links:           make(map[string]Targets, len(c.Links)),
		ignored:         toSet(c.Ignore),
		stringPaths:     toSet(c.Strings),
		builtins:        make(map[string]BuiltIn, len(c.BuiltIns)),
		definitions:     make(map[string]string, len(c.Definitions)),
		qualified:       make(map[string]string, len(c.Qualified)),
		keyRefs:         toSet(c.KeyReferences),
		metadata:        make(map[string][]string, len(c.Metadata)),
		duplicateIgnore: make(map[string]map[string]struct{}, len(c.DuplicateIgnore)),
		variants:        defaultVariants(),
	}

	for path, targets := range c.Links {
		s.links[path] = append(Targets(nil), targets...)
	}
	for _, p := range c.Patterns {
		s.patterns = append(s.patterns, PatternRule{
			Source:  p.Pattern,
			Pattern: regexp.MustCompile(p.Pattern),
			Targets: append(Targets(nil), p.Targets...),
		})
	}

	s.ignoredPatterns = compileAll(c.IgnorePatterns)
	s.stringPatterns = compileAll(c.StringPatterns)
	s.duplicateIgnorePatterns = compileAll(c.DuplicateIgnorePatterns)

	for path, b := range c.BuiltIns {
		s.builtins[path] = b
	}
	for _, p := range c.BuiltInPatterns {
		s.builtinPatterns = append(s.builtinPatterns, BuiltInRule{
			Source:  p.Pattern,
			Pattern: regexp.MustCompile(p.Pattern),
			BuiltIn: BuiltIn{Values: p.Values, Ranges: p.Ranges},
		})
	}

	for k, v := range c.Definitions {
		s.definitions[k] = v
	}
	for k, v := range c.Qualified {
		s.qualified[k] = v
	}
	for k, v := range c.Metadata {
		s.metadata[k] = append([]string(nil), v...)
	}
	for ruleType, names := range c.DuplicateIgnore {
		s.duplicateIgnore[ruleType] = toSet(names)
	}

	return s, nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// compileAll expects sources already checked by Validate.
func compileAll(sources []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		out = append(out, regexp.MustCompile(src))
	}
	return out
}
