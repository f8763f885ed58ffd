package check

import (
	"strconv"

	"github.com/aidanlsb/oxcheck/internal/hierarchy"
	"github.com/aidanlsb/oxcheck/internal/index"
	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/schema"
)

// Validator checks references for existence and type compatibility against
// one snapshot of the definition index.
type Validator struct {
	schema *schema.Schema
	index  *index.Index
}

// NewValidator creates a validator over a visible index.
func NewValidator(s *schema.Schema, idx *index.Index) *Validator {
	return &Validator{schema: s, index: idx}
}

// Skipped reports whether a reference is never checked generically: ignored
// and delete paths, free text, built-in literals and logic-owned paths.
func (v *Validator) Skipped(ref model.Reference) bool {
	if hierarchy.IsDeletionPath(ref.Path) || v.schema.IsIgnored(ref.Path) {
		return true
	}
	if v.schema.IsString(ref.Path) {
		return true
	}
	if v.schema.IsBuiltIn(ref.Path, ref.Key) {
		return true
	}
	return v.schema.IsDummy(ref.Path)
}

// Validate returns a diagnostic when ref does not resolve.
func (v *Validator) Validate(ref model.Reference) (Diagnostic, bool) {
	if v.Skipped(ref) {
		return Diagnostic{}, false
	}

	entries := v.schema.Lookup(ref.Path)
	if len(entries) == 0 {
		// Without a schema entry numbers and booleans are plain values.
		if isLiteral(ref.Key) || v.index.Has(ref.Key) {
			return Diagnostic{}, false
		}
		return v.missing(ref), true
	}

	if v.resolves(ref, entries) {
		return Diagnostic{}, false
	}
	return v.missing(ref), true
}

// ValidateAll validates refs in order.
func (v *Validator) ValidateAll(refs []model.Reference) []Diagnostic {
	var out []Diagnostic
	for _, ref := range refs {
		if d, ok := v.Validate(ref); ok {
			out = append(out, d)
		}
	}
	return out
}

func (v *Validator) resolves(ref model.Reference, entries []schema.Targets) bool {
	requireAll := false
	for _, targets := range entries {
		if targets.Has(schema.TokenAll) {
			requireAll = true
		}
	}

	candidates := []schema.Candidate{{Path: ref.Path, Key: ref.Key}}
	if gen, ok := v.schema.Variants(ref.Path); ok {
		candidates = gen(ref.Path, ref.Key)
	}
	if len(candidates) == 0 {
		return false
	}

	for _, c := range candidates {
		ok := v.candidateResolves(c, entries)
		if requireAll && !ok {
			return false
		}
		if !requireAll && ok {
			return true
		}
	}
	return requireAll
}

// candidateResolves checks one possible key. Built-in literals of the
// candidate's path resolve without a definition. Derived candidates carry
// their own target types; otherwise every matching entry must accept one of
// the types the key is defined as.
func (v *Validator) candidateResolves(c schema.Candidate, entries []schema.Targets) bool {
	if v.schema.IsBuiltIn(c.Path, c.Key) {
		return true
	}
	if !v.index.Has(c.Key) {
		return false
	}
	if c.Types != nil {
		return v.index.HasType(c.Key, c.Types...)
	}
	for _, targets := range entries {
		types := targets.Types()
		if len(types) == 0 {
			continue
		}
		if !v.index.HasType(c.Key, types...) {
			return false
		}
	}
	return true
}

func (v *Validator) missing(ref model.Reference) Diagnostic {
	return At(ref, LevelError, CodeMissingReference, MissingMessage(ref.Key, ref.Path))
}

func isLiteral(key string) bool {
	if key == "true" || key == "false" {
		return true
	}
	_, err := strconv.ParseFloat(key, 64)
	return err == nil
}
