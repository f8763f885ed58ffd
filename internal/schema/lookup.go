package schema

// Lookup returns the target lists that apply to path. An exact entry wins;
// pattern rules are consulted only when there is none, and every matching
// rule is returned in order.
func (s *Schema) Lookup(path string) []Targets {
	if targets, ok := s.links[path]; ok {
		return []Targets{targets}
	}
	var matched []Targets
	for _, rule := range s.patterns {
		if rule.Pattern.MatchString(path) {
			matched = append(matched, rule.Targets)
		}
	}
	return matched
}

// HasEntry reports whether any exact or pattern entry covers path.
func (s *Schema) HasEntry(path string) bool {
	return len(s.Lookup(path)) > 0
}

// IsDummy reports whether a logic validator owns path.
func (s *Schema) IsDummy(path string) bool {
	for _, targets := range s.Lookup(path) {
		if targets.Has(TokenDummy) {
			return true
		}
	}
	return false
}

// IsIgnored reports whether references at path are never checked.
func (s *Schema) IsIgnored(path string) bool {
	if _, ok := s.ignored[path]; ok {
		return true
	}
	for _, re := range s.ignoredPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsString reports whether path holds free text that is never resolved.
func (s *Schema) IsString(path string) bool {
	if _, ok := s.stringPaths[path]; ok {
		return true
	}
	for _, re := range s.stringPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// IsBuiltIn reports whether key is a literal built-in value for path.
func (s *Schema) IsBuiltIn(path, key string) bool {
	if b, ok := s.builtins[path]; ok && b.Contains(key) {
		return true
	}
	for _, rule := range s.builtinPatterns {
		if rule.Pattern.MatchString(path) && rule.BuiltIn.Contains(key) {
			return true
		}
	}
	return false
}

// DefinitionField returns the field naming entities of a top-level type.
func (s *Schema) DefinitionField(ruleType string) (string, bool) {
	field, ok := s.definitions[ruleType]
	return field, ok
}

// Qualifier returns the field whose value is appended to the path prefix of
// a top-level type's entries (e.g. extraSprites entries become
// "extraSprites.BIGOBS.PCK").
func (s *Schema) Qualifier(ruleType string) (string, bool) {
	field, ok := s.qualified[ruleType]
	return field, ok
}

// IsKeyReference reports whether the map keys found at path are references.
func (s *Schema) IsKeyReference(path string) bool {
	_, ok := s.keyRefs[path]
	return ok
}

// MetadataFields returns the sibling fields captured for references at path.
// The field "*" captures every scalar of the enclosing list.
func (s *Schema) MetadataFields(path string) []string {
	return s.metadata[path]
}

// IgnoresDuplicate reports whether duplicates of (ruleType, name) are expected.
func (s *Schema) IgnoresDuplicate(ruleType, name string) bool {
	if names, ok := s.duplicateIgnore[ruleType]; ok {
		if _, ok := names[name]; ok {
			return true
		}
	}
	for _, re := range s.duplicateIgnorePatterns {
		if re.MatchString(ruleType) {
			return true
		}
	}
	return false
}

// Variants returns the possible-key generator registered for path.
func (s *Schema) Variants(path string) (KeyGenerator, bool) {
	gen, ok := s.variants[path]
	return gen, ok
}
