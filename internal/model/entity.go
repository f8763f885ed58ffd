package model

// Entity is one item of a top-level rule list, kept as plain values so logic
// rules can aggregate fields across files.
type Entity struct {
	// Type is the top-level key the entity was listed under.
	Type string
	Name string
	File string

	Range SourceRange

	// Fields holds the entity's mapping as string scalars, []any lists and
	// map[string]any mappings.
	Fields map[string]any
}
