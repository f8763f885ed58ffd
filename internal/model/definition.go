package model

// Metadata keys set by the scanner.
const (
	// MetaIgnoreDuplicate marks a definition annotated with an inline
	// "# ignoreDuplicate" comment.
	MetaIgnoreDuplicate = "ignoreDuplicate"

	// MetaSynthetic marks definitions implied by another entry rather than
	// written out in the file (e.g. extra projectile frames).
	MetaSynthetic = "synthetic"

	// MetaIndex holds the position of a scalar inside its list.
	MetaIndex = "index"

	// MetaSiblings holds every scalar of the list a reference belongs to.
	MetaSiblings = "siblings"
)

// Definition is a named, typed entity declared in a rule file.
// It is uniquely identified by (Type, Name, File).
type Definition struct {
	// Type is the rule type, usually the top-level key (e.g. "items").
	Type string `json:"type"`

	// Name is the value of the field naming the entity (e.g. "STR_RIFLE").
	Name string `json:"name"`

	// File is the absolute path of the file declaring the entity.
	File string `json:"file"`

	// Range covers the naming scalar.
	Range SourceRange `json:"range"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// IgnoresDuplicate reports whether the definition opted out of duplicate checks.
func (d Definition) IgnoresDuplicate() bool {
	v, _ := d.Metadata[MetaIgnoreDuplicate].(bool)
	return v
}

// Synthetic reports whether the definition was implied rather than written.
func (d Definition) Synthetic() bool {
	v, _ := d.Metadata[MetaSynthetic].(bool)
	return v
}
