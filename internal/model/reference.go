package model

// Reference is an occurrence of a value that is expected to name some Definition.
type Reference struct {
	// Path is the logical location of the field, e.g. "items.ammo[].compatibleAmmo".
	Path string `json:"path"`

	// Key is the scalar found at Path, rendered as a string.
	Key string `json:"key"`

	File  string      `json:"file"`
	Range SourceRange `json:"range"`

	// Owner is the name of the enclosing top-level entity. Empty for
	// sections that are not lists of entities.
	Owner string `json:"owner,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Meta returns a metadata value rendered as a string.
func (r Reference) Meta(key string) (string, bool) {
	v, ok := r.Metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Siblings returns the scalars of the list this reference was found in.
func (r Reference) Siblings() []string {
	v, _ := r.Metadata[MetaSiblings].([]string)
	return v
}

// Index returns the position of the reference inside its list, or -1.
func (r Reference) Index() int {
	v, ok := r.Metadata[MetaIndex].(int)
	if !ok {
		return -1
	}
	return v
}
