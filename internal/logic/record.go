package logic

import (
	"strconv"
	"strings"
)

// Record is the aggregated, partial view of one entity: only the fields a
// rule asked for, merged across every file that mentions the entity.
type Record map[string]any

// Get returns the value at a dotted field path, or nil.
func (r Record) Get(path string) any {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[seg]
	}
	return cur
}

// Has reports whether a non-nil value exists at path.
func (r Record) Has(path string) bool {
	return r.Get(path) != nil
}

// String returns the scalar at path.
func (r Record) String(path string) (string, bool) {
	s, ok := r.Get(path).(string)
	return s, ok
}

// Int returns the scalar at path parsed as an integer.
func (r Record) Int(path string) (int, bool) {
	s, ok := r.String(path)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Float returns the scalar at path parsed as a number.
func (r Record) Float(path string) (float64, bool) {
	s, ok := r.String(path)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// List returns the list at path. A scalar is treated as a one-item list.
func (r Record) List(path string) []any {
	switch v := r.Get(path).(type) {
	case []any:
		return v
	case nil:
		return nil
	default:
		return []any{v}
	}
}
