// Package model defines the records shared by the scanner, index and validators.
package model

import "fmt"

// Position is a 1-indexed line/column location inside a rule file.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceRange spans the text of a scalar, key or node in a rule file.
type SourceRange struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Valid reports whether the range points somewhere in a file.
// The zero value is not valid.
func (r SourceRange) Valid() bool {
	return r.Start.Line > 0 && r.Start.Column > 0
}

// Before orders ranges by start position.
func (r SourceRange) Before(other SourceRange) bool {
	if r.Start.Line != other.Start.Line {
		return r.Start.Line < other.Start.Line
	}
	return r.Start.Column < other.Start.Column
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%d:%d", r.Start.Line, r.Start.Column)
}
