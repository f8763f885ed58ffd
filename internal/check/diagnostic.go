// Package check validates references and duplicates and aggregates every
// diagnostic of a validation pass.
package check

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/model"
)

// Level indicates the severity of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText renders the level by name in JSON output.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel parses "error" or "warning" (case-insensitive, "warn" accepted).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warning", "warn":
		return LevelWarning, nil
	default:
		return LevelError, fmt.Errorf("unknown severity %q (expected error or warning)", s)
	}
}

// Diagnostic codes produced outside of logic rules.
const (
	CodeMissingReference = "missing-reference"
	CodeDuplicate        = "duplicate-definition"
)

// Diagnostic is one problem attached to a location in a rule file.
type Diagnostic struct {
	File    string            `json:"file"`
	Range   model.SourceRange `json:"range"`
	Level   Level             `json:"severity"`
	Code    string            `json:"code"`
	Path    string            `json:"path,omitempty"`
	Message string            `json:"message"`
}

// NewDiagnostic builds a diagnostic. A missing range is a scanner or schema
// bug, not a problem with the mod, so it panics.
func NewDiagnostic(file string, rng model.SourceRange, level Level, code, path, message string) Diagnostic {
	if !rng.Valid() {
		panic(fmt.Sprintf("check: diagnostic %q for %s has no source range", code, file))
	}
	return Diagnostic{
		File:    file,
		Range:   rng,
		Level:   level,
		Code:    code,
		Path:    path,
		Message: message,
	}
}

// At builds a diagnostic located at a reference.
func At(ref model.Reference, level Level, code, message string) Diagnostic {
	return NewDiagnostic(ref.File, ref.Range, level, code, ref.Path, message)
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%s: %s: %s", d.File, d.Range, d.Level, d.Message)
}

// MissingMessage is the text shown for references that cannot be resolved.
// Wrong-type references use it too.
func MissingMessage(key, path string) string {
	return fmt.Sprintf("%q does not exist (%s)", key, path)
}
