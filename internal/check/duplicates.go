package check

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/index"
)

// DuplicateDiagnostics emits one warning per member of each group, listing
// the other members as evidence.
func DuplicateDiagnostics(groups []index.DuplicateGroup) []Diagnostic {
	var out []Diagnostic
	for _, g := range groups {
		for i, m := range g.Members {
			others := make([]string, 0, len(g.Members)-1)
			for j, o := range g.Members {
				if i == j {
					continue
				}
				others = append(others, fmt.Sprintf("%s:%d", o.File, o.Range.Start.Line))
			}
			msg := fmt.Sprintf("%s %q is defined more than once, also at %s", g.Type, g.Name, strings.Join(others, ", "))
			out = append(out, NewDiagnostic(m.File, m.Range, LevelWarning, CodeDuplicate, g.Type, msg))
		}
	}
	return out
}
