package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/model"
)

// mapScriptGroups: a map script command picking blocks by group needs the
// terrain to have at least one block in that group. Blocks without groups
// belong to group 0.
type mapScriptGroups struct{ base }

func newMapScriptGroups() Rule {
	return mapScriptGroups{base{
		name:      "mapscript-groups",
		generic:   []string{"terrains.mapBlocks[].groups"},
		relations: []string{"mapScripts.commands[].groups"},
	}}
}

func (r mapScriptGroups) Check(env *Env, ref model.Reference) []check.Diagnostic {
	terrain, ok := ref.Meta("terrain")
	if !ok {
		// The deployment picks the terrain at runtime.
		return nil
	}
	rec, ok := env.Record("terrains", terrain)
	if !ok {
		return nil
	}
	want, err := strconv.Atoi(strings.TrimSpace(ref.Key))
	if err != nil {
		return nil
	}

	for _, block := range rec.List("mapBlocks") {
		for _, g := range blockGroups(block) {
			if g == want {
				return nil
			}
		}
	}
	return []check.Diagnostic{r.warn(ref, fmt.Sprintf("terrain %q has no map block in group %d", terrain, want))}
}

func blockGroups(block any) []int {
	m, ok := block.(map[string]any)
	if !ok || m["groups"] == nil {
		return []int{0}
	}
	var raw []any
	switch v := m["groups"].(type) {
	case []any:
		raw = v
	default:
		raw = []any{v}
	}
	groups := make([]int, 0, len(raw))
	for _, g := range raw {
		s, ok := g.(string)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			groups = append(groups, n)
		}
	}
	return groups
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
