package logic

import (
	"fmt"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/model"
)

// armorCorpses: a unit's armor must exist, and a large armor drops one
// corpse item per tile.
type armorCorpses struct{ base }

func newArmorCorpses() Rule {
	return armorCorpses{base{
		name:      "armor-corpses",
		generic:   []string{"armors.size", "armors.corpseBattle"},
		relations: []string{"units.armor"},
	}}
}

func (r armorCorpses) Check(env *Env, ref model.Reference) []check.Diagnostic {
	if !env.Defined(ref.Key, "armors") {
		return []check.Diagnostic{r.fail(ref, fmt.Sprintf("armor %q does not exist", ref.Key))}
	}
	rec, _ := env.Record("armors", ref.Key)
	corpses := rec.List("corpseBattle")
	if len(corpses) == 0 {
		return nil
	}
	size, ok := rec.Int("size")
	if !ok || size < 1 {
		size = 1
	}
	if need := size * size; len(corpses) < need {
		return []check.Diagnostic{r.fail(ref, fmt.Sprintf("armor %q has size %d and needs %d corpseBattle items, found %d", ref.Key, size, need, len(corpses)))}
	}
	return nil
}

const minStatsPrefix = "soldiers.minStats."

// soldierStats: a soldier's starting minimum cannot exceed its cap.
type soldierStats struct{ base }

func newSoldierStats() Rule {
	return soldierStats{base{
		name:    "soldier-stats",
		generic: []string{"soldiers.maxStats"},
	}}
}

func (r soldierStats) Owns(path string) bool {
	return strings.HasPrefix(path, minStatsPrefix) && !strings.Contains(path[len(minStatsPrefix):], ".")
}

func (r soldierStats) Check(env *Env, ref model.Reference) []check.Diagnostic {
	stat := strings.TrimPrefix(ref.Path, minStatsPrefix)
	rec, ok := env.Record("soldiers", ref.Owner)
	if !ok {
		return nil
	}
	hi, ok := rec.Float("maxStats." + stat)
	if !ok {
		return nil
	}
	lo, err := parseNumber(ref.Key)
	if err != nil || lo <= hi {
		return nil
	}
	maxText, _ := rec.String("maxStats." + stat)
	return []check.Diagnostic{r.warn(ref, fmt.Sprintf("minStats.%s (%s) is above maxStats.%s (%s)", stat, ref.Key, stat, maxText))}
}
