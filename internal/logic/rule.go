// Package logic hosts the pluggable cross-entity rules. Each rule declares
// the fields it aggregates per entity and the logic-owned paths that trigger
// it; a Pass collects the whole corpus before any rule is evaluated.
package logic

import (
	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/index"
	"github.com/aidanlsb/oxcheck/internal/model"
)

// Rule is one cross-entity invariant.
type Rule interface {
	// Name is the stable identifier, also used as the diagnostic code.
	Name() string

	// GenericPaths lists "<type>.<field>" paths aggregated per entity.
	// "[]" descends into lists, e.g. "terrains.mapBlocks[].groups".
	GenericPaths() []string

	// Owns reports whether references at a logic-owned path trigger the rule.
	Owns(path string) bool

	// Check evaluates one stored occurrence once the corpus is collected.
	// Diagnostics must point at ref, not at the entity being checked.
	Check(env *Env, ref model.Reference) []check.Diagnostic
}

// Env is what a rule can see while checking.
type Env struct {
	records map[string]map[string]Record
	index   *index.Index
}

// Record returns the aggregated record of an entity, if any file mentioned
// one of the rule's generic fields for it.
func (e *Env) Record(ruleType, name string) (Record, bool) {
	r, ok := e.records[ruleType][name]
	return r, ok
}

// Defined reports whether name is a visible definition of one of the types.
func (e *Env) Defined(name string, types ...string) bool {
	if e.index == nil {
		return false
	}
	return e.index.HasType(name, types...)
}

// base carries the declarations shared by most rules.
type base struct {
	name      string
	generic   []string
	relations []string
}

func (b base) Name() string { return b.name }

func (b base) GenericPaths() []string { return b.generic }

func (b base) Owns(path string) bool {
	for _, p := range b.relations {
		if p == path {
			return true
		}
	}
	return false
}

func (b base) fail(ref model.Reference, message string) check.Diagnostic {
	return check.At(ref, check.LevelError, b.name, message)
}

func (b base) warn(ref model.Reference, message string) check.Diagnostic {
	return check.At(ref, check.LevelWarning, b.name, message)
}

// Default returns the built-in rules.
func Default() []Rule {
	return []Rule{
		newDeploymentData(),
		newCraftWeaponLauncher(),
		newGlobeMeridian(),
		newAutoShots(),
		newMapScriptGroups(),
		newArmorCorpses(),
		newSoldierStats(),
		newCompatibleAmmo(),
		newWaveTrajectory(),
	}
}
