package index

import (
	"sort"

	"github.com/aidanlsb/oxcheck/internal/model"
)

// DuplicateFilter decides which (type, name) pairs are expected to repeat.
// *schema.Schema satisfies it.
type DuplicateFilter interface {
	IgnoresDuplicate(ruleType, name string) bool
}

// DuplicateGroup is a (type, name) pair defined more than once in the mod.
type DuplicateGroup struct {
	Type    string
	Name    string
	Members []Entry
}

// Duplicates returns every group of mod-layer definitions sharing a type and
// name. Vanilla entries never take part; neither do synthetic definitions,
// definitions annotated to ignore duplicates, or pairs the filter excludes.
// Groups are ordered by their first member's location.
func (x *Index) Duplicates(filter DuplicateFilter) []DuplicateGroup {
	type key struct{ ruleType, name string }
	groups := make(map[key][]Entry)

	for name, entries := range x.byName {
		for _, e := range entries {
			if e.Layer != model.LayerMod {
				continue
			}
			if e.Definition.IgnoresDuplicate() || e.Definition.Synthetic() {
				continue
			}
			if filter != nil && filter.IgnoresDuplicate(e.Type, name) {
				continue
			}
			k := key{e.Type, name}
			groups[k] = append(groups[k], e)
		}
	}

	var out []DuplicateGroup
	for k, members := range groups {
		if len(members) < 2 {
			continue
		}
		sortEntries(members)
		out = append(out, DuplicateGroup{Type: k.ruleType, Name: k.name, Members: members})
	}
	sort.Slice(out, func(i, j int) bool {
		return entryLess(out[i].Members[0], out[j].Members[0])
	})
	return out
}

// HasDuplicate reports whether (ruleType, name) is defined more than once in
// the mod layer, under the same exclusions as Duplicates.
func (x *Index) HasDuplicate(filter DuplicateFilter, ruleType, name string) bool {
	if filter != nil && filter.IgnoresDuplicate(ruleType, name) {
		return false
	}
	count := 0
	for _, e := range x.byName[name] {
		if e.Type != ruleType || e.Layer != model.LayerMod {
			continue
		}
		if e.Definition.IgnoresDuplicate() || e.Definition.Synthetic() {
			continue
		}
		count++
	}
	return count > 1
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool { return entryLess(entries[i], entries[j]) })
}

func entryLess(a, b Entry) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	return a.Range.Before(b.Range)
}
