package index

import (
	"testing"

	"github.com/aidanlsb/oxcheck/internal/model"
)

func at(file string, line int) model.SourceRange {
	pos := model.Position{Line: line, Column: 11}
	return model.SourceRange{Start: pos, End: pos}
}

func def(ruleType, name, file string, line int) model.Definition {
	return model.Definition{Type: ruleType, Name: name, File: file, Range: at(file, line)}
}

type ignoreTypes map[string]bool

func (f ignoreTypes) IgnoresDuplicate(ruleType, _ string) bool { return f[ruleType] }

func TestIndexAccumulates(t *testing.T) {
	x := New()
	x.Add(model.LayerVanilla, []model.Definition{def("items", "STR_RIFLE", "v.rul", 3)})
	x.Add(model.LayerMod, []model.Definition{
		def("items", "STR_RIFLE", "a.rul", 2),
		def("research", "STR_RIFLE", "a.rul", 9),
	})

	entries := x.Lookup("STR_RIFLE")
	if len(entries) != 3 {
		t.Fatalf("Lookup() returned %d entries, want 3", len(entries))
	}
	if entries[0].File != "v.rul" || entries[2].Type != "research" {
		t.Errorf("entries not in insertion order: %+v", entries)
	}
	if !x.Has("STR_RIFLE") || x.Has("STR_PISTOL") {
		t.Error("Has() mismatch")
	}
	if !x.HasType("STR_RIFLE", "crafts", "research") || x.HasType("STR_RIFLE", "crafts") {
		t.Error("HasType() mismatch")
	}
	if got := x.TypesOf("STR_RIFLE"); len(got) != 2 || got[0] != "items" || got[1] != "research" {
		t.Errorf("TypesOf() = %v", got)
	}
	if x.Len() != 3 {
		t.Errorf("Len() = %d", x.Len())
	}
}

func TestDuplicates(t *testing.T) {
	build := func(annotated bool) *Index {
		x := New()
		x.Add(model.LayerVanilla, []model.Definition{def("items", "STR_Y", "vanilla.rul", 1)})
		b := def("items", "STR_Y", "b.rul", 4)
		if annotated {
			b.Metadata = map[string]any{model.MetaIgnoreDuplicate: true}
		}
		x.Add(model.LayerMod, []model.Definition{def("items", "STR_Y", "a.rul", 2), b})
		x.Add(model.LayerMod, []model.Definition{def("items", "STR_Y", "c.rul", 7)})
		x.Add(model.LayerMod, []model.Definition{def("research", "STR_Y", "c.rul", 20)})
		return x
	}

	t.Run("mod members only", func(t *testing.T) {
		groups := build(false).Duplicates(nil)
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}
		g := groups[0]
		if g.Type != "items" || len(g.Members) != 3 {
			t.Errorf("group = %+v", g)
		}
		for _, m := range g.Members {
			if m.Layer != model.LayerMod {
				t.Errorf("vanilla member in group: %+v", m)
			}
		}
	})

	t.Run("annotation removes one member", func(t *testing.T) {
		groups := build(true).Duplicates(nil)
		if len(groups) != 1 || len(groups[0].Members) != 2 {
			t.Fatalf("groups = %+v", groups)
		}
		for _, m := range groups[0].Members {
			if m.File == "b.rul" {
				t.Error("annotated member still grouped")
			}
		}
	})

	t.Run("filter", func(t *testing.T) {
		if groups := build(false).Duplicates(ignoreTypes{"items": true}); len(groups) != 0 {
			t.Errorf("filtered type still reported: %+v", groups)
		}
	})

	t.Run("HasDuplicate", func(t *testing.T) {
		x := build(false)
		if !x.HasDuplicate(nil, "items", "STR_Y") {
			t.Error("HasDuplicate(items) = false")
		}
		if x.HasDuplicate(nil, "research", "STR_Y") {
			t.Error("HasDuplicate(research) = true")
		}
		if x.HasDuplicate(ignoreTypes{"items": true}, "items", "STR_Y") {
			t.Error("HasDuplicate ignores filter")
		}
	})
}

func TestSyntheticDefinitionsAreNotDuplicates(t *testing.T) {
	x := New()
	synthetic := def("extraSprites.Projectiles", "386", "a.rul", 5)
	synthetic.Metadata = map[string]any{model.MetaSynthetic: true}
	x.Add(model.LayerMod, []model.Definition{synthetic, def("extraSprites.Projectiles", "386", "a.rul", 8)})
	if groups := x.Duplicates(nil); len(groups) != 0 {
		t.Errorf("synthetic frame reported as duplicate: %+v", groups)
	}
}
