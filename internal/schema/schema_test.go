package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupPrecedence(t *testing.T) {
	s, err := Compile(&Contribution{
		Links: map[string][]string{
			"items.ammo": {"items"},
		},
		Patterns: []PatternSpec{
			{Pattern: `^items\.`, Targets: []string{"research"}},
			{Pattern: `\.ammo$`, Targets: []string{"units"}},
		},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	t.Run("exact entry wins", func(t *testing.T) {
		got := s.Lookup("items.ammo")
		if len(got) != 1 || !got[0].Has("items") {
			t.Errorf("Lookup(items.ammo) = %v, want [[items]]", got)
		}
	})

	t.Run("all matching patterns in order", func(t *testing.T) {
		got := s.Lookup("items.other.ammo")
		if len(got) != 2 {
			t.Fatalf("Lookup() returned %d entries, want 2", len(got))
		}
		if !got[0].Has("research") || !got[1].Has("units") {
			t.Errorf("Lookup() = %v, want research then units", got)
		}
	})

	t.Run("no entry", func(t *testing.T) {
		if got := s.Lookup("crafts.sprite"); len(got) != 0 {
			t.Errorf("Lookup(crafts.sprite) = %v, want none", got)
		}
		if s.HasEntry("crafts.sprite") {
			t.Error("HasEntry(crafts.sprite) = true, want false")
		}
	})
}

func TestTargetsTypes(t *testing.T) {
	targets := Targets{"extraSprites.INTICON.PCK", TokenNumeric, "extraSprites.BASEBITS.PCK", TokenAll}
	types := targets.Types()
	if len(types) != 2 || types[0] != "extraSprites.INTICON.PCK" || types[1] != "extraSprites.BASEBITS.PCK" {
		t.Errorf("Types() = %v", types)
	}
	if !targets.Has(TokenAll) {
		t.Error("Has(_all_) = false")
	}
}

func TestDefaultTables(t *testing.T) {
	s := MustNew()

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"craft weapon launcher is dummy", s.IsDummy("craftWeapons.launcher"), true},
		{"items.requires is not dummy", s.IsDummy("items.requires"), false},
		{"min stats pattern is dummy", s.IsDummy("soldiers.minStats.tu"), true},
		{"delete paths are ignored", s.IsIgnored("items.delete"), true},
		{"globe is ignored", s.IsIgnored("globe.textures[].id"), true},
		{"names are strings", s.IsString("alienDeployments.briefing.name"), true},
		{"sprite file paths are strings", s.IsString("extraSprites.BIGOBS.PCK.files.57"), true},
		{"vanilla bigob frame is builtin", s.IsBuiltIn("items.bigSprite", "12"), true},
		{"modded bigob frame is not builtin", s.IsBuiltIn("items.bigSprite", "57"), false},
		{"music pattern builtin", s.IsBuiltIn("alienDeployments.briefing.music", "GMTACTIC"), true},
		{"manufacture items are key references", s.IsKeyReference("manufacture.requiredItems"), true},
		{"vanilla sheet duplicates are expected", s.IgnoresDuplicate("extraSprites", "BIGOBS.PCK"), true},
		{"modded sheet duplicates are not", s.IgnoresDuplicate("extraSprites", "MYSHEET.PCK"), false},
		{"music duplicates pattern", s.IgnoresDuplicate("musics", "GMGEO1"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if field, ok := s.DefinitionField("research"); !ok || field != "name" {
		t.Errorf("DefinitionField(research) = %q, %v", field, ok)
	}
	if field, ok := s.Qualifier("extraSprites"); !ok || field != "type" {
		t.Errorf("Qualifier(extraSprites) = %q, %v", field, ok)
	}
	if fields := s.MetadataFields("mapScripts.commands[].groups"); len(fields) != 1 || fields[0] != "terrain" {
		t.Errorf("MetadataFields() = %v", fields)
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	base := &Contribution{
		Links:    map[string][]string{"items.requires": {"research"}, "units.race": {"alienRaces"}},
		Ignore:   []string{"a.b"},
		Patterns: []PatternSpec{{Pattern: `^x$`, Targets: []string{"items"}}},
	}
	base.Merge(&Contribution{
		Links:    map[string][]string{"items.requires": {"research", "items"}},
		Ignore:   []string{"a.b", "c.d"},
		Patterns: []PatternSpec{{Pattern: `^x$`, Targets: []string{"units"}}, {Pattern: `^y$`, Targets: []string{"crafts"}}},
	})

	if got := base.Links["items.requires"]; len(got) != 2 || got[1] != "items" {
		t.Errorf("Links[items.requires] = %v, want overridden", got)
	}
	if _, ok := base.Links["units.race"]; !ok {
		t.Error("merge removed an untouched entry")
	}
	if len(base.Ignore) != 2 {
		t.Errorf("Ignore = %v, want union of 2", base.Ignore)
	}
	if len(base.Patterns) != 2 || base.Patterns[0].Targets[0] != "units" {
		t.Errorf("Patterns = %+v, want ^x replaced in place and ^y appended", base.Patterns)
	}
}

func TestNewDoesNotMutateDefaults(t *testing.T) {
	_ = MustNew(&Contribution{Links: map[string][]string{"items.requires": {"items"}}})
	s := MustNew()
	got := s.Lookup("items.requires")
	if len(got) != 1 || !got[0].Has("research") {
		t.Errorf("Lookup(items.requires) = %v after unrelated build, want research", got)
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	_, err := New(&Contribution{IgnorePatterns: []string{"("}})
	if err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestLoadContribution(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	content := `links:
  items.customRef: [items]
builtins:
  items.customRef:
    values: [NONE]
    ranges:
      - {min: 0, max: 3}
ignore_patterns:
  - '^myMod\.'
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadContribution(path)
	if err != nil {
		t.Fatalf("LoadContribution() error = %v", err)
	}
	s := MustNew(c)

	if !s.HasEntry("items.customRef") {
		t.Error("contributed link missing")
	}
	if !s.IsBuiltIn("items.customRef", "NONE") || !s.IsBuiltIn("items.customRef", "2") {
		t.Error("contributed builtins missing")
	}
	if s.IsBuiltIn("items.customRef", "4") {
		t.Error("4 is outside the contributed range")
	}
	if !s.IsIgnored("myMod.anything") {
		t.Error("contributed ignore pattern missing")
	}
	if !s.HasEntry("items.requires") {
		t.Error("default tables lost after contribution")
	}
}

func TestVariants(t *testing.T) {
	s := MustNew()

	gen, ok := s.Variants("ufopaedia.image_id")
	if !ok {
		t.Fatal("no variants for ufopaedia.image_id")
	}
	got := gen("ufopaedia.image_id", "MY_IMAGE")
	if len(got) != 2 || got[1].Key != "MY_IMAGE.SPK" {
		t.Errorf("SPK variants = %+v", got)
	}
	if got := gen("ufopaedia.image_id", "MY_IMAGE.spk"); len(got) != 1 {
		t.Errorf("suffixed key expanded to %+v, want itself only", got)
	}

	gen, ok = s.Variants("craftWeapons.sprite")
	if !ok {
		t.Fatal("no variants for craftWeapons.sprite")
	}
	got = gen("craftWeapons.sprite", "3")
	if len(got) != 2 {
		t.Fatalf("offset variants = %+v", got)
	}
	if got[0].Key != "8" || got[0].Path != "extraSprites.INTICON.PCK" {
		t.Errorf("INTICON candidate = %+v, want key 8", got[0])
	}
	if got[1].Key != "51" || got[1].Path != "extraSprites.BASEBITS.PCK" {
		t.Errorf("BASEBITS candidate = %+v, want key 51", got[1])
	}
	if got := gen("craftWeapons.sprite", "abc"); got != nil {
		t.Errorf("non-numeric key = %+v, want nil", got)
	}
}

func TestEntriesOrder(t *testing.T) {
	s, err := Compile(&Contribution{
		Links:    map[string][]string{"b": {"x"}, "a": {"y"}},
		Patterns: []PatternSpec{{Pattern: `^z`, Targets: []string{"q"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	entries := s.Entries()
	if len(entries) != 3 || entries[0].Path != "a" || entries[1].Path != "b" || !entries[2].Pattern {
		t.Errorf("Entries() = %+v", entries)
	}
}
