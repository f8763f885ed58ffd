package hierarchy

import (
	"testing"

	"github.com/aidanlsb/oxcheck/internal/model"
)

func def(ruleType, name, file string) model.Definition {
	return model.Definition{Type: ruleType, Name: name, File: file}
}

func ref(path, key, file string) model.Reference {
	return model.Reference{Path: path, Key: key, File: file}
}

func TestResolveDeletions(t *testing.T) {
	vanilla := File{
		Path:        "vanilla/items.rul",
		Layer:       model.LayerVanilla,
		Definitions: []model.Definition{def("items", "STR_PISTOL", "vanilla/items.rul"), def("items", "STR_RIFLE", "vanilla/items.rul")},
	}
	mod := File{
		Path:  "mod/items.rul",
		Layer: model.LayerMod,
		Definitions: []model.Definition{
			def("items", "STR_PISTOL", "mod/items.rul"),
		},
		References: []model.Reference{
			ref("items.delete", "STR_PISTOL", "mod/items.rul"),
			ref("items.delete", "STR_PISTOL", "mod/other.rul"),
			ref("items.requires", "STR_X", "mod/items.rul"),
		},
	}

	r := Resolve([]File{vanilla, mod})

	if got := r.Deletions(); len(got) != 1 || got[0] != (Deletion{Type: "items", Name: "STR_PISTOL"}) {
		t.Errorf("Deletions() = %+v", got)
	}

	visible := r.Visible(model.LayerVanilla, vanilla.Definitions)
	if len(visible) != 1 || visible[0].Name != "STR_RIFLE" {
		t.Errorf("Visible(vanilla) = %+v", visible)
	}
	if len(vanilla.Definitions) != 2 {
		t.Error("Visible modified the raw definitions")
	}

	if got := r.Visible(model.LayerMod, mod.Definitions); len(got) != 1 {
		t.Errorf("mod definitions must never be deleted, got %+v", got)
	}
	if !r.IsVisible(model.LayerMod, "items", "STR_PISTOL") {
		t.Error("IsVisible(mod) = false")
	}
	if r.IsVisible(model.LayerVanilla, "items", "STR_PISTOL") {
		t.Error("IsVisible(vanilla) = true for deleted definition")
	}
}

func TestVanillaDeletesAreIgnored(t *testing.T) {
	r := Resolve([]File{{
		Layer:      model.LayerVanilla,
		References: []model.Reference{ref("items.delete", "STR_PISTOL", "vanilla/items.rul")},
	}})
	if r.Deleted("items", "STR_PISTOL") {
		t.Error("vanilla delete directive applied")
	}
}

func TestRemovingDirectiveRestores(t *testing.T) {
	vanilla := File{
		Layer:       model.LayerVanilla,
		Definitions: []model.Definition{def("items", "STR_PISTOL", "vanilla/items.rul")},
	}
	withDelete := File{
		Layer:      model.LayerMod,
		References: []model.Reference{ref("items.delete", "STR_PISTOL", "mod/items.rul")},
	}

	if got := Resolve([]File{vanilla, withDelete}).Visible(model.LayerVanilla, vanilla.Definitions); len(got) != 0 {
		t.Fatalf("expected deletion, got %+v", got)
	}
	withDelete.References = nil
	if got := Resolve([]File{vanilla, withDelete}).Visible(model.LayerVanilla, vanilla.Definitions); len(got) != 1 {
		t.Errorf("expected restore, got %+v", got)
	}
}

func TestIsDeletionPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"items.delete", true},
		{"research.delete", true},
		{"items.ammo[].delete", false},
		{"items.deleted", false},
		{"delete", false},
	}
	for _, tt := range tests {
		if got := IsDeletionPath(tt.path); got != tt.want {
			t.Errorf("IsDeletionPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
