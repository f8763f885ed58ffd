package logic

import (
	"errors"
	"strings"
	"testing"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/index"
	"github.com/aidanlsb/oxcheck/internal/model"
	"github.com/aidanlsb/oxcheck/internal/parser"
	"github.com/aidanlsb/oxcheck/internal/schema"
)

type file struct {
	name  string
	layer model.Layer
	src   string
}

func mod(name, src string) file     { return file{name: name, layer: model.LayerMod, src: src} }
func vanilla(name, src string) file { return file{name: name, layer: model.LayerVanilla, src: src} }

// runRules scans the files in order and runs one full pass.
func runRules(t *testing.T, files ...file) []check.Diagnostic {
	t.Helper()
	s := schema.MustNew()
	reg, err := NewRegistry(Default()...)
	if err != nil {
		t.Fatal(err)
	}

	idx := index.New()
	pass := reg.NewPass(s)
	for _, f := range files {
		root, err := parser.ParseRules([]byte(f.src))
		if err != nil {
			t.Fatalf("%s: %v", f.name, err)
		}
		doc := parser.Scan(f.name, root, s)
		idx.Add(f.layer, doc.Definitions)
		if err := pass.Collect(Input{Layer: f.layer, Entities: doc.Entities, References: doc.References}); err != nil {
			t.Fatal(err)
		}
	}
	pass.Ready()
	diags, err := pass.Check(idx)
	if err != nil {
		t.Fatal(err)
	}
	return diags
}

func withCode(diags []check.Diagnostic, code string) []check.Diagnostic {
	var out []check.Diagnostic
	for _, d := range diags {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

func TestCraftWeaponLauncherAcrossFiles(t *testing.T) {
	weapon := mod("weapons.rul", `craftWeapons:
  - type: STR_CANNON
    launcher: STR_CANNON_LAUNCHER
    clip: STR_CANNON_ROUNDS
`)
	items := mod("items.rul", `items:
  - type: STR_CANNON_LAUNCHER
  - type: STR_CANNON_ROUNDS
`)

	t.Run("weapon first", func(t *testing.T) {
		if diags := withCode(runRules(t, weapon, items), "craft-weapon-launcher"); len(diags) != 0 {
			t.Errorf("unexpected diagnostics %+v", diags)
		}
	})
	t.Run("items first", func(t *testing.T) {
		if diags := withCode(runRules(t, items, weapon), "craft-weapon-launcher"); len(diags) != 0 {
			t.Errorf("unexpected diagnostics %+v", diags)
		}
	})

	t.Run("launcher item missing", func(t *testing.T) {
		onlyRounds := mod("items.rul", "items:\n  - type: STR_CANNON_ROUNDS\n")
		diags := withCode(runRules(t, weapon, onlyRounds), "craft-weapon-launcher")
		if len(diags) != 1 || !strings.Contains(diags[0].Message, "launcher item") {
			t.Fatalf("diagnostics = %+v", diags)
		}
		if diags[0].File != "weapons.rul" || diags[0].Range.Start.Line != 3 {
			t.Errorf("diagnostic not at the reference: %+v", diags[0])
		}
	})

	t.Run("no launcher", func(t *testing.T) {
		noLauncher := mod("weapons.rul", "craftWeapons:\n  - type: STR_CANNON\n    clip: STR_CANNON_ROUNDS\n")
		diags := withCode(runRules(t, noLauncher, items), "craft-weapon-launcher")
		if len(diags) != 1 || !strings.Contains(diags[0].Message, "does not have a launcher") {
			t.Errorf("diagnostics = %+v", diags)
		}
	})

	t.Run("launcher declared in a later file", func(t *testing.T) {
		clipOnly := mod("a.rul", "craftWeapons:\n  - type: STR_CANNON\n    clip: STR_CANNON_ROUNDS\n")
		launcherLater := mod("b.rul", "craftWeapons:\n  - type: STR_CANNON\n    launcher: STR_CANNON_LAUNCHER\n")
		if diags := withCode(runRules(t, clipOnly, items, launcherLater), "craft-weapon-launcher"); len(diags) != 0 {
			t.Errorf("record merge lost the launcher: %+v", diags)
		}
	})
}

func TestDeploymentData(t *testing.T) {
	missions := mod("missions.rul", `alienMissions:
  - type: STR_TERROR
    siteType: STR_TERROR_SITE
`)

	diags := withCode(runRules(t, missions), "deployment-data")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "does not exist") {
		t.Errorf("missing deployment: %+v", diags)
	}

	noData := mod("deployments.rul", "alienDeployments:\n  - type: STR_TERROR_SITE\n    terrains: [URBAN]\n")
	diags = withCode(runRules(t, missions, noData), "deployment-data")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "no data block") {
		t.Errorf("deployment without data: %+v", diags)
	}

	withData := mod("deployments.rul", `alienDeployments:
  - type: STR_TERROR_SITE
    data:
      - alienRank: 0
        lowQty: 1
`)
	if diags := withCode(runRules(t, missions, withData), "deployment-data"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics %+v", diags)
	}
}

func TestVanillaReferencesAreNotChecked(t *testing.T) {
	v := vanilla("vanilla.rul", "craftWeapons:\n  - type: STR_X\n    launcher: STR_NOWHERE\n")
	if diags := runRules(t, v); len(diags) != 0 {
		t.Errorf("vanilla reference reported: %+v", diags)
	}
}

func TestGlobeMeridian(t *testing.T) {
	diags := withCode(runRules(t, mod("globe.rul", `regions:
  - type: STR_EUROPE
    areas:
      - [350, 10, -60, -40]
      - [10, 40, -60, -40]
countries:
  - type: STR_X
    areas:
      - [10, 20, 100]
`)), "globe-meridian")

	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}
	var meridian, shape bool
	for _, d := range diags {
		if strings.Contains(d.Message, "prime meridian") && d.Level == check.LevelWarning {
			meridian = true
		}
		if strings.Contains(d.Message, "has 3 values") && d.Level == check.LevelError {
			shape = true
		}
	}
	if !meridian || !shape {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestAutoShots(t *testing.T) {
	diags := withCode(runRules(t,
		mod("a.rul", "items:\n  - type: STR_RIFLE\n    autoShots: 3\n"),
		mod("b.rul", "items:\n  - type: STR_RIFLE\n    confAuto:\n      shots: 4\n"),
	), "auto-shots")
	if len(diags) != 1 || diags[0].Level != check.LevelWarning {
		t.Errorf("diagnostics = %+v", diags)
	}

	if diags := withCode(runRules(t, mod("a.rul", "items:\n  - type: STR_RIFLE\n    autoShots: 3\n")), "auto-shots"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics %+v", diags)
	}
}

func TestMapScriptGroups(t *testing.T) {
	terrain := vanilla("terrain.rul", `terrains:
  - name: FOREST
    mapBlocks:
      - name: FOREST00
        groups: [1, 2]
      - name: FOREST01
`)
	script := func(groups string) file {
		return mod("scripts.rul", `mapScripts:
  - type: FOREST_SCRIPT
    commands:
      - type: addBlock
        terrain: FOREST
        groups: `+groups+`
`)
	}

	if diags := withCode(runRules(t, terrain, script("[0, 2]")), "mapscript-groups"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics %+v", diags)
	}
	diags := withCode(runRules(t, terrain, script("5")), "mapscript-groups")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "group 5") {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestArmorCorpses(t *testing.T) {
	armors := vanilla("armors.rul", `armors:
  - type: BIG_ARMOR
    size: 2
    corpseBattle: [A, B, C]
  - type: SMALL_ARMOR
    corpseBattle: [A]
`)
	unit := func(armor string) file {
		return mod("units.rul", "units:\n  - type: STR_UNIT\n    armor: "+armor+"\n")
	}

	if diags := withCode(runRules(t, armors, unit("SMALL_ARMOR")), "armor-corpses"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics %+v", diags)
	}
	diags := withCode(runRules(t, armors, unit("BIG_ARMOR")), "armor-corpses")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "needs 4") {
		t.Errorf("diagnostics = %+v", diags)
	}
	diags = withCode(runRules(t, armors, unit("NO_ARMOR")), "armor-corpses")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "does not exist") {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestSoldierStats(t *testing.T) {
	diags := withCode(runRules(t, mod("soldiers.rul", `soldiers:
  - type: STR_SOLDIER
    minStats:
      tu: 70
      stamina: 40
    maxStats:
      tu: 60
      stamina: 70
`)), "soldier-stats")
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "minStats.tu") {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestCompatibleAmmo(t *testing.T) {
	diags := withCode(runRules(t, mod("items.rul", `items:
  - type: STR_RIFLE
    compatibleAmmo: [STR_CLIP, STR_BAD_CLIP, STR_NO_CLIP]
  - type: STR_CLIP
    clipSize: 20
  - type: STR_BAD_CLIP
`)), "compatible-ammo")
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}
	if diags[0].Level != check.LevelWarning || !strings.Contains(diags[0].Message, "STR_BAD_CLIP") {
		t.Errorf("first = %+v", diags[0])
	}
	if diags[1].Level != check.LevelError || !strings.Contains(diags[1].Message, "STR_NO_CLIP") {
		t.Errorf("second = %+v", diags[1])
	}
}

func TestWaveTrajectory(t *testing.T) {
	trajectories := vanilla("trajectories.rul", "ufoTrajectories:\n  - id: P0\n")
	missions := mod("missions.rul", `alienMissions:
  - type: STR_RESEARCH
    waves:
      - ufo: STR_SMALL_SCOUT
        trajectory: P0
      - trajectory: P9
`)
	diags := withCode(runRules(t, trajectories, missions), "wave-trajectory")
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(diags), diags)
	}
	if !strings.Contains(diags[0].Message, `"P9" does not exist`) || !strings.Contains(diags[1].Message, "has no ufo") {
		t.Errorf("diagnostics = %+v", diags)
	}
}

func TestPassPhases(t *testing.T) {
	reg, err := NewRegistry(Default()...)
	if err != nil {
		t.Fatal(err)
	}
	pass := reg.NewPass(schema.MustNew())

	if got := pass.Phase("auto-shots"); got != PhaseIdle {
		t.Errorf("initial phase = %v", got)
	}
	if _, err := pass.Check(index.New()); !errors.Is(err, ErrNotReady) {
		t.Errorf("Check before Ready: err = %v", err)
	}

	if err := pass.Collect(Input{Layer: model.LayerMod}); err != nil {
		t.Fatal(err)
	}
	if got := pass.Phase("auto-shots"); got != PhaseCollecting {
		t.Errorf("phase after Collect = %v", got)
	}

	pass.Ready()
	if err := pass.Collect(Input{}); !errors.Is(err, ErrPassClosed) {
		t.Errorf("Collect after Ready: err = %v", err)
	}
	if _, err := pass.Check(index.New()); err != nil {
		t.Fatal(err)
	}
	if got := pass.Phase("auto-shots"); got != PhaseChecked {
		t.Errorf("phase after Check = %v", got)
	}
}

func TestRegistryRejectsDuplicateNames(t *testing.T) {
	if _, err := NewRegistry(newAutoShots(), newAutoShots()); err == nil {
		t.Error("expected error for duplicate rule names")
	}
}
