package logic

import (
	"fmt"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/model"
)

// craftWeaponLauncher: a craft weapon fires its clip through a launcher item,
// so a weapon with a clip needs a launcher and the launcher must exist.
type craftWeaponLauncher struct{ base }

func newCraftWeaponLauncher() Rule {
	return craftWeaponLauncher{base{
		name:      "craft-weapon-launcher",
		generic:   []string{"craftWeapons.launcher", "craftWeapons.clip"},
		relations: []string{"craftWeapons.launcher", "craftWeapons.clip"},
	}}
}

func (r craftWeaponLauncher) Check(env *Env, ref model.Reference) []check.Diagnostic {
	switch ref.Path {
	case "craftWeapons.launcher":
		if !env.Defined(ref.Key, "items") {
			return []check.Diagnostic{r.fail(ref, fmt.Sprintf("launcher item %q does not exist", ref.Key))}
		}
	case "craftWeapons.clip":
		rec, _ := env.Record("craftWeapons", ref.Owner)
		if _, ok := rec.String("launcher"); !ok {
			return []check.Diagnostic{r.fail(ref, fmt.Sprintf("craft weapon %q does not have a launcher", ref.Owner))}
		}
		if !env.Defined(ref.Key, "items") {
			return []check.Diagnostic{r.fail(ref, fmt.Sprintf("clip item %q does not exist", ref.Key))}
		}
	}
	return nil
}

// autoShots: the legacy autoShots field is ignored once confAuto.shots is set.
type autoShots struct{ base }

func newAutoShots() Rule {
	return autoShots{base{
		name:      "auto-shots",
		generic:   []string{"items.confAuto.shots"},
		relations: []string{"items.autoShots"},
	}}
}

func (r autoShots) Check(env *Env, ref model.Reference) []check.Diagnostic {
	rec, ok := env.Record("items", ref.Owner)
	if !ok {
		return nil
	}
	shots, ok := rec.String("confAuto.shots")
	if !ok {
		return nil
	}
	return []check.Diagnostic{r.warn(ref, fmt.Sprintf("autoShots is ignored because confAuto.shots (%s) is also set", shots))}
}

// compatibleAmmo: ammo listed by a weapon must be an item with a clip size.
type compatibleAmmo struct{ base }

func newCompatibleAmmo() Rule {
	return compatibleAmmo{base{
		name:      "compatible-ammo",
		generic:   []string{"items.clipSize"},
		relations: []string{"items.compatibleAmmo"},
	}}
}

func (r compatibleAmmo) Check(env *Env, ref model.Reference) []check.Diagnostic {
	if !env.Defined(ref.Key, "items") {
		return []check.Diagnostic{r.fail(ref, fmt.Sprintf("ammo item %q does not exist", ref.Key))}
	}
	rec, _ := env.Record("items", ref.Key)
	if _, ok := rec.String("clipSize"); !ok {
		return []check.Diagnostic{r.warn(ref, fmt.Sprintf("ammo item %q has no clipSize", ref.Key))}
	}
	return nil
}
