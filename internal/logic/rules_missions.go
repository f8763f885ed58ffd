package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/model"
)

// deploymentData: a deployment used as a mission site or next stage must
// exist and carry a data block, otherwise the game crashes when it spawns.
type deploymentData struct{ base }

func newDeploymentData() Rule {
	return deploymentData{base{
		name:      "deployment-data",
		generic:   []string{"alienDeployments.data"},
		relations: []string{"alienMissions.siteType", "alienDeployments.nextStage"},
	}}
}

func (r deploymentData) Check(env *Env, ref model.Reference) []check.Diagnostic {
	if !env.Defined(ref.Key, "alienDeployments") {
		return []check.Diagnostic{r.fail(ref, fmt.Sprintf("alien deployment %q does not exist", ref.Key))}
	}
	rec, _ := env.Record("alienDeployments", ref.Key)
	if len(rec.List("data")) == 0 {
		return []check.Diagnostic{r.fail(ref, fmt.Sprintf("alien deployment %q has no data block", ref.Key))}
	}
	return nil
}

// waveTrajectory: every mission wave names an existing trajectory and the
// ufo that flies it.
type waveTrajectory struct{ base }

func newWaveTrajectory() Rule {
	return waveTrajectory{base{
		name:      "wave-trajectory",
		relations: []string{"alienMissions.waves[].trajectory"},
	}}
}

func (r waveTrajectory) Check(env *Env, ref model.Reference) []check.Diagnostic {
	var out []check.Diagnostic
	if !env.Defined(ref.Key, "ufoTrajectories") {
		out = append(out, r.fail(ref, fmt.Sprintf("trajectory %q does not exist", ref.Key)))
	}
	if _, ok := ref.Meta("ufo"); !ok {
		out = append(out, r.warn(ref, fmt.Sprintf("wave with trajectory %q has no ufo", ref.Key)))
	}
	return out
}

// globeMeridian: globe areas are [lonMin, lonMax, latMin, latMax] in
// degrees. An area crossing the prime meridian cannot be written with
// lonMin > lonMax; it has to be split in two.
type globeMeridian struct{ base }

func newGlobeMeridian() Rule {
	return globeMeridian{base{
		name:      "globe-meridian",
		relations: []string{"regions.areas[]", "countries.areas[]"},
	}}
}

func (r globeMeridian) Check(_ *Env, ref model.Reference) []check.Diagnostic {
	// One check per area: the first scalar stands for the whole list.
	if ref.Index() != 0 {
		return nil
	}
	siblings := ref.Siblings()
	if len(siblings) != 4 {
		return []check.Diagnostic{r.fail(ref, fmt.Sprintf("area has %d values, expected [lonMin, lonMax, latMin, latMax]", len(siblings)))}
	}

	var coords [4]float64
	for i, s := range siblings {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return []check.Diagnostic{r.fail(ref, fmt.Sprintf("area value %q is not a number", s))}
		}
		coords[i] = f
	}
	lonMin, lonMax, latMin, latMax := coords[0], coords[1], coords[2], coords[3]

	var out []check.Diagnostic
	if lonMin < 0 || lonMin > 360 || lonMax < 0 || lonMax > 360 {
		out = append(out, r.fail(ref, "area longitudes must be between 0 and 360"))
	}
	if latMin < -90 || latMin > 90 || latMax < -90 || latMax > 90 {
		out = append(out, r.fail(ref, "area latitudes must be between -90 and 90"))
	}
	if lonMin > lonMax {
		out = append(out, r.warn(ref, fmt.Sprintf("area crosses the prime meridian (lonMin %s > lonMax %s); split it at 0/360", siblings[0], siblings[1])))
	}
	return out
}
