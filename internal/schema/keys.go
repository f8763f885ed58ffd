package schema

import (
	"strconv"
	"strings"
)

// Candidate is one key a reference may resolve through.
type Candidate struct {
	// Path selects the built-in table consulted for Key.
	Path string

	Key string

	// Types restricts which definition types satisfy the candidate.
	// Nil means the types of the originating schema entry.
	Types []string
}

// KeyGenerator expands a reference key into the keys that may satisfy it.
// An empty result means the key cannot resolve at all.
type KeyGenerator func(path, key string) []Candidate

// SPKSuffix lets a bare image name also match its ".SPK" sprite definition.
func SPKSuffix(path, key string) []Candidate {
	candidates := []Candidate{{Path: path, Key: key}}
	if !strings.HasSuffix(strings.ToUpper(key), ".SPK") {
		candidates = append(candidates, Candidate{Path: path, Key: key + ".SPK"})
	}
	return candidates
}

// Offset is a sprite sheet and the distance of a derived frame from the base id.
type Offset struct {
	Sheet string
	Delta int
}

// Offsets derives one frame per sheet from a numeric base id. Craft weapon
// sprites, for instance, imply an interception icon and a base view frame.
func Offsets(offsets ...Offset) KeyGenerator {
	return func(_ string, key string) []Candidate {
		n, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil
		}
		candidates := make([]Candidate, 0, len(offsets))
		for _, o := range offsets {
			candidates = append(candidates, Candidate{
				Path:  o.Sheet,
				Key:   strconv.Itoa(n + o.Delta),
				Types: []string{o.Sheet},
			})
		}
		return candidates
	}
}

func defaultVariants() map[string]KeyGenerator {
	return map[string]KeyGenerator{
		"ufopaedia.image_id":                     SPKSuffix,
		"alienDeployments.briefing.background":   SPKSuffix,
		"alienDeployments.debriefing.background": SPKSuffix,
		"craftWeapons.sprite": Offsets(
			Offset{Sheet: "extraSprites.INTICON.PCK", Delta: 5},
			Offset{Sheet: "extraSprites.BASEBITS.PCK", Delta: 48},
		),
	}
}
