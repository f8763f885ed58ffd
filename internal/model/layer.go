package model

// Layer is one of the two ordered file sets: the shipped base assets and the
// mod overlaying them.
type Layer int

const (
	LayerVanilla Layer = iota
	LayerMod
)

func (l Layer) String() string {
	switch l {
	case LayerVanilla:
		return "vanilla"
	case LayerMod:
		return "mod"
	default:
		return "unknown"
	}
}
