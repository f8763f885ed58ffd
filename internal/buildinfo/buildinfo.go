// Package buildinfo holds release metadata stamped into the oxc binary with
// -ldflags "-X github.com/aidanlsb/oxcheck/internal/buildinfo.Version=...".
// All values are empty in local builds; `oxc version` then falls back to the
// module build info.
package buildinfo

var (
	Version = ""
	Commit  = ""
	Date    = ""
)
