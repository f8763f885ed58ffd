package check

import (
	"sort"
)

// Report is the per-file diagnostic list of one validation pass.
type Report struct {
	byFile   map[string][]Diagnostic
	problems map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		byFile:   make(map[string][]Diagnostic),
		problems: make(map[string]int),
	}
}

// Add files diagnostics under their source file. Missing-reference
// diagnostics also count towards their path's problem total.
func (r *Report) Add(diags ...Diagnostic) {
	for _, d := range diags {
		r.byFile[d.File] = append(r.byFile[d.File], d)
		if d.Code == CodeMissingReference && d.Path != "" {
			r.problems[d.Path]++
		}
	}
}

// Touch makes sure a file appears in the report even without diagnostics,
// so callers can clear stale results.
func (r *Report) Touch(file string) {
	if _, ok := r.byFile[file]; !ok {
		r.byFile[file] = nil
	}
}

// Files returns every file in the report, sorted.
func (r *Report) Files() []string {
	files := make([]string, 0, len(r.byFile))
	for f := range r.byFile {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// For returns the diagnostics of one file ordered by location.
func (r *Report) For(file string) []Diagnostic {
	diags := append([]Diagnostic(nil), r.byFile[file]...)
	sortDiagnostics(diags)
	return diags
}

// All returns every diagnostic ordered by file and location.
func (r *Report) All() []Diagnostic {
	var out []Diagnostic
	for _, f := range r.Files() {
		out = append(out, r.For(f)...)
	}
	return out
}

// Count returns the number of diagnostics at the given level.
func (r *Report) Count(level Level) int {
	n := 0
	for _, diags := range r.byFile {
		for _, d := range diags {
			if d.Level == level {
				n++
			}
		}
	}
	return n
}

// Len returns the total number of diagnostics.
func (r *Report) Len() int {
	n := 0
	for _, diags := range r.byFile {
		n += len(diags)
	}
	return n
}

// ProblemCounts returns the number of unresolved references per schema path.
// The returned map is a copy.
func (r *Report) ProblemCounts() map[string]int {
	out := make(map[string]int, len(r.problems))
	for k, v := range r.problems {
		out[k] = v
	}
	return out
}

// Filter returns a report holding only diagnostics at least as severe as min.
// Problem counts are kept.
func (r *Report) Filter(min Level) *Report {
	out := NewReport()
	for file, diags := range r.byFile {
		out.Touch(file)
		for _, d := range diags {
			if d.Level <= min {
				out.byFile[file] = append(out.byFile[file], d)
			}
		}
	}
	for k, v := range r.problems {
		out.problems[k] = v
	}
	return out
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Before(b.Range)
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
}
