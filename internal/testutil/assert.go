package testutil

import (
	"strings"
	"testing"
)

// AssertModFileExists fails the test if the mod file does not exist.
func (p *TestProject) AssertModFileExists(relPath string) {
	p.t.Helper()
	if !p.ModFileExists(relPath) {
		p.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertModFileContains fails the test if the mod file does not contain the substring.
func (p *TestProject) AssertModFileContains(relPath, substr string) {
	p.t.Helper()
	content := p.ReadModFile(relPath)
	if !strings.Contains(content, substr) {
		p.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// Diagnostics returns the diagnostics list of a check result.
func (r *CLIResult) Diagnostics() []map[string]interface{} {
	var out []map[string]interface{}
	for _, d := range r.DataList("diagnostics") {
		if m, ok := d.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// AssertDiagnostic checks that some diagnostic has the given code and a
// message containing msgSubstr.
func (r *CLIResult) AssertDiagnostic(t testing.TB, code, msgSubstr string) {
	t.Helper()
	for _, d := range r.Diagnostics() {
		c, _ := d["code"].(string)
		msg, _ := d["message"].(string)
		if c == code && strings.Contains(msg, msgSubstr) {
			return
		}
	}
	t.Errorf("expected %s diagnostic containing %q\nRaw: %s", code, msgSubstr, r.RawJSON)
}

// AssertDiagnosticCount checks the number of diagnostics in a check result.
func (r *CLIResult) AssertDiagnosticCount(t testing.TB, expected int) {
	t.Helper()
	if got := len(r.Diagnostics()); got != expected {
		t.Errorf("expected %d diagnostics, got %d\nRaw: %s", expected, got, r.RawJSON)
	}
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t testing.TB, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t testing.TB) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}
