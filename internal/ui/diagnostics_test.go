package ui

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/model"
)

func rangeAt(line, col int) model.SourceRange {
	return model.SourceRange{
		Start: model.Position{Line: line, Column: col},
		End:   model.Position{Line: line, Column: col + 4},
	}
}

func TestRenderReport(t *testing.T) {
	root := filepath.Join("mods", "MyMod")
	items := filepath.Join(root, "Ruleset", "items.rul")
	clean := filepath.Join(root, "Ruleset", "clean.rul")

	rep := check.NewReport()
	rep.Touch(clean)
	rep.Add(
		check.NewDiagnostic(items, rangeAt(12, 7), check.LevelError, check.CodeMissingReference, "items.requires", `"STR_PLASMA" does not exist (items.requires)`),
		check.NewDiagnostic(items, rangeAt(3, 5), check.LevelWarning, "auto-shots", "items.autoShots", "autoShots and confAuto.shots are both set"),
	)

	var buf bytes.Buffer
	RenderReport(&buf, rep, root, nil)
	out := buf.String()

	if strings.Contains(out, "clean.rul") {
		t.Errorf("file without diagnostics rendered:\n%s", out)
	}
	if !strings.Contains(out, "Ruleset/items.rul") {
		t.Errorf("expected relative file name, got:\n%s", out)
	}
	if !strings.Contains(out, "(1 error, 1 warning)") {
		t.Errorf("expected per-file counts, got:\n%s", out)
	}

	warn := strings.Index(out, "both set")
	miss := strings.Index(out, "STR_PLASMA")
	if warn < 0 || miss < 0 || warn > miss {
		t.Errorf("expected diagnostics ordered by line, got:\n%s", out)
	}
}

func TestFormatDiagnosticTruncates(t *testing.T) {
	d := check.NewDiagnostic("a.rul", rangeAt(1, 1), check.LevelError, "x", "", strings.Repeat("m", 200))
	line := FormatDiagnostic(d, 3, NewDisplayContextWithWidth(60))
	if !strings.Contains(line, "...") {
		t.Errorf("expected truncated message, got %q", line)
	}
	if !strings.Contains(line, SymbolError) {
		t.Errorf("expected error symbol, got %q", line)
	}

	for _, dc := range []*DisplayContext{nil, {}} {
		if full := FormatDiagnostic(d, 3, dc); strings.Contains(full, "...") {
			t.Errorf("unlimited width should not truncate, got %q", full)
		}
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		diags []check.Diagnostic
		want  string
	}{
		{
			name: "clean",
			want: "No problems found in 1 file",
		},
		{
			name: "errors and warnings",
			diags: []check.Diagnostic{
				check.NewDiagnostic("a.rul", rangeAt(1, 1), check.LevelError, "x", "", "m"),
				check.NewDiagnostic("a.rul", rangeAt(2, 1), check.LevelError, "x", "", "m"),
				check.NewDiagnostic("a.rul", rangeAt(3, 1), check.LevelWarning, "y", "", "m"),
			},
			want: "Found 2 errors, 1 warning in 1 file",
		},
		{
			name: "warnings only",
			diags: []check.Diagnostic{
				check.NewDiagnostic("a.rul", rangeAt(3, 1), check.LevelWarning, "y", "", "m"),
			},
			want: SymbolWarning + " Found 1 warning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := check.NewReport()
			rep.Touch("a.rul")
			rep.Add(tt.diags...)
			if got := Summary(rep); !strings.Contains(got, tt.want) {
				t.Errorf("Summary() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	tbl := NewTable(2)
	tbl.AddRow("items.requires", "12")
	tbl.AddRow("units.armor", "3")

	want := "items.requires  12\nunits.armor     3\n"
	if got := tbl.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
