package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/oxcheck/internal/check"
	"github.com/aidanlsb/oxcheck/internal/paths"
)

// DiagnosticSymbol returns the status symbol for a severity.
func DiagnosticSymbol(level check.Level) string {
	if level == check.LevelWarning {
		return SymbolWarning
	}
	return SymbolError
}

// FormatDiagnostic renders one diagnostic line without the file name:
//
//	  12:7  ✗ "STR_PLASMA" does not exist (items.requires)  missing-reference
//
// width pads the position column so messages line up within a file.
func FormatDiagnostic(d check.Diagnostic, width int, dc *DisplayContext) string {
	pos := fmt.Sprintf("%-*s", width, d.Range.String())
	msg := d.Message
	code := d.Code

	if avail := dc.messageWidth(width, code); avail > 0 {
		msg = truncate(msg, avail)
	}
	return fmt.Sprintf("  %s  %s %s  %s", Muted.Render(pos), DiagnosticSymbol(d.Level), msg, Muted.Render(code))
}

// RenderReport writes every diagnostic of a report grouped by file, with file
// names shown relative to root. Files without diagnostics are skipped.
func RenderReport(w io.Writer, rep *check.Report, root string, dc *DisplayContext) {
	first := true
	for _, file := range rep.Files() {
		diags := rep.For(file)
		if len(diags) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false

		errs, warns := 0, 0
		width := 0
		for _, d := range diags {
			if d.Level == check.LevelWarning {
				warns++
			} else {
				errs++
			}
			if n := len(d.Range.String()); n > width {
				width = n
			}
		}
		fmt.Fprintf(w, "%s %s\n", FilePath(paths.Display(root, file)), Hint(ErrorWarningCounts(errs, warns)))
		for _, d := range diags {
			fmt.Fprintln(w, FormatDiagnostic(d, width, dc))
		}
	}
}

// Summary returns the closing line of a check run.
func Summary(rep *check.Report) string {
	errs := rep.Count(check.LevelError)
	warns := rep.Count(check.LevelWarning)
	files := len(rep.Files())

	if errs == 0 && warns == 0 {
		return Successf("No problems found in %d %s", files, pluralize("file", files))
	}
	parts := []string{}
	if errs > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", errs, pluralize("error", errs)))
	}
	if warns > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", warns, pluralize("warning", warns)))
	}
	line := fmt.Sprintf("Found %s in %d %s", strings.Join(parts, ", "), files, pluralize("file", files))
	if errs > 0 {
		return Error(line)
	}
	return Warning(line)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
