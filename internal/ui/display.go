package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// fallbackWidth is used on a terminal whose size cannot be read.
const fallbackWidth = 120

// DisplayContext describes where diagnostics are rendered.
type DisplayContext struct {
	// Width is the number of columns a diagnostic line may use.
	// Zero means unlimited, which is the case for piped output.
	Width int
}

// NewDisplayContext detects the width of stdout.
func NewDisplayContext() *DisplayContext {
	return displayFor(os.Stdout)
}

func displayFor(f *os.File) *DisplayContext {
	fd := f.Fd()
	if !term.IsTerminal(fd) {
		return &DisplayContext{}
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = fallbackWidth
	}
	return &DisplayContext{Width: width}
}

// NewDisplayContextWithWidth returns a context with a fixed width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{Width: width}
}

// messageWidth is the room left for a diagnostic message once the indent,
// position column, symbol and code are laid out. Zero means no limit.
func (d *DisplayContext) messageWidth(posWidth int, code string) int {
	if d == nil || d.Width <= 0 {
		return 0
	}
	used := 2 + posWidth + 2 + lipgloss.Width(SymbolError) + 1 + 2 + lipgloss.Width(code)
	if avail := d.Width - used; avail > 0 {
		return avail
	}
	return 1
}
