package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width display cells, appending an
// ellipsis when anything was cut. Window titles can contain wide runes, so
// byte or rune counts are not enough.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// IsInteractive reports whether stdout is attached to a terminal.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
