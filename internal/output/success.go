package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/wtm/internal/tui/theme"
)

// SuccessCheck prints a success message with a checkmark
func SuccessCheck(msg string) {
	PrintSuccessCheck(os.Stdout, msg)
}

// PrintSuccessCheck prints a success message with a checkmark to the given writer
func PrintSuccessCheck(w io.Writer, msg string) {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = term.IsTerminal(int(f.Fd())) && os.Getenv("NO_COLOR") == ""
	}

	if useColor {
		t := theme.Current()
		checkStyle := lipgloss.NewStyle().Foreground(t.Success)
		fmt.Fprintf(w, "%s %s\n", checkStyle.Render("✓"), msg)
	} else {
		fmt.Fprintf(w, "✓ %s\n", msg)
	}
}
