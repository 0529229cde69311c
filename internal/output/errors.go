package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/wtm/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
	Code    string // Error code for programmatic handling (optional)
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithCode adds an error code to the error.
func (e *CLIError) WithCode(code string) *CLIError {
	e.Code = code
	return e
}

// isStderrTerminal checks if stderr is a terminal (for color output).
func isStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// FormatCLIError formats a CLIError for terminal output with colors.
// Returns plain text if stderr is not a terminal or NO_COLOR is set.
func FormatCLIError(e *CLIError) string {
	useColor := isStderrTerminal() && os.Getenv("NO_COLOR") == ""

	var sb strings.Builder

	if useColor {
		t := theme.Current()
		errorStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
		causeStyle := lipgloss.NewStyle().Foreground(t.Subtext)
		hintStyle := lipgloss.NewStyle().Foreground(t.Info)
		codeStyle := lipgloss.NewStyle().Foreground(t.Overlay)

		sb.WriteString(errorStyle.Render("Error: "))
		sb.WriteString(e.Message)

		if e.Code != "" {
			sb.WriteString(" ")
			sb.WriteString(codeStyle.Render("[" + e.Code + "]"))
		}
		sb.WriteString("\n")

		if e.Cause != "" {
			sb.WriteString(causeStyle.Render("  Cause: "))
			sb.WriteString(e.Cause)
			sb.WriteString("\n")
		}

		if e.Hint != "" {
			sb.WriteString(hintStyle.Render("  Hint: "))
			sb.WriteString(e.Hint)
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("Error: ")
		sb.WriteString(e.Message)
		if e.Code != "" {
			sb.WriteString(" [")
			sb.WriteString(e.Code)
			sb.WriteString("]")
		}
		sb.WriteString("\n")

		if e.Cause != "" {
			sb.WriteString("  Cause: ")
			sb.WriteString(e.Cause)
			sb.WriteString("\n")
		}

		if e.Hint != "" {
			sb.WriteString("  Hint: ")
			sb.WriteString(e.Hint)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// PrintCLIError prints a CLIError to stderr with formatting.
func PrintCLIError(e *CLIError) {
	fmt.Fprint(os.Stderr, FormatCLIError(e))
}

// PrintCLIErrorOrJSON prints a CLIError to stderr (text) or stdout (JSON).
func PrintCLIErrorOrJSON(e *CLIError, jsonMode bool) error {
	if jsonMode {
		resp := ErrorResponse{
			Error:   e.Message,
			Code:    e.Code,
			Details: e.Cause,
			Hint:    e.Hint,
		}
		return WriteJSON(os.Stdout, resp, true)
	}
	PrintCLIError(e)
	return e
}

// PrintError writes an error to stderr and returns an error for JSON mode
func PrintError(err error, jsonMode bool) error {
	if jsonMode {
		return WriteJSON(os.Stdout, NewError(err.Error()), true)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}

// Common error hints for frequent scenarios
var (
	// Session errors
	HintNoSession     = "Run 'wtm start' to begin a tab session"
	HintSessionExists = "Run 'wtm end' first, or 'wtm start --force' to replace it"
	HintSessionBusy   = "Another wtm command is running; retry in a moment"
	HintCorruptState  = "Run 'wtm end' to discard the broken session state"

	// Dependency errors
	HintXdotoolMissing   = "Install xdotool: apt install xdotool (Debian) or pacman -S xdotool (Arch)"
	HintAlacrittyMissing = "Install alacritty, or set terminal.command in ~/.config/wtm/config.toml"

	// Config errors
	HintConfigNotFound = "Run 'wtm config init' to create a default configuration"
	HintConfigInvalid  = "Check config syntax with 'wtm config show' or edit ~/.config/wtm/config.toml"
)

// NoSessionError creates a missing-session error with hint
func NoSessionError() *CLIError {
	return NewCLIError("no active tab session").
		WithCode("NO_SESSION").
		WithHint(HintNoSession)
}

// SessionExistsError creates a session-exists error with hint
func SessionExistsError() *CLIError {
	return NewCLIError("a tab session is already running").
		WithCode("SESSION_EXISTS").
		WithHint(HintSessionExists)
}

// SessionBusyError creates a lock-timeout error with hint
func SessionBusyError() *CLIError {
	return NewCLIError("session state is locked by another wtm process").
		WithCode("SESSION_BUSY").
		WithHint(HintSessionBusy)
}

// XdotoolNotInstalledError creates an xdotool-missing error with hint
func XdotoolNotInstalledError() *CLIError {
	return NewCLIError("xdotool is not installed").
		WithCode("XDOTOOL_NOT_INSTALLED").
		WithHint(HintXdotoolMissing)
}

// TerminalNotInstalledError creates a terminal-missing error with hint
func TerminalNotInstalledError(command string) *CLIError {
	return NewCLIError(fmt.Sprintf("terminal emulator '%s' is not installed", command)).
		WithCode("TERMINAL_NOT_INSTALLED").
		WithHint(HintAlacrittyMissing)
}
