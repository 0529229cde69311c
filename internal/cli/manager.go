package cli

import (
	"errors"
	"os/exec"
	"time"

	"github.com/Dicklesworthstone/wtm/internal/config"
	"github.com/Dicklesworthstone/wtm/internal/output"
	"github.com/Dicklesworthstone/wtm/internal/session"
	"github.com/Dicklesworthstone/wtm/internal/tabs"
	"github.com/Dicklesworthstone/wtm/internal/terminal"
	"github.com/Dicklesworthstone/wtm/internal/util"
	"github.com/Dicklesworthstone/wtm/internal/xdo"
)

// activeConfig returns the loaded config, falling back to defaults when a
// command runs outside the usual cobra lifecycle (tests).
func activeConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return config.Default()
}

// newStore builds the session store from config. The --lock-timeout flag
// overrides the configured value when set.
func newStore(c *config.Config) *session.Store {
	timeout := c.LockTimeout()
	if lockTimeout != "" {
		if d, err := util.ParseDurationWithDefault(lockTimeout, time.Second); err == nil && d > 0 {
			timeout = d
		}
	}
	return session.NewStore(c.Session.Dir, timeout)
}

// newManager wires the session store, the xdotool client, and the terminal
// launcher from the active configuration.
func newManager() (*tabs.Manager, *xdo.Client) {
	c := activeConfig()
	win := xdo.NewClient(c.Terminal.WindowClass)

	launch := terminal.NewLauncher(c.Terminal.Command, c.TerminalArgs(), win)
	launch.SpawnTimeout = c.SpawnTimeout()

	return tabs.NewManager(newStore(c), win, launch), win
}

// ensureDeps verifies the external tools a verb needs before any state is
// touched. needTerminal is false for verbs that never spawn a window.
func ensureDeps(win *xdo.Client, needTerminal bool) error {
	if !win.IsInstalled() {
		return wrapCommandError(output.XdotoolNotInstalledError())
	}
	if needTerminal {
		c := activeConfig()
		if _, err := exec.LookPath(c.Terminal.Command); err != nil {
			return wrapCommandError(output.TerminalNotInstalledError(c.Terminal.Command))
		}
	}
	return nil
}

// reportedError wraps an error that has already been printed, so Execute
// does not print it a second time while still exiting non-zero.
type reportedError struct{ err error }

func (r *reportedError) Error() string { return r.err.Error() }
func (r *reportedError) Unwrap() error { return r.err }

// wrapCommandError prints a CLIError in the active output mode and returns
// it so cobra sets a non-zero exit code.
func wrapCommandError(e *output.CLIError) error {
	_ = output.PrintCLIErrorOrJSON(e, IsJSONOutput())
	return &reportedError{err: e}
}

// mapSessionError translates store and verb errors into CLIErrors with
// remediation hints. Errors it does not recognize pass through unchanged.
func mapSessionError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNoSession):
		return wrapCommandError(output.NoSessionError())
	case errors.Is(err, session.ErrBusy):
		return wrapCommandError(output.SessionBusyError())
	case errors.Is(err, session.ErrCorrupt):
		return wrapCommandError(output.NewCLIError(err.Error()).
			WithCode("SESSION_CORRUPT").
			WithHint(output.HintCorruptState))
	case errors.Is(err, tabs.ErrSessionExists):
		return wrapCommandError(output.SessionExistsError())
	default:
		return err
	}
}
