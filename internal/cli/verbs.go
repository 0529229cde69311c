package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/wtm/internal/output"
	"github.com/Dicklesworthstone/wtm/internal/session"
)

// withSignalContext returns a context canceled on SIGINT/SIGTERM so a hung
// xdotool or terminal spawn can be aborted from the keyboard.
func withSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// sessionResponse converts session state into the JSON output schema.
func sessionResponse(st *session.State) output.SessionResponse {
	resp := output.SessionResponse{
		TimestampedResponse: output.NewTimestamped(),
		Exists:              true,
		Status:              st.Status,
		ActiveIndex:         st.ActiveIndex,
		Total:               st.Len(),
	}
	for i, id := range st.Windows {
		resp.Tabs = append(resp.Tabs, output.TabResponse{
			Index:  i,
			Window: id,
			Active: i == st.ActiveIndex,
		})
	}
	return resp
}

// printState reports the post-verb state: the status string in text mode
// (ready for a prompt hook), the full session in JSON mode.
func printState(cmd *cobra.Command, st *session.State) error {
	if IsJSONOutput() {
		return output.PrintJSON(sessionResponse(st))
	}
	fmt.Fprintln(cmd.OutOrStdout(), st.Status)
	return nil
}

func newStartCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a tab session with one window",
		Long: `Start a new tab session by opening a single terminal window.

Fails if a session with live windows already exists; use --force to
close the old windows and start over. A stale record whose windows are
all gone is replaced silently.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, win := newManager()
			if err := ensureDeps(win, true); err != nil {
				return err
			}

			ctx, cancel := withSignalContext()
			defer cancel()

			st, err := m.Start(ctx, force)
			if err != nil {
				return mapSessionError(err)
			}
			return printState(cmd, st)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing session")
	return cmd
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Open a new tab",
		Long: `Open a new terminal window as a tab: the window is appended to the
session, focused, and the previously active tab is hidden. Without an
active session this behaves like 'wtm start'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, win := newManager()
			if err := ensureDeps(win, true); err != nil {
				return err
			}

			ctx, cancel := withSignalContext()
			defer cancel()

			st, err := m.New(ctx)
			if err != nil {
				return mapSessionError(err)
			}
			return printState(cmd, st)
		},
	}
}

func newNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Switch to the next tab",
		Long:  "Hide the current tab and show the following one, wrapping from the last tab to the first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, 1)
		},
	}
}

func newPrevCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Switch to the previous tab",
		Long:  "Hide the current tab and show the preceding one, wrapping from the first tab to the last.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, -1)
		},
	}
}

func runCycle(cmd *cobra.Command, delta int) error {
	m, win := newManager()
	if err := ensureDeps(win, false); err != nil {
		return err
	}

	ctx, cancel := withSignalContext()
	defer cancel()

	var (
		st  *session.State
		err error
	)
	if delta > 0 {
		st, err = m.Next(ctx)
	} else {
		st, err = m.Prev(ctx)
	}
	if err != nil {
		return mapSessionError(err)
	}
	return printState(cmd, st)
}

func newEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the session, closing every tab",
		Long: `Close every window the session tracks and remove the session record.
Ending when no session exists is not an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, win := newManager()
			if err := ensureDeps(win, false); err != nil {
				return err
			}

			ctx, cancel := withSignalContext()
			defer cancel()

			if err := m.End(ctx); err != nil {
				return mapSessionError(err)
			}
			if IsJSONOutput() {
				return output.PrintJSON(output.NewSuccess("session ended"))
			}
			output.PrintSuccessCheck(cmd.OutOrStdout(), "session ended")
			return nil
		},
	}
}
