package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/wtm/internal/output"
	"github.com/Dicklesworthstone/wtm/internal/session"
	"github.com/Dicklesworthstone/wtm/internal/tui/theme"
)

func newStatusCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the session status indicator",
		Long: `Print the [current/total] indicator for the active tab session.

Designed for shell prompts: with no session the output is empty and the
exit code is still 0, so a prompt hook never has to special-case it.
The stored session is reconciled against the live windows first, so
windows closed behind wtm's back do not leave a stale count.

Examples:
  wtm status           # [2/3]
  wtm status --list    # one line per tab, with window titles
  wtm status --json    # full session state for scripts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, win := newManager()
			if err := ensureDeps(win, false); err != nil {
				return err
			}

			ctx, cancel := withSignalContext()
			defer cancel()

			st, err := m.Status(ctx)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					if IsJSONOutput() {
						return output.PrintJSON(output.SessionResponse{
							TimestampedResponse: output.NewTimestamped(),
							Exists:              false,
						})
					}
					// Empty output, success: the prompt shows nothing.
					fmt.Fprintln(cmd.OutOrStdout())
					return nil
				}
				return mapSessionError(err)
			}

			if IsJSONOutput() {
				resp := sessionResponse(st)
				if list {
					for i := range resp.Tabs {
						resp.Tabs[i].Title = win.WindowName(ctx, resp.Tabs[i].Window)
					}
				}
				return output.PrintJSON(resp)
			}

			if !list {
				fmt.Fprintln(cmd.OutOrStdout(), st.Status)
				return nil
			}

			styles := theme.DefaultStyles()
			for i, id := range st.Windows {
				title := truncate(win.WindowName(ctx, id), 60)
				if title == "" {
					title = fmt.Sprintf("window %d", id)
				}
				if i == st.ActiveIndex {
					fmt.Fprintln(cmd.OutOrStdout(), styles.ActiveTab.Render(fmt.Sprintf("* %d  %s", i+1, title)))
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), styles.Normal.Render(fmt.Sprintf("  %d  %s", i+1, title)))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.Dim.Render(st.Status))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List tabs with window titles")
	return cmd
}
