package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/wtm/internal/output"
	"github.com/Dicklesworthstone/wtm/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the status indicator as it changes",
		Long: `Print the status indicator every time the session changes, until
interrupted. Useful for status bars that consume a stream instead of
polling, e.g.:

  wtm watch | while read -r s; do update-bar "$s"; done`,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFile := newStore(activeConfig()).StatusPath()
			out := cmd.OutOrStdout()

			printStatus := func() {
				data, err := os.ReadFile(statusFile)
				if err != nil {
					// Session ended; an empty line clears the consumer.
					fmt.Fprintln(out)
					return
				}
				fmt.Fprint(out, string(data))
			}

			w, err := watcher.New(statusFile, printStatus,
				watcher.WithErrorHandler(func(err error) {
					fmt.Fprintf(os.Stderr, "watch: %v\n", err)
				}))
			if err != nil {
				return output.PrintError(fmt.Errorf("watching %s: %w", statusFile, err), IsJSONOutput())
			}
			defer w.Close()

			printStatus()

			ctx, cancel := withSignalContext()
			defer cancel()
			<-ctx.Done()
			return nil
		},
	}
}
