// Package cli implements the wtm command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/wtm/internal/config"
	"github.com/Dicklesworthstone/wtm/internal/output"
)

var (
	cfgFile     string
	cfg         *config.Config
	lockTimeout string

	// Global JSON output flag - inherited by all subcommands
	jsonOutput bool

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "wtm",
	Short: "Window Tab Manager - terminal windows as cycling tabs",
	Long: `WTM (Window Tab Manager) groups terminal-emulator windows into a tab
session: one window visible at a time, the rest hidden, cycled with a
key press. The current position is exported as a [current/total]
indicator for your shell prompt.

Quick Start:
  wtm start              # Open the first tab
  wtm new                # Open another tab (hides the current one)
  wtm next / wtm prev    # Cycle through tabs
  wtm end                # Close every tab and forget the session

Shell Integration:
  Add to your .zshrc:  eval "$(wtm init zsh)"
  Add to your .bashrc: eval "$(wtm init bash)"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			// A broken config file must not brick the key bindings.
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			loaded = config.Default()
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set so JSON mode can own the output. Errors the
		// commands already reported (with hints) are not printed again.
		var reported *reportedError
		if !errors.As(err, &reported) && !jsonOutput {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/wtm/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&lockTimeout, "lock-timeout", "", "Max wait for the session lock (e.g. 2s; bare numbers are seconds)")

	rootCmd.AddCommand(
		// Session verbs
		newStartCmd(),
		newNewCmd(),
		newNextCmd(),
		newPrevCmd(),
		newEndCmd(),

		// Inspection
		newStatusCmd(),
		newWatchCmd(),
		newDepsCmd(),

		// Shell integration
		newInitCmd(),
		newVersionCmd(),
		newConfigCmd(),
	)
}

// IsJSONOutput returns true if JSON output is enabled
func IsJSONOutput() bool {
	return output.DetectFormat(jsonOutput) == output.FormatJSON
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if IsJSONOutput() {
				return output.PrintJSON(output.VersionResponse{
					Version: Version,
					Commit:  Commit,
					Date:    Date,
					BuiltBy: BuiltBy,
				})
			}
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), Version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wtm %s (commit %s, built %s by %s)\n", Version, Commit, Date, BuiltBy)
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			effective := cfg
			if effective == nil {
				loaded, err := config.Load(cfgFile)
				if err != nil {
					loaded = config.Default()
				}
				effective = loaded
			}
			return config.Print(effective, cmd.OutOrStdout())
		},
	})

	return cmd
}
