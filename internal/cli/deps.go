package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/wtm/internal/output"
	"github.com/Dicklesworthstone/wtm/internal/tui/theme"
)

func newDepsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "deps",
		Aliases: []string{"check", "doctor"},
		Short:   "Check for required external tools",
		Long: `Check that the external tools wtm depends on are installed:

Required:
  - xdotool (window control)
  - the configured terminal emulator (default: alacritty)

Examples:
  wtm deps           # Quick check
  wtm deps -v        # Verbose output with versions
  wtm deps --json    # JSON output for scripts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeps(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed version info")

	return cmd
}

type depCheck struct {
	Name        string
	Command     string
	VersionArgs []string
	Required    bool
	InstallHint string
}

// dependencyChecks lists the tools wtm shells out to. The terminal entry
// follows the configured emulator, not a hardcoded one.
func dependencyChecks() []depCheck {
	c := activeConfig()
	return []depCheck{
		{
			Name:        "xdotool",
			Command:     "xdotool",
			VersionArgs: []string{"--version"},
			Required:    true,
			InstallHint: "apt install xdotool (Debian) / pacman -S xdotool (Arch)",
		},
		{
			Name:        c.Terminal.Command,
			Command:     c.Terminal.Command,
			VersionArgs: []string{"--version"},
			Required:    true,
			InstallHint: "install it, or point terminal.command at another emulator in ~/.config/wtm/config.toml",
		},
	}
}

func runDeps(cmd *cobra.Command, verbose bool) error {
	deps := dependencyChecks()

	var results []output.DependencyResponse
	missingRequired := false

	for _, dep := range deps {
		_, _, found := checkDep(dep)
		if !found && dep.Required {
			missingRequired = true
		}
		results = append(results, output.DependencyResponse{
			Name:      dep.Name,
			Installed: found,
			Required:  dep.Required,
			Hint:      dep.InstallHint,
		})
	}

	if IsJSONOutput() {
		return output.PrintJSON(output.DepsResponse{
			TimestampedResponse: output.NewTimestamped(),
			Dependencies:        results,
			Satisfied:           !missingRequired,
		})
	}

	styles := theme.DefaultStyles()
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	for _, dep := range deps {
		version, _, found := checkDep(dep)

		if found {
			fmt.Fprintf(w, "  %s %-12s", styles.Success.Render("✓"), dep.Name)
			if verbose && version != "" {
				if len(version) > 40 {
					version = version[:40] + "..."
				}
				fmt.Fprintf(w, " %s", styles.Dim.Render(version))
			}
			fmt.Fprintln(w)
		} else {
			fmt.Fprintf(w, "  %s %-12s\n", styles.Error.Render("✗"), dep.Name)
			fmt.Fprintf(w, "      %s\n", styles.Dim.Render("Install: "+dep.InstallHint))
		}
	}
	fmt.Fprintln(w)

	if missingRequired {
		fmt.Fprintf(w, "%s Missing required tools.\n", styles.Error.Render("✗"))
		os.Exit(1)
	}
	fmt.Fprintf(w, "%s All required tools installed.\n", styles.Success.Render("✓"))
	return nil
}

// checkDep reports a dependency's version (first line, if obtainable), its
// path, and whether it is installed.
func checkDep(dep depCheck) (version, path string, found bool) {
	foundPath, err := exec.LookPath(dep.Command)
	if err != nil {
		return "", "", false
	}

	if len(dep.VersionArgs) > 0 {
		out, err := exec.Command(dep.Command, dep.VersionArgs...).CombinedOutput()
		if err == nil {
			version = strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
		}
	}
	return version, foundPath, true
}
