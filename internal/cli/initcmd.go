package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init <bash|zsh>",
		Short: "Generate shell integration for the prompt indicator",
		Long: `Generate a shell snippet that exposes the tab indicator to your prompt.

The snippet defines wtm_prompt_info, which reads the status file wtm
maintains and prints [current/total], or nothing when no session is
active. Reading a file keeps the prompt fast; no wtm process is spawned
per prompt.

Add to your .zshrc:  eval "$(wtm init zsh)"
Add to your .bashrc: eval "$(wtm init bash)"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh"},
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFile := newStore(activeConfig()).StatusPath()

			switch args[0] {
			case "zsh":
				fmt.Fprintf(cmd.OutOrStdout(), zshInit, statusFile)
			case "bash":
				fmt.Fprintf(cmd.OutOrStdout(), bashInit, statusFile)
			default:
				return fmt.Errorf("unsupported shell %q (use bash or zsh)", args[0])
			}
			return nil
		},
	}
}

const zshInit = `# wtm shell integration
export WTM_STATUS_FILE=%q
wtm_prompt_info() {
  [[ -r $WTM_STATUS_FILE ]] || return 0
  local s
  s=$(<"$WTM_STATUS_FILE")
  [[ -n $s ]] && print -rn -- "$s "
}
# Prepend the indicator to your prompt:
#   setopt PROMPT_SUBST
#   PROMPT='$(wtm_prompt_info)'"$PROMPT"
`

const bashInit = `# wtm shell integration
export WTM_STATUS_FILE=%q
wtm_prompt_info() {
  [ -r "$WTM_STATUS_FILE" ] || return 0
  local s
  read -r s < "$WTM_STATUS_FILE" 2>/dev/null
  [ -n "$s" ] && printf '%%s ' "$s"
}
# Prepend the indicator to your prompt:
#   PS1='$(wtm_prompt_info)'"$PS1"
`
