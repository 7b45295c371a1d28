package completion

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/birdayz/textcodec/pkg/app"
)

// NewCommand returns the "textcodec completion" command. It needs the root
// command to generate completions for the whole tree.
func NewCommand(root *cobra.Command, a *app.App) *cobra.Command {
	generators := map[string]func(io.Writer) error{
		"bash":       func(w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":        root.GenZshCompletion,
		"fish":       func(w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": root.GenPowerShellCompletionWithDesc,
	}

	return &cobra.Command{
		Use:   "completion SHELL",
		Short: "Generate completion script for bash, zsh, fish or powershell",
		Long: `To load completions:

Bash:
  $ source <(textcodec completion bash)
  # persist:
  $ textcodec completion bash > /etc/bash_completion.d/textcodec

Zsh:
  $ textcodec completion zsh > "${fpath[1]}/_textcodec"
  # start a new shell for this to take effect.

Fish:
  $ textcodec completion fish | source
  # persist:
  $ textcodec completion fish > ~/.config/fish/completions/textcodec.fish

PowerShell:
  PS> textcodec completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := generators[args[0]](a.OutWriter); err != nil {
				return fmt.Errorf("failed to generate %s completion: %w", args[0], err)
			}
			return nil
		},
	}
}
