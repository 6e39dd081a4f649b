package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/onmitsuX/key-vault-manager/internal/config"
)

// NewCompletionCommand creates the completion command for generating shell completions.
func NewCompletionCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for kvsync.

To load completions:

Bash:
  $ source <(kvsync completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ kvsync completion bash > /etc/bash_completion.d/kvsync
  # macOS:
  $ kvsync completion bash > $(brew --prefix)/etc/bash_completion.d/kvsync

Zsh:
  $ kvsync completion zsh > "${fpath[1]}/_kvsync"

Fish:
  $ kvsync completion fish | source

PowerShell:
  PS> kvsync completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
