package drcscan

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(out, true)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
		Example: `
# Bash
drcscan completion bash > /etc/bash_completion.d/drcscan

# Zsh
drcscan completion zsh > "${fpath[1]}/_drcscan"

# Fish
drcscan completion fish > ~/.config/fish/completions/drcscan.fish

# PowerShell
drcscan completion powershell > $PROFILE\drcscan.ps1
`,
	}
	rootCmd.AddCommand(cmd)
}
