// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for answerkit.

Install instructions:
  Bash:       answerkit completion bash > /etc/bash_completion.d/answerkit
              echo 'source <(answerkit completion bash)' >> ~/.bashrc
  Zsh:        answerkit completion zsh > ~/.zsh/completions/_answerkit
  Fish:       answerkit completion fish > ~/.config/fish/completions/answerkit.fish
  PowerShell: answerkit completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				fmt.Fprintln(out, "# answerkit bash completion")
				fmt.Fprintln(out)
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				fmt.Fprintln(out, "# answerkit zsh completion")
				fmt.Fprintln(out)
				return rootCmd.GenZshCompletion(out)
			case "fish":
				fmt.Fprintln(out, "# answerkit fish completion")
				fmt.Fprintln(out)
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				fmt.Fprintln(out, "# answerkit PowerShell completion")
				fmt.Fprintln(out)
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
