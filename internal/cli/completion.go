package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `Generate shell completion scripts.

Bash:
  $ source <(aiscan completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ aiscan completion bash > /etc/bash_completion.d/aiscan
  # macOS:
  $ aiscan completion bash > /usr/local/etc/bash_completion.d/aiscan

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ aiscan completion zsh > "${fpath[1]}/_aiscan"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ aiscan completion fish | source

  # To load completions for each session, execute once:
  $ aiscan completion fish > ~/.config/fish/completions/aiscan.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			_ = cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			_ = cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			_ = cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			_ = cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
