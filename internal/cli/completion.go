package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/render/flame/palette"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for stackflame.

Bash:
  $ source <(stackflame completion bash)

Zsh:
  $ stackflame completion zsh > "${fpath[1]}/_stackflame"

Fish:
  $ stackflame completion fish > ~/.config/fish/completions/stackflame.fish

PowerShell:
  PS> stackflame completion powershell | Out-String | Invoke-Expression
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
}

// completeFlagValues registers static value completions for the flags of
// cmd that take one of a fixed set of names. Flags cmd does not define are
// skipped.
func completeFlagValues(cmd *cobra.Command) {
	values := map[string][]string{
		"colors":   palette.Names(),
		"bgcolors": {"yellow", "blue", "green", "grey"},
		"format":   {"svg", "json", "png", "pdf"},
	}
	if cmd.Name() == "callgraph" {
		values["format"] = []string{formatDOT, "svg", "png", "pdf"}
	}
	for name, vals := range values {
		if cmd.Flags().Lookup(name) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(vals, cobra.ShellCompDirectiveNoFileComp))
	}
}
