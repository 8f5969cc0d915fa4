package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a shell completion script for floorgen.

Room names complete from the catalog, so 'floorgen generate liv<TAB>' works
once the script is loaded:

  source <(floorgen completion bash)
  floorgen completion zsh > "${fpath[1]}/_floorgen"
  floorgen completion fish > ~/.config/fish/completions/floorgen.fish
  floorgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), c.out.w
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// completeRoomNames offers catalog names (and aliases) for positional
// room arguments.
func (c *CLI) completeRoomNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	b, err := c.newBuilder()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, rt := range b.Catalog().Types() {
		names = append(names, rt.Name)
		names = append(names, rt.Aliases...)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
