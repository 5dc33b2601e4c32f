package cli

import (
	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/editor"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/templates"
)

// newCompletionCmd creates the completion command.
func (cli *CLI) newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for farmhand.

Besides commands and flags, the scripts complete stored profile names,
timing preset names and the template ids found under templates_dir.

Bash:
  $ source <(farmhand completion bash)

Zsh:
  $ farmhand completion zsh > "${fpath[1]}/_farmhand"

Fish:
  $ farmhand completion fish > ~/.config/fish/completions/farmhand.fish

PowerShell:
  PS> farmhand completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(cli.stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(cli.stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(cli.stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cli.stdout)
			}
			return nil
		},
	}
	return cmd
}

// completeProfileNames offers stored profile names.
func (cli *CLI) completeProfileNames(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || cli.Config == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	mgr, err := cli.manager(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := mgr.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeTemplateIDs offers every template id in the catalog.
func (cli *CLI) completeTemplateIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || cli.Config == nil || cli.Config.TemplatesDir == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, category := range templates.Categories {
		list, err := cli.catalog().Templates(category)
		if err != nil {
			continue
		}
		ids = append(ids, list...)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func (cli *CLI) completeDecorations(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || cli.Config == nil || cli.Config.TemplatesDir == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids, _ := editor.New(nil, editor.WithTemplateCatalog(cli.catalog())).Decorations()
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completePresets offers the preset group, then the group's preset names.
func completePresets(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return []string{presetMarket, presetFarming}, cobra.ShellCompDirectiveNoFileComp
	case 1:
		if args[0] == presetFarming {
			return profile.FarmingPresetNames(), cobra.ShellCompDirectiveNoFileComp
		}
		return profile.MarketPresetNames(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
