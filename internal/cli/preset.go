package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/editor"
	"github.com/xabinapal/farmhand/internal/profile"
)

// Preset groups.
const (
	presetMarket  = "market"
	presetFarming = "farming"
)

// PresetListOutput represents the preset listing for JSON.
type PresetListOutput struct {
	Market        []string `json:"market"`
	Farming       []string `json:"farming"`
	Profile       string   `json:"profile,omitempty"`
	ActiveMarket  string   `json:"active_market,omitempty"`
	ActiveFarming string   `json:"active_farming,omitempty"`
}

func (cli *CLI) newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Apply timing presets",
		Long: `Apply one of the predefined timing presets to the current profile.

Market presets: Fast, Normal, Safe.
Farming presets: Lightning, Fast, Normal, Safe.

A farming preset keeps the measured wheat growth time. "Custom" is not a
preset; it is shown when the timings match none of them.`,
	}

	cmd.AddCommand(
		cli.newPresetListCmd(),
		cli.newPresetApplyCmd(),
	)
	return cmd
}

func (cli *CLI) newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets and the ones the current profile uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output, err := cli.output()
			if err != nil {
				return err
			}

			out := PresetListOutput{
				Market:  profile.MarketPresetNames(),
				Farming: profile.FarmingPresetNames(),
			}
			if name, err := cli.currentProfileName(); err == nil {
				mgr, err := cli.manager(ctx)
				if err != nil {
					return err
				}
				if p, err := mgr.Load(ctx, name); err == nil {
					out.Profile = name
					out.ActiveMarket = profile.MatchMarketPreset(p.MarketTiming)
					out.ActiveFarming = profile.MatchFarmingPreset(p.FarmingTiming)
				}
			}

			return output.Write(out, func(w io.Writer) {
				fmt.Fprintf(w, "Market:  %s\n", markActive(out.Market, out.ActiveMarket))
				fmt.Fprintf(w, "Farming: %s\n", markActive(out.Farming, out.ActiveFarming))
				if out.Profile != "" {
					fmt.Fprintf(w, "\n* = used by profile '%s'\n", out.Profile)
				}
			})
		},
	}
}

func markActive(names []string, active string) string {
	marked := make([]string, len(names))
	for i, n := range names {
		marked[i] = n
		if n == active {
			marked[i] = "*" + n
		}
	}
	if active == profile.PresetCustom {
		marked = append(marked, "*"+profile.PresetCustom)
	}
	return strings.Join(marked, ", ")
}

func (cli *CLI) newPresetApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <market|farming> <preset>",
		Short: "Apply a timing preset to the current profile",
		Example: `  farmhand preset apply market Safe
  farmhand preset apply farming Lightning -p east-farm`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: completePresets,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			group, label := strings.ToLower(args[0]), args[1]

			var apply func(*editor.Editor) (bool, error)
			switch group {
			case presetMarket:
				apply = func(ed *editor.Editor) (bool, error) { return ed.ApplyMarketPreset(label) }
			case presetFarming:
				apply = func(ed *editor.Editor) (bool, error) { return ed.ApplyFarmingPreset(label) }
			default:
				return fmt.Errorf("unknown preset group %q: must be %q or %q", args[0], presetMarket, presetFarming)
			}

			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}

			var applied bool
			_, err = cli.editProfile(ctx, name, func(ed *editor.Editor) error {
				var err error
				applied, err = apply(ed)
				return err
			})
			if err != nil {
				return err
			}

			if !applied {
				fmt.Fprintf(cli.stdout, "'%s' is not a %s preset; profile '%s' left unchanged.\n", label, group, name)
				return nil
			}
			fmt.Fprintf(cli.stdout, "Applied %s preset '%s' to profile '%s'.\n", group, label, name)
			return nil
		},
	}
}
