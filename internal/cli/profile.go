package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/editor"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/profilestore"
	"github.com/xabinapal/farmhand/internal/utils"
)

// ProfileListOutput represents profile list output for JSON.
type ProfileListOutput struct {
	Current  string         `json:"current"`
	Profiles []profile.Info `json:"profiles"`
}

// ProfileValidationOutput represents validation output for JSON.
type ProfileValidationOutput struct {
	Valid    bool                `json:"valid"`
	Profiles map[string][]string `json:"profiles"`
}

// newProfileCmd creates the profile command group.
func (cli *CLI) newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"profiles"},
		Short:   "Manage bot configuration profiles",
		Long: `Manage the named configuration profiles used by the bot.

A new profile starts from the documented defaults with no field zone, so it
does not validate until a field zone is selected.

Examples:
  # List all profiles
  farmhand profile list

  # Create a profile and make it current
  farmhand profile create east-farm
  farmhand profile use east-farm

  # Change a single setting
  farmhand profile set market_timing.escape_wait=1.5

  # Check every stored profile
  farmhand profile validate --all`,
	}

	cmd.AddCommand(
		cli.newProfileListCmd(),
		cli.newProfileCreateCmd(),
		cli.newProfileShowCmd(),
		cli.newProfileSetCmd(),
		cli.newProfileDeleteCmd(),
		cli.newProfileValidateCmd(),
		cli.newProfileUseCmd(),
		cli.newProfileExportCmd(),
		cli.newProfileImportCmd(),
		cli.newProfileWatchCmd(),
	)

	return cmd
}

func (cli *CLI) newProfileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runProfileList(cmd.Context())
		},
	}
}

func (cli *CLI) runProfileList(ctx context.Context) error {
	output, err := cli.output()
	if err != nil {
		return err
	}
	mgr, err := cli.manager(ctx)
	if err != nil {
		return err
	}

	current := cli.Config.CurrentProfile()
	if cli.profileFlag != "" {
		current = cli.profileFlag
	}
	infos, err := mgr.ListInfo(ctx, current)
	if err != nil {
		return err
	}

	list := ProfileListOutput{Current: current, Profiles: infos}
	return output.Write(list, func(w io.Writer) {
		if len(infos) == 0 {
			fmt.Fprintln(w, "No profiles found.")
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Create one with: farmhand profile create <name>")
			return
		}

		tw := output.Table()
		fmt.Fprintln(tw, "NAME\tSTATUS\tPRICE\tMARKET\tFARMING\tTEMPLATES\tFIELD")
		for _, info := range infos {
			marker := ""
			if info.Current {
				marker = "* "
			}
			if info.LoadError != "" {
				fmt.Fprintf(tw, "%s%s\tunreadable\t-\t-\t-\t-\t-\n", marker, info.Name)
				continue
			}
			status := "valid"
			if !info.Valid {
				status = fmt.Sprintf("%d problem(s)", len(info.Problems))
			}
			field := "unset"
			if info.FieldArea > 0 {
				field = utils.FormatArea(info.FieldArea)
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\t%d\t%s\n", marker, info.Name, status,
				info.PriceOption, info.MarketPreset, info.FarmingPreset, info.Templates, field)
		}
		// #nosec G104 - a failed flush leaves visibly incomplete output
		_ = tw.Flush()

		if current != "" {
			fmt.Fprintf(w, "\n* = current profile (%s)\n", current)
		}
	})
}

func (cli *CLI) newProfileCreateCmd() *cobra.Command {
	var use bool

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a profile with default settings",
		Long: `Create a profile with every setting at its default.

The field zone starts unset, so the profile must be given one with
'farmhand field set' or 'farmhand field select' before it validates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			if _, err := mgr.CreateDefault(ctx, name); err != nil {
				return err
			}
			fmt.Fprintf(cli.stdout, "Profile '%s' created.\n", name)

			if use {
				cli.Config.Current = name
				if err := cli.Config.Save(); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}
				fmt.Fprintf(cli.stdout, "Switched to profile '%s'.\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&use, "use", false, "Make the new profile current")
	return cmd
}

func (cli *CLI) newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show [name]",
		Short:             "Show the settings of a profile",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cli.completeProfileNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, err := cli.profileArg(args)
			if err != nil {
				return err
			}
			output, err := cli.output()
			if err != nil {
				return err
			}
			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			p, err := mgr.Load(ctx, name)
			if err != nil {
				return err
			}
			return output.Write(p, func(w io.Writer) {
				printProfile(w, name, p)
			})
		},
	}
}

// printProfile renders a profile grouped the way the bot uses it.
func printProfile(w io.Writer, name string, p *profile.Profile) {
	fmt.Fprintf(w, "Profile: %s\n", name)
	if problems := profile.Validate(p); len(problems) > 0 {
		fmt.Fprintf(w, "Status:  %d problem(s)\n", len(problems))
		for _, problem := range problems {
			fmt.Fprintf(w, "  - %s\n", problem)
		}
	} else {
		fmt.Fprintln(w, "Status:  valid")
	}

	fmt.Fprintln(w, "\nField zone:")
	if p.FieldZone.IsSet() {
		printFieldSummary(w, profile.Summarize(p.FieldZone.Polygon))
	} else {
		fmt.Fprintln(w, "  not selected")
	}

	fmt.Fprintln(w, "\nNavigation:")
	decoration := p.NavigationDecoration.Decoration
	if decoration == "" {
		decoration = "(none)"
	}
	fmt.Fprintf(w, "  Decoration:     %s (offset %d)\n", decoration, p.NavigationDecoration.Offset)
	fmt.Fprintf(w, "  Harvest offset: (%d, %d)\n", p.ToolOffsets.Harvest.X, p.ToolOffsets.Harvest.Y)
	fmt.Fprintf(w, "  Plant offset:   (%d, %d)\n", p.ToolOffsets.Plant.X, p.ToolOffsets.Plant.Y)

	fmt.Fprintln(w, "\nMarket:")
	fmt.Fprintf(w, "  Price option:   %s\n", p.PriceSettings.PriceOption)
	fmt.Fprintf(w, "  Cycle interval: %s\n", utils.FormatSeconds(float64(p.CycleSettings.MarketCycleInterval)))
	fmt.Fprintf(w, "  Timing preset:  %s\n", profile.MatchMarketPreset(p.MarketTiming))

	fmt.Fprintln(w, "\nFarming:")
	fmt.Fprintf(w, "  Timing preset:  %s\n", profile.MatchFarmingPreset(p.FarmingTiming))
	if g := p.FarmingTiming.WheatGrowthTime; g != nil {
		fmt.Fprintf(w, "  Wheat growth:   %s\n", utils.FormatSeconds(*g))
	} else {
		fmt.Fprintln(w, "  Wheat growth:   not measured")
	}
	fmt.Fprintf(w, "  Path spacing:   %d px (±%d px)\n", p.FarmingTiming.PathSpacing, p.FarmingTiming.PathRandomizationPixels)

	fmt.Fprintln(w, "\nDetection:")
	fmt.Fprintf(w, "  Interval:       %s\n", utils.FormatSeconds(p.DetectionSettings.DetectionInterval))
	if len(p.TemplateThresholds.Templates) == 0 {
		fmt.Fprintln(w, "  Templates:      none enabled")
	} else {
		fmt.Fprintln(w, "  Templates:")
		for _, id := range sortedTemplates(p) {
			fmt.Fprintf(w, "    %-40s %.2f\n", id, p.TemplateThresholds.Templates[id])
		}
	}
}

func (cli *CLI) newProfileSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key=value>...",
		Short: "Change settings of the current profile",
		Long: `Change one or more settings of the current profile.

Keys follow the profile document layout. The profile is validated as a
whole and nothing is saved if any value is out of range.

Examples:
  farmhand profile set market_timing.escape_wait=1.5
  farmhand profile set price_settings.price_option=low cycle_settings.market_cycle_interval=15
  farmhand profile set farming_timing.wheat_growth_time=null`,
		Args: cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			var keys []string
			for _, k := range profilestore.Keys() {
				keys = append(keys, k+"=")
			}
			return keys, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}

			type assignment struct{ key, value string }
			assignments := make([]assignment, 0, len(args))
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid assignment %q: expected key=value", arg)
				}
				assignments = append(assignments, assignment{key, value})
			}

			_, err = cli.editProfile(ctx, name, func(ed *editor.Editor) error {
				next := ed.Profile()
				for _, a := range assignments {
					var err error
					if next, err = profilestore.SetValue(next, a.key, a.value); err != nil {
						return err
					}
				}
				return ed.Update(func(p *profile.Profile) { *p = *next })
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cli.stdout, "Profile '%s' updated.\n", name)
			return nil
		},
	}
	return cmd
}

func (cli *CLI) newProfileDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "delete <name>",
		Aliases:           []string{"rm", "remove"},
		Short:             "Delete a profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.completeProfileNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if !yes {
				ok, err := cli.confirm(fmt.Sprintf("Delete profile '%s'? This cannot be undone. [y/N]: ", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cli.stdout, "Aborted.")
					return nil
				}
			}

			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			if err := mgr.Delete(ctx, name); err != nil {
				return err
			}
			fmt.Fprintf(cli.stdout, "Profile '%s' deleted.\n", name)

			if cli.Config.Current == name {
				cli.Config.Current = ""
				if err := cli.Config.Save(); err != nil {
					return fmt.Errorf("failed to save configuration: %w", err)
				}
				fmt.Fprintln(cli.stdout, "No profile is current now.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (cli *CLI) confirm(prompt string) (bool, error) {
	fmt.Fprint(cli.stdout, prompt)
	answer, err := bufio.NewReader(cli.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func (cli *CLI) newProfileValidateCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:               "validate [name]",
		Short:             "Validate a profile",
		Long:              `Check a profile, or every stored profile with --all, against the valid ranges.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cli.completeProfileNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output, err := cli.output()
			if err != nil {
				return err
			}
			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}

			results := make(map[string][]string)
			if all {
				if results, err = mgr.ValidateAll(ctx); err != nil {
					return err
				}
			} else {
				name, err := cli.profileArg(args)
				if err != nil {
					return err
				}
				p, err := mgr.Load(ctx, name)
				if err != nil {
					return err
				}
				results[name] = mgr.Validate(p)
			}

			valid := true
			for _, problems := range results {
				if len(problems) > 0 {
					valid = false
				}
			}

			writeErr := output.Write(ProfileValidationOutput{Valid: valid, Profiles: results}, func(w io.Writer) {
				if len(results) == 0 {
					fmt.Fprintln(w, "No profiles found.")
					return
				}
				for _, name := range sortedKeys(results) {
					problems := results[name]
					if len(problems) == 0 {
						fmt.Fprintf(w, "[OK] %s\n", name)
						continue
					}
					fmt.Fprintf(w, "[XX] %s\n", name)
					for _, problem := range problems {
						fmt.Fprintf(w, "      - %s\n", problem)
					}
				}
			})
			if writeErr != nil {
				return writeErr
			}
			if !valid {
				return profile.ErrValidation
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Validate every stored profile")
	return cmd
}

func (cli *CLI) newProfileUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "use <name>",
		Aliases:           []string{"switch"},
		Short:             "Set the current profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.completeProfileNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			p, err := mgr.Load(ctx, name)
			if err != nil {
				return err
			}

			cli.Config.Current = name
			if err := cli.Config.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintf(cli.stdout, "Switched to profile '%s'.\n", name)
			if problems := mgr.Validate(p); len(problems) > 0 {
				fmt.Fprintf(cli.stdout, "Warning: the profile has %d problem(s); run 'farmhand profile validate' for details.\n", len(problems))
			}
			return nil
		},
	}
}

func (cli *CLI) newProfileExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "export <name> [file]",
		Short:             "Write a profile document to a file or stdout",
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: cli.completeProfileNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			p, err := mgr.Load(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := profilestore.Encode(p)
			if err != nil {
				return err
			}

			if len(args) == 1 || args[1] == "-" {
				_, err := cli.stdout.Write(data)
				return err
			}
			if err := os.WriteFile(args[1], data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			fmt.Fprintf(cli.stdout, "Profile '%s' exported to %s.\n", args[0], args[1])
			return nil
		},
	}
}

func (cli *CLI) newProfileImportCmd() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a profile document read from a file",
		Long: `Store a profile document read from a file, or from stdin with "-".

The profile name defaults to the file name. The document must validate; an
existing profile is only replaced with --force.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			var (
				data []byte
				err  error
			)
			if path == "-" {
				data, err = io.ReadAll(cli.stdin)
			} else {
				// #nosec G304 - the operator names the file to import
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			if name == "" {
				if path == "-" {
					return errors.New("--name is required when importing from stdin")
				}
				name = utils.ProfileNameFromFile(path)
			}
			if !utils.IsValidProfileName(name) {
				return fmt.Errorf("%w: %q", profile.ErrInvalidName, name)
			}

			p, err := profilestore.Decode(name, data)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}

			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			if !force {
				if _, err := mgr.Load(ctx, name); err == nil {
					return fmt.Errorf("%w: %q (use --force to replace it)", profile.ErrDuplicateName, name)
				}
			}
			if err := mgr.Save(ctx, name, p); err != nil {
				return err
			}

			fmt.Fprintf(cli.stdout, "Profile '%s' imported.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Profile name (defaults to the file name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing profile")
	return cmd
}

func (cli *CLI) newProfileWatchCmd() *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report profile documents edited on disk",
		Long: `Watch the profile directory and validate every profile document that is
written or removed by another program, such as a text editor.

Only the file backend can be watched. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			mgr, err := cli.manager(ctx)
			if err != nil {
				return err
			}
			if cli.backends == nil || cli.backends.file == nil {
				return errors.New("profile watch needs the file store backend")
			}

			opts := []profilestore.WatcherOption{
				profilestore.WithWatchLogger(cli.Logger),
				profilestore.WithWatchDebounce(msDuration(debounceMs)),
			}
			if cli.backends.cache != nil {
				opts = append(opts, profilestore.WithWatchCache(cli.backends.cache))
			}

			output, err := cli.output()
			if err != nil {
				return err
			}

			watcher, err := profilestore.NewWatcher(cli.backends.file, func(c profilestore.Change) {
				cli.reportChange(ctx, output, mgr, c)
			}, opts...)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to watch %s: %w", cli.backends.file.Dir(), err)
			}
			defer watcher.Stop()

			if !output.IsJSON() {
				fmt.Fprintf(cli.stdout, "Watching %s (Ctrl+C to stop)\n", cli.backends.file.Dir())
			}
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 250, "Milliseconds a document must be quiet before it is checked")
	return cmd
}

// ProfileChangeOutput represents a watched change for JSON.
type ProfileChangeOutput struct {
	profilestore.Change
	Problems  []string `json:"problems,omitempty"`
	LoadError string   `json:"load_error,omitempty"`
}

func (cli *CLI) reportChange(ctx context.Context, output *OutputWriter, mgr *profile.Manager, c profilestore.Change) {
	cli.reportMu.Lock()
	defer cli.reportMu.Unlock()

	out := ProfileChangeOutput{Change: c}
	if c.Kind == profilestore.ChangeWritten {
		p, err := mgr.Load(ctx, c.Name)
		if err != nil {
			out.LoadError = err.Error()
		} else {
			out.Problems = mgr.Validate(p)
		}
	}

	err := output.Write(out, func(w io.Writer) {
		switch {
		case c.Kind == profilestore.ChangeRemoved:
			fmt.Fprintf(w, "[--] %s removed\n", c.Name)
		case out.LoadError != "":
			fmt.Fprintf(w, "[XX] %s unreadable: %s\n", c.Name, out.LoadError)
		case len(out.Problems) > 0:
			fmt.Fprintf(w, "[!!] %s changed, %d problem(s)\n", c.Name, len(out.Problems))
			for _, problem := range out.Problems {
				fmt.Fprintf(w, "      - %s\n", problem)
			}
		default:
			fmt.Fprintf(w, "[OK] %s changed\n", c.Name)
		}
	})
	if err != nil {
		cli.Logger.Warn().Err(err).Msg("failed to report change")
	}
}
