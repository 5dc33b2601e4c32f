package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/editor"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/templates"
)

// TemplateEntry represents one template for JSON.
type TemplateEntry struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Enabled   bool     `json:"enabled"`
	Threshold *float64 `json:"threshold,omitempty"`
	Missing   bool     `json:"missing,omitempty"`
}

// errNoTemplatesDir is returned when no template directory is configured.
var errNoTemplatesDir = errors.New("templates_dir is not configured: set it in the configuration file")

func (cli *CLI) newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates"},
		Short:   "Enable detection templates and set their thresholds",
		Long: `Enable detection templates for the current profile.

Only templates enabled here are used by the detector; there is no implicit
threshold. Templates are read from the configured templates_dir, one
subdirectory per category: decorations, main, market, offer, advert.`,
	}

	cmd.AddCommand(
		cli.newTemplateListCmd(),
		cli.newTemplateSetCmd(),
		cli.newTemplateUnsetCmd(),
		cli.newTemplateDecorationCmd(),
	)
	return cmd
}

func (cli *CLI) newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list [category]",
		Short:     "List templates and whether the current profile enables them",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: templates.Categories,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output, err := cli.output()
			if err != nil {
				return err
			}

			var enabled map[string]float64
			if name, err := cli.currentProfileName(); err == nil {
				mgr, err := cli.manager(ctx)
				if err != nil {
					return err
				}
				if p, err := mgr.Load(ctx, name); err == nil {
					enabled = p.TemplateThresholds.Templates
				}
			}

			categories := templates.Categories
			if len(args) == 1 {
				if !templates.IsCategory(args[0]) {
					return fmt.Errorf("%w: %q", templates.ErrUnknownCategory, args[0])
				}
				categories = []string{args[0]}
			}

			var entries []TemplateEntry
			if cli.Config.TemplatesDir != "" {
				ed := editor.New(nil, editor.WithTemplateCatalog(cli.catalog()))
				available, err := ed.AvailableTemplates()
				if err != nil {
					return err
				}
				for _, category := range categories {
					for _, id := range available[category] {
						entries = append(entries, templateEntry(id, category, enabled))
					}
				}
			}
			// Enabled templates whose image is gone still matter to the detector.
			for _, id := range sortedKeys(enabled) {
				category, _, _ := templates.Split(id)
				if !containsCategory(categories, category) || cli.catalogHas(id) {
					continue
				}
				entry := templateEntry(id, category, enabled)
				entry.Missing = true
				entries = append(entries, entry)
			}

			return output.Write(entries, func(w io.Writer) {
				if len(entries) == 0 {
					if cli.Config.TemplatesDir == "" {
						fmt.Fprintln(w, errNoTemplatesDir.Error())
					} else {
						fmt.Fprintln(w, "No templates found.")
					}
					return
				}
				tw := output.Table()
				fmt.Fprintln(tw, "TEMPLATE\tENABLED\tTHRESHOLD")
				for _, e := range entries {
					state, threshold := "no", "-"
					if e.Enabled {
						state = "yes"
						threshold = strconv.FormatFloat(*e.Threshold, 'f', 2, 64)
					}
					if e.Missing {
						state += " (image missing)"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, state, threshold)
				}
				// #nosec G104 - a failed flush leaves visibly incomplete output
				_ = tw.Flush()
			})
		},
	}
}

func templateEntry(id, category string, enabled map[string]float64) TemplateEntry {
	e := TemplateEntry{ID: id, Category: category}
	if v, ok := enabled[id]; ok {
		e.Enabled = true
		e.Threshold = &v
	}
	return e
}

func containsCategory(categories []string, category string) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func (cli *CLI) catalogHas(id string) bool {
	return cli.Config.TemplatesDir != "" && cli.catalog().Exists(id)
}

func (cli *CLI) newTemplateSetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:               "set <template> <threshold>",
		Short:             "Enable a template with a match threshold",
		Example:           `  farmhand template set market/market_stand.png 0.85`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: cli.completeTemplateIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			threshold, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid threshold %q: %w", args[1], err)
			}
			if _, _, ok := templates.Split(id); !ok {
				return fmt.Errorf("invalid template %q: expected <category>/<file>", id)
			}
			if !force && cli.Config.TemplatesDir != "" && !cli.catalogHas(id) {
				return fmt.Errorf("template %q not found in %s (use --force to enable it anyway)", id, cli.Config.TemplatesDir)
			}

			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}
			if _, err := cli.editProfile(cmd.Context(), name, func(ed *editor.Editor) error {
				return ed.SetThreshold(id, threshold)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cli.stdout, "Template '%s' enabled in '%s' with threshold %.2f.\n", id, name, threshold)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Enable a template that is not in the template directory")
	return cmd
}

func (cli *CLI) newTemplateUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "unset <template>",
		Aliases: []string{"disable"},
		Short:   "Disable a template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}

			var cleared bool
			if _, err := cli.editProfile(cmd.Context(), name, func(ed *editor.Editor) error {
				var err error
				cleared, err = ed.ClearThreshold(id)
				return err
			}); err != nil {
				return err
			}

			if !cleared {
				fmt.Fprintf(cli.stdout, "Template '%s' was not enabled in '%s'.\n", id, name)
				return nil
			}
			fmt.Fprintf(cli.stdout, "Template '%s' disabled in '%s'.\n", id, name)
			return nil
		},
	}
}

func (cli *CLI) newTemplateDecorationCmd() *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "decoration <template>",
		Short: "Choose the decoration used to recenter the field view",
		Long: `Choose the decoration template the bot looks for to recenter the field
view, and the pixel offset from it. Pass "" to clear it.`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: cli.completeDecorations,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if id != "" {
				category, _, ok := templates.Split(id)
				if !ok || category != templates.CategoryDecorations {
					return fmt.Errorf("invalid decoration %q: expected %s/<file>", id, templates.CategoryDecorations)
				}
			}

			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}
			if _, err := cli.editProfile(cmd.Context(), name, func(ed *editor.Editor) error {
				return ed.Update(func(p *profile.Profile) {
					p.NavigationDecoration.Decoration = id
					if cmd.Flags().Changed("offset") {
						p.NavigationDecoration.Offset = offset
					}
				})
			}); err != nil {
				return err
			}

			fmt.Fprintf(cli.stdout, "Navigation decoration of '%s' saved.\n", name)
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Pixel offset from the decoration")
	return cmd
}
