package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/capture"
	"github.com/xabinapal/farmhand/internal/editor"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/utils"
)

// FieldOutput represents the field zone of a profile for JSON.
type FieldOutput struct {
	Profile string                `json:"profile"`
	Set     bool                  `json:"set"`
	Summary *profile.FieldSummary `json:"summary,omitempty"`
}

func (cli *CLI) newFieldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage the field zone of the current profile",
		Long: `Manage the four-corner polygon bounding the farm field.

Corners are given as x,y screen coordinates in the order they are walked
around the field.`,
	}

	cmd.AddCommand(
		cli.newFieldShowCmd(),
		cli.newFieldSetCmd(),
		cli.newFieldSelectCmd(),
	)
	return cmd
}

// parsePoints parses "x,y" arguments.
func parsePoints(args []string) ([]profile.Point, error) {
	points := make([]profile.Point, 0, len(args))
	for _, arg := range args {
		xs, ys, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q: expected x,y", arg)
		}
		x, err := strconv.Atoi(strings.TrimSpace(xs))
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", arg, err)
		}
		y, err := strconv.Atoi(strings.TrimSpace(ys))
		if err != nil {
			return nil, fmt.Errorf("invalid point %q: %w", arg, err)
		}
		points = append(points, profile.Point{x, y})
	}
	return points, nil
}

func printFieldSummary(w io.Writer, s profile.FieldSummary) {
	corners := make([]string, len(s.Points))
	for i, p := range s.Points {
		corners[i] = fmt.Sprintf("(%d, %d)", p.X(), p.Y())
	}
	fmt.Fprintf(w, "  Corners: %s\n", strings.Join(corners, " "))
	fmt.Fprintf(w, "  Bounds:  (%d, %d) to (%d, %d)\n", s.Min.X(), s.Min.Y(), s.Max.X(), s.Max.Y())
	fmt.Fprintf(w, "  Area:    %s\n", utils.FormatArea(s.Area))
}

func (cli *CLI) newFieldShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the field zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name, err := cli.currentProfileName()
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

			out := FieldOutput{Profile: name, Set: p.FieldZone.IsSet()}
			if out.Set {
				s := profile.Summarize(p.FieldZone.Polygon)
				out.Summary = &s
			}
			return output.Write(out, func(w io.Writer) {
				fmt.Fprintf(w, "Field zone of '%s':\n", name)
				if out.Summary == nil {
					fmt.Fprintln(w, "  not selected")
					return
				}
				printFieldSummary(w, *out.Summary)
			})
		},
	}
}

func (cli *CLI) newFieldSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set <x,y> <x,y> <x,y> <x,y>",
		Short:   "Set the field zone from four corners",
		Example: `  farmhand field set 120,340 980,310 1010,720 90,760`,
		Args:    cobra.ExactArgs(profile.PolygonPoints),
		RunE: func(cmd *cobra.Command, args []string) error {
			points, err := parsePoints(args)
			if err != nil {
				return err
			}
			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}

			if _, err := cli.editProfile(cmd.Context(), name, func(ed *editor.Editor) error {
				return ed.SetPolygon(points)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cli.stdout, "Field zone of '%s' saved.\n", name)
			printFieldSummary(cli.stdout, profile.Summarize(points))
			return nil
		},
	}
}

// previewSelector saves a crop of the selected field next to the selection.
type previewSelector struct {
	inner editor.FieldSelector
	path  string
}

func (s previewSelector) SelectField(ctx context.Context, img image.Image) ([]profile.Point, error) {
	points, err := s.inner.SelectField(ctx, img)
	if err != nil || s.path == "" {
		return points, err
	}
	if err := capture.SavePreview(img, points, s.path); err != nil {
		return nil, err
	}
	return points, nil
}

func (cli *CLI) newFieldSelectCmd() *cobra.Command {
	var (
		screenshot string
		preview    string
		offline    bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "select --screenshot <file> <x,y> <x,y> <x,y> <x,y>",
		Short: "Select the field zone on a device screenshot",
		Long: `Select the field zone on a screenshot of the device.

The corners are checked against the screenshot dimensions and, with
--preview, the selected area is cut out and saved for review. The device
must be connected unless --offline is given.

Capture the screenshot with:
  adb exec-out screencap -p > screen.png`,
		Example: `  farmhand field select --screenshot screen.png --preview field.png 120,340 980,310 1010,720 90,760`,
		Args:    cobra.ExactArgs(profile.PolygonPoints),
		RunE: func(cmd *cobra.Command, args []string) error {
			if screenshot == "" {
				return errors.New("--screenshot is required")
			}
			points, err := parsePoints(args)
			if err != nil {
				return err
			}
			name, err := cli.currentProfileName()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			type outcome struct {
				summary profile.FieldSummary
				err     error
			}
			done := make(chan outcome, 1)

			opts := []editor.Option{
				editor.WithScreenshotSource(cli.screenshotSource(screenshot)),
				editor.WithFieldSelector(previewSelector{inner: capture.StaticSelector{Points: points}, path: preview}),
				editor.WithOnSelection(func(s profile.FieldSummary, err error) {
					done <- outcome{s, err}
				}),
			}
			if offline {
				opts = append(opts, editor.WithDeviceLink(nil))
			}

			var summary profile.FieldSummary
			_, err = cli.editProfile(ctx, name, func(ed *editor.Editor) error {
				if err := ed.RequestFieldSelection(ctx); err != nil {
					return err
				}
				select {
				case res := <-done:
					summary = res.summary
					return res.err
				case <-ctx.Done():
					ed.CancelFieldSelection()
					return fmt.Errorf("field selection abandoned: %w", ctx.Err())
				}
			}, opts...)
			if err != nil {
				if errors.Is(err, editor.ErrNoDevice) {
					return fmt.Errorf("%w: run 'farmhand device status' or pass --offline", err)
				}
				return err
			}

			fmt.Fprintf(cli.stdout, "Field zone of '%s' saved.\n", name)
			printFieldSummary(cli.stdout, summary)
			if preview != "" {
				fmt.Fprintf(cli.stdout, "  Preview: %s\n", preview)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&screenshot, "screenshot", "s", "", "Screenshot of the device screen")
	cmd.Flags().StringVar(&preview, "preview", "", "Save a crop of the selected field to this image file")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the device connection check")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "How long to wait for the screenshot")
	return cmd
}
