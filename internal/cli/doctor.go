package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/device"
	"github.com/xabinapal/farmhand/internal/keyring"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/templates"
)

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	Fix     string      `json:"fix,omitempty"`
}

// CheckStatus represents the status of a diagnostic check.
type CheckStatus int

const (
	// CheckOK indicates the check passed.
	CheckOK CheckStatus = iota
	// CheckWarning indicates a non-critical issue.
	CheckWarning
	// CheckError indicates a critical failure.
	CheckError
	// CheckSkipped indicates the check was skipped.
	CheckSkipped
)

// String returns the status name.
func (s CheckStatus) String() string {
	switch s {
	case CheckOK:
		return "OK"
	case CheckWarning:
		return "WARN"
	case CheckError:
		return "ERROR"
	case CheckSkipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Icon returns the status icon for display.
func (s CheckStatus) Icon() string {
	switch s {
	case CheckOK:
		return "[OK]"
	case CheckWarning:
		return "[!!]"
	case CheckError:
		return "[XX]"
	case CheckSkipped:
		return "[--]"
	default:
		return "[??]"
	}
}

// MarshalJSON implements json.Marshaler.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *CheckStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, status := range []CheckStatus{CheckOK, CheckWarning, CheckError, CheckSkipped} {
		if status.String() == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown check status %q", name)
}

// DoctorOutput represents the doctor command output for JSON.
type DoctorOutput struct {
	Checks      []CheckResult `json:"checks"`
	HasErrors   bool          `json:"has_errors"`
	HasWarnings bool          `json:"has_warnings"`
}

func summarizeChecks(results []CheckResult) DoctorOutput {
	out := DoctorOutput{Checks: results}
	for _, r := range results {
		switch r.Status {
		case CheckError:
			out.HasErrors = true
		case CheckWarning:
			out.HasWarnings = true
		}
	}
	return out
}

// newDoctorCmd creates the doctor command.
func (cli *CLI) newDoctorCmd() *cobra.Command {
	var (
		verbose    bool
		skipDevice bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: `Run diagnostic checks to find out why the bot would not start.

The doctor command checks:
  - Settings file validity
  - Profile store availability and stored profiles
  - The current profile
  - Keyring availability
  - The adb binary and the device connection
  - The template directory and the templates enabled in the current profile

Use --verbose for suggested fixes.

Examples:
  # Run diagnostics
  farmhand doctor

  # Run with suggested fixes
  farmhand doctor --verbose

  # Output as JSON
  farmhand doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			results := cli.runDiagnostics(ctx, !skipDevice)
			out := summarizeChecks(results)

			writeErr := output.Write(out, func(w io.Writer) {
				fmt.Fprintln(w, "Farmhand Diagnostics")
				fmt.Fprintln(w, "====================")
				fmt.Fprintln(w)

				for _, r := range results {
					fmt.Fprintf(w, "%s %s", r.Status.Icon(), r.Name)
					if r.Message != "" {
						fmt.Fprintf(w, ": %s", r.Message)
					}
					fmt.Fprintln(w)

					if (r.Status == CheckError || r.Status == CheckWarning) && r.Fix != "" && verbose {
						fmt.Fprintf(w, "      -> %s\n", r.Fix)
					}
				}

				fmt.Fprintln(w)
				switch {
				case out.HasErrors:
					fmt.Fprintln(w, "Some checks failed. Run with --verbose for suggested fixes.")
				case out.HasWarnings:
					fmt.Fprintln(w, "All critical checks passed with some warnings.")
				default:
					fmt.Fprintln(w, "All checks passed!")
				}
			})
			if writeErr != nil {
				return writeErr
			}

			if out.HasErrors {
				return errors.New("diagnostics failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Show suggested fixes")
	cmd.Flags().BoolVar(&skipDevice, "skip-device", false, "Do not run adb")
	return cmd
}

func (cli *CLI) runDiagnostics(ctx context.Context, withDevice bool) []CheckResult {
	var results []CheckResult

	results = append(results, cli.checkConfigFile())

	mgr, storeCheck := cli.checkProfileStore(ctx)
	results = append(results, storeCheck)
	current := cli.checkCurrentProfile(ctx, mgr)
	results = append(results, current.result)

	results = append(results, cli.checkKeyring())

	if withDevice {
		link := cli.deviceLink()
		results = append(results, checkADB(ctx, link))
		results = append(results, checkDevice(ctx, link))
	}

	results = append(results, cli.checkTemplates(current.profile)...)
	return results
}

func (cli *CLI) checkConfigFile() CheckResult {
	const name = "Settings file"

	if _, err := os.Stat(cli.Config.FilePath()); os.IsNotExist(err) {
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: "not found, using defaults",
			Fix:     "Run 'farmhand config edit' to create one",
		}
	}

	if err := cli.Config.Validate(); err != nil {
		return CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("invalid: %d problem(s)", len(splitJoined(err))),
			Fix:     "Run 'farmhand config validate' to see detailed errors",
		}
	}

	return CheckResult{
		Name:    name,
		Status:  CheckOK,
		Message: cli.Config.FilePath(),
	}
}

func (cli *CLI) checkProfileStore(ctx context.Context) (*profile.Manager, CheckResult) {
	const name = "Profile store"

	mgr, err := cli.manager(ctx)
	if err != nil {
		return nil, CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("unavailable: %v", err),
			Fix:     "Check the store section with 'farmhand config show'",
		}
	}

	results, err := mgr.ValidateAll(ctx)
	if err != nil {
		return nil, CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("cannot list profiles: %v", err),
			Fix:     "Check that the profile store is reachable",
		}
	}

	invalid := 0
	for _, problems := range results {
		if len(problems) > 0 {
			invalid++
		}
	}
	backend := cli.Config.Store.Backend
	if backend == "" {
		backend = "file"
	}
	if invalid > 0 {
		return mgr, CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: fmt.Sprintf("%s, %d profile(s), %d invalid", backend, len(results), invalid),
			Fix:     "Run 'farmhand profile validate --all' for details",
		}
	}
	return mgr, CheckResult{
		Name:    name,
		Status:  CheckOK,
		Message: fmt.Sprintf("%s, %d profile(s)", backend, len(results)),
	}
}

type currentCheck struct {
	result  CheckResult
	profile *profile.Profile
}

func (cli *CLI) checkCurrentProfile(ctx context.Context, mgr *profile.Manager) currentCheck {
	const name = "Current profile"

	if mgr == nil {
		return currentCheck{result: CheckResult{Name: name, Status: CheckSkipped, Message: "profile store unavailable"}}
	}
	current, err := cli.currentProfileName()
	if err != nil {
		return currentCheck{result: CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: err.Error(),
			Fix:     "Run 'farmhand profile use <name>' to select a profile",
		}}
	}

	p, err := mgr.Load(ctx, current)
	if err != nil {
		return currentCheck{result: CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("'%s' cannot be loaded: %v", current, err),
			Fix:     "Create it with 'farmhand profile create' or select another profile",
		}}
	}
	if problems := mgr.Validate(p); len(problems) > 0 {
		return currentCheck{profile: p, result: CheckResult{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("'%s' has %d problem(s)", current, len(problems)),
			Fix:     "Run 'farmhand profile validate' for details",
		}}
	}
	return currentCheck{profile: p, result: CheckResult{
		Name:    name,
		Status:  CheckOK,
		Message: fmt.Sprintf("'%s' is valid", current),
	}}
}

func (cli *CLI) checkKeyring() CheckResult {
	if err := cli.Keyring.IsAvailable(); err != nil {
		return CheckResult{
			Name:    "Keyring",
			Status:  CheckWarning,
			Message: fmt.Sprintf("unavailable: %v", err),
			Fix:     "Install a keyring service to store device pairing codes",
		}
	}

	keyringType := "OS keyring"
	switch cli.Keyring.(type) {
	case *keyring.FileStore:
		keyringType = "file-based (test mode)"
	case *keyring.MockStore:
		keyringType = "in-memory"
	}
	return CheckResult{Name: "Keyring", Status: CheckOK, Message: keyringType}
}

func checkADB(ctx context.Context, link *device.Link) CheckResult {
	version, err := link.Version(ctx)
	if err != nil {
		fix := "Check that adb runs on this machine"
		if errors.Is(err, device.ErrADBNotFound) {
			fix = "Install the Android platform tools or set device.adb_path"
		}
		return CheckResult{
			Name:    "adb binary",
			Status:  CheckError,
			Message: err.Error(),
			Fix:     fix,
		}
	}
	return CheckResult{Name: "adb binary", Status: CheckOK, Message: version}
}

func checkDevice(ctx context.Context, link *device.Link) CheckResult {
	const name = "Device"

	if link.Target() == "" {
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: "not configured",
			Fix:     "Run 'farmhand device set --serial <serial>' or '--address <host:port>'",
		}
	}

	status := link.Status(ctx)
	switch {
	case status.Connected:
		return CheckResult{Name: name, Status: CheckOK, Message: fmt.Sprintf("%s connected", status.Target)}
	case status.State == device.StateUnauthorized:
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: fmt.Sprintf("%s unauthorized", status.Target),
			Fix:     "Accept the debugging prompt on the device",
		}
	default:
		msg := fmt.Sprintf("%s %s", status.Target, status.State)
		if status.Error != "" {
			msg = fmt.Sprintf("%s: %s", status.Target, status.Error)
		}
		return CheckResult{
			Name:    name,
			Status:  CheckWarning,
			Message: msg,
			Fix:     "Run 'farmhand device connect' for network devices",
		}
	}
}

func (cli *CLI) checkTemplates(p *profile.Profile) []CheckResult {
	const name = "Templates"

	if cli.Config.TemplatesDir == "" {
		return []CheckResult{{
			Name:    name,
			Status:  CheckWarning,
			Message: "templates_dir not set",
			Fix:     "Set templates_dir with 'farmhand config edit'",
		}}
	}
	info, err := os.Stat(cli.Config.TemplatesDir)
	if err != nil || !info.IsDir() {
		return []CheckResult{{
			Name:    name,
			Status:  CheckError,
			Message: fmt.Sprintf("%s is not a directory", cli.Config.TemplatesDir),
			Fix:     "Point templates_dir at the bot's template tree",
		}}
	}

	catalog := cli.catalog()
	total := 0
	for _, category := range templates.Categories {
		ids, err := catalog.Templates(category)
		if err != nil {
			return []CheckResult{{Name: name, Status: CheckError, Message: err.Error()}}
		}
		total += len(ids)
	}
	results := []CheckResult{{
		Name:    name,
		Status:  CheckOK,
		Message: fmt.Sprintf("%d in %s", total, cli.Config.TemplatesDir),
	}}

	if p == nil {
		return results
	}
	var missing []string
	for _, id := range sortedTemplates(p) {
		if !catalog.Exists(id) {
			missing = append(missing, id)
		}
	}
	if p.NavigationDecoration.Decoration != "" && !catalog.Exists(p.NavigationDecoration.Decoration) {
		missing = append(missing, p.NavigationDecoration.Decoration)
	}
	if len(missing) > 0 {
		return append(results, CheckResult{
			Name:    "Enabled templates",
			Status:  CheckError,
			Message: fmt.Sprintf("%d missing: %v", len(missing), missing),
			Fix:     "Disable them with 'farmhand template unset' or add the images",
		})
	}
	return append(results, CheckResult{
		Name:    "Enabled templates",
		Status:  CheckOK,
		Message: fmt.Sprintf("%d enabled, all present", len(p.TemplateThresholds.Templates)),
	})
}
