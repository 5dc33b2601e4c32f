package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xabinapal/farmhand/internal/config"
	"github.com/xabinapal/farmhand/internal/utils"
)

// configPathOutput represents config path output for JSON.
type configPathOutput struct {
	ConfigFile   string `json:"config_file"`
	ConfigDir    string `json:"config_dir"`
	DataDir      string `json:"data_dir"`
	CacheDir     string `json:"cache_dir"`
	ProfilesDir  string `json:"profiles_dir"`
	LogFile      string `json:"log_file,omitempty"`
	ConfigExists bool   `json:"config_exists"`
}

// configValidationOutput represents config validation output for JSON.
type configValidationOutput struct {
	Valid  bool     `json:"valid"`
	File   string   `json:"file"`
	Errors []string `json:"errors,omitempty"`
}

// newConfigCmd creates the config command group.
func (cli *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage farmhand settings",
		Long: `Manage the farmhand settings file: profile store backend, template
directory, device, logging and notifications.

Use 'farmhand config path' to see where files live.
Use 'farmhand config edit' to open the settings in your editor.`,
	}

	cmd.AddCommand(
		cli.newConfigPathCmd(),
		cli.newConfigShowCmd(),
		cli.newConfigEditCmd(),
		cli.newConfigValidateCmd(),
	)
	return cmd
}

func (cli *CLI) newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}

			paths := config.GetPaths()
			_, statErr := os.Stat(cli.Config.FilePath())
			out := configPathOutput{
				ConfigFile:   cli.Config.FilePath(),
				ConfigDir:    paths.ConfigDir,
				DataDir:      paths.DataDir,
				CacheDir:     paths.CacheDir,
				ProfilesDir:  cli.Config.ProfilesDir(),
				LogFile:      cli.Config.LogFile(),
				ConfigExists: statErr == nil,
			}

			return output.Write(out, func(w io.Writer) {
				fmt.Fprintln(w, "Configuration paths:")
				fmt.Fprintf(w, "  Config file:  %s\n", out.ConfigFile)
				fmt.Fprintf(w, "  Config dir:   %s\n", out.ConfigDir)
				fmt.Fprintf(w, "  Data dir:     %s\n", out.DataDir)
				fmt.Fprintf(w, "  Cache dir:    %s\n", out.CacheDir)
				fmt.Fprintf(w, "  Profiles dir: %s\n", out.ProfilesDir)
				if out.LogFile != "" {
					fmt.Fprintf(w, "  Log file:     %s\n", out.LogFile)
				}

				fmt.Fprintln(w, "\nStatus:")
				if out.ConfigExists {
					fmt.Fprintln(w, "  Config file exists")
				} else {
					fmt.Fprintln(w, "  Config file does not exist (defaults in use)")
				}
			})
		},
	}
}

func (cli *CLI) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}

			shown := *cli.Config
			if shown.Store.Redis.Password != "" {
				shown.Store.Redis.Password = utils.Mask(shown.Store.Redis.Password)
			}

			if output.IsJSON() {
				return output.WriteJSON(shown)
			}
			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cli.stdout.Write(data)
			return err
		},
	}
}

// newConfigEditCmd creates the config edit command.
func (cli *CLI) newConfigEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Open the settings file in an editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			editorBin := findEditor()
			if editorBin == "" {
				return errors.New("no editor found: set $EDITOR environment variable")
			}

			configPath := cli.Config.FilePath()
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				if err := cli.Config.Save(); err != nil {
					return fmt.Errorf("failed to create config file: %w", err)
				}
			}

			// #nosec G204 - editor comes from $EDITOR, configPath from the config directory
			editorCmd := exec.CommandContext(cmd.Context(), editorBin, configPath)
			editorCmd.Stdin = cli.stdin
			editorCmd.Stdout = cli.stdout
			editorCmd.Stderr = cli.stderr
			if err := editorCmd.Run(); err != nil {
				return err
			}

			cfg, err := config.LoadFrom(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cli.stderr, "Warning: the settings have problems:\n%v\n", err)
			}
			return nil
		},
	}
}

func findEditor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}
	for _, e := range []string{"vim", "vi", "nano", "notepad"} {
		if _, err := exec.LookPath(e); err == nil {
			return e
		}
	}
	return ""
}

func (cli *CLI) newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}

			out := configValidationOutput{Valid: true, File: cli.Config.FilePath()}
			if err := cli.Config.Validate(); err != nil {
				out.Valid = false
				out.Errors = splitJoined(err)
			}

			if err := output.Write(out, func(w io.Writer) {
				if out.Valid {
					fmt.Fprintf(w, "[OK] %s\n", out.File)
					return
				}
				fmt.Fprintf(w, "[XX] %s\n", out.File)
				for _, e := range out.Errors {
					fmt.Fprintf(w, "      - %s\n", e)
				}
			}); err != nil {
				return err
			}
			if !out.Valid {
				return errors.New("configuration is invalid")
			}
			return nil
		},
	}
}

// splitJoined flattens an errors.Join result into messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
