// Package cli provides the command-line interface for farmhand.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/config"
	"github.com/xabinapal/farmhand/internal/keyring"
	"github.com/xabinapal/farmhand/internal/logging"
	"github.com/xabinapal/farmhand/internal/notify"
	"github.com/xabinapal/farmhand/internal/profile"
	"github.com/xabinapal/farmhand/internal/utils"
)

// CLI holds the application state for the CLI.
type CLI struct {
	Config   *config.Config
	Keyring  keyring.Store
	Logger   zerolog.Logger
	Notifier notify.Notifier
	rootCmd  *cobra.Command

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// store is opened on first use; tests may set it up front.
	store    profile.Store
	backends *backends
	closers  []io.Closer
	// reportMu serialises output written from background callbacks.
	reportMu sync.Mutex

	// Flags
	profileFlag string
	verboseFlag bool
	outputFlag  string
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{
		Keyring: keyring.DefaultStore(),
		Logger:  zerolog.Nop(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	cli.rootCmd = &cobra.Command{
		Use:   "farmhand [command]",
		Short: "Farmhand - configuration profiles for the farm bot",
		Long: `Farmhand manages the configuration profiles of the farming and market bot:
field geometry, tool offsets, pricing, detection thresholds and every
timing parameter of the farming and market loops.

Profiles are validated before they are saved, so the bot never starts
from a half-edited or out-of-range configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			cli.close()
		},
	}

	cli.rootCmd.PersistentFlags().StringVarP(&cli.profileFlag, "profile", "p", "", "Use a specific profile")
	cli.rootCmd.PersistentFlags().BoolVarP(&cli.verboseFlag, "verbose", "v", false, "Enable verbose output")
	cli.rootCmd.PersistentFlags().StringVarP(&cli.outputFlag, "output", "o", "text", "Output format (text, json)")

	cli.addCommands()

	return cli
}

// addCommands adds all subcommands to the root command.
func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newVersionCmd(),
		cli.newProfileCmd(),
		cli.newPresetCmd(),
		cli.newFieldCmd(),
		cli.newTemplateCmd(),
		cli.newDeviceCmd(),
		cli.newConfigCmd(),
		cli.newDoctorCmd(),
		cli.newCompletionCmd(),
	)
}

// initialize loads configuration and sets up logging and notices.
func (cli *CLI) initialize(cmd *cobra.Command) error {
	if cli.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cli.Config = cfg
	}

	if cli.profileFlag != "" && !utils.IsValidProfileName(cli.profileFlag) {
		return fmt.Errorf("%w: %q", profile.ErrInvalidName, cli.profileFlag)
	}
	if env := os.Getenv(config.EnvProfile); env != "" && cli.profileFlag == "" && !utils.IsValidProfileName(env) {
		// The variable is ignored rather than echoed; it may hold anything.
		fmt.Fprintf(cli.stderr, "Warning: %s contains an invalid profile name\n", config.EnvProfile)
	}

	level := cli.Config.Logging.Level
	if cli.verboseFlag {
		level = "debug"
	}
	logger, closer, err := logging.New(logging.LoggerConfig{
		Level:    level,
		FilePath: cli.Config.LogFile(),
		JSONMode: cli.Config.Logging.JSON,
		MaxSize:  cli.Config.Logging.MaxSize,
	}, cli.stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	cli.Logger = logger.With().Str("command", cmd.CommandPath()).Logger()
	cli.closers = append(cli.closers, closer)

	if cli.Notifier == nil {
		cli.Notifier = notify.New(cli.Config.Notifications)
	}
	return nil
}

func (cli *CLI) close() {
	for i := len(cli.closers) - 1; i >= 0; i-- {
		if err := cli.closers[i].Close(); err != nil {
			cli.Logger.Debug().Err(err).Msg("failed to release resource")
		}
	}
	cli.closers = nil
}

// Execute runs the CLI.
func (cli *CLI) Execute(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

// currentProfileName resolves the profile to act on: the --profile flag, then
// FARMHAND_PROFILE, then the configured current profile.
func (cli *CLI) currentProfileName() (string, error) {
	if cli.profileFlag != "" {
		return cli.profileFlag, nil
	}
	name := cli.Config.CurrentProfile()
	if name == "" {
		return "", errors.New("no profile selected: use --profile or 'farmhand profile use <name>'")
	}
	if !utils.IsValidProfileName(name) {
		return "", fmt.Errorf("%w: %q", profile.ErrInvalidName, name)
	}
	return name, nil
}

// profileArg returns the profile named in args, or the current profile.
func (cli *CLI) profileArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return cli.currentProfileName()
}

func (cli *CLI) output() (*OutputWriter, error) {
	format, err := ParseOutputFormat(cli.outputFlag)
	if err != nil {
		return nil, err
	}
	return NewOutputWriter(format, cli.stdout), nil
}
