package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/device"
	"github.com/xabinapal/farmhand/internal/utils"
)

func (cli *CLI) newDeviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Configure the Android device running the game",
		Long: `Configure and check the device the bot drives over adb.

A device is addressed by its adb serial (USB) or by host:port (wireless
debugging). The wireless debugging pairing code is kept in the system
keyring, never in the configuration file.`,
	}

	cmd.AddCommand(
		cli.newDeviceSetCmd(),
		cli.newDeviceStatusCmd(),
		cli.newDevicePairCodeCmd(),
		cli.newDeviceConnectCmd(),
	)
	return cmd
}

func (cli *CLI) newDeviceSetCmd() *cobra.Command {
	var serial, address, adbPath string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the device serial, address or adb binary",
		Example: `  farmhand device set --serial emulator-5554
  farmhand device set --address 192.168.1.20:5555
  farmhand device set --adb /opt/android/platform-tools/adb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("serial") && !flags.Changed("address") && !flags.Changed("adb") {
				return errors.New("nothing to set: use --serial, --address or --adb")
			}

			dev := cli.Config.Device
			if flags.Changed("serial") {
				dev.Serial = serial
			}
			if flags.Changed("address") {
				dev.Address = address
			}
			if flags.Changed("adb") {
				dev.ADBPath = adbPath
			}

			previous := cli.Config.Device
			cli.Config.Device = dev
			if err := cli.Config.Validate(); err != nil {
				cli.Config.Device = previous
				return err
			}
			if err := cli.Config.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintln(cli.stdout, "Device settings saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&serial, "serial", "", "adb serial of the device")
	cmd.Flags().StringVar(&address, "address", "", "host:port for adb over the network")
	cmd.Flags().StringVar(&adbPath, "adb", "", "Path to the adb binary")
	return cmd
}

// DeviceStatusOutput represents device status for JSON.
type DeviceStatusOutput struct {
	device.Status
	ADB        string `json:"adb"`
	ADBVersion string `json:"adb_version,omitempty"`
}

func (cli *CLI) newDeviceStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the device is connected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output, err := cli.output()
			if err != nil {
				return err
			}

			link := cli.deviceLink()
			out := DeviceStatusOutput{
				Status: link.Status(ctx),
				ADB:    cli.Config.Device.ADB(),
			}
			if v, err := link.Version(ctx); err == nil {
				out.ADBVersion = v
			}

			return output.Write(out, func(w io.Writer) {
				target := out.Target
				if target == "" {
					target = "(not configured)"
				}
				fmt.Fprintf(w, "Device:    %s\n", target)
				fmt.Fprintf(w, "State:     %s\n", out.State)
				fmt.Fprintf(w, "Connected: %s\n", yesNo(out.Connected))
				fmt.Fprintf(w, "Paired:    %s\n", yesNo(out.Paired))
				adb := out.ADB
				if out.ADBVersion != "" {
					adb += " (" + out.ADBVersion + ")"
				}
				fmt.Fprintf(w, "adb:       %s\n", adb)
				if out.Error != "" {
					fmt.Fprintf(w, "Error:     %s\n", out.Error)
				}
			})
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (cli *CLI) newDevicePairCodeCmd() *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "pair-code [code]",
		Short: "Store the wireless debugging pairing code in the keyring",
		Long: `Store the six digit wireless debugging pairing code shown on the device.
Without an argument the code is read from stdin, so it stays out of the
shell history.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			link := cli.deviceLink()

			if forget {
				if err := link.ForgetPairingCode(); err != nil {
					return err
				}
				fmt.Fprintln(cli.stdout, "Pairing code removed.")
				return nil
			}

			if err := cli.Keyring.IsAvailable(); err != nil {
				return err
			}

			var code string
			if len(args) == 1 {
				code = args[0]
			} else {
				fmt.Fprint(cli.stdout, "Pairing code: ")
				line, err := bufio.NewReader(cli.stdin).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("failed to read pairing code: %w", err)
				}
				code = strings.TrimSpace(line)
			}

			if err := link.StorePairingCode(code); err != nil {
				return err
			}
			fmt.Fprintf(cli.stdout, "Pairing code %s stored for %s.\n", utils.Mask(code), link.Target())
			return nil
		},
	}

	cmd.Flags().BoolVar(&forget, "forget", false, "Remove the stored pairing code")
	return cmd
}

func (cli *CLI) newDeviceConnectCmd() *cobra.Command {
	var pair string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to the device over the network",
		Long: `Connect to the configured device address with adb connect.

With --pair, the device is first paired on the given pairing address
using the code stored with 'farmhand device pair-code'.`,
		Example: `  farmhand device connect --pair 192.168.1.20:37415`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link := cli.deviceLink()
			if err := link.Connect(cmd.Context(), pair); err != nil {
				if errors.Is(err, device.ErrNoPairingCode) {
					return fmt.Errorf("%w: run 'farmhand device pair-code' first", err)
				}
				return err
			}
			fmt.Fprintf(cli.stdout, "Connected to %s.\n", cli.Config.Device.Address)
			return nil
		},
	}

	cmd.Flags().StringVar(&pair, "pair", "", "Pairing host:port shown by the device")
	return cmd
}
