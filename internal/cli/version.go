package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/xabinapal/farmhand/internal/version"
)

// newVersionCmd creates the version command.
func (cli *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Farmhand version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}
			info := version.Get()
			return output.Write(info, func(w io.Writer) {
				io.WriteString(w, info.String()+"\n")
			})
		},
	}
}
