package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/display"
	"github.com/teranos/locofilter/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show locofilter version information",
	Long:  `Display the version, commit and platform of the locofilter binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), info)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "Platform: %s\n", info.Platform)
		fmt.Fprintf(out, "Go: %s\n", info.Go)
		return nil
	},
}
