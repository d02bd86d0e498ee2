package commands

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/display"
	"github.com/teranos/locofilter/errors"
	"github.com/teranos/locofilter/filter"
)

// DetectCmd reports the layout of a backup without filtering it
var DetectCmd = &cobra.Command{
	Use:   "detect [backup-dir]",
	Short: "Report the layout of a backup",
	Long: `Detect which backup layout a directory uses and which stores it contains.
Nothing is written.

Examples:
  locofilter detect ~/Arc
  locofilter detect --backup-dir ~/Arc --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("backup-dir")
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			return errors.WithHint(errors.NewConfigurationError("no backup directory given"),
				"pass the directory as an argument or with --backup-dir")
		}

		result, err := detect(afero.NewReadOnlyFs(afero.NewOsFs()), root)
		if err != nil {
			return err
		}

		if display.ShouldOutputJSON(cmd) {
			return display.OutputJSON(cmd.OutOrStdout(), result)
		}
		display.PrintDetect(cmd.OutOrStdout(), result.Root, result.Variant, result.Stores)
		return nil
	},
}

func init() {
	DetectCmd.Flags().StringP("backup-dir", "b", "", "Root directory of the backup")
}

type detectResult struct {
	Root    string         `json:"root"`
	Variant backup.Variant `json:"variant"`
	Stores  []backup.Store `json:"stores"`
}

func detect(fs afero.Fs, root string) (*detectResult, error) {
	variant, err := backup.DetectRoot(fs, root)
	if err != nil {
		return nil, err
	}
	stores := filter.PresentStores(fs, root, variant)
	return &detectResult{Root: root, Variant: variant, Stores: stores}, nil
}
