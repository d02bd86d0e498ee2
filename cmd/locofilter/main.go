package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/cmd/locofilter/commands"
	"github.com/teranos/locofilter/errors"
	"github.com/teranos/locofilter/logger"
)

var rootCmd = &cobra.Command{
	Use:   "locofilter",
	Short: "locofilter - Date-range filtering for location-history backups",
	Long: `locofilter - Date-range filtering for location-history backups.

locofilter reads a location-history backup, keeps only the timeline items,
locomotion samples and referenced places that fall inside a date range, and
writes them as a smaller backup with the same layout. The source backup is
never modified.

Available commands:
  run     - Filter a backup to a date range
  prompt  - Ask for the run parameters interactively
  detect  - Report the layout of a backup
  config  - Show, validate and explain configuration
  version - Show version information

Examples:
  locofilter run --backup-dir ~/Arc --date 2024-12-25
  locofilter run --backup-dir ~/Arc --days 7 --output-dir ~/week
  locofilter run --backup-dir ~/Arc --start "2024-12-01 00:00:00" --end "2024-12-31 23:59:59"
  locofilter detect --backup-dir ~/Arc`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON instead of human-readable text")

	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.PromptCmd)
	rootCmd.AddCommand(commands.DetectCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		verbosity, _ := rootCmd.PersistentFlags().GetCount("verbose")
		printError(os.Stderr, err, verbosity)
	}
	os.Exit(errors.ExitCode(err))
}

// printError reports a fatal error with its hints; -vv adds the cause chain
func printError(w io.Writer, err error, verbosity int) {
	pterm.Error.WithWriter(w).Println(err.Error())
	if !logger.ShouldOutput(verbosity, logger.OutputErrors) {
		return
	}
	if hints := errors.FlattenHints(err); hints != "" {
		fmt.Fprintln(w, pterm.Gray("  hint: "+hints))
	}
	if logger.ShouldOutput(verbosity, logger.OutputErrorStack) {
		fmt.Fprintf(w, "%+v\n", err)
	}
}
