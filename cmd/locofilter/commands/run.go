package commands

import (
	"context"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/locofilter/config"
	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/display"
	"github.com/teranos/locofilter/filter"
	"github.com/teranos/locofilter/logger"
)

// RunCmd filters a backup to a date range
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Filter a backup to a date range",
	Long: `Copy the part of a backup that falls inside a date range into a new backup.

Exactly one date selection is required:
  --start and --end   explicit range, "YYYY-MM-DD HH:MM:SS" (both inclusive)
  --date              one whole day, "YYYY-MM-DD"
  --days              the last N days up to now

Timeline items overlapping the range are copied verbatim, locomotion samples
inside the range are rewritten into their weekly containers, and places
referenced by copied visits are copied alongside. Records that cannot be read
are skipped and reported as warnings.

Examples:
  locofilter run --backup-dir ~/Arc --date 2024-12-25
  locofilter run --backup-dir ~/Arc --days 30 --workers 8
  locofilter run --backup-dir ~/Arc --start "2024-12-24 18:00:00" --end "2024-12-26 06:00:00" --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backupDir, _ := cmd.Flags().GetString("backup-dir")
		return execute(cmd, backupDir, rangeInput(cmd))
	},
}

func init() {
	addRunFlags(RunCmd)
	RunCmd.Flags().String("start", "", `Range start, "YYYY-MM-DD HH:MM:SS"`)
	RunCmd.Flags().String("end", "", `Range end, "YYYY-MM-DD HH:MM:SS"`)
	RunCmd.Flags().String("date", "", `Single day, "YYYY-MM-DD"`)
	RunCmd.Flags().Int("days", 0, "Last N days up to now")
}

// addRunFlags registers the flags shared by run and prompt
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("backup-dir", "b", "", "Root directory of the backup to filter")
	cmd.Flags().StringP("output-dir", "o", "", "Where to write the filtered backup (default from config)")
	cmd.Flags().IntP("workers", "w", 0, "Concurrent bucket workers (0 = automatic)")
	cmd.Flags().String("timezone", "", "IANA zone for --days (default from config)")
	cmd.Flags().Int("min-free", config.DefaultMinFreeMB, "Minimum free space on the output volume in MB, 0 disables the check")
}

// rangeInput collects the date selection flags. --days is only set when given
// so that a missing selection and --days 0 stay distinguishable.
func rangeInput(cmd *cobra.Command) daterange.Input {
	var in daterange.Input
	in.Start, _ = cmd.Flags().GetString("start")
	in.End, _ = cmd.Flags().GetString("end")
	in.Date, _ = cmd.Flags().GetString("date")
	if cmd.Flags().Changed("days") {
		days, _ := cmd.Flags().GetInt("days")
		in.Days = &days
	}
	return in
}

// execute resolves the range and runs the engine with the loaded configuration
func execute(cmd *cobra.Command, backupDir string, in daterange.Input) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	r, err := resolveRange(cfg, in)
	if err != nil {
		return err
	}

	engine := filter.NewEngine(engineOptions(cfg, backupDir))

	useJSON := display.ShouldOutputJSON(cmd)
	summary, err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), !useJSON, func(ctx context.Context) (*filter.Summary, error) {
		return engine.Run(ctx, r)
	})
	if err != nil {
		return err
	}

	if useJSON {
		return display.OutputJSON(cmd.OutOrStdout(), summary)
	}
	verbosity, _ := cmd.Flags().GetCount("verbose")
	display.PrintSummary(cmd.OutOrStdout(), summary, verbosity)
	return nil
}

func resolveRange(cfg *config.Config, in daterange.Input) (daterange.Range, error) {
	loc, err := cfg.Location()
	if err != nil {
		return daterange.Range{}, err
	}
	return daterange.NewResolver(loc).Resolve(in)
}

func engineOptions(cfg *config.Config, backupDir string) filter.Options {
	return filter.Options{
		BackupDir: backupDir,
		OutputDir: cfg.Filter.OutputDir,
		Workers:   cfg.Filter.Workers,
		MinFreeMB: uint64(cfg.Output.MinFreeMB),
	}
}

// runWithSpinner shows a spinner on w while fn runs, if show is set
func runWithSpinner(ctx context.Context, w io.Writer, show bool, fn func(context.Context) (*filter.Summary, error)) (*filter.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !show || logger.JSONOutput {
		return fn(ctx)
	}

	spinner, err := pterm.DefaultSpinner.WithWriter(w).WithRemoveWhenDone(true).Start("Filtering backup")
	if err != nil {
		return fn(ctx)
	}
	summary, err := fn(ctx)
	_ = spinner.Stop()
	return summary, err
}
