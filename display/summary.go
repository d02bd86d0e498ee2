package display

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/filter"
	"github.com/teranos/locofilter/logger"
)

// PrintSummary renders a run summary for people. What is shown grows with
// verbosity, see logger.OutputCategory.
func PrintSummary(w io.Writer, s *filter.Summary, verbosity int) {
	info := pterm.Info.WithWriter(w)

	if logger.ShouldOutput(verbosity, logger.OutputRunInfo) {
		info.Printfln("Format %s, range %s, %d workers",
			s.Variant, s.Range.String(), s.Workers)
		info.Printfln("Stores: %s", storeList(s.Stores))
	}

	pterm.Success.WithWriter(w).Printfln("Filtered backup written to %s", s.OutputDir)

	fmt.Fprintf(w, "  Items:   %s copied of %d scanned in %d buckets\n",
		pterm.Green(s.Items.Copied), s.Items.Scanned, s.Items.Buckets)
	fmt.Fprintf(w, "  Places:  %s copied of %d referenced",
		pterm.Green(s.Places.Copied), s.Places.Referenced)
	if s.Places.Missing > 0 {
		fmt.Fprintf(w, " (%s missing)", pterm.Yellow(s.Places.Missing))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Samples: %s kept in %d containers\n",
		pterm.Green(s.Samples.Kept), s.Samples.ContainersWritten)

	if logger.ShouldOutput(verbosity, logger.OutputStoreTotals) {
		fmt.Fprintf(w, "  %s\n", pterm.Gray(fmt.Sprintf(
			"item buckets skipped by month: %d, containers skipped by week: %d, samples dropped: %d",
			s.Items.BucketsSkipped, s.Samples.ContainersSkipped, s.Samples.Dropped)))
	}

	if logger.ShouldOutput(verbosity, logger.OutputBucketDetail) && len(s.Items.PerBucket) > 0 {
		buckets := make([]string, 0, len(s.Items.PerBucket))
		for b := range s.Items.PerBucket {
			buckets = append(buckets, b)
		}
		sort.Strings(buckets)
		for _, b := range buckets {
			fmt.Fprintf(w, "    %s %d\n", pterm.LightCyan(b), s.Items.PerBucket[b])
		}
	}

	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		fmt.Fprintf(w, "  Took %s\n", s.Duration.Round(time.Millisecond))
	}

	if len(s.Warnings) > 0 && logger.ShouldOutput(verbosity, logger.OutputWarningCounts) {
		pterm.Warning.WithWriter(w).Printfln("%d warnings: %s", len(s.Warnings), warningCounts(s.WarningCounts))
		if logger.ShouldOutput(verbosity, logger.OutputWarningList) {
			for _, wn := range s.Warnings {
				fmt.Fprintf(w, "    [%s] %s: %s\n", wn.Category, wn.Path, wn.Reason)
			}
		} else {
			fmt.Fprintln(w, pterm.Gray("  run with -vvv to list them"))
		}
	}
}

// PrintDetect renders the result of format detection
func PrintDetect(w io.Writer, root string, variant backup.Variant, stores []backup.Store) {
	pterm.Success.WithWriter(w).Printfln("%s is a %s backup", root, variant)
	layout := backup.NewLayout(variant)
	for _, s := range backup.AllStores {
		state := pterm.Gray("absent")
		for _, have := range stores {
			if have == s {
				state = pterm.Green("present")
			}
		}
		fmt.Fprintf(w, "  %-8s %-18s %s\n", s, layout.Dir(s), state)
	}
}

// PrintRange renders a resolved range, used before a run starts
func PrintRange(w io.Writer, r daterange.Range) {
	pterm.Info.WithWriter(w).Printfln("Range %s", r.String())
}

func storeList(stores []backup.Store) string {
	names := make([]string, len(stores))
	for i, s := range stores {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

func warningCounts(counts map[filter.Category]int) string {
	var parts []string
	for _, c := range []filter.Category{filter.CategoryRecord, filter.CategoryContainer, filter.CategoryReference} {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	return strings.Join(parts, ", ")
}
