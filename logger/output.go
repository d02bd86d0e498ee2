package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Run summary, warning counts, fatal errors
//	1 (-v)      - + Detected format, resolved range, per-store totals
//	2 (-vv)     - + Per-bucket counts, skipped containers, timing, error stacks
//	3 (-vvv)    - + Every warning listed individually, per-record decisions

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputSummary       OutputCategory = iota // Final counts
	OutputErrors                              // Fatal errors with hints
	OutputWarningCounts                       // Warning totals by category

	// Level 1 (-v) - Informational
	OutputRunInfo     // Format variant, range, workers
	OutputStoreTotals // Items/samples/places per store

	// Level 2 (-vv) - Detailed
	OutputBucketDetail // Per-bucket copied counts
	OutputTiming       // Pass durations
	OutputErrorStack   // Fatal errors with their full cause chain

	// Level 3 (-vvv) - Trace
	OutputWarningList // Each warning with path and reason
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputSummary:       VerbosityUser,
	OutputErrors:        VerbosityUser,
	OutputWarningCounts: VerbosityUser,

	OutputRunInfo:     VerbosityInfo,
	OutputStoreTotals: VerbosityInfo,

	OutputBucketDetail: VerbosityDebug,
	OutputTiming:       VerbosityDebug,
	OutputErrorStack:   VerbosityDebug,

	OutputWarningList: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
