package filter

import (
	"sort"

	"go.uber.org/zap"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/logger"
)

// Category classifies a recoverable problem met during a run
type Category string

const (
	// CategoryRecord is a single unreadable, empty or corrupt record file
	CategoryRecord Category = "record"
	// CategoryContainer is a bucket directory or sample container skipped as a whole
	CategoryContainer Category = "container"
	// CategoryReference is a place reference that could not be reconciled
	CategoryReference Category = "reference"
)

// Warning is one recoverable problem. Warnings never stop a run; they are
// accumulated per bucket and summarized once at the end.
type Warning struct {
	Category Category     `json:"category"`
	Store    backup.Store `json:"store"`
	Path     string       `json:"path"` // relative to the backup root
	Reason   string       `json:"reason"`
}

func recordWarning(store backup.Store, path, reason string) Warning {
	return Warning{Category: CategoryRecord, Store: store, Path: path, Reason: reason}
}

func containerWarning(store backup.Store, path, reason string) Warning {
	return Warning{Category: CategoryContainer, Store: store, Path: path, Reason: reason}
}

func referenceWarning(path, reason string) Warning {
	return Warning{Category: CategoryReference, Store: backup.Places, Path: path, Reason: reason}
}

// log emits the warning at debug level; the summary reports the totals
func (w Warning) log(l *zap.SugaredLogger) {
	l.Debugw("Skipped",
		logger.FieldCategory, string(w.Category),
		logger.FieldStore, w.Store.String(),
		logger.FieldPath, w.Path,
		logger.FieldReason, w.Reason,
	)
}

// CountByCategory tallies warnings per category
func CountByCategory(warnings []Warning) map[Category]int {
	counts := make(map[Category]int)
	for _, w := range warnings {
		counts[w.Category]++
	}
	return counts
}

// sortWarnings orders warnings by category then path so summaries are stable
// even though buckets finish in any order
func sortWarnings(warnings []Warning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Category != warnings[j].Category {
			return warnings[i].Category < warnings[j].Category
		}
		return warnings[i].Path < warnings[j].Path
	})
}
