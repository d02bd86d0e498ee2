// Package filter produces a date-range restricted copy of a backup.
//
// A run resolves its inputs first (paths, format variant, free space), then
// copies overlapping timeline items on a worker pool while harvesting the
// place identifiers of visits. Once the pool has joined, the referenced places
// are copied and the weekly sample containers are filtered sample by sample.
//
// The backup is only ever read through a read-only filesystem. Recoverable
// problems become Warnings in the Summary; configuration and output errors
// end the run.
package filter

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/errors"
	"github.com/teranos/locofilter/logger"
)

// Options configures one run
type Options struct {
	BackupDir string
	OutputDir string
	Workers   int    // 0 = DefaultWorkers()
	MinFreeMB uint64 // 0 disables the free space check
}

// Summary reports what a run did
type Summary struct {
	RunID         string           `json:"run_id"`
	Variant       backup.Variant   `json:"variant"`
	Range         daterange.Range  `json:"range"`
	BackupDir     string           `json:"backup_dir"`
	OutputDir     string           `json:"output_dir"`
	Stores        []backup.Store   `json:"stores"`
	Workers       int              `json:"workers"`
	Items         ItemTotals       `json:"items"`
	Places        PlaceTotals      `json:"places"`
	Samples       SampleTotals     `json:"samples"`
	Warnings      []Warning        `json:"warnings,omitempty"`
	WarningCounts map[Category]int `json:"warning_counts"`
	Duration      time.Duration    `json:"-"`
	DurationMS    int64            `json:"duration_ms"`
}

// Engine runs the filter against a source and an output filesystem
type Engine struct {
	opts      Options
	source    afero.Fs
	output    afero.Fs
	freeSpace FreeSpaceFunc
	logger    *zap.SugaredLogger
}

// NewEngine creates an engine on the local disk
func NewEngine(opts Options) *Engine {
	e := NewEngineWithFs(opts, afero.NewOsFs(), afero.NewOsFs())
	e.freeSpace = DiskFree
	return e
}

// NewEngineWithFs creates an engine on arbitrary filesystems. The source is
// wrapped read-only. No free space check is made unless set with
// WithFreeSpace.
func NewEngineWithFs(opts Options, source, output afero.Fs) *Engine {
	return &Engine{
		opts:   opts,
		source: afero.NewReadOnlyFs(source),
		output: output,
		logger: logger.ComponentLogger("filter"),
	}
}

// WithFreeSpace replaces the function that reports free bytes on the output volume
func (e *Engine) WithFreeSpace(fn FreeSpaceFunc) *Engine {
	e.freeSpace = fn
	return e
}

// Run filters the backup into the output directory for r
func (e *Engine) Run(ctx context.Context, r daterange.Range) (*Summary, error) {
	summary, err := e.run(ctx, r)
	if err != nil {
		// main prints the error itself
		e.logger.Debugw("Run failed",
			logger.FieldError, err.Error(),
			"configuration", errors.IsConfigurationError(err),
			"output", errors.IsOutputError(err),
		)
		return nil, err
	}
	return summary, nil
}

func (e *Engine) run(ctx context.Context, r daterange.Range) (*Summary, error) {
	started := time.Now()

	if r.Start.After(r.End) {
		return nil, errors.MarkConfiguration(errors.Wrapf(errors.ErrInvalidRange, "%s", r))
	}

	backupDir, outputDir, err := validateRoots(e.opts.BackupDir, e.opts.OutputDir, e.source.Stat)
	if err != nil {
		return nil, err
	}

	variant, err := backup.DetectRoot(e.source, backupDir)
	if err != nil {
		return nil, err
	}
	layout := backup.NewLayout(variant)

	if err := checkFreeSpace(e.freeSpace, outputDir, e.opts.MinFreeMB); err != nil {
		return nil, err
	}

	workers := e.opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Variant:   variant,
		Range:     r,
		BackupDir: backupDir,
		OutputDir: outputDir,
		Workers:   workers,
	}

	summary.Stores = PresentStores(e.source, backupDir, variant)
	var storeDirs []string
	for _, s := range summary.Stores {
		storeDirs = append(storeDirs, layout.Dir(s))
	}

	log := e.logger.With(logger.FieldRunID, summary.RunID)
	log.Infow("Filtering backup",
		logger.FieldVariant, variant.String(),
		logger.FieldStart, r.Start.Format(daterange.DisplayLayout),
		logger.FieldEnd, r.End.Format(daterange.DisplayLayout),
		logger.FieldWorkers, workers,
	)

	if err := createStoreDirs(e.output, outputDir, storeDirs); err != nil {
		return nil, err
	}

	var warnings []Warning

	// Items, in parallel
	items := &itemFilter{
		source:    e.source,
		output:    e.output,
		sourceDir: filepath.Join(backupDir, layout.Dir(backup.Items)),
		outputDir: filepath.Join(outputDir, layout.Dir(backup.Items)),
		storeName: layout.Dir(backup.Items),
		rng:       r,
	}
	buckets, skipped, err := listItemBuckets(e.source, items.sourceDir, layout, r)
	if err != nil {
		warnings = append(warnings, containerWarning(backup.Items, items.storeName, err.Error()))
	}

	task := tracked(newProgress(log, len(buckets)), items.processBucket)
	results, err := Schedule(ctx, workers, buckets, task, items.failedBucket)
	if err != nil {
		return nil, err
	}

	// Join barrier: everything below sees the complete reference set
	itemTotals, refs, itemWarnings := mergeItemResults(results)
	itemTotals.BucketsSkipped = skipped
	summary.Items = itemTotals
	warnings = append(warnings, itemWarnings...)

	log.Infow("Items filtered",
		logger.FieldCount, itemTotals.Copied,
		logger.FieldTotalCount, itemTotals.Scanned,
		"buckets", len(itemTotals.PerBucket),
		"place_refs", len(refs),
	)

	// Places
	placeStore := layout.Dir(backup.Places)
	switch {
	case hasStore(summary.Stores, backup.Places):
		places := &placeReconciler{
			source:    e.source,
			output:    e.output,
			sourceDir: filepath.Join(backupDir, placeStore),
			outputDir: filepath.Join(outputDir, placeStore),
			storeName: placeStore,
			layout:    layout,
			logger:    logger.ComponentLogger("filter.places").With(logger.FieldRunID, summary.RunID),
		}
		totals, placeWarnings, err := places.reconcile(refs)
		if err != nil {
			return nil, err
		}
		summary.Places = totals
		warnings = append(warnings, placeWarnings...)
	case len(refs) > 0:
		summary.Places = PlaceTotals{Referenced: len(refs), Missing: len(refs)}
		warnings = append(warnings, containerWarning(backup.Places, placeStore,
			"place store missing, referenced places not copied"))
	}

	// Samples
	sampleStore := layout.Dir(backup.Samples)
	if hasStore(summary.Stores, backup.Samples) {
		samples := &sampleFilter{
			source:    e.source,
			output:    e.output,
			sourceDir: filepath.Join(backupDir, sampleStore),
			outputDir: filepath.Join(outputDir, sampleStore),
			storeName: sampleStore,
			rng:       r,
			logger:    logger.ComponentLogger("filter.samples").With(logger.FieldRunID, summary.RunID),
		}
		totals, sampleWarnings, err := samples.run()
		if err != nil {
			return nil, err
		}
		summary.Samples = totals
		warnings = append(warnings, sampleWarnings...)
	}

	sortWarnings(warnings)
	summary.Warnings = warnings
	summary.WarningCounts = CountByCategory(warnings)
	summary.Duration = time.Since(started)
	summary.DurationMS = summary.Duration.Milliseconds()

	if len(warnings) > 0 {
		log.Warnw("Completed with warnings",
			logger.FieldCount, len(warnings),
			string(CategoryRecord), summary.WarningCounts[CategoryRecord],
			string(CategoryContainer), summary.WarningCounts[CategoryContainer],
			string(CategoryReference), summary.WarningCounts[CategoryReference],
		)
	}
	log.Infow("Filter complete", logger.FieldPath, outputDir, logger.FieldDurationMS, summary.DurationMS)
	return summary, nil
}

func hasStore(stores []backup.Store, s backup.Store) bool {
	for _, have := range stores {
		if have == s {
			return true
		}
	}
	return false
}

// PresentStores lists the stores of a backup root, for inspection commands
func PresentStores(fs afero.Fs, root string, variant backup.Variant) []backup.Store {
	layout := backup.NewLayout(variant)
	var stores []backup.Store
	for _, s := range backup.AllStores {
		info, err := fs.Stat(filepath.Join(root, layout.Dir(s)))
		if err == nil && info.IsDir() {
			stores = append(stores, s)
		}
	}
	return stores
}
