package filter

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/errors"
	"github.com/teranos/locofilter/logger"
)

// itemVerdict tags the outcome of evaluating one item file
type itemVerdict int

const (
	itemSelected itemVerdict = iota
	itemOutside
	itemEmpty
	itemInvalidJSON
	itemUndated
)

func (v itemVerdict) reason() string {
	switch v {
	case itemEmpty:
		return "empty file"
	case itemInvalidJSON:
		return "invalid JSON"
	case itemUndated:
		return "missing or unparseable startDate/endDate"
	default:
		return ""
	}
}

// itemOutcome is the result of evaluating one item file against the range
type itemOutcome struct {
	verdict itemVerdict
	placeID string // set only for selected visits
}

// classifyItem decides whether an item overlaps r. Only the fields needed for
// the decision are read; the file is never decoded as a whole.
func classifyItem(data []byte, r daterange.Range) itemOutcome {
	if len(bytes.TrimSpace(data)) == 0 {
		return itemOutcome{verdict: itemEmpty}
	}
	if !gjson.ValidBytes(data) {
		return itemOutcome{verdict: itemInvalidJSON}
	}

	fields := gjson.GetManyBytes(data, "startDate", "endDate", "isVisit", "placeId")
	start, okStart := daterange.ParseTimestamp(fields[0].String())
	end, okEnd := daterange.ParseTimestamp(fields[1].String())
	if !okStart || !okEnd {
		return itemOutcome{verdict: itemUndated}
	}

	if !r.Overlaps(start, end) {
		return itemOutcome{verdict: itemOutside}
	}

	out := itemOutcome{verdict: itemSelected}
	if fields[2].Bool() && fields[3].Type == gjson.String {
		out.placeID = fields[3].String()
	}
	return out
}

// ItemBucketResult is what one worker reports for one item bucket
type ItemBucketResult struct {
	Bucket   string
	Scanned  int
	Copied   int
	PlaceIDs map[string]struct{}
	Warnings []Warning
}

// itemFilter copies the items of one bucket that overlap the range
type itemFilter struct {
	source    afero.Fs
	output    afero.Fs
	sourceDir string // item store in the backup
	outputDir string // item store in the output
	storeName string
	rng       daterange.Range
}

// processBucket evaluates every record file of bucket exactly once.
// Errors returned here are either output errors (fatal) or a failure to list
// the bucket, which the scheduler turns into a container warning.
func (f *itemFilter) processBucket(ctx context.Context, bucket string) (ItemBucketResult, error) {
	log := logger.LoggerFromContext(logger.WithBucket(logger.WithComponent(ctx, "filter.items"), bucket))
	res := ItemBucketResult{Bucket: bucket, PlaceIDs: make(map[string]struct{})}

	srcDir := filepath.Join(f.sourceDir, bucket)
	infos, err := afero.ReadDir(f.source, srcDir)
	if err != nil {
		return res, errors.Wrapf(err, "cannot list bucket %s", bucket)
	}

	out := newBucketWriter(f.output, filepath.Join(f.outputDir, bucket))
	for _, info := range infos {
		if info.IsDir() || !backup.RecordPattern.Match(info.Name()) {
			continue
		}
		res.Scanned++

		rel := filepath.Join(f.storeName, bucket, info.Name())
		data, err := afero.ReadFile(f.source, filepath.Join(srcDir, info.Name()))
		if err != nil {
			w := recordWarning(backup.Items, rel, err.Error())
			w.log(log)
			res.Warnings = append(res.Warnings, w)
			continue
		}

		outcome := classifyItem(data, f.rng)
		switch outcome.verdict {
		case itemSelected:
			if err := out.copyVerbatim(info.Name(), data, info.ModTime()); err != nil {
				return res, err
			}
			res.Copied++
			log.Debugw("Item copied", logger.FieldFile, info.Name())
			if outcome.placeID != "" {
				res.PlaceIDs[outcome.placeID] = struct{}{}
			}
		case itemOutside:
		default:
			w := recordWarning(backup.Items, rel, outcome.verdict.reason())
			w.log(log)
			res.Warnings = append(res.Warnings, w)
		}
	}

	if res.Copied > 0 {
		log.Debugw("Bucket done", logger.FieldCount, res.Copied, logger.FieldTotalCount, res.Scanned)
	}
	return res, nil
}

// failedBucket is the result of a bucket that could not be processed at all
func (f *itemFilter) failedBucket(bucket string, err error) ItemBucketResult {
	return ItemBucketResult{
		Bucket:   bucket,
		PlaceIDs: map[string]struct{}{},
		Warnings: []Warning{containerWarning(backup.Items, filepath.Join(f.storeName, bucket), err.Error())},
	}
}

// ItemTotals aggregates the item pass
type ItemTotals struct {
	Buckets        int            `json:"buckets"`
	BucketsSkipped int            `json:"buckets_skipped"`
	Scanned        int            `json:"scanned"`
	Copied         int            `json:"copied"`
	PerBucket      map[string]int `json:"per_bucket,omitempty"` // copied items, buckets with copies only
}

// mergeItemResults folds worker results into totals, the reference set and
// the warning list. It runs once, after the pool has joined.
func mergeItemResults(results []ItemBucketResult) (ItemTotals, map[string]struct{}, []Warning) {
	totals := ItemTotals{PerBucket: make(map[string]int)}
	refs := make(map[string]struct{})
	var warnings []Warning

	for _, r := range results {
		totals.Buckets++
		totals.Scanned += r.Scanned
		totals.Copied += r.Copied
		if r.Copied > 0 {
			totals.PerBucket[r.Bucket] += r.Copied
		}
		for id := range r.PlaceIDs {
			refs[id] = struct{}{}
		}
		warnings = append(warnings, r.Warnings...)
	}
	return totals, refs, warnings
}

// listItemBuckets returns the bucket directories of the item store, minus
// those the layout proves cannot hold a match
func listItemBuckets(fs afero.Fs, dir string, layout backup.Layout, r daterange.Range) (buckets []string, skipped int, err error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, 0, err
	}
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		if layout.SkipItemBucket(info.Name(), r) {
			skipped++
			continue
		}
		buckets = append(buckets, info.Name())
	}
	return buckets, skipped, nil
}
