package filter

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/logger"
)

// PlaceTotals aggregates the place pass
type PlaceTotals struct {
	Referenced int `json:"referenced"`
	Copied     int `json:"copied"`
	Missing    int `json:"missing"`
}

// placeReconciler copies the place records named by the reference set
type placeReconciler struct {
	source    afero.Fs
	output    afero.Fs
	sourceDir string
	outputDir string
	storeName string
	layout    backup.Layout
	logger    *zap.SugaredLogger
}

// reconcile copies every referenced place that exists in the store.
// Unreferenced place files are never opened. Only output errors are returned.
func (p *placeReconciler) reconcile(refs map[string]struct{}) (PlaceTotals, []Warning, error) {
	totals := PlaceTotals{Referenced: len(refs)}
	var warnings []Warning

	writers := make(map[string]*bucketWriter)
	for _, id := range sortedIDs(refs) {
		bucket, err := p.layout.PlaceBucket(id)
		if err != nil {
			totals.Missing++
			warnings = append(warnings, p.warn(referenceWarning(id, err.Error())))
			continue
		}

		name := backup.PlaceFile(id)
		rel := filepath.Join(p.storeName, bucket, name)
		src := filepath.Join(p.sourceDir, bucket, name)

		info, err := p.source.Stat(src)
		if os.IsNotExist(err) {
			totals.Missing++
			warnings = append(warnings, p.warn(referenceWarning(rel, "referenced place not in store")))
			continue
		}
		if err != nil {
			warnings = append(warnings, p.warn(recordWarning(backup.Places, rel, err.Error())))
			continue
		}

		data, err := afero.ReadFile(p.source, src)
		if err != nil {
			warnings = append(warnings, p.warn(recordWarning(backup.Places, rel, err.Error())))
			continue
		}
		if len(bytes.TrimSpace(data)) == 0 {
			warnings = append(warnings, p.warn(recordWarning(backup.Places, rel, "empty file")))
			continue
		}
		if !gjson.ValidBytes(data) {
			warnings = append(warnings, p.warn(recordWarning(backup.Places, rel, "invalid JSON")))
			continue
		}

		w, ok := writers[bucket]
		if !ok {
			w = newBucketWriter(p.output, filepath.Join(p.outputDir, bucket))
			writers[bucket] = w
		}
		if err := w.copyVerbatim(name, data, info.ModTime()); err != nil {
			return totals, warnings, err
		}
		totals.Copied++
		p.logger.Debugw("Place copied", logger.FieldPlaceID, id, logger.FieldBucket, bucket)
	}

	p.logger.Infow("Places reconciled",
		logger.FieldCount, totals.Copied,
		logger.FieldTotalCount, totals.Referenced,
	)
	return totals, warnings, nil
}

func (p *placeReconciler) warn(w Warning) Warning {
	w.log(p.logger)
	return w
}

// sortedIDs gives a stable processing order so logs read the same across runs
func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
