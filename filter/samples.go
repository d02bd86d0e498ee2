package filter

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/teranos/locofilter/backup"
	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/logger"
)

// sampleVerdict tags the outcome of evaluating one sample
type sampleVerdict int

const (
	sampleKept sampleVerdict = iota
	sampleOutside
	sampleUndated
)

// classifySample keeps a sample iff Start <= date <= End. A sample without a
// parseable date is dropped.
func classifySample(sample gjson.Result, r daterange.Range) sampleVerdict {
	t, ok := daterange.ParseTimestamp(sample.Get("date").String())
	if !ok {
		return sampleUndated
	}
	if !r.Contains(t) {
		return sampleOutside
	}
	return sampleKept
}

// sampleOutcome is the result of filtering one container
type sampleOutcome struct {
	kept    [][]byte // raw JSON of kept samples, in container order
	dropped int
	problem string // non-empty when the container could not be read
}

// SampleTotals aggregates the sample pass
type SampleTotals struct {
	Containers        int `json:"containers"`
	ContainersSkipped int `json:"containers_skipped"` // week outside the range, never opened
	ContainersWritten int `json:"containers_written"`
	Kept              int `json:"kept"`
	Dropped           int `json:"dropped"`
}

// sampleFilter re-emits the in-range samples of every weekly container
type sampleFilter struct {
	source    afero.Fs
	output    afero.Fs
	sourceDir string
	outputDir string
	storeName string
	rng       daterange.Range
	logger    *zap.SugaredLogger
}

// run walks the containers sequentially. Only output errors are returned.
func (s *sampleFilter) run() (SampleTotals, []Warning, error) {
	var totals SampleTotals
	var warnings []Warning

	infos, err := afero.ReadDir(s.source, s.sourceDir)
	if err != nil {
		w := containerWarning(backup.Samples, s.storeName, err.Error())
		w.log(s.logger)
		return totals, []Warning{w}, nil
	}

	out := newBucketWriter(s.output, s.outputDir)
	for _, info := range infos {
		if info.IsDir() || !backup.ContainerPattern.Match(info.Name()) {
			continue
		}
		totals.Containers++
		rel := filepath.Join(s.storeName, info.Name())

		week, ok := backup.ParseContainerName(info.Name())
		if !ok {
			w := containerWarning(backup.Samples, rel, "unrecognized container name")
			w.log(s.logger)
			warnings = append(warnings, w)
			continue
		}
		if !week.Overlaps(s.rng) {
			totals.ContainersSkipped++
			continue
		}

		outcome := s.filterContainer(filepath.Join(s.sourceDir, info.Name()), info.Size())
		if outcome.problem != "" {
			w := containerWarning(backup.Samples, rel, outcome.problem)
			w.log(s.logger)
			warnings = append(warnings, w)
			continue
		}

		totals.Kept += len(outcome.kept)
		totals.Dropped += outcome.dropped
		if len(outcome.kept) == 0 {
			continue
		}

		if err := out.writeGzip(info.Name(), joinArray(outcome.kept), info.ModTime()); err != nil {
			return totals, warnings, err
		}
		totals.ContainersWritten++
		s.logger.Debugw("Container filtered",
			logger.FieldContainer, info.Name(),
			logger.FieldKept, len(outcome.kept),
			logger.FieldTotalCount, len(outcome.kept)+outcome.dropped,
		)
	}

	s.logger.Infow("Samples filtered",
		logger.FieldKept, totals.Kept,
		logger.FieldCount, totals.ContainersWritten,
		logger.FieldTotalCount, totals.Containers,
	)
	return totals, warnings, nil
}

// filterContainer decompresses one container and keeps the in-range samples
func (s *sampleFilter) filterContainer(path string, size int64) sampleOutcome {
	if size == 0 {
		return sampleOutcome{problem: "empty container"}
	}

	f, err := s.source.Open(path)
	if err != nil {
		return sampleOutcome{problem: err.Error()}
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return sampleOutcome{problem: "corrupt gzip: " + err.Error()}
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return sampleOutcome{problem: "corrupt gzip: " + err.Error()}
	}
	if !gjson.ValidBytes(data) {
		return sampleOutcome{problem: "invalid JSON"}
	}
	samples := gjson.ParseBytes(data)
	if !samples.IsArray() {
		return sampleOutcome{problem: "container is not a JSON array"}
	}

	var out sampleOutcome
	samples.ForEach(func(_, sample gjson.Result) bool {
		if classifySample(sample, s.rng) == sampleKept {
			out.kept = append(out.kept, []byte(sample.Raw))
		} else {
			out.dropped++
		}
		return true
	})
	return out
}

// joinArray assembles raw JSON values into a JSON array
func joinArray(raws [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.Write(bytes.Join(raws, []byte{','}))
	buf.WriteByte(']')
	return buf.Bytes()
}
