package filter

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/teranos/locofilter/logger"
)

func newSampleFilter(t *testing.T, source, output afero.Fs) *sampleFilter {
	return &sampleFilter{
		source:    afero.NewReadOnlyFs(source),
		output:    output,
		sourceDir: filepath.Join(testBackup, "LocomotionSample"),
		outputDir: filepath.Join(testOutput, "LocomotionSample"),
		storeName: "LocomotionSample",
		rng:       christmasDay(t),
		logger:    logger.ComponentLogger("filter.samples"),
	}
}

func TestClassifySample(t *testing.T) {
	r := christmasDay(t)

	tests := []struct {
		sample string
		want   sampleVerdict
	}{
		{`{"date":"2024-12-25 00:00:00"}`, sampleKept},
		{`{"date":"2024-12-25 23:59:59"}`, sampleKept},
		{`{"date":"2024-12-25T23:59:59.500Z"}`, sampleOutside},
		{`{"date":"2024-12-24 23:59:59"}`, sampleOutside},
		{`{"date":"2024-12-26 00:00:00"}`, sampleOutside},
		{`{"date":"2024-12-25T12:00:00-05:00"}`, sampleKept},
		{`{"lat":1.5}`, sampleUndated},
		{`{"date":42}`, sampleUndated},
	}

	for _, tt := range tests {
		t.Run(tt.sample, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySample(gjson.Parse(tt.sample), r))
		})
	}
}

func TestSampleFilterContainers(t *testing.T) {
	source := afero.NewMemMapFs()
	dir := filepath.Join(testBackup, "LocomotionSample")
	writeSamples(t, source, filepath.Join(dir, "2024-W52.json.gz"), "2024-12-25 09:00:00", "2024-12-27 09:00:00")
	writeSamples(t, source, filepath.Join(dir, "2024-W51.json.gz"), "2024-12-20 09:00:00") // never opened
	writeFile(t, source, filepath.Join(dir, "2024-W01.json.gz"), "")                       // outside, never opened
	writeFile(t, source, filepath.Join(dir, "README.json.gz"), "x")

	output := afero.NewMemMapFs()
	totals, warnings, err := newSampleFilter(t, source, output).run()
	require.NoError(t, err)

	assert.Equal(t, SampleTotals{
		Containers:        4,
		ContainersSkipped: 2,
		ContainersWritten: 1,
		Kept:              1,
		Dropped:           1,
	}, totals)

	reasons := map[string]string{}
	for _, w := range warnings {
		assert.Equal(t, CategoryContainer, w.Category)
		reasons[filepath.Base(w.Path)] = w.Reason
	}
	assert.Equal(t, map[string]string{
		"README.json.gz": "unrecognized container name",
	}, reasons)

	assert.Equal(t, []string{"2024-12-25 09:00:00"},
		readSampleDates(t, output, filepath.Join(testOutput, "LocomotionSample", "2024-W52.json.gz")))
}

func TestSampleFilterNoEmptyContainers(t *testing.T) {
	source := afero.NewMemMapFs()
	writeSamples(t, source, filepath.Join(testBackup, "LocomotionSample", "2024-W52.json.gz"),
		"2024-12-23 09:00:00", "2024-12-29 09:00:00")

	output := afero.NewMemMapFs()
	totals, warnings, err := newSampleFilter(t, source, output).run()
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Equal(t, 2, totals.Dropped)
	assert.Zero(t, totals.ContainersWritten)
	assert.Empty(t, snapshot(t, output, testOutput))
}

func TestSampleFilterCorruptContainers(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"not gzip", []byte("plain text")},
		{"truncated gzip", gzipBytes(t, []byte(`[{"date":"2024-12-25 10:00:00"}]`))[:12]},
		{"invalid json", gzipBytes(t, []byte(`[{"date":`))},
		{"not an array", gzipBytes(t, []byte(`{"date":"2024-12-25 10:00:00"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := afero.NewMemMapFs()
			writeFile(t, source, filepath.Join(testBackup, "LocomotionSample", "2024-W52.json.gz"), string(tt.content))

			output := afero.NewMemMapFs()
			totals, warnings, err := newSampleFilter(t, source, output).run()
			require.NoError(t, err)

			require.Len(t, warnings, 1)
			assert.Equal(t, CategoryContainer, warnings[0].Category)
			assert.Zero(t, totals.ContainersWritten)
			assert.Empty(t, snapshot(t, output, testOutput))
		})
	}
}

func TestJoinArray(t *testing.T) {
	assert.Equal(t, `[{"a":1},{"b":2}]`, string(joinArray([][]byte{[]byte(`{"a":1}`), []byte(`{"b":2}`)})))
	assert.Equal(t, `[]`, string(joinArray(nil)))
}
