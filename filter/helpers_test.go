package filter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/teranos/locofilter/daterange"
)

const (
	testBackup = "/loco/backup"
	testOutput = "/loco/filtered"

	placeHome  = "a1b2c3d4-0000-4000-8000-000000000001"
	placeWork  = "b2c3d4e5-0000-4000-8000-000000000002"
	placeGone  = "c3d4e5f6-0000-4000-8000-000000000003"
	placeOther = "d4e5f6a7-0000-4000-8000-000000000004"
)

func mustRange(t *testing.T, start, end string) daterange.Range {
	t.Helper()
	s, ok := daterange.ParseTimestamp(start)
	require.True(t, ok, start)
	e, ok := daterange.ParseTimestamp(end)
	require.True(t, ok, end)
	r, err := daterange.New(s, e)
	require.NoError(t, err)
	return r
}

func itemJSON(start, end string, isVisit bool, placeID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `{"startDate":%q,"endDate":%q,"isVisit":%t`, start, end, isVisit)
	if placeID != "" {
		fmt.Fprintf(&b, `,"placeId":%q`, placeID)
	}
	b.WriteString("}")
	return b.String()
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func writeItem(t *testing.T, fs afero.Fs, path, start, end string, isVisit bool, placeID string) {
	t.Helper()
	writeFile(t, fs, path, itemJSON(start, end, isVisit, placeID))
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeSamples(t *testing.T, fs afero.Fs, path string, dates ...string) {
	t.Helper()
	var raws []string
	for i, d := range dates {
		raws = append(raws, fmt.Sprintf(`{"date":%q,"seq":%d}`, d, i))
	}
	writeFile(t, fs, path, string(gzipBytes(t, []byte("["+strings.Join(raws, ",")+"]"))))
}

func readSampleDates(t *testing.T, fs afero.Fs, path string) []string {
	t.Helper()
	f, err := fs.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	var dates []string
	for _, s := range gjson.ParseBytes(data).Array() {
		dates = append(dates, s.Get("date").String())
	}
	return dates
}

// snapshot maps every file below root to its contents
func snapshot(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	if exists, _ := afero.Exists(fs, root); !exists {
		return files
	}
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func fileNames(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// v1Backup builds a small LocoKit1 backup:
//
//	TimelineItem/0A  two items in December (a visit to home and a trip),
//	                 one from November
//	TimelineItem/1B  a visit to a place missing from the store, one corrupt file
//	TimelineItem/2C  an item ending exactly at the range start
//	Place/           home, work and an unreferenced place
//	LocomotionSample two weeks, one inside and one outside the range
func v1Backup(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	items := filepath.Join(testBackup, "TimelineItem")

	writeItem(t, fs, filepath.Join(items, "0A", "visit-home.json"),
		"2024-12-24 22:00:00", "2024-12-25 08:00:00", true, placeHome)
	writeItem(t, fs, filepath.Join(items, "0A", "trip.json"),
		"2024-12-25T08:00:00Z", "2024-12-25T08:30:00Z", false, placeWork)
	writeItem(t, fs, filepath.Join(items, "0A", "november.json"),
		"2024-11-02 10:00:00", "2024-11-02 11:00:00", true, placeWork)

	writeItem(t, fs, filepath.Join(items, "1B", "visit-gone.json"),
		"2024-12-25 12:00:00", "2024-12-25 13:00:00", true, placeGone)
	writeFile(t, fs, filepath.Join(items, "1B", "corrupt.json"), `{"startDate": "2024-12-25 1`)

	writeItem(t, fs, filepath.Join(items, "2C", "edge.json"),
		"2024-12-24 20:00:00", "2024-12-25 00:00:00", true, placeWork)

	places := filepath.Join(testBackup, "Place")
	writeFile(t, fs, filepath.Join(places, "A", placeHome+".json"), `{"name":"Home"}`)
	writeFile(t, fs, filepath.Join(places, "B", placeWork+".json"), `{"name":"Work"}`)
	writeFile(t, fs, filepath.Join(places, "D", placeOther+".json"), `{"name":"Other"}`)

	samples := filepath.Join(testBackup, "LocomotionSample")
	writeSamples(t, fs, filepath.Join(samples, "2024-W52.json.gz"),
		"2024-12-24 23:59:59", "2024-12-25 00:00:00", "2024-12-25 12:00:00+01:00",
		"2024-12-25 23:59:59", "2024-12-26 00:00:00")
	writeSamples(t, fs, filepath.Join(samples, "2024-W45.json.gz"), "2024-11-05 10:00:00")

	return fs
}

func christmasDay(t *testing.T) daterange.Range {
	return mustRange(t, "2024-12-25 00:00:00", "2024-12-25 23:59:59")
}
