package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/locofilter/errors"
)

func ts(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{"space separator", "2024-12-15 08:30:00", ts("2024-12-15 08:30:00"), true},
		{"T separator", "2024-12-15T08:30:00", ts("2024-12-15 08:30:00"), true},
		{"zulu dropped", "2024-12-15T08:30:00Z", ts("2024-12-15 08:30:00"), true},
		{"positive offset dropped", "2024-12-15T08:30:00+11:00", ts("2024-12-15 08:30:00"), true},
		{"negative offset dropped", "2024-12-15T08:30:00-05:00", ts("2024-12-15 08:30:00"), true},
		{"fraction with offset", "2024-12-15T08:30:00.250+01:00", ts("2024-12-15 08:30:00").Add(250 * time.Millisecond), true},
		{"minutes only", "2024-12-15T08:30", ts("2024-12-15 08:30:00"), true},
		{"date only", "2024-12-15", ts("2024-12-15 00:00:00"), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "yesterday", time.Time{}, false},
		{"bad month", "2024-13-01T00:00:00", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(ts("2024-12-31 00:00:00"), ts("2024-12-01 00:00:00"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidRange))
	assert.True(t, errors.IsConfigurationError(err))

	r, err := New(ts("2024-12-01 00:00:00"), ts("2024-12-01 00:00:00"))
	require.NoError(t, err)
	assert.True(t, r.Contains(ts("2024-12-01 00:00:00")))
}

func TestRangeOverlapsBoundaries(t *testing.T) {
	r, err := New(ts("2024-12-15 00:00:00"), ts("2024-12-15 23:59:59"))
	require.NoError(t, err)

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"item ends exactly at range start", "2024-12-14 22:00:00", "2024-12-15 00:00:00", true},
		{"item starts exactly at range end", "2024-12-15 23:59:59", "2024-12-16 02:00:00", true},
		{"item ends one second before", "2024-12-14 22:00:00", "2024-12-14 23:59:59", false},
		{"item starts one second after", "2024-12-16 00:00:00", "2024-12-16 01:00:00", false},
		{"item spans whole range", "2024-12-10 00:00:00", "2024-12-20 00:00:00", true},
		{"item inside", "2024-12-15 10:00:00", "2024-12-15 11:00:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Overlaps(ts(tt.start), ts(tt.end)))
		})
	}
}

func TestRangeContains(t *testing.T) {
	r, err := New(ts("2024-12-15 00:00:00"), ts("2024-12-15 23:59:59"))
	require.NoError(t, err)

	assert.True(t, r.Contains(ts("2024-12-15 00:00:00")))
	assert.True(t, r.Contains(ts("2024-12-15 23:59:59")))
	assert.False(t, r.Contains(ts("2024-12-14 23:59:59")))
	assert.False(t, r.Contains(ts("2024-12-16 00:00:00")))
}

func TestNaive(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	instant := time.Date(2024, 12, 25, 0, 30, 0, 0, time.UTC)

	got := Naive(instant, tokyo)
	assert.Equal(t, ts("2024-12-25 09:30:00"), got)
	assert.Equal(t, time.UTC, got.Location())
}
