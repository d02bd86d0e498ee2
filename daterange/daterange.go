// Package daterange turns user date input into the canonical inclusive range
// a filter run works with.
//
// All timestamps are naive wall-clock values: backup files carry their own
// zone suffixes, which are dropped rather than converted, and user input is
// read in the same frame. A naive time is represented as a time.Time in UTC.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"github.com/teranos/locofilter/errors"
)

// DisplayLayout is the format used for ranges in logs and summaries
const DisplayLayout = "2006-01-02 15:04:05"

// accepted timestamp layouts, tried in order. Fractional seconds are accepted
// after the seconds field by time.Parse even though the layout omits them.
var layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Range is an inclusive [Start, End] interval. Start never exceeds End.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New builds a Range, rejecting start > end with ErrInvalidRange
func New(start, end time.Time) (Range, error) {
	if start.After(end) {
		err := errors.Wrapf(errors.ErrInvalidRange, "start %s is after end %s",
			start.Format(DisplayLayout), end.Format(DisplayLayout))
		return Range{}, errors.MarkConfiguration(errors.WithHint(err, "swap --start and --end"))
	}
	return Range{Start: start, End: end}, nil
}

// Contains reports whether t lies in [Start, End], both ends included
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Overlaps reports whether the closed interval [start, end] intersects the range.
// Equal boundaries match.
func (r Range) Overlaps(start, end time.Time) bool {
	return !start.After(r.End) && !end.Before(r.Start)
}

// String renders the range for logs
func (r Range) String() string {
	return fmt.Sprintf("%s → %s", r.Start.Format(DisplayLayout), r.End.Format(DisplayLayout))
}

// ParseTimestamp parses an ISO-8601-like timestamp as a naive wall-clock time.
// Space or 'T' separators are accepted; a trailing Z or ±hh:mm offset is dropped
// without conversion.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if len(s) > 10 && (s[10] == ' ' || s[10] == 't') {
		s = s[:10] + "T" + s[11:]
	}
	s = stripZone(s)

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stripZone removes a zone designator from the time-of-day part of s
func stripZone(s string) string {
	if len(s) <= 11 {
		return s
	}
	clock := s[11:]
	if i := strings.IndexAny(clock, "Zz+-"); i >= 0 {
		return s[:11+i]
	}
	return s
}

// Naive drops the zone of t, keeping its wall-clock reading in loc
func Naive(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
