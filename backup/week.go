package backup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/locofilter/daterange"
)

// Week is the ISO week key of a sample container, e.g. 2024-W51
type Week struct {
	Year int
	Week int
}

// ParseContainerName parses "YYYY-Www.json.gz" into a Week
func ParseContainerName(name string) (Week, bool) {
	stem, ok := strings.CutSuffix(name, ".json.gz")
	if !ok {
		return Week{}, false
	}

	yearPart, weekPart, ok := strings.Cut(stem, "-W")
	if !ok || len(yearPart) != 4 {
		return Week{}, false
	}

	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return Week{}, false
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 1 || week > 53 {
		return Week{}, false
	}
	return Week{Year: year, Week: week}, true
}

// WeekOf returns the ISO week containing t
func WeekOf(t time.Time) Week {
	year, week := t.ISOWeek()
	return Week{Year: year, Week: week}
}

// String renders the key as used in container names
func (w Week) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// ContainerName returns the sample container file name of the week
func (w Week) ContainerName() string {
	return w.String() + ".json.gz"
}

// Bounds returns the Monday 00:00 starting the week and the Monday after it.
// Week 1 is the week holding January 4th.
func (w Week) Bounds() (time.Time, time.Time) {
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	monday := jan4.AddDate(0, 0, -offset+7*(w.Week-1))
	return monday, monday.AddDate(0, 0, 7)
}

// Overlaps reports whether the week can hold samples inside r.
// The end bound is taken inclusively, which only ever admits extra containers
// for a cheap look, never rejects one that has matches.
func (w Week) Overlaps(r daterange.Range) bool {
	start, end := w.Bounds()
	return r.Overlaps(start, end)
}
