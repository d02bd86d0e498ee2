package daterange

import (
	"time"

	"github.com/teranos/locofilter/errors"
)

// Input carries the three mutually exclusive ways to select a range.
// Exactly one of {Start+End, Date, Days} must be set.
type Input struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"` // "2006-01-02 15:04:05"
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
	Date  string `json:"date,omitempty" yaml:"date,omitempty"` // "2006-01-02"
	Days  *int   `json:"days,omitempty" yaml:"days,omitempty"` // nil = not set
}

// Resolver resolves Input into a Range.
// Now is consulted at most once per call, so a range never shifts mid-run.
type Resolver struct {
	Now      func() time.Time
	Location *time.Location // wall clock used for the days mode (nil = time.Local)
}

// NewResolver creates a resolver reading the system clock in loc
func NewResolver(loc *time.Location) *Resolver {
	return &Resolver{Now: time.Now, Location: loc}
}

// Resolve validates that exactly one mode is selected and resolves it
func (r *Resolver) Resolve(in Input) (Range, error) {
	modes := 0
	if in.Start != "" || in.End != "" {
		modes++
	}
	if in.Date != "" {
		modes++
	}
	if in.Days != nil {
		modes++
	}

	switch {
	case modes == 0:
		return Range{}, invalidRange(errors.New("no date selection given"),
			"use --start/--end, --date or --days")
	case modes > 1:
		return Range{}, invalidRange(errors.New("more than one date selection given"),
			"use exactly one of --start/--end, --date or --days")
	}

	switch {
	case in.Date != "":
		return r.Day(in.Date)
	case in.Days != nil:
		return r.LastDays(*in.Days)
	default:
		return r.Explicit(in.Start, in.End)
	}
}

// Explicit resolves a start/end pair with second resolution
func (r *Resolver) Explicit(start, end string) (Range, error) {
	if start == "" || end == "" {
		return Range{}, invalidRange(errors.New("--start and --end must be given together"),
			"format: YYYY-MM-DD HH:MM:SS")
	}
	s, ok := ParseTimestamp(start)
	if !ok {
		return Range{}, invalidRange(errors.Newf("cannot parse start %q", start), "format: YYYY-MM-DD HH:MM:SS")
	}
	e, ok := ParseTimestamp(end)
	if !ok {
		return Range{}, invalidRange(errors.Newf("cannot parse end %q", end), "format: YYYY-MM-DD HH:MM:SS")
	}
	return New(s.Truncate(time.Second), e.Truncate(time.Second))
}

// Day expands a calendar date to [00:00:00, 23:59:59] of that date
func (r *Resolver) Day(date string) (Range, error) {
	d, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return Range{}, invalidRange(errors.Newf("cannot parse date %q", date), "format: YYYY-MM-DD")
	}
	return New(d, d.Add(24*time.Hour-time.Second))
}

// LastDays resolves [now − n days, now]; now is read once
func (r *Resolver) LastDays(n int) (Range, error) {
	if n <= 0 {
		err := errors.Wrapf(errors.ErrInvalidDays, "days must be positive, got %d", n)
		return Range{}, errors.MarkConfiguration(errors.WithHint(err, "e.g. --days 7 for the last week"))
	}

	clock := r.Now
	if clock == nil {
		clock = time.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	now := Naive(clock(), loc)
	return New(now.AddDate(0, 0, -n), now)
}

func invalidRange(cause error, hint string) error {
	err := errors.Mark(cause, errors.ErrInvalidRange)
	return errors.MarkConfiguration(errors.WithHint(err, hint))
}
