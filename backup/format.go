// Package backup describes the on-disk layout of a location-history backup:
// which format variant a root holds, where each store lives, and how record
// identifiers and timestamps map to bucket keys.
//
// Detection is a pure function over a directory listing. Everything that
// needs to know a path asks the Layout for the detected Variant instead of
// probing the filesystem.
package backup

import (
	"sort"

	"github.com/spf13/afero"

	"github.com/teranos/locofilter/errors"
)

// Variant identifies the backup schema version
type Variant int

const (
	// V1 is the LocoKit1 layout: hex-prefix item buckets, first-character place buckets
	V1 Variant = iota + 1
	// V2 is the LocoKit2 layout: monthly item buckets, two-character place buckets
	V2
)

// String returns the variant name used in logs and summaries
func (v Variant) String() string {
	switch v {
	case V1:
		return "v1"
	case V2:
		return "v2"
	default:
		return "unknown"
	}
}

// MarshalText lets summaries carry the variant by name
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// markerSet lists the top-level directories a variant is recognized by
type markerSet struct {
	variant   Variant
	mandatory string
	optional  []string
}

func (m markerSet) all() []string {
	return append([]string{m.mandatory}, m.optional...)
}

var (
	v1Markers = markerSet{variant: V1, mandatory: "TimelineItem", optional: []string{"LocomotionSample", "Place"}}
	v2Markers = markerSet{variant: V2, mandatory: "items", optional: []string{"samples", "places"}}
)

// Detect maps the names of a backup root's top-level directories to a Variant.
//
// The V1 mandatory marker wins whenever present; otherwise the V2 mandatory
// marker selects V2. Markers from both sets without either mandatory one are
// ambiguous; anything else is unrecognized.
func Detect(entries []string) (Variant, error) {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e] = true
	}

	if present[v1Markers.mandatory] {
		return V1, nil
	}
	if present[v2Markers.mandatory] {
		return V2, nil
	}

	v1Partial := anyPresent(present, v1Markers.optional)
	v2Partial := anyPresent(present, v2Markers.optional)

	switch {
	case v1Partial && v2Partial:
		err := errors.Wrapf(errors.ErrAmbiguousFormat, "found markers of both layouts (%v)", sortedKnown(present))
		return 0, errors.MarkConfiguration(errors.WithHintf(err,
			"a backup root needs either a %s or an %s directory", v1Markers.mandatory, v2Markers.mandatory))
	case v1Partial:
		return 0, unrecognized(v1Markers)
	case v2Partial:
		return 0, unrecognized(v2Markers)
	default:
		err := errors.Wrap(errors.ErrUnrecognizedFormat, "no backup markers found")
		return 0, errors.MarkConfiguration(errors.WithHintf(err,
			"point --backup-dir at the folder containing %s (v1) or %s (v2)", v1Markers.mandatory, v2Markers.mandatory))
	}
}

// DetectRoot lists root's top-level directories and detects the variant
func DetectRoot(fs afero.Fs, root string) (Variant, error) {
	infos, err := afero.ReadDir(fs, root)
	if err != nil {
		return 0, errors.MarkConfiguration(errors.Wrapf(err, "cannot list backup root %s", root))
	}

	var dirs []string
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, info.Name())
		}
	}
	return Detect(dirs)
}

func unrecognized(m markerSet) error {
	err := errors.Wrapf(errors.ErrUnrecognizedFormat, "%s markers present but %s directory missing",
		m.variant, m.mandatory)
	return errors.MarkConfiguration(errors.WithHintf(err, "expected a %s directory in the backup root", m.mandatory))
}

func anyPresent(present map[string]bool, names []string) bool {
	for _, n := range names {
		if present[n] {
			return true
		}
	}
	return false
}

func sortedKnown(present map[string]bool) []string {
	var known []string
	for _, m := range [][]string{v1Markers.all(), v2Markers.all()} {
		for _, n := range m {
			if present[n] {
				known = append(known, n)
			}
		}
	}
	sort.Strings(known)
	return known
}
