package backup

import (
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/teranos/locofilter/daterange"
	"github.com/teranos/locofilter/errors"
)

// Store names one of the three record stores a backup root may own
type Store int

const (
	Items Store = iota
	Samples
	Places
)

// String returns the store name used in logs, warnings and summaries
func (s Store) String() string {
	switch s {
	case Items:
		return "items"
	case Samples:
		return "samples"
	case Places:
		return "places"
	default:
		return "unknown"
	}
}

// MarshalText lets warnings carry the store by name
func (s Store) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// AllStores lists the stores in processing order
var AllStores = []Store{Items, Samples, Places}

// File name patterns, matched against base names only
var (
	RecordPattern    = glob.MustCompile("*.json")
	ContainerPattern = glob.MustCompile("*.json.gz")
)

// monthBucketLayout is the V2 item bucket name format
const monthBucketLayout = "2006-01"

// ErrInvalidPlaceID marks a place reference that cannot name a file in its bucket
var ErrInvalidPlaceID = errors.New("invalid place identifier")

// Layout resolves store directories and bucket keys for one Variant
type Layout struct {
	Variant Variant
}

// NewLayout returns the layout rules of v
func NewLayout(v Variant) Layout {
	return Layout{Variant: v}
}

// Dir returns the top-level directory name of a store
func (l Layout) Dir(s Store) string {
	markers := v1Markers
	if l.Variant == V2 {
		markers = v2Markers
	}
	switch s {
	case Items:
		return markers.mandatory
	case Samples:
		return markers.optional[0]
	default:
		return markers.optional[1]
	}
}

// PlaceBucket derives the bucket key of a place identifier.
// V1 buckets by the first character, V2 by the first two; both upper case.
// Any identifier is accepted as long as it stays a plain file name.
func (l Layout) PlaceBucket(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", errors.Wrapf(ErrInvalidPlaceID, "%q", id)
	}

	n := 1
	if l.Variant == V2 {
		n = 2
	}
	return strings.ToUpper(id[:min(n, len(id))]), nil
}

// PlaceFile returns the file name of a place record
func PlaceFile(id string) string {
	return id + ".json"
}

// SkipItemBucket reports whether a whole item bucket can be skipped without
// reading it. Only V2 monthly buckets qualify: items are filed under the month
// they start in, so a month beginning after the range end holds no item that
// can overlap. Earlier months are always read since their items may run long.
func (l Layout) SkipItemBucket(bucket string, r daterange.Range) bool {
	if l.Variant != V2 {
		return false
	}
	month, err := time.ParseInLocation(monthBucketLayout, bucket, time.UTC)
	if err != nil {
		return false
	}
	return month.After(r.End)
}
