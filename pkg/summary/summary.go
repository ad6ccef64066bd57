// Package summary holds the accumulation model for bucket scans: per-bucket
// storage-class tallies and the pure reducer that folds them into region and
// account totals. Nothing in this package performs I/O; accumulators are
// explicit values passed in and returned, never package-level state.
package summary

import (
	"sort"
	"strings"
	"time"

	"stortally/pkg/common"
)

// Truncation reasons recorded on a partial bucket scan.
const (
	TruncatedByCap     = "cap"
	TruncatedByTimeout = "timeout"
	TruncatedByError   = "error"
)

// canonicalClasses are the known storage tiers, most specific first so that
// suffix variants collapse to the right tier (GLACIER_IR_SOMETHING must match
// GLACIER_IR, not GLACIER; STANDARD_IA_V2 must match STANDARD_IA).
var canonicalClasses = []string{
	"DURABLE_REDUCED_AVAILABILITY",
	"INTELLIGENT_TIERING",
	"REDUCED_REDUNDANCY",
	"EXPRESS_ONEZONE",
	"MULTI_REGIONAL",
	"DEEP_ARCHIVE",
	"STANDARD_IA",
	"ONEZONE_IA",
	"GLACIER_IR",
	"NEARLINE",
	"COLDLINE",
	"OUTPOSTS",
	"REGIONAL",
	"STANDARD",
	"GLACIER",
	"ARCHIVE",
}

// NormalizeStorageClass maps a raw provider label onto the canonical tier set.
// A missing label means the default tier (STANDARD). Labels that extend a
// known tier with an underscore-separated suffix collapse to that tier.
// Unknown labels are kept as-is (uppercased) so their counts stay visible
// instead of being misfiled.
func NormalizeStorageClass(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" {
		return "STANDARD"
	}

	for _, tier := range canonicalClasses {
		if label == tier || strings.HasPrefix(label, tier+"_") {
			return tier
		}
	}
	return label
}

// ClassTally is the per-storage-class accumulator of one summary.
type ClassTally struct {
	Objects int64 `yaml:"objects"`
	Bytes   int64 `yaml:"bytes"`
}

// BucketSummary is the result of scanning a single bucket. Once the scan
// finishes the value is immutable; it only gets folded into totals.
type BucketSummary struct {
	Bucket   string          `yaml:"bucket"`
	Provider common.Provider `yaml:"provider"`
	Region   string          `yaml:"region"`

	Objects int64                 `yaml:"objects"`
	Bytes   int64                 `yaml:"bytes"`
	Classes map[string]ClassTally `yaml:"classes"`

	// Truncated marks a partial scan; Reason is one of the TruncatedBy constants.
	Truncated bool   `yaml:"truncated"`
	Reason    string `yaml:"reason,omitempty"`

	// Inaccessible marks a bucket the caller had no permission to list.
	Inaccessible bool `yaml:"inaccessible,omitempty"`

	ScanDuration time.Duration `yaml:"-"`
}

func NewBucketSummary(bucket string, provider common.Provider, region string) BucketSummary {
	return BucketSummary{
		Bucket:   bucket,
		Provider: provider,
		Region:   region,
		Classes:  make(map[string]ClassTally),
	}
}

// Add records one object under the given normalized storage class.
func (s *BucketSummary) Add(class string, size int64) {
	tally := s.Classes[class]
	tally.Objects++
	tally.Bytes += size
	s.Classes[class] = tally

	s.Objects++
	s.Bytes += size
}

// ClassNames returns the sorted union of storage-class names across summaries.
// Used to build stable CSV columns and report ordering.
func ClassNames(summaries []BucketSummary) []string {
	seen := make(map[string]bool)
	var names []string
	for i := range summaries {
		for name := range summaries[i].Classes {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// LargestBucket returns the summary with the highest object count, or nil for
// an empty slice.
func LargestBucket(summaries []BucketSummary) *BucketSummary {
	var largest *BucketSummary
	for i := range summaries {
		if largest == nil || summaries[i].Objects > largest.Objects {
			largest = &summaries[i]
		}
	}
	return largest
}
