package summary

import (
	"time"

	"stortally/pkg/common"
)

// RegionSummary is the reduction of all bucket summaries within one region.
type RegionSummary struct {
	Region  string                `yaml:"region"`
	Buckets int                   `yaml:"buckets"`
	Objects int64                 `yaml:"objects"`
	Bytes   int64                 `yaml:"bytes"`
	Classes map[string]ClassTally `yaml:"classes"`
}

// AccountSummary is the account-wide reduction across every scanned bucket.
type AccountSummary struct {
	Buckets int                   `yaml:"buckets"`
	Objects int64                 `yaml:"objects"`
	Bytes   int64                 `yaml:"bytes"`
	Classes map[string]ClassTally `yaml:"classes"`
	Regions map[string]RegionSummary `yaml:"regions"`

	Truncated    int `yaml:"truncated,omitempty"`
	Inaccessible int `yaml:"inaccessible,omitempty"`
}

// Report is what one full run produces: the per-bucket detail plus the
// reduced totals and enough metadata to label the output.
type Report struct {
	GeneratedAt time.Time                  `yaml:"generated_at"`
	Identities  map[common.Provider]string `yaml:"identities,omitempty"`
	Buckets     []BucketSummary            `yaml:"buckets"`
	Totals      AccountSummary             `yaml:"totals"`
	Elapsed     time.Duration              `yaml:"-"`
}

// Reduce folds bucket summaries into region and account totals. It is a pure
// function: same input sequence, same output, no matter how often it runs.
func Reduce(summaries []BucketSummary) AccountSummary {
	acc := AccountSummary{
		Classes: make(map[string]ClassTally),
		Regions: make(map[string]RegionSummary),
	}

	for i := range summaries {
		b := &summaries[i]

		acc.Buckets++
		acc.Objects += b.Objects
		acc.Bytes += b.Bytes
		if b.Truncated {
			acc.Truncated++
		}
		if b.Inaccessible {
			acc.Inaccessible++
		}

		region := acc.Regions[b.Region]
		if region.Classes == nil {
			region.Region = b.Region
			region.Classes = make(map[string]ClassTally)
		}
		region.Buckets++
		region.Objects += b.Objects
		region.Bytes += b.Bytes

		for class, tally := range b.Classes {
			global := acc.Classes[class]
			global.Objects += tally.Objects
			global.Bytes += tally.Bytes
			acc.Classes[class] = global

			local := region.Classes[class]
			local.Objects += tally.Objects
			local.Bytes += tally.Bytes
			region.Classes[class] = local
		}

		acc.Regions[b.Region] = region
	}

	return acc
}
