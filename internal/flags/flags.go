package flags

// Centralized definitions for CLI flags used across the application

const (
	// Providers selects which configured providers a command queries
	Providers      = "providers"
	ProvidersShort = "p"

	// Regions filters the scan to buckets living in the given regions
	Regions      = "regions"
	RegionsShort = "r"

	// Bucket restricts the scan to a single named bucket
	Bucket      = "bucket"
	BucketShort = "b"

	// PageSize is the object-listing page size (bounded at 1000 by S3)
	PageSize = "page-size"

	// MaxObjects is the hard per-bucket object cap; 0 scans everything
	MaxObjects = "max-objects"

	// BucketTimeout bounds the wall-clock time spent scanning one bucket
	BucketTimeout = "bucket-timeout"

	// Concurrency is the number of buckets scanned in parallel
	Concurrency = "concurrency"

	// CSV is the path the CSV report is written to
	CSV = "csv"

	// Format selects the console report rendering (table or yaml)
	Format = "format"

	// Progress enables the interactive progress display
	Progress = "progress"

	// Force bypasses interactive confirmation prompts (e.g. CSV overwrite)
	Force      = "force"
	ForceShort = "f"

	// Debug enables verbose logging
	Debug      = "debug"
	DebugShort = "d"
)
