package storage

import (
	"fmt"
	"time"

	"stortally/pkg/common"
)

type Bucket struct {
	Name      string
	Provider  common.Provider
	Region    string
	CreatedAt time.Time
	// A value of -1 indicates that the reported usage is unknown or could not be retrieved
	UsageBytes int64
}

// Object is the minimal view of a stored object the tally pipeline needs:
// key, size and the raw (un-normalized) storage-class label from the provider.
type Object struct {
	Key          string
	Size         int64
	StorageClass string
	LastModified time.Time
}

// ObjectPage is a single page of an object listing. NextToken is the opaque
// continuation cursor to pass to the next ListObjectsPage call; HasMore
// reports whether the provider indicated further pages exist.
type ObjectPage struct {
	Objects   []Object
	NextToken string
	HasMore   bool
}

func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "N/A"
	}
	if bytes == 0 {
		return "0 B"
	}

	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	sizes := []string{"KB", "MB", "GB", "TB", "PB", "EB"}
	if exp >= len(sizes) {
		return fmt.Sprintf("%d B", bytes) // Fallback if extremely large
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), sizes[exp])
}

// FormatCount renders an integer with thousands separators (12,345,678).
func FormatCount(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
