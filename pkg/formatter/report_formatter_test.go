package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stortally/pkg/storage"
	"stortally/pkg/summary"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 42 * time.Second, want: "42s"},
		{d: 95 * time.Second, want: "1m 35s"},
		{d: 2*time.Hour + 3*time.Minute + 4*time.Second, want: "2h 3m 4s"},
		{d: 0, want: "0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestFormatReport(t *testing.T) {
	out := NewReportFormatter().FormatReport(sampleReport())

	assert.Contains(t, out, "Storage Tally Report")
	assert.Contains(t, out, "123456789012")
	assert.Contains(t, out, "logs")
	assert.Contains(t, out, "backups")
	assert.Contains(t, out, "truncated(cap)")
	assert.Contains(t, out, "DEEP_ARCHIVE")
	assert.Contains(t, out, "us-east-1")
	assert.Contains(t, out, "eu-west-1")
	// 5500 bytes renders as 5.4 KB in the console report.
	assert.Contains(t, out, "5.4 KB")
	assert.Contains(t, out, "Largest bucket: logs")
}

func TestFormatBucketList(t *testing.T) {
	buckets := []storage.Bucket{
		{Name: "media", Provider: "aws", Region: "us-east-1", UsageBytes: -1, CreatedAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{Name: "archive", Provider: "gcp", Region: "europe-west1", UsageBytes: 1024 * 1024},
	}

	out := NewReportFormatter().FormatBucketList(buckets)

	assert.Contains(t, out, "media")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "1.0 MB")
	assert.Contains(t, out, "2025-01-10")
}

func TestFormatBucketListUnknownRegion(t *testing.T) {
	out := NewReportFormatter().FormatBucketList([]storage.Bucket{
		{Name: "orphan", Provider: "aws", UsageBytes: -1},
	})

	assert.Contains(t, out, "| orphan")
	assert.Contains(t, out, "| -")
}

func TestFormatReportInaccessibleFlag(t *testing.T) {
	denied := summary.NewBucketSummary("private", "aws", "us-east-1")
	denied.Inaccessible = true

	buckets := []summary.BucketSummary{denied}
	report := &summary.Report{
		GeneratedAt: time.Now(),
		Buckets:     buckets,
		Totals:      summary.Reduce(buckets),
	}

	out := NewReportFormatter().FormatReport(report)
	assert.Contains(t, out, "inaccessible")
	assert.Contains(t, out, "Inaccessible Buckets")
}

func TestTableAlignment(t *testing.T) {
	table := NewTable([]string{"NAME", "COUNT"}).AlignRight(1)
	table.AddRow([]string{"a", "5"})
	table.AddRow([]string{"b", "12345"})

	out := table.String()
	assert.Contains(t, out, "| a    |     5 |")
	assert.Contains(t, out, "| b    | 12345 |")
}
