package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stortally/pkg/common"
	"stortally/pkg/summary"
)

func sampleReport() *summary.Report {
	logs := summary.NewBucketSummary("logs", common.AWS, "us-east-1")
	logs.Add("STANDARD", 100)
	logs.Add("GLACIER", 500)
	logs.Add("GLACIER", 900)

	backups := summary.NewBucketSummary("backups", common.AWS, "eu-west-1")
	backups.Add("DEEP_ARCHIVE", 4000)
	backups.Truncated = true
	backups.Reason = summary.TruncatedByCap

	buckets := []summary.BucketSummary{logs, backups}
	return &summary.Report{
		GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Identities:  map[common.Provider]string{common.AWS: "123456789012"},
		Buckets:     buckets,
		Totals:      summary.Reduce(buckets),
		Elapsed:     92 * time.Second,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Storage Tally Report"}, records[0])
	assert.Equal(t, []string{"Generated at:", "2026-03-01 09:30:00"}, records[1])
	assert.Equal(t, []string{"aws identity:", "123456789012"}, records[2])

	// Detail header: fixed columns plus a sorted (Objects, Bytes) pair per class.
	header := records[3]
	assert.Equal(t, []string{
		"Bucket Name", "Provider", "Region", "Object Count", "Total Size (Bytes)", "Truncated", "Inaccessible",
		"DEEP_ARCHIVE Objects", "DEEP_ARCHIVE Bytes",
		"GLACIER Objects", "GLACIER Bytes",
		"STANDARD Objects", "STANDARD Bytes",
	}, header)

	logsRow := records[4]
	assert.Equal(t, []string{"logs", "aws", "us-east-1", "3", "1500", "false", "false", "0", "0", "2", "1400", "1", "100"}, logsRow)

	backupsRow := records[5]
	assert.Equal(t, "backups", backupsRow[0])
	assert.Equal(t, "true", backupsRow[5])

	// Raw byte integers only; no formatted sizes anywhere in the file.
	assert.NotContains(t, buf.String(), "KB")
}

func TestWriteCSVSummarySection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Total Buckets,2")
	assert.Contains(t, out, "Total Objects,4")
	assert.Contains(t, out, "Total Size (Bytes),5500")
	assert.Contains(t, out, "GLACIER Objects,2")
	assert.Contains(t, out, "GLACIER Bytes,1400")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "bucket: logs")
	assert.Contains(t, out, "region: us-east-1")
	assert.Contains(t, out, "bytes: 1500")
	assert.Contains(t, out, "generated_at:")
	assert.True(t, strings.Contains(out, "truncated: true"))
}
