package formatter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"stortally/pkg/storage"
	"stortally/pkg/summary"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

type ReportFormatter struct{}

func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{}
}

// FormatBucketList renders the quick bucket listing (no object scan).
func (f *ReportFormatter) FormatBucketList(buckets []storage.Bucket) string {
	table := NewTable([]string{"BUCKET NAME", "PROVIDER", "REGION", "REPORTED USAGE", "CREATED"}).AlignRight(3)

	for _, bucket := range buckets {
		created := ""
		if !bucket.CreatedAt.IsZero() {
			created = bucket.CreatedAt.Format("2006-01-02")
		}

		region := bucket.Region
		if region == "" {
			region = "-"
		}

		table.AddRow([]string{
			bucket.Name,
			string(bucket.Provider),
			region,
			storage.FormatBytes(bucket.UsageBytes),
			created,
		})
	}

	return table.String()
}

// FormatReport renders the full scan report: overview, per-bucket detail,
// storage-class distribution and the per-region breakdown.
func (f *ReportFormatter) FormatReport(r *summary.Report) string {
	var sb strings.Builder

	sb.WriteString(headerStyle.Render("Storage Tally Report"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("Generated at " + r.GeneratedAt.Format(time.RFC1123)))
	sb.WriteString("\n")
	for provider, identity := range r.Identities {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("%s identity: %s", provider, identity)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(sectionStyle.Render("Overview"))
	sb.WriteString("\n")
	overview := NewTable([]string{"Parameter", "Value"})
	overview.AddRow([]string{"Total Buckets", storage.FormatCount(int64(r.Totals.Buckets))})
	overview.AddRow([]string{"Total Objects", storage.FormatCount(r.Totals.Objects)})
	overview.AddRow([]string{"Total Size", storage.FormatBytes(r.Totals.Bytes)})
	if r.Totals.Truncated > 0 {
		overview.AddRow([]string{"Truncated Scans", storage.FormatCount(int64(r.Totals.Truncated))})
	}
	if r.Totals.Inaccessible > 0 {
		overview.AddRow([]string{"Inaccessible Buckets", storage.FormatCount(int64(r.Totals.Inaccessible))})
	}
	overview.AddRow([]string{"Elapsed", FormatDuration(r.Elapsed)})
	sb.WriteString(overview.String())
	sb.WriteString("\n\n")

	sb.WriteString(sectionStyle.Render("Buckets"))
	sb.WriteString("\n")
	sb.WriteString(f.formatBucketSummaries(r.Buckets))
	sb.WriteString("\n\n")

	sb.WriteString(sectionStyle.Render("Storage Class Distribution"))
	sb.WriteString("\n")
	sb.WriteString(f.formatClassDistribution(r.Totals.Classes))
	sb.WriteString("\n\n")

	sb.WriteString(sectionStyle.Render("Regions"))
	sb.WriteString("\n")
	sb.WriteString(f.formatRegions(r.Totals.Regions))
	sb.WriteString("\n")

	if largest := summary.LargestBucket(r.Buckets); largest != nil && largest.Objects > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Largest bucket: %s (%s objects, %s)\n",
			largest.Bucket,
			storage.FormatCount(largest.Objects),
			storage.FormatBytes(largest.Bytes)))
	}

	return sb.String()
}

func (f *ReportFormatter) formatBucketSummaries(buckets []summary.BucketSummary) string {
	table := NewTable([]string{"BUCKET", "PROVIDER", "REGION", "OBJECTS", "SIZE", "FLAGS"}).AlignRight(3, 4)

	for i := range buckets {
		b := &buckets[i]
		table.AddRow([]string{
			b.Bucket,
			string(b.Provider),
			b.Region,
			storage.FormatCount(b.Objects),
			storage.FormatBytes(b.Bytes),
			summaryFlags(b),
		})
	}

	return table.String()
}

func (f *ReportFormatter) formatClassDistribution(classes map[string]summary.ClassTally) string {
	table := NewTable([]string{"STORAGE CLASS", "OBJECTS", "SIZE"}).AlignRight(1, 2)

	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tally := classes[name]
		table.AddRow([]string{
			name,
			storage.FormatCount(tally.Objects),
			storage.FormatBytes(tally.Bytes),
		})
	}

	return table.String()
}

func (f *ReportFormatter) formatRegions(regions map[string]summary.RegionSummary) string {
	table := NewTable([]string{"REGION", "BUCKETS", "OBJECTS", "SIZE"}).AlignRight(1, 2, 3)

	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := regions[name]
		table.AddRow([]string{
			r.Region,
			storage.FormatCount(int64(r.Buckets)),
			storage.FormatCount(r.Objects),
			storage.FormatBytes(r.Bytes),
		})
	}

	return table.String()
}

func summaryFlags(b *summary.BucketSummary) string {
	switch {
	case b.Inaccessible:
		return "inaccessible"
	case b.Truncated:
		return "truncated(" + b.Reason + ")"
	default:
		return ""
	}
}

// FormatDuration renders a duration as 1h 2m 3s, dropping leading zero units.
func FormatDuration(d time.Duration) string {
	total := int64(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
