package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"stortally/pkg/summary"
)

// WriteCSV writes the full report: metadata header, one detail row per bucket
// with fixed columns followed by a count/bytes column pair per storage class,
// then the summary and per-class distribution sections.
//
// All size cells are raw byte integers; anything human-readable belongs in
// the console report.
func WriteCSV(w io.Writer, r *summary.Report) error {
	cw := csv.NewWriter(w)

	write := func(record ...string) {
		cw.Write(record)
	}

	write("Storage Tally Report")
	write("Generated at:", r.GeneratedAt.Format(time.DateTime))
	for provider, identity := range r.Identities {
		write(fmt.Sprintf("%s identity:", provider), identity)
	}
	write()

	classes := summary.ClassNames(r.Buckets)

	header := []string{"Bucket Name", "Provider", "Region", "Object Count", "Total Size (Bytes)", "Truncated", "Inaccessible"}
	for _, class := range classes {
		header = append(header, class+" Objects", class+" Bytes")
	}
	cw.Write(header)

	for i := range r.Buckets {
		b := &r.Buckets[i]
		row := []string{
			b.Bucket,
			string(b.Provider),
			b.Region,
			strconv.FormatInt(b.Objects, 10),
			strconv.FormatInt(b.Bytes, 10),
			strconv.FormatBool(b.Truncated),
			strconv.FormatBool(b.Inaccessible),
		}
		for _, class := range classes {
			tally := b.Classes[class]
			row = append(row, strconv.FormatInt(tally.Objects, 10), strconv.FormatInt(tally.Bytes, 10))
		}
		cw.Write(row)
	}

	write()
	write("Summary")
	write("Total Buckets", strconv.Itoa(r.Totals.Buckets))
	write("Total Objects", strconv.FormatInt(r.Totals.Objects, 10))
	write("Total Size (Bytes)", strconv.FormatInt(r.Totals.Bytes, 10))

	write()
	write("Storage Class Distribution")
	for _, class := range classes {
		tally := r.Totals.Classes[class]
		write(class+" Objects", strconv.FormatInt(tally.Objects, 10))
		write(class+" Bytes", strconv.FormatInt(tally.Bytes, 10))
	}

	cw.Flush()
	return cw.Error()
}
