package formatter

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"stortally/pkg/summary"
)

// WriteYAML renders the report as YAML for machine consumption.
func WriteYAML(w io.Writer, r *summary.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("error encoding report: %w", err)
	}
	return enc.Close()
}
