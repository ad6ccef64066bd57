package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Defines the interface for prompting the user for input
type Prompter interface {
	// Asks the user a yes/no question and reports whether they accepted
	Confirm(message string) (bool, error)
}

// Provides a standard implementation of the Prompter interface using specified input/output streams
type StandardPrompter struct {
	reader io.Reader
	writer io.Writer
}

// Creates a new StandardPrompter with the given input and output streams
func NewStandardPrompter(in io.Reader, out io.Writer) *StandardPrompter {
	return &StandardPrompter{
		reader: in,
		writer: out,
	}
}

// Asks the user a yes/no question. Only "y" or "yes" (case-insensitive)
// counts as acceptance; EOF is treated as a refusal.
func (p *StandardPrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.writer, "%s [y/N]: ", message)

	reader := bufio.NewReader(p.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("error reading user input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ConfirmOverwrite asks whether an existing file at path may be replaced.
func ConfirmOverwrite(p Prompter, path string) (bool, error) {
	return p.Confirm(fmt.Sprintf("File '%s' already exists. Overwrite?", path))
}
