package formatter

import (
	"strings"
)

type Table struct {
	Headers      []string
	Rows         [][]string
	rightAlign   map[int]bool
	columnWidths []int
}

// Creates a new table with the given headers
func NewTable(headers []string) *Table {
	t := &Table{
		Headers:    headers,
		Rows:       [][]string{},
		rightAlign: map[int]bool{},
	}
	t.calculateColumnWidths()
	return t
}

// AlignRight marks columns (by index) as right-aligned; used for numeric cells
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.rightAlign[c] = true
	}
	return t
}

func (t *Table) AddRow(row []string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) calculateColumnWidths() {
	t.columnWidths = make([]int, len(t.Headers))
	for i, h := range t.Headers {
		t.columnWidths[i] = len(h)
	}

	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(t.columnWidths) && len(cell) > t.columnWidths[i] {
				t.columnWidths[i] = len(cell)
			}
		}
	}
}

// Returns the string representation of the table
func (t *Table) String() string {
	if len(t.Headers) == 0 {
		return ""
	}

	t.calculateColumnWidths()

	var sb strings.Builder

	t.writeBorder(&sb)
	sb.WriteString("\n")

	sb.WriteString("| ")
	for i, h := range t.Headers {
		t.writeCell(&sb, h, i)
		sb.WriteString(" | ")
	}
	sb.WriteString("\n")

	t.writeBorder(&sb)
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("| ")
		for i, cell := range row {
			if i < len(t.columnWidths) {
				t.writeCell(&sb, cell, i)
				sb.WriteString(" | ")
			}
		}
		sb.WriteString("\n")
	}

	t.writeBorder(&sb)

	return sb.String()
}

func (t *Table) writeCell(sb *strings.Builder, cell string, col int) {
	padding := strings.Repeat(" ", t.columnWidths[col]-len(cell))
	if t.rightAlign[col] {
		sb.WriteString(padding)
		sb.WriteString(cell)
		return
	}
	sb.WriteString(cell)
	sb.WriteString(padding)
}

// writeBorder writes a horizontal border to the string builder
func (t *Table) writeBorder(sb *strings.Builder) {
	sb.WriteString("+")
	for _, width := range t.columnWidths {
		sb.WriteString(strings.Repeat("-", width+2))
		sb.WriteString("+")
	}
}
