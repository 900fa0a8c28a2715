// =============================================================================
// Appraisal Fee Audit - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - indexer
//   - audit
//   - validation
//   - reportwriter
//
// =============================================================================

package types

import (
	"fmt"
	"iter"
	"strings"
)

// =============================================================================
// TABLE TYPES
// =============================================================================

// Table is an ordered sequence of rows, each an ordered sequence of cells.
// Row 0 holds column titles. Input readers produce a Table and report
// writers consume one.
type Table [][]string

// HeaderIndex returns the position of the title row: the first row with a
// non-blank cell. It returns -1 when every row is blank.
func (t Table) HeaderIndex() int {
	for i, row := range t {
		if !IsBlankRow(row) {
			return i
		}
	}
	return -1
}

// Header returns the title row, or nil for an empty table.
func (t Table) Header() []string {
	i := t.HeaderIndex()
	if i < 0 {
		return nil
	}
	return t[i]
}

// Data returns every non-blank row after the title row.
func (t Table) Data() [][]string {
	var data [][]string
	for _, row := range t.Rows() {
		data = append(data, row)
	}
	return data
}

// Rows yields each non-blank row after the title row with its row number.
// Row numbers are 1-indexed positions in the table, blank rows included, so
// they match the source sheet or CSV record.
func (t Table) Rows() iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		hi := t.HeaderIndex()
		if hi < 0 {
			return
		}
		for i := hi + 1; i < len(t); i++ {
			if IsBlankRow(t[i]) {
				continue
			}
			if !yield(i+1, t[i]) {
				return
			}
		}
	}
}

// Normalize cleans the title row and drops trailing blank rows. Titles are
// trimmed and an empty title is named after its position ("Column_3").
// Other blank rows stay in place so row numbers keep matching the source;
// Rows and Data skip them. A table with no non-blank row becomes empty.
// Readers call it on every table they return.
func (t Table) Normalize() Table {
	end := len(t)
	for end > 0 && IsBlankRow(t[end-1]) {
		end--
	}
	if end == 0 {
		return Table{}
	}

	out := make(Table, end)
	copy(out, t[:end])
	hi := out.HeaderIndex()
	out[hi] = cleanHeaders(out[hi])
	return out
}

func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// IsBlankRow checks if a row is empty (all cells are empty or whitespace).
func IsBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// RECORD TYPE
// =============================================================================

// Record is one data row bound to its column titles.
// Column order is kept so records can be written back out unchanged.
type Record struct {
	// Row is the 1-indexed row number in the source table, blank rows and
	// the title row included. Useful for error reporting.
	Row int

	columns []string
	cells   []string
	index   map[string]int
}

// NewRecord binds cells to columns. columns must already be unique; the
// indexer enforces that. Short rows are padded with empty cells and extra
// cells are dropped.
func NewRecord(row int, columns, cells []string) Record {
	bound := make([]string, len(columns))
	copy(bound, cells)

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}

	return Record{Row: row, columns: columns, cells: bound, index: index}
}

// Get returns the cell under column name.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.cells[i], true
}

// At returns the cell at position i, or "" when out of range.
func (r Record) At(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// Columns returns the column titles in order.
func (r Record) Columns() []string {
	return r.columns
}

// Cells returns the cell values in column order.
func (r Record) Cells() []string {
	return r.cells
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.cells)
}
