package models

import (
	"errors"
	"fmt"
)

// ErrRaggedRow is returned when a row does not have one cell per header.
var ErrRaggedRow = errors.New("row cell count does not match header count")

// TableData is the parsed header/row representation of a markdown table.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ColumnCount returns the number of columns.
func (t *TableData) ColumnCount() int {
	return len(t.Headers)
}

// Validate checks that every row has exactly one cell per header.
func (t *TableData) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(t.Headers), ErrRaggedRow)
		}
	}
	return nil
}

// IsEmpty reports whether the table has neither headers nor rows.
func (t *TableData) IsEmpty() bool {
	return t == nil || (len(t.Headers) == 0 && len(t.Rows) == 0)
}

// Clone returns a deep copy so editors can mutate without aliasing.
func (t *TableData) Clone() *TableData {
	if t == nil {
		return nil
	}
	out := &TableData{
		Headers: append([]string(nil), t.Headers...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
