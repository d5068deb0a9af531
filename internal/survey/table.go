// Package survey models the raw field-survey workbook: row-oriented sheet
// tables and the typed errors raised while loading them.
package survey

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Table is a single sheet read into memory. Columns preserve header order and
// Rows preserve sheet order. Cells hold the text the workbook formats them
// as; a missing or blank cell is the empty string.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

// Column returns the index of the named column.
func (t Table) Column(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Value returns the trimmed cell under the named column for the given row,
// or the empty string when the column is absent or the row is short.
func (t Table) Value(row []string, name string) string {
	i, ok := t.Column(name)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Require verifies that every named column exists, returning a
// *SchemaMismatchError naming the first absent one.
func (t Table) Require(names ...string) error {
	for _, name := range names {
		if _, ok := t.Column(name); !ok {
			return &SchemaMismatchError{Sheet: t.Sheet, Column: name}
		}
	}
	return nil
}

// NumericID normalizes an identifier cell that spreadsheets render as a
// float. A value carrying an integral fraction ("1.0", "12.00") collapses to
// its integer text; anything non-numeric passes through untouched.
func NumericID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, ".") {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f != math.Trunc(f) || math.Abs(f) >= 1e15 {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// SourceReadError reports a workbook or sheet that could not be read.
type SourceReadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *SourceReadError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("read workbook %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("read sheet %s of %s: %v", e.Sheet, e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// SchemaMismatchError reports an expected column absent from a loaded sheet.
type SchemaMismatchError struct {
	Sheet  string
	Column string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sheet %s: missing expected column %q", e.Sheet, e.Column)
}
