package survey

import (
	"errors"
	"testing"
)

func TestTableValue(t *testing.T) {
	table := Table{
		Sheet:   "Station",
		Columns: []string{"station", "depth", "notes"},
		Rows: [][]string{
			{"ST1", " 42.5 ", "calm seas"},
			{"ST2"}, // short row: trailing cells trimmed by the reader
		},
	}
	if got := table.Value(table.Rows[0], "depth"); got != "42.5" {
		t.Fatalf("expected trimmed cell, got %q", got)
	}
	if got := table.Value(table.Rows[1], "notes"); got != "" {
		t.Fatalf("short row should read empty, got %q", got)
	}
	if got := table.Value(table.Rows[0], "missing"); got != "" {
		t.Fatalf("absent column should read empty, got %q", got)
	}
}

func TestTableRequire(t *testing.T) {
	table := Table{Sheet: "CPUE", Columns: []string{"Station", "Species"}}
	if err := table.Require("Station", "Species"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := table.Require("Station", "Catch")
	if err == nil {
		t.Fatalf("expected schema mismatch")
	}
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *SchemaMismatchError, got %T", err)
	}
	if mismatch.Sheet != "CPUE" || mismatch.Column != "Catch" {
		t.Fatalf("unexpected mismatch %+v", mismatch)
	}
}

func TestNumericID(t *testing.T) {
	cases := map[string]string{
		"1":      "1",
		"1.0":    "1",
		"12.00":  "12",
		" 3.0 ":  "3",
		"1.5":    "1.5",
		"C1":     "C1",
		"":       "",
		"-4.0":   "-4",
		"1e2":    "1e2", // no dot, passes through
		"0.0":    "0",
		"1.0ab":  "1.0ab",
		"86400.": "86400",
	}
	for in, want := range cases {
		if got := NumericID(in); got != want {
			t.Errorf("NumericID(%q) = %q, want %q", in, got, want)
		}
	}
}
