package internal

import (
	"math"
	"strconv"
	"strings"
)

type Institution string

const (
	InstitutionONE  Institution = "one"
	InstitutionCNSS Institution = "cnss"
)

// RawSheet is an untyped grid of cells as read from a workbook sheet or a
// delimited file. Rows may be ragged; a missing cell is a trimmed-empty
// string or an index past the end of its row.
type RawSheet [][]string

func (s RawSheet) Cell(row, col int) string {
	if row < 0 || row >= len(s) {
		return ""
	}
	r := s[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Table is a tidy table: one row per reporting period, one column per metric.
// Cell values stay as strings; the year column is parsed on demand.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the named column, empty string for short rows
// and nil when the column does not exist.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// Years parses the "año" column as float64, NaN for missing cells.
func (t *Table) Years() []float64 {
	raw := t.Column("año")
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			out = append(out, math.NaN())
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			out = append(out, math.NaN())
			continue
		}
		out = append(out, parsed)
	}
	return out
}

type RunRow struct {
	ID         int
	TraceID    string
	CountsJSON string
	CreatedAt  string
}

type ArtifactRow struct {
	ID          int
	RunID       int
	Institution string
	Seq         int
	Path        string
	RowCount    int
	ColCount    int
	ProfileJSON string
	CreatedAt   string
}
