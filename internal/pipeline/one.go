package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"capitas/internal"
	"capitas/internal/util"
)

var (
	// ErrHeaderNotFound means neither year-token variant was located in the
	// first column. Fatal for the file, never recovered by guessing.
	ErrHeaderNotFound = errors.New("header row not found")

	// ErrMalformedYear means a year cell still fails numeric parsing after
	// footnote markers were stripped.
	ErrMalformedYear = errors.New("malformed year value")
)

const (
	quarterRetained = "Cuarto trimestre"

	// The ONE report family closes every sheet with a fixed 3-row block of
	// source/footnote text.
	trailingFootnoteRows = 3
)

// ModelONE normalizes a single ONE affiliation sheet into a tidy table:
// locate the real header row, synthesize metric names from the two-level
// (category, sub-category) structure, transpose to one-row-per-period, keep
// fourth-quarter (or unmarked) periods and clean up the year column.
func ModelONE(sheet internal.RawSheet) (*internal.Table, error) {
	idx, err := locateHeader(sheet)
	if err != nil {
		return nil, err
	}

	end := len(sheet) - trailingFootnoteRows
	if end < idx {
		end = idx
	}
	grid := cloneGrid(sheet[idx:end])

	synthesizeColumnNames(grid)

	table := transpose(grid)

	forwardFillYears(table)
	filterQuarters(table)
	dropHeaderArtifact(table)
	if err := normalizeYears(table); err != nil {
		return nil, err
	}
	standardizeColumnNames(table)

	return table, nil
}

// locateHeader returns the index of the first row whose first cell equals
// the year token, in either spelling, ignoring case and whitespace.
func locateHeader(sheet internal.RawSheet) (int, error) {
	for i := range sheet {
		switch util.NormalizeColumn(sheet.Cell(i, 0)) {
		case "año", "años":
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: no \"año\"/\"años\" cell in first column", ErrHeaderNotFound)
}

// synthesizeColumnNames rewrites the sub-category column in place: each row
// gets "{category} ({sub-category})" where the category is an accumulator
// carried down from the last non-missing first-column cell. A name that
// already appears anywhere in the sub-category column gains the row's
// 0-based ordinal as a suffix. Missing cells render as the literal "nan",
// which is how the "Años (nan)" header artifact comes to exist.
func synthesizeColumnNames(grid internal.RawSheet) {
	category := ""
	for i := range grid {
		if cell := grid.Cell(i, 0); !util.IsMissing(cell) {
			category = cell
		}

		sub := grid.Cell(i, 1)
		if util.IsMissing(sub) {
			sub = "nan"
		}

		name := category + " (" + sub + ")"
		if columnContains(grid, 1, name) {
			name = fmt.Sprintf("%s %d", name, i)
		}
		setCell(grid, i, 1, name)
	}
}

// transpose drops the category column and flips the grid so that every
// original period column becomes a row. The first transposed row holds the
// synthesized names and becomes the header.
func transpose(grid internal.RawSheet) *internal.Table {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 2 {
		return &internal.Table{}
	}

	flipped := make([][]string, 0, width-1)
	for col := 1; col < width; col++ {
		row := make([]string, len(grid))
		for r := range grid {
			row[r] = grid.Cell(r, col)
		}
		flipped = append(flipped, row)
	}

	if len(flipped) == 0 {
		return &internal.Table{}
	}
	return &internal.Table{Columns: flipped[0], Rows: flipped[1:]}
}

// forwardFillYears fills blank first-column cells with the most recent
// preceding value; the source marks the year only once per quarter group.
func forwardFillYears(t *internal.Table) {
	last := ""
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		if util.IsMissing(row[0]) {
			row[0] = last
		} else {
			last = row[0]
		}
	}
}

// filterQuarters keeps rows whose period marker is "Cuarto trimestre" or
// missing. Annual-only sheets carry no marker at all, so unmarked rows are
// treated as annual totals.
func filterQuarters(t *internal.Table) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		marker := ""
		if len(row) > 1 {
			marker = row[1]
		}
		if util.IsMissing(marker) || strings.TrimSpace(marker) == quarterRetained {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

// dropHeaderArtifact removes the placeholder column produced by the header
// block itself, in either year spelling.
func dropHeaderArtifact(t *internal.Table) {
	for _, artifact := range []string{"Años (nan) 1", "Año (nan) 1"} {
		if idx := t.ColumnIndex(artifact); idx >= 0 {
			dropColumn(t, idx)
			return
		}
	}
}

// normalizeYears strips footnote asterisks from the year column and parses
// it as a float. Missing cells stay missing; anything else that fails to
// parse is fatal.
func normalizeYears(t *internal.Table) error {
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		cleaned := strings.ReplaceAll(row[0], "*", "")
		if util.IsMissing(cleaned) {
			row[0] = ""
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrMalformedYear, row[0])
		}
		row[0] = strconv.FormatFloat(parsed, 'f', -1, 64)
	}
	return nil
}

// standardizeColumnNames lowercases every column; any name containing the
// year token collapses to the literal "año" regardless of spelling.
func standardizeColumnNames(t *internal.Table) {
	for i, col := range t.Columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "año") {
			t.Columns[i] = "año"
		} else {
			t.Columns[i] = lower
		}
	}
}

func cloneGrid(sheet internal.RawSheet) internal.RawSheet {
	out := make(internal.RawSheet, len(sheet))
	for i, row := range sheet {
		out[i] = append([]string(nil), row...)
	}
	return out
}

func columnContains(grid internal.RawSheet, col int, value string) bool {
	for i := range grid {
		if grid.Cell(i, col) == value {
			return true
		}
	}
	return false
}

func setCell(grid internal.RawSheet, row, col int, value string) {
	for len(grid[row]) <= col {
		grid[row] = append(grid[row], "")
	}
	grid[row][col] = value
}

func dropColumn(t *internal.Table, idx int) {
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	for i, row := range t.Rows {
		if idx < len(row) {
			t.Rows[i] = append(row[:idx], row[idx+1:]...)
		}
	}
}
