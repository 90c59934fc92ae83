package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"capitas/internal"
	"capitas/internal/util"
)

// ErrMissingJoinKey means a CNSS source lacks a usable year or month column,
// which is fatal for the whole merge.
var ErrMissingJoinKey = errors.New("missing join key")

// keyedFrame is one CNSS source reduced to its metric columns plus the
// composite "{año} {mes}" key.
type keyedFrame struct {
	columns []string
	keys    []string
	rows    [][]string
}

// ModelCNSS merges the monthly payment reports into one table keyed by
// (year, month). The join is deliberately inner: a period absent from any
// one source is excluded because all sources must agree on the period.
func ModelCNSS(sheets []internal.RawSheet) (*internal.Table, error) {
	if len(sheets) == 0 {
		return nil, errors.New("no CNSS input files")
	}

	frames := make([]keyedFrame, 0, len(sheets))
	for i, sheet := range sheets {
		frame, err := buildKeyedFrame(sheet)
		if err != nil {
			return nil, fmt.Errorf("CNSS input %d: %w", i, err)
		}
		frames = append(frames, frame)
	}

	merged := frames[0]
	for _, frame := range frames[1:] {
		merged = mergeInner(merged, frame)
	}

	return splitCompositeKey(merged), nil
}

// buildKeyedFrame standardizes the header (lowercase, trimmed, "meses"
// aliased to "mes"), builds the composite key from the year and month cells
// verbatim, and drops the original key columns.
func buildKeyedFrame(sheet internal.RawSheet) (keyedFrame, error) {
	if len(sheet) == 0 {
		return keyedFrame{}, fmt.Errorf("%w: empty sheet", ErrMissingJoinKey)
	}

	header := make([]string, len(sheet[0]))
	for i, name := range sheet[0] {
		norm := util.NormalizeColumn(name)
		if norm == "meses" {
			norm = "mes"
		}
		header[i] = norm
	}

	yearIdx, monthIdx := -1, -1
	for i, name := range header {
		switch name {
		case "año":
			if yearIdx < 0 {
				yearIdx = i
			}
		case "mes":
			if monthIdx < 0 {
				monthIdx = i
			}
		}
	}
	if yearIdx < 0 || monthIdx < 0 {
		return keyedFrame{}, fmt.Errorf("%w: need \"año\" and \"mes\" (or \"meses\") columns, got %v", ErrMissingJoinKey, header)
	}

	frame := keyedFrame{}
	for i, name := range header {
		if i == yearIdx || i == monthIdx {
			continue
		}
		frame.columns = append(frame.columns, name)
	}

	for r := 1; r < len(sheet); r++ {
		key := sheet.Cell(r, yearIdx) + " " + sheet.Cell(r, monthIdx)
		cells := make([]string, 0, len(frame.columns))
		for i := range header {
			if i == yearIdx || i == monthIdx {
				continue
			}
			cells = append(cells, sheet.Cell(r, i))
		}
		frame.keys = append(frame.keys, key)
		frame.rows = append(frame.rows, cells)
	}

	return frame, nil
}

// mergeInner equi-joins two frames on the composite key, preserving the left
// frame's row order. Colliding metric names pick up _x/_y suffixes.
func mergeInner(left, right keyedFrame) keyedFrame {
	common := map[string]bool{}
	for _, lc := range left.columns {
		for _, rc := range right.columns {
			if lc == rc {
				common[lc] = true
			}
		}
	}

	out := keyedFrame{}
	for _, c := range left.columns {
		if common[c] {
			c += "_x"
		}
		out.columns = append(out.columns, c)
	}
	for _, c := range right.columns {
		if common[c] {
			c += "_y"
		}
		out.columns = append(out.columns, c)
	}

	rightIdx := map[string][]int{}
	for i, key := range right.keys {
		rightIdx[key] = append(rightIdx[key], i)
	}

	for i, key := range left.keys {
		for _, j := range rightIdx[key] {
			row := make([]string, 0, len(out.columns))
			row = append(row, left.rows[i]...)
			row = append(row, right.rows[j]...)
			out.keys = append(out.keys, key)
			out.rows = append(out.rows, row)
		}
	}

	return out
}

// splitCompositeKey turns the key back into año and mes columns. The split
// is on the first space only; month names keep their internal spaces.
func splitCompositeKey(frame keyedFrame) *internal.Table {
	columns := append(append([]string(nil), frame.columns...), "año", "mes")

	rows := make([][]string, 0, len(frame.rows))
	for i, row := range frame.rows {
		year, month := frame.keys[i], ""
		if parts := strings.SplitN(frame.keys[i], " ", 2); len(parts) == 2 {
			year, month = parts[0], parts[1]
		}
		rows = append(rows, append(append([]string(nil), row...), year, month))
	}

	return &internal.Table{Columns: columns, Rows: rows}
}
