package series

import (
	"errors"
	"fmt"
	"math"

	"capitas/internal"
)

// ErrYearsNotFound is returned when none of the requested years exist in the
// table's año column.
var ErrYearsNotFound = errors.New("years entered not found in the data")

// Series pairs a tidy-table metric column with its display label.
type Series struct {
	Column string
	Label  string
}

var (
	affiliatesDefault = []Series{
		{"afiliados (total)", "Todos"},
		{"afiliados (subsidiado)", "Subsidiado"},
		{"afiliados (contributivo)", "Contributivo"},
	}
	affiliatesByRegime = map[string][]Series{
		"Subsidiado":   {{"afiliados (subsidiado)", "Subsidiado"}},
		"Contributivo": {{"afiliados (contributivo)", "Contributivo"}},
	}

	capitasPagadasDefault = []Series{
		{"numero de cápitas pagadas (subsidiado)", "Subsidiado"},
		{"numero de cápitas pagadas (contributivo)", "Contributivo"},
	}
	capitasPagadasByRegime = map[string][]Series{
		"Subsidiado":   {{"numero de cápitas pagadas (subsidiado)", "Subsidiado"}},
		"Contributivo": {{"numero de cápitas pagadas (contributivo)", "Contributivo"}},
	}

	// The padded spellings below are verbatim from the source reports.
	capitasByGenderDefault = []Series{
		{"total  (hombres)", "Hombres"},
		{"total  (mujeres)", "Mujeres"},
	}
	capitasByGenderByRegime = map[string][]Series{
		"Subsidiado": {
			{"régimen subsidiado (hombres )", "Hombres"},
			{"régimen subsidiado (mujeres )", "Mujeres"},
		},
		"Contributivo": {
			{"régimen contributivo (hombres )", "Hombres"},
			{"régimen contributivo (mujeres )", "Mujeres"},
		},
	}
)

// AffiliatesSeries selects the affiliate-count columns for a regime filter.
// Any unrecognized filter value falls through to the full default set; that
// pass-through is part of the contract, not an error.
func AffiliatesSeries(regime string) []Series {
	if s, ok := affiliatesByRegime[regime]; ok {
		return s
	}
	return affiliatesDefault
}

// CapitasPagadasSeries selects the paid-capitation columns for a regime.
func CapitasPagadasSeries(regime string) []Series {
	if s, ok := capitasPagadasByRegime[regime]; ok {
		return s
	}
	return capitasPagadasDefault
}

// CapitasByGenderSeries selects the per-gender capitation columns.
func CapitasByGenderSeries(regime string) []Series {
	if s, ok := capitasByGenderByRegime[regime]; ok {
		return s
	}
	return capitasByGenderDefault
}

// FilterYears restricts a table to the requested years. An empty request
// keeps every row. If none of the requested years exist in the data the
// request is rejected; if only some exist the table is returned unfiltered,
// matching the behavior the dashboard has always relied on. The result is
// always a fresh table; callers may reorder or trim it freely.
func FilterYears(t *internal.Table, years []int) (*internal.Table, error) {
	if len(years) == 0 {
		return copyTable(t), nil
	}

	present := map[int]bool{}
	for _, y := range t.Years() {
		if !math.IsNaN(y) {
			present[int(y)] = true
		}
	}

	anyFound := false
	allFound := true
	requested := map[int]bool{}
	for _, y := range years {
		requested[y] = true
		if present[y] {
			anyFound = true
		} else {
			allFound = false
		}
	}
	if !anyFound {
		return nil, ErrYearsNotFound
	}
	if !allFound {
		return copyTable(t), nil
	}

	out := &internal.Table{Columns: append([]string(nil), t.Columns...)}
	tableYears := t.Years()
	for i, row := range t.Rows {
		if !math.IsNaN(tableYears[i]) && requested[int(tableYears[i])] {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

func copyTable(t *internal.Table) *internal.Table {
	return &internal.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    append([][]string(nil), t.Rows...),
	}
}

// SelectSeries applies the year filter and narrows the table to the año
// column plus the selected metric columns, in selection order.
func SelectSeries(t *internal.Table, selection []Series, years []int) (*internal.Table, error) {
	filtered, err := FilterYears(t, years)
	if err != nil {
		return nil, err
	}

	columns := []string{"año"}
	indexes := []int{filtered.ColumnIndex("año")}
	if indexes[0] < 0 {
		return nil, errors.New(`table has no "año" column`)
	}
	for _, s := range selection {
		idx := filtered.ColumnIndex(s.Column)
		if idx < 0 {
			return nil, fmt.Errorf("column %q not found in table", s.Column)
		}
		columns = append(columns, s.Column)
		indexes = append(indexes, idx)
	}

	out := &internal.Table{Columns: columns}
	for _, row := range filtered.Rows {
		cells := make([]string, len(indexes))
		for i, idx := range indexes {
			if idx < len(row) {
				cells[i] = row[idx]
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}
