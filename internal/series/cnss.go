package series

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"capitas/internal"
	"capitas/internal/util"
)

// closingMonth marks the end-of-year row every CNSS source carries; the
// yearly charts read only those rows.
const closingMonth = "Diciembre"

var monthOrder = map[string]int{
	"enero":      1,
	"febrero":    2,
	"marzo":      3,
	"abril":      4,
	"mayo":       5,
	"junio":      6,
	"julio":      7,
	"agosto":     8,
	"septiembre": 9,
	"octubre":    10,
	"noviembre":  11,
	"diciembre":  12,
}

// The missing space before "(total)" is verbatim from the source reports.
var capitasDispersadas = []Series{
	{"número de cápitas dispersadas(total)", "Total"},
	{"número de cápitas dispersadas (titulares)", "Titulares"},
	{"número de cápitas dispersadas (dependientes directos)", "Dependientes directos"},
	{"número de cápitas dispersadas (dependientes adicionales)", "Dependientes adicionales"},
}

const montoDispersadoTotal = "total de monto dispersado rd$ (total)"

var montoDispersadoTypes = []string{
	"titulares",
	"dependientes directos",
	"dependientes adicionales",
}

// CapitasDispersadasTrend narrows the merged CNSS table to the disbursed
// capitation metrics. With exactly one requested year the rows are that
// year's months in calendar order and the leading column is "mes"; otherwise
// the rows are the December closings of the requested years (all years when
// none are requested) and the leading column is "año". Requested years absent
// from the data are silently skipped in the multi-year form.
func CapitasDispersadasTrend(t *internal.Table, years []int) (*internal.Table, error) {
	yearIdx := t.ColumnIndex("año")
	monthIdx := t.ColumnIndex("mes")
	if yearIdx < 0 || monthIdx < 0 {
		return nil, errors.New(`table has no "año"/"mes" columns`)
	}

	if len(years) == 1 {
		return monthlyCapitas(t, years[0], yearIdx, monthIdx)
	}

	requested := map[int]bool{}
	for _, y := range years {
		requested[y] = true
	}

	tableYears := t.Years()
	rows := make([][]string, 0, len(t.Rows))
	for i, row := range t.Rows {
		if strings.TrimSpace(cellAt(row, monthIdx)) != closingMonth {
			continue
		}
		if len(years) > 0 && (math.IsNaN(tableYears[i]) || !requested[int(tableYears[i])]) {
			continue
		}
		rows = append(rows, row)
	}

	return narrowRows(t, rows, "año", yearIdx, capitasDispersadas)
}

// monthlyCapitas breaks one year down by month. Month names are trimmed and
// lowercased; unrecognized names sort after the recognized ones.
func monthlyCapitas(t *internal.Table, year, yearIdx, monthIdx int) (*internal.Table, error) {
	type monthRow struct {
		order int
		month string
		row   []string
	}

	tableYears := t.Years()
	var rows []monthRow
	for i, row := range t.Rows {
		if math.IsNaN(tableYears[i]) || int(tableYears[i]) != year {
			continue
		}
		month := strings.ToLower(strings.TrimSpace(cellAt(row, monthIdx)))
		order, ok := monthOrder[month]
		if !ok {
			order = len(monthOrder) + 1
		}
		rows = append(rows, monthRow{order: order, month: month, row: row})
	}
	if len(rows) == 0 {
		return nil, ErrYearsNotFound
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].order < rows[j].order })

	indexes, err := metricIndexes(t, capitasDispersadas)
	if err != nil {
		return nil, err
	}
	out := &internal.Table{Columns: append([]string{"mes"}, metricColumns(capitasDispersadas)...)}
	for _, r := range rows {
		cells := make([]string, 0, len(indexes)+1)
		cells = append(cells, r.month)
		for _, idx := range indexes {
			cells = append(cells, cellAt(r.row, idx))
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

// MoneyShareByType computes each customer type's share of the December total
// disbursed amount as percentages rounded to two decimals. Year selection
// follows the FilterYears contract.
func MoneyShareByType(t *internal.Table, years []int) (*internal.Table, error) {
	filtered, err := FilterYears(t, years)
	if err != nil {
		return nil, err
	}

	yearIdx := filtered.ColumnIndex("año")
	monthIdx := filtered.ColumnIndex("mes")
	if yearIdx < 0 || monthIdx < 0 {
		return nil, errors.New(`table has no "año"/"mes" columns`)
	}
	totalIdx := filtered.ColumnIndex(montoDispersadoTotal)
	if totalIdx < 0 {
		return nil, fmt.Errorf("column %q not found in table", montoDispersadoTotal)
	}

	columns := []string{"año"}
	partIdx := make([]int, 0, len(montoDispersadoTypes))
	for _, typ := range montoDispersadoTypes {
		name := fmt.Sprintf("total de monto dispersado rd$ (%s)", typ)
		idx := filtered.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("column %q not found in table", name)
		}
		partIdx = append(partIdx, idx)
		columns = append(columns, name+" %")
	}

	out := &internal.Table{Columns: columns}
	for _, row := range filtered.Rows {
		if strings.TrimSpace(cellAt(row, monthIdx)) != closingMonth {
			continue
		}
		cells := []string{cellAt(row, yearIdx)}
		total, totalOK := util.ParseNumeric(cellAt(row, totalIdx))
		for _, idx := range partIdx {
			part, ok := util.ParseNumeric(cellAt(row, idx))
			if !ok || !totalOK || total == 0 {
				cells = append(cells, "")
				continue
			}
			pct := math.Round(part/total*10000) / 100
			cells = append(cells, strconv.FormatFloat(pct, 'f', -1, 64))
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

func narrowRows(t *internal.Table, rows [][]string, leading string, leadIdx int, selection []Series) (*internal.Table, error) {
	indexes, err := metricIndexes(t, selection)
	if err != nil {
		return nil, err
	}

	out := &internal.Table{Columns: append([]string{leading}, metricColumns(selection)...)}
	for _, row := range rows {
		cells := make([]string, 0, len(indexes)+1)
		cells = append(cells, cellAt(row, leadIdx))
		for _, idx := range indexes {
			cells = append(cells, cellAt(row, idx))
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

func metricIndexes(t *internal.Table, selection []Series) ([]int, error) {
	indexes := make([]int, 0, len(selection))
	for _, s := range selection {
		idx := t.ColumnIndex(s.Column)
		if idx < 0 {
			return nil, fmt.Errorf("column %q not found in table", s.Column)
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

func metricColumns(selection []Series) []string {
	out := make([]string, 0, len(selection))
	for _, s := range selection {
		out = append(out, s.Column)
	}
	return out
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
