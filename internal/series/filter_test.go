package series_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capitas/internal"
	"capitas/internal/series"
)

func affiliatesTable() *internal.Table {
	return &internal.Table{
		Columns: []string{"año", "afiliados (total)", "afiliados (subsidiado)", "afiliados (contributivo)"},
		Rows: [][]string{
			{"2019", "90", "30", "60"},
			{"2020", "100", "40", "60"},
			{"2021", "120", "50", "70"},
		},
	}
}

func TestFilterYearsEmptyKeepsAll(t *testing.T) {
	table := affiliatesTable()
	got, err := series.FilterYears(table, nil)
	require.NoError(t, err)
	assert.Len(t, got.Rows, 3)
}

func TestFilterYearsAllPresent(t *testing.T) {
	got, err := series.FilterYears(affiliatesTable(), []int{2019, 2021})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "2019", got.Rows[0][0])
	assert.Equal(t, "2021", got.Rows[1][0])
}

func TestFilterYearsNonePresent(t *testing.T) {
	_, err := series.FilterYears(affiliatesTable(), []int{1999})
	assert.ErrorIs(t, err, series.ErrYearsNotFound)
}

func TestFilterYearsPartialOverlapPassesThrough(t *testing.T) {
	// Historical contract: a partially-matching selection leaves the table
	// unfiltered rather than erroring or dropping rows.
	got, err := series.FilterYears(affiliatesTable(), []int{2020, 1999})
	require.NoError(t, err)
	assert.Len(t, got.Rows, 3)
}

func TestFilterYearsResultIsDetached(t *testing.T) {
	table := affiliatesTable()

	for _, years := range [][]int{nil, {2020, 1999}} {
		got, err := series.FilterYears(table, years)
		require.NoError(t, err)

		got.Columns[0] = "mutated"
		got.Rows[0] = []string{"mutated"}

		assert.Equal(t, "año", table.Columns[0], "years %v", years)
		assert.Equal(t, "2019", table.Rows[0][0], "years %v", years)
	}
}

func TestRegimeSelection(t *testing.T) {
	sub := series.AffiliatesSeries("Subsidiado")
	require.Len(t, sub, 1)
	assert.Equal(t, "afiliados (subsidiado)", sub[0].Column)

	// Unrecognized values fall through to the full default set.
	for _, filter := range []string{"Todos", "", "desconocido"} {
		all := series.AffiliatesSeries(filter)
		assert.Len(t, all, 3, "filter %q", filter)
	}
}

func TestSelectSeries(t *testing.T) {
	got, err := series.SelectSeries(affiliatesTable(), series.AffiliatesSeries("Contributivo"), []int{2020})
	require.NoError(t, err)
	assert.Equal(t, []string{"año", "afiliados (contributivo)"}, got.Columns)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, []string{"2020", "60"}, got.Rows[0])
}

func TestSelectSeriesMissingColumn(t *testing.T) {
	table := &internal.Table{Columns: []string{"año"}, Rows: [][]string{{"2020"}}}
	_, err := series.SelectSeries(table, series.AffiliatesSeries("Todos"), nil)
	assert.Error(t, err)
}
