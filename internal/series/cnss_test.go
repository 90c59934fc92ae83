package series_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capitas/internal"
	"capitas/internal/series"
)

// cnssTable mimics the merged payment table: metric columns first, the split
// key columns last, month cells capitalized as the sources write them. The
// 2020 rows are deliberately out of calendar order.
func cnssTable() *internal.Table {
	return &internal.Table{
		Columns: []string{
			"número de cápitas dispersadas(total)",
			"número de cápitas dispersadas (titulares)",
			"número de cápitas dispersadas (dependientes directos)",
			"número de cápitas dispersadas (dependientes adicionales)",
			"total de monto dispersado rd$ (total)",
			"total de monto dispersado rd$ (titulares)",
			"total de monto dispersado rd$ (dependientes directos)",
			"total de monto dispersado rd$ (dependientes adicionales)",
			"año", "mes",
		},
		Rows: [][]string{
			{"110", "65", "33", "12", "1200", "600", "400", "200", "2020", "Diciembre"},
			{"100", "60", "30", "10", "1000", "500", "300", "200", "2020", "Enero"},
			{"120", "70", "36", "14", "2000", "1000", "600", "400", "2021", " Diciembre "},
		},
	}
}

func TestCapitasDispersadasTrendDecemberDefault(t *testing.T) {
	got, err := series.CapitasDispersadasTrend(cnssTable(), nil)
	require.NoError(t, err)

	assert.Equal(t, "año", got.Columns[0])
	assert.Equal(t, "número de cápitas dispersadas(total)", got.Columns[1])
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"2020", "110", "65", "33", "12"}, got.Rows[0])
	assert.Equal(t, []string{"2021", "120", "70", "36", "14"}, got.Rows[1])
}

func TestCapitasDispersadasTrendSkipsAbsentYears(t *testing.T) {
	got, err := series.CapitasDispersadasTrend(cnssTable(), []int{2021, 1999})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "2021", got.Rows[0][0])
}

func TestCapitasDispersadasTrendSingleYearByMonth(t *testing.T) {
	got, err := series.CapitasDispersadasTrend(cnssTable(), []int{2020})
	require.NoError(t, err)

	assert.Equal(t, "mes", got.Columns[0])
	require.Len(t, got.Rows, 2)
	// Months come back normalized and in calendar order, not input order.
	assert.Equal(t, "enero", got.Rows[0][0])
	assert.Equal(t, "diciembre", got.Rows[1][0])
	assert.Equal(t, "100", got.Rows[0][1])
}

func TestCapitasDispersadasTrendSingleYearMissing(t *testing.T) {
	_, err := series.CapitasDispersadasTrend(cnssTable(), []int{1999})
	assert.ErrorIs(t, err, series.ErrYearsNotFound)
}

func TestMoneyShareByType(t *testing.T) {
	got, err := series.MoneyShareByType(cnssTable(), nil)
	require.NoError(t, err)

	want := []string{
		"año",
		"total de monto dispersado rd$ (titulares) %",
		"total de monto dispersado rd$ (dependientes directos) %",
		"total de monto dispersado rd$ (dependientes adicionales) %",
	}
	assert.Equal(t, want, got.Columns)

	// Only the December closings survive; shares round to two decimals.
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"2020", "50", "33.33", "16.67"}, got.Rows[0])
	assert.Equal(t, []string{"2021", "50", "30", "20"}, got.Rows[1])
}

func TestMoneyShareByTypeYearContract(t *testing.T) {
	_, err := series.MoneyShareByType(cnssTable(), []int{1999})
	assert.ErrorIs(t, err, series.ErrYearsNotFound)

	got, err := series.MoneyShareByType(cnssTable(), []int{2021})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "2021", got.Rows[0][0])
}
