package pipeline

import (
	"errors"
	"reflect"
	"testing"

	"capitas/internal"
)

// oneFixture mimics the ONE affiliation report shape: title rows, a year
// header row, a quarter-marker row, metric rows, and a 3-row footnote block.
func oneFixture() internal.RawSheet {
	return internal.RawSheet{
		{"Afiliados al Seguro Familiar de Salud", "", "", "", ""},
		{"Años", "", "2020", "", "2021"},
		{"", "", "Segundo trimestre", "Cuarto trimestre", "Cuarto trimestre"},
		{"Afiliados", "Total", "100", "110", "120"},
		{"", "Subsidiado", "40", "45", "50"},
		{"Fuente: ONE", "", "", "", ""},
		{"* Cifras preliminares", "", "", "", ""},
		{"", "", "", "", ""},
	}
}

func TestLocateHeaderVariants(t *testing.T) {
	cases := []string{"años", "Años", "AÑO", "  año  ", " AÑOS "}
	for _, token := range cases {
		sheet := internal.RawSheet{{"título"}, {token}, {"x"}}
		idx, err := locateHeader(sheet)
		if err != nil {
			t.Fatalf("%q: %v", token, err)
		}
		if idx != 1 {
			t.Fatalf("%q: idx=%d", token, idx)
		}
	}
}

func TestLocateHeaderAtRowZero(t *testing.T) {
	sheet := internal.RawSheet{{"años"}, {""}, {""}}
	idx, err := locateHeader(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Fatalf("idx=%d", idx)
	}
}

func TestLocateHeaderNotFound(t *testing.T) {
	sheet := internal.RawSheet{{"título"}, {"periodo"}}
	if _, err := locateHeader(sheet); !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestSynthesizeNamesCarriesCategory(t *testing.T) {
	grid := internal.RawSheet{
		{"Total", "Hombres"},
		{"", "Mujeres"},
		{"Subsidiado", "Hombres"},
	}
	synthesizeColumnNames(grid)

	want := []string{"Total (Hombres)", "Total (Mujeres)", "Subsidiado (Hombres)"}
	for i, w := range want {
		if grid.Cell(i, 1) != w {
			t.Fatalf("row %d: got %q want %q", i, grid.Cell(i, 1), w)
		}
	}
}

func TestSynthesizeNamesCollisionSuffix(t *testing.T) {
	grid := internal.RawSheet{
		{"Total", "Hombres"},
		{"", "Mujeres"},
		{"", "Niños"},
		{"", "Niñas"},
		{"", "Extranjeros"},
		{"", "Hombres"},
	}
	synthesizeColumnNames(grid)

	if got := grid.Cell(0, 1); got != "Total (Hombres)" {
		t.Fatalf("row 0: %q", got)
	}
	if got := grid.Cell(5, 1); got != "Total (Hombres) 5" {
		t.Fatalf("row 5: %q", got)
	}
}

func TestSynthesizeNamesEmptyCategory(t *testing.T) {
	grid := internal.RawSheet{{"", "Hombres"}}
	synthesizeColumnNames(grid)
	if got := grid.Cell(0, 1); got != " (Hombres)" {
		t.Fatalf("got %q", got)
	}
}

func TestSynthesizeNamesDeterministic(t *testing.T) {
	a := cloneGrid(oneFixture())
	b := cloneGrid(oneFixture())
	synthesizeColumnNames(a)
	synthesizeColumnNames(b)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input produced different names:\n%v\n%v", a, b)
	}
}

func TestModelONE(t *testing.T) {
	table, err := ModelONE(oneFixture())
	if err != nil {
		t.Fatal(err)
	}

	wantCols := []string{"año", "afiliados (total)", "afiliados (subsidiado)"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Fatalf("columns=%v", table.Columns)
	}

	wantRows := [][]string{
		{"2020", "110", "45"},
		{"2021", "120", "50"},
	}
	if !reflect.DeepEqual(table.Rows, wantRows) {
		t.Fatalf("rows=%v", table.Rows)
	}
}

func TestModelONEYearsNonDecreasing(t *testing.T) {
	table, err := ModelONE(oneFixture())
	if err != nil {
		t.Fatal(err)
	}

	years := table.Years()
	for i := 1; i < len(years); i++ {
		if years[i] < years[i-1] {
			t.Fatalf("years decrease at %d: %v", i, years)
		}
	}
}

func TestModelONEStripsFootnoteMarker(t *testing.T) {
	sheet := oneFixture()
	sheet[1][2] = "2020*"
	table, err := ModelONE(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Rows[0][0]; got != "2020" {
		t.Fatalf("year=%q", got)
	}
}

func TestModelONEMalformedYear(t *testing.T) {
	sheet := oneFixture()
	sheet[1][2] = "dos mil veinte"
	if _, err := ModelONE(sheet); !errors.Is(err, ErrMalformedYear) {
		t.Fatalf("err=%v", err)
	}
}

func TestModelONEHeaderNotFound(t *testing.T) {
	sheet := internal.RawSheet{{"título"}, {"x", "y"}, {"", ""}, {"", ""}, {"", ""}}
	if _, err := ModelONE(sheet); !errors.Is(err, ErrHeaderNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestModelONEKeepsUnmarkedRows(t *testing.T) {
	// Annual-only sheets carry no period marker; every row survives the
	// quarter filter.
	sheet := internal.RawSheet{
		{"Años", "", "2019", "2020"},
		{"", "", "", ""},
		{"Afiliados", "Total", "90", "100"},
		{"Fuente: ONE"},
		{""},
		{""},
	}
	table, err := ModelONE(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows=%v", table.Rows)
	}
}
