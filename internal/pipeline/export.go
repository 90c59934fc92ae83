package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"capitas/internal"
	"capitas/internal/util"
)

// WriteTableXLSX persists a tidy table as a single-sheet workbook. Cells
// that parse as numbers are written numerically so the downstream readers
// get a typed year and metric columns.
func WriteTableXLSX(t *internal.Table, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, name := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}

	for r, row := range t.Rows {
		for c := range t.Columns {
			value := ""
			if c < len(row) {
				value = row[c]
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if parsed, ok := util.ParseNumeric(value); ok {
				_ = f.SetCellValue(sheet, cell, parsed)
			} else {
				_ = f.SetCellValue(sheet, cell, value)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
