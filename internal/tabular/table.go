package tabular

import (
	"errors"

	"capitas/internal"
)

// TableFromSheet interprets a flat grid as a tidy table whose first row is
// the header, which is how persisted artifacts come back in.
func TableFromSheet(sheet internal.RawSheet) (*internal.Table, error) {
	if len(sheet) == 0 {
		return nil, errors.New("empty sheet")
	}
	return &internal.Table{
		Columns: append([]string(nil), sheet[0]...),
		Rows:    sheet[1:],
	}, nil
}

// ReadTable loads a persisted artifact back into a tidy table.
func ReadTable(path string) (*internal.Table, error) {
	sheet, err := ReadSheet(path)
	if err != nil {
		return nil, err
	}
	return TableFromSheet(sheet)
}
