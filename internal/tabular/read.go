package tabular

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"capitas/internal"
	"capitas/internal/encoding"
)

// ErrUnsupportedFormat marks a file that is neither a readable workbook nor
// readable delimited text. Fatal for that file, no coercion is attempted.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadSheet loads a file into a raw cell grid. The workbook parse is tried
// first; delimited text is only attempted when the workbook reader failed
// because the payload is not a zip container at all, so a corrupt xlsx still
// surfaces as a workbook error instead of being reparsed as garbage CSV.
func ReadSheet(path string) (internal.RawSheet, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sheet, wbErr := readWorkbook(blob)
	if wbErr == nil {
		return sheet, nil
	}
	if !errors.Is(wbErr, zip.ErrFormat) && !errors.Is(wbErr, excelize.ErrWorkbookFileFormat) {
		return nil, fmt.Errorf("read workbook %s: %w", path, wbErr)
	}

	sheet, csvErr := readDelimited(blob)
	if csvErr != nil {
		return nil, fmt.Errorf("%w: %s (workbook: %v; delimited: %v)", ErrUnsupportedFormat, path, wbErr, csvErr)
	}
	return sheet, nil
}

func readWorkbook(blob []byte) (internal.RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func readDelimited(blob []byte) (internal.RawSheet, error) {
	utf8r, err := encoding.NewUTF8Reader(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}
	decoded, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, err
	}

	// The charset decode turns UTF-16 code units into plain text; NUL bytes
	// that survive it mean binary content, not a legacy codepage.
	if bytes.IndexByte(decoded, 0x00) >= 0 {
		return nil, errors.New("binary content")
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	return rows, nil
}
