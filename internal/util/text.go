package util

import (
	"strconv"
	"strings"
)

// IsMissing reports whether a cell holds no value. Spreadsheet readers
// surface blank and absent cells alike as empty strings.
func IsMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// NormalizeColumn standardizes a column name the way the source reports
// expect: trimmed and lowercased, inner spacing untouched.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseNumeric parses a cell as a number, tolerating surrounding space,
// NBSP padding and digit-group separators ("1,234,567" / "1 234 567").
func ParseNumeric(cell string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(cell, " ", " "))
	if s == "" {
		return 0, false
	}
	if parsed, err := strconv.ParseFloat(s, 64); err == nil {
		return parsed, true
	}
	compact := normalizeNumericToken(s)
	parsed, err := strconv.ParseFloat(compact, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func normalizeNumericToken(token string) string {
	t := strings.ReplaceAll(token, " ", "")
	// "1.234.567,89" and "1,234,567.89" both collapse to a dot decimal.
	lastComma := strings.LastIndex(t, ",")
	lastDot := strings.LastIndex(t, ".")
	switch {
	case lastComma > lastDot:
		t = strings.ReplaceAll(t, ".", "")
		t = strings.Replace(t, ",", ".", 1)
		t = strings.ReplaceAll(t, ",", "")
	default:
		t = strings.ReplaceAll(t, ",", "")
	}
	return t
}
