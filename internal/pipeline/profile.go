package pipeline

import (
	"github.com/montanaflynn/stats"

	"capitas/internal"
	"capitas/internal/util"
)

// ColumnProfile is a numeric summary of one metric column, stored alongside
// the artifact so the catalog can answer "what does this table hold" without
// reopening the workbook.
type ColumnProfile struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// ProfileTable summarizes every column with at least one numeric value.
// Text columns (month names, markers) are skipped.
func ProfileTable(t *internal.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(t.Columns))
	for _, name := range t.Columns {
		values := make(stats.Float64Data, 0, len(t.Rows))
		for _, cell := range t.Column(name) {
			if parsed, ok := util.ParseNumeric(cell); ok {
				values = append(values, parsed)
			}
		}
		if len(values) == 0 {
			continue
		}

		min, _ := values.Min()
		max, _ := values.Max()
		mean, _ := values.Mean()
		profiles = append(profiles, ColumnProfile{
			Column: name,
			Count:  len(values),
			Min:    min,
			Max:    max,
			Mean:   mean,
		})
	}
	return profiles
}
