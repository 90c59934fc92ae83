// Package series implements the selection contract the dashboard layer
// consumes: tidy tables restricted by a year list and a regime filter.
// Chart rendering itself lives downstream; only the filtering semantics are
// defined here.
package series

import (
	"math"
	"os"
	"path/filepath"
	"sort"

	"capitas/internal"
	"capitas/internal/tabular"
)

// State holds every loaded tidy table plus the set of years the year slider
// may offer. Built once at startup and passed around explicitly.
type State struct {
	ONE  []*internal.Table
	CNSS []*internal.Table

	// AvailableYears is the sorted union of the ONE tables' año columns.
	AvailableYears []int
}

// Load reads the persisted artifacts back from the processed directory.
func Load(processedDir string) (*State, error) {
	one, err := loadDir(filepath.Join(processedDir, string(internal.InstitutionONE)))
	if err != nil {
		return nil, err
	}
	cnss, err := loadDir(filepath.Join(processedDir, string(internal.InstitutionCNSS)))
	if err != nil {
		return nil, err
	}

	seen := map[int]bool{}
	for _, t := range one {
		for _, y := range t.Years() {
			if !math.IsNaN(y) {
				seen[int(y)] = true
			}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)

	return &State{ONE: one, CNSS: cnss, AvailableYears: years}, nil
}

func loadDir(dir string) ([]*internal.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	tables := make([]*internal.Table, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		table, err := tabular.ReadTable(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
