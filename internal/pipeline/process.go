package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"capitas/internal"
	"capitas/internal/config"
	"capitas/internal/storage"
	"capitas/internal/tabular"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ModelResult struct {
	TraceID   string
	RunID     int
	Artifacts []internal.ArtifactRow
}

// ModelAll runs the whole batch: every file under the ONE directory becomes
// its own tidy table, the full CNSS file set becomes one merged table, and
// everything is persisted under the processed directory plus recorded in the
// run catalog. Prior outputs are fully overwritten; there is no incremental
// path. Any failure aborts the run.
func (s *ProcessingService) ModelAll() (ModelResult, error) {
	oneTables, err := s.modelONEDir()
	if err != nil {
		return ModelResult{}, err
	}

	cnssTable, err := s.modelCNSSDir()
	if err != nil {
		return ModelResult{}, err
	}

	artifacts, err := s.persist(internal.InstitutionONE, oneTables)
	if err != nil {
		return ModelResult{}, err
	}
	cnssArtifacts, err := s.persist(internal.InstitutionCNSS, []*internal.Table{cnssTable})
	if err != nil {
		return ModelResult{}, err
	}
	artifacts = append(artifacts, cnssArtifacts...)

	traceID := uuid.NewString()
	runID, err := s.db.InsertRun(traceID, map[string]int{
		string(internal.InstitutionONE):  len(oneTables),
		string(internal.InstitutionCNSS): 1,
	})
	if err != nil {
		return ModelResult{}, err
	}
	for i := range artifacts {
		artifacts[i].RunID = runID
		if err := s.db.InsertArtifact(artifacts[i]); err != nil {
			return ModelResult{}, err
		}
	}

	return ModelResult{TraceID: traceID, RunID: runID, Artifacts: artifacts}, nil
}

func (s *ProcessingService) modelONEDir() ([]*internal.Table, error) {
	paths, err := listFiles(s.cfg.ONERawDir)
	if err != nil {
		return nil, err
	}

	tables := make([]*internal.Table, 0, len(paths))
	for _, path := range paths {
		sheet, err := tabular.ReadSheet(path)
		if err != nil {
			return nil, err
		}
		table, err := ModelONE(sheet)
		if err != nil {
			return nil, fmt.Errorf("model ONE %s: %w", path, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (s *ProcessingService) modelCNSSDir() (*internal.Table, error) {
	paths, err := listFiles(s.cfg.CNSSRawDir)
	if err != nil {
		return nil, err
	}

	sheets := make([]internal.RawSheet, 0, len(paths))
	for _, path := range paths {
		sheet, err := tabular.ReadSheet(path)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}

	table, err := ModelCNSS(sheets)
	if err != nil {
		return nil, fmt.Errorf("model CNSS %s: %w", s.cfg.CNSSRawDir, err)
	}
	return table, nil
}

// persist writes one workbook per table as "<institution> <i>.xlsx",
// replacing the institution directory wholesale.
func (s *ProcessingService) persist(institution internal.Institution, tables []*internal.Table) ([]internal.ArtifactRow, error) {
	dir := filepath.Join(s.cfg.ProcessedDir, string(institution))
	if err := os.RemoveAll(dir); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	artifacts := make([]internal.ArtifactRow, 0, len(tables))
	for i, table := range tables {
		path := filepath.Join(dir, fmt.Sprintf("%s %d.xlsx", institution, i))
		if err := WriteTableXLSX(table, path); err != nil {
			return nil, err
		}

		profileJSON, err := json.Marshal(ProfileTable(table))
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, internal.ArtifactRow{
			Institution: string(institution),
			Seq:         i,
			Path:        path,
			RowCount:    len(table.Rows),
			ColCount:    len(table.Columns),
			ProfileJSON: string(profileJSON),
		})
	}
	return artifacts, nil
}

// listFiles returns every regular entry in dir, sorted by name. No extension
// filter: anything present is attempted.
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
