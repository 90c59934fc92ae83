package storage

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"capitas/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS artifacts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId INTEGER NOT NULL,
  institution TEXT NOT NULL,
  seq INTEGER NOT NULL,
  path TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  colCount INTEGER NOT NULL,
  profileJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_artifacts_runId ON artifacts(runId);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) InsertRun(traceID string, counts map[string]int) (int, error) {
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return 0, err
	}

	res, err := d.conn.Exec(`INSERT INTO runs (traceId, countsJson) VALUES (?, ?)`, traceID, string(countsJSON))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (d *DB) InsertArtifact(a internal.ArtifactRow) error {
	_, err := d.conn.Exec(`
INSERT INTO artifacts (runId, institution, seq, path, rowCount, colCount, profileJson)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Institution, a.Seq, a.Path, a.RowCount, a.ColCount, a.ProfileJSON)
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, countsJson, createdAt FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.RunRow{}
	for rows.Next() {
		var r internal.RunRow
		if err := rows.Scan(&r.ID, &r.TraceID, &r.CountsJSON, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) ListArtifacts(runID int) ([]internal.ArtifactRow, error) {
	rows, err := d.conn.Query(`
SELECT id, runId, institution, seq, path, rowCount, colCount, profileJson, createdAt
FROM artifacts WHERE runId = ? ORDER BY institution, seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.ArtifactRow{}
	for rows.Next() {
		var a internal.ArtifactRow
		if err := rows.Scan(&a.ID, &a.RunID, &a.Institution, &a.Seq, &a.Path, &a.RowCount, &a.ColCount, &a.ProfileJSON, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
