package storage

import (
	"path/filepath"
	"testing"

	"capitas/internal"
)

func TestRunAndArtifactRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	runID, err := db.InsertRun("trace-1", map[string]int{"one": 3, "cnss": 1})
	if err != nil {
		t.Fatal(err)
	}

	artifacts := []internal.ArtifactRow{
		{RunID: runID, Institution: "one", Seq: 0, Path: "/tmp/one 0.xlsx", RowCount: 19, ColCount: 8, ProfileJSON: "[]"},
		{RunID: runID, Institution: "cnss", Seq: 0, Path: "/tmp/cnss 0.xlsx", RowCount: 250, ColCount: 12, ProfileJSON: "[]"},
	}
	for _, a := range artifacts {
		if err := db.InsertArtifact(a); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := db.ListRuns(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].TraceID != "trace-1" {
		t.Fatalf("runs=%v", runs)
	}

	got, err := db.ListArtifacts(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("artifacts=%v", got)
	}
	if got[0].Institution != "cnss" || got[1].Institution != "one" {
		t.Fatalf("order=%v", got)
	}
}
