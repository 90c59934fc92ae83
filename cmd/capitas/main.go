package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"capitas/internal"
	"capitas/internal/config"
	"capitas/internal/pipeline"
	"capitas/internal/storage"
	"capitas/internal/tabular"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "data:model":
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		svc := pipeline.NewProcessingService(db, cfg)
		res, err := svc.ModelAll()
		must(err)
		fmt.Printf("model run done trace=%s artifacts=%d\n", res.TraceID, len(res.Artifacts))
		for _, a := range res.Artifacts {
			fmt.Printf("  %s %d: %s (%d rows, %d cols)\n", a.Institution, a.Seq, a.Path, a.RowCount, a.ColCount)
		}
	case "data:one":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "ONE report file (xlsx or csv)")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--input and --out are required"))
		}

		sheet, err := tabular.ReadSheet(*input)
		must(err)
		table, err := pipeline.ModelONE(sheet)
		must(err)
		must(pipeline.WriteTableXLSX(table, *out))
		fmt.Printf("modeled %s: %d rows, %d cols -> %s\n", *input, len(table.Rows), len(table.Columns), *out)
	case "data:cnss":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", cfg.CNSSRawDir, "directory of CNSS report files")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--out is required"))
		}

		table, err := modelCNSSDir(*dir)
		must(err)
		must(pipeline.WriteTableXLSX(table, *out))
		fmt.Printf("merged %s: %d rows, %d cols -> %s\n", *dir, len(table.Rows), len(table.Columns), *out)
	case "catalog:runs":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", cfg.CatalogRunsLimit, "max runs to list")
		_ = fs.Parse(os.Args[2:])

		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()

		runs, err := db.ListRuns(*limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("run %d trace=%s at=%s counts=%s\n", run.ID, run.TraceID, run.CreatedAt, run.CountsJSON)
			artifacts, err := db.ListArtifacts(run.ID)
			must(err)
			for _, a := range artifacts {
				fmt.Printf("  %s %d: %s (%d rows, %d cols)\n", a.Institution, a.Seq, a.Path, a.RowCount, a.ColCount)
			}
		}
	default:
		usage()
		os.Exit(1)
	}
}

func modelCNSSDir(dir string) (*internal.Table, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sheets := make([]internal.RawSheet, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		sheet, err := tabular.ReadSheet(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return pipeline.ModelCNSS(sheets)
}

func usage() {
	fmt.Println("usage: capitas <command>")
	fmt.Println("commands:")
	fmt.Println("  data:model                 normalize every ONE and CNSS file and record the run")
	fmt.Println("  data:one --input=... --out=...xlsx")
	fmt.Println("  data:cnss [--dir=...] --out=...xlsx")
	fmt.Println("  catalog:runs [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
