package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ONERawDir    string
	CNSSRawDir   string
	ProcessedDir string
	DBPath       string

	CatalogRunsLimit int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ONERawDir:    getEnv("ONE_RAW_DIR", filepath.Join(cwd, "data", "raw", "one")),
		CNSSRawDir:   getEnv("CNSS_RAW_DIR", filepath.Join(cwd, "data", "raw", "cnss")),
		ProcessedDir: getEnv("PROCESSED_DIR", filepath.Join(cwd, "data", "processed")),
		DBPath:       getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),

		CatalogRunsLimit: getEnvInt("CATALOG_RUNS_LIMIT", 20),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
