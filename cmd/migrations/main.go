package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/smartwearable/guardian-verify/internal/config"
	"github.com/smartwearable/guardian-verify/internal/log"
)

func main() {
	logger := log.New("migrations")

	if len(os.Args) < 2 {
		logger.Fatal().Msg("a migration name is required")
	}
	migrationName := os.Args[1]

	_ = godotenv.Load()

	cfg, err := config.LoadDB()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := sql.Open("postgres", cfg.URL())
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	content, err := migrationFileContent(basePath, migrationName)
	if err != nil {
		logger.Fatal().Err(err).Msg("read migration")
	}

	if _, err := db.Exec(string(content)); err != nil {
		logger.Fatal().Err(err).Msg("execute migration")
	}

	logger.Info().Str("migration", migrationName).Msg("migration executed")
}

func migrationFileContent(basePath, migrationName string) ([]byte, error) {
	filePath, err := migrationFilePath(basePath, migrationName)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(basePath, filePath))
}

func migrationFilePath(basePath, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", err
	}

	files, _ := os.ReadDir(basePath)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration file not found")
}
