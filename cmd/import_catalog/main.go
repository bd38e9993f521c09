package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"artmatch/internal/ai"
	"artmatch/internal/catalog"
	"artmatch/internal/config"
	"artmatch/internal/db"
	applog "artmatch/internal/log"
)

const artistEmailEnv = "ARTMATCH_IMPORT_ARTIST_EMAIL"

func main() {
	path := "catalogue.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	if err := run(context.Background(), path); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("catalogue path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate catalogue: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applog.SetLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("set log level: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	opts := catalog.Options{DefaultArtistEmail: strings.TrimSpace(os.Getenv(artistEmailEnv))}
	if cfg.AI.APIKey != "" {
		client, err := ai.NewClient(ai.Config{
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: cfg.AI.Timeout,
		})
		if err != nil {
			return fmt.Errorf("create ai client: %w", err)
		}
		opts.Profiler = client
	}

	result, skipped, err := importFile(ctx, database, path, opts)
	if err != nil {
		return err
	}

	fmt.Printf("imported %s: %d created, %d updated, %d skipped\n", filepath.Base(path), result.Created, result.Updated, len(skipped)+len(result.Failed))
	for _, rowErr := range skipped {
		fmt.Printf("  %s\n", rowErr.Error())
	}
	for _, message := range result.Errors() {
		fmt.Printf("  %s\n", message)
	}
	return nil
}

// importFile parses the catalogue at path and upserts its rows. Rows that could
// not be parsed are returned separately from rows the database rejected.
func importFile(ctx context.Context, database *gorm.DB, path string, opts catalog.Options) (catalog.Result, []catalog.RowError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Result{}, nil, fmt.Errorf("read catalogue: %w", err)
	}

	rows, skipped, err := catalog.Parse(filepath.Base(path), data)
	if err != nil {
		return catalog.Result{}, nil, fmt.Errorf("parse catalogue: %w", err)
	}

	result, err := catalog.Import(ctx, database, rows, opts)
	if err != nil {
		return catalog.Result{}, skipped, fmt.Errorf("import catalogue: %w", err)
	}
	return result, skipped, nil
}
