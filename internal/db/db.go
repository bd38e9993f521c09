package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artmatch/internal/config"
	"artmatch/internal/recommend"
	"artmatch/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

// Initialize opens the configured database. URLs starting with "sqlite:" or
// "file:" use the embedded sqlite driver; anything else is handed to postgres.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	gormCfg := &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(dialector(cfg.URL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return db, nil
}

func dialector(url string) gorm.Dialector {
	trimmed := strings.TrimSpace(url)
	switch {
	case strings.HasPrefix(trimmed, "sqlite:"):
		return sqlite.Open(strings.TrimPrefix(trimmed, "sqlite:"))
	case strings.HasPrefix(trimmed, "file:"):
		return sqlite.Open(trimmed)
	default:
		return postgres.Open(trimmed)
	}
}

// AutoMigrate creates or updates the catalog and account tables.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Artwork{},
		&models.Like{},
	)
}

func Configure(cfg config.DatabaseConfig) (*gorm.DB, error) {
	database, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(database); err != nil {
		return nil, err
	}

	DB = database

	return database, nil
}

func MustConfigure(cfg config.DatabaseConfig) *gorm.DB {
	database, err := Configure(cfg)
	if err != nil {
		panic(err)
	}

	return database
}

func Get() *gorm.DB {
	return DB
}

// ArtworksInRange loads every artwork priced within bounds together with its
// artist, in catalog order (oldest first, then by id).
func ArtworksInRange(ctx context.Context, db *gorm.DB, bounds recommend.Range) ([]models.Artwork, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}

	var artworks []models.Artwork
	err := db.WithContext(ctx).
		Preload("Artist").
		Where("price >= ? AND price <= ?", bounds.Min, bounds.Max).
		Order("created_at asc").
		Order("id asc").
		Find(&artworks).Error
	if err != nil {
		return nil, fmt.Errorf("query artworks in range: %w", err)
	}
	return artworks, nil
}

// CatalogView converts stored artworks into the scorer's input, preserving order.
func CatalogView(artworks []models.Artwork) []recommend.Artwork {
	view := make([]recommend.Artwork, 0, len(artworks))
	for _, artwork := range artworks {
		artistName := ""
		if artwork.Artist != nil {
			artistName = artwork.Artist.Name
		}
		view = append(view, recommend.Artwork{
			ID:         artwork.ID,
			Title:      artwork.Title,
			Price:      artwork.Price,
			ImageURL:   artwork.ImageURL,
			Medium:     artwork.Medium,
			Dimensions: artwork.Dimensions,
			Tags:       []string(artwork.Tags),
			Emotions:   artwork.EmotionScores(),
			ArtistID:   artwork.ArtistID,
			ArtistName: artistName,
			CreatedAt:  artwork.CreatedAt,
		})
	}
	return view
}

// PreferenceView converts stored preferences into the scorer's input.
func PreferenceView(prefs models.Preferences) recommend.Preferences {
	return recommend.Preferences{
		Budget:  prefs.Budget,
		Context: prefs.Context,
		Styles:  prefs.Styles,
	}
}
