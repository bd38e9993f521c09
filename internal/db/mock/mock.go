package mock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "artmatch/internal/log"
	"artmatch/models"
)

// Password is shared by every seeded account.
const Password = "gallery"

type seedArtwork struct {
	title    string
	artist   string
	imageID  string
	price    float64
	tags     []string
	emotions map[string]float64
}

var catalogue = []seedArtwork{
	{"Neon Horizon", "Alex Vance", "1541701494587-cb58502866ab", 1200,
		[]string{"Abstract", "Contemporary", "Minimalist", "Cyberpunk"},
		map[string]float64{"energetic": 0.8, "vibrant": 0.9, "calm": 0.1}},
	{"Urban Silence", "Maya Chen", "1549490349-8643362247b5", 3500,
		[]string{"Minimalist", "Photography", "Street Art"},
		map[string]float64{"calm": 0.9, "melancholy": 0.4, "minimal": 0.8}},
	{"Celestial Flow", "Julian Thorne", "1501472312651-726afe119ff1", 8500,
		[]string{"Abstract", "Surrealism", "Impressionism"},
		map[string]float64{"dreamy": 0.9, "peaceful": 0.7, "mystical": 0.8}},
	{"Pop Culture Echo", "Luna Rossi", "1493333858332-68adc8edeaf7", 450,
		[]string{"Pop Art", "Contemporary", "Street Art"},
		map[string]float64{"playful": 0.8, "energetic": 0.7, "bold": 0.9}},
	{"The Silent Watcher", "Elena Petrov", "1579783902614-a3fb3927b6a5", 15000,
		[]string{"Classic", "Surrealism", "Renaissance", "Baroque"},
		map[string]float64{"serious": 0.7, "majestic": 0.8, "somber": 0.5}},
	{"Geometric Rhythm", "David Ko", "1543857778-c4a1a3e0b2eb", 2800,
		[]string{"Abstract", "Minimalist", "Modern", "Bauhaus"},
		map[string]float64{"balanced": 0.9, "structured": 0.8, "clean": 0.9}},
	{"Street Dreams", "Ghost 7", "1499781350541-7783f6c6a0c8", 950,
		[]string{"Street Art", "Pop Art", "Expressionism"},
		map[string]float64{"raw": 0.8, "rebellious": 0.9, "vivid": 0.7}},
	{"Ethereal Landscape", "Sarah Miller", "1541963463532-d68292c34b19", 5200,
		[]string{"Impressionism", "Contemporary", "Expressionism"},
		map[string]float64{"serene": 0.9, "soft": 0.8, "light": 0.7}},
	{"Digital Awakening", "K0de", "1550684848-fac1c5b4e853", 1500,
		[]string{"Cyberpunk", "Contemporary", "Abstract"},
		map[string]float64{"futuristic": 0.9, "intense": 0.8, "dark": 0.6}},
	{"Deco Elegance", "Victor Wells", "1506744038136-46273834b3fb", 4200,
		[]string{"Art Deco", "Modern", "Classic"},
		map[string]float64{"elegant": 0.9, "glamorous": 0.8, "refined": 0.7}},
}

// New returns an in-memory sqlite database seeded with a representative gallery.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	db, err := gorm.Open(sqlite.Open("file:artmatch-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Artwork{},
		&models.Like{},
	); err != nil {
		return nil, err
	}

	var existing int64
	if err := db.WithContext(ctx).Model(&models.Artwork{}).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		applog.Debug(ctx, "mock database already seeded", "artworks", existing)
		return db, nil
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	collector := &models.User{
		Name:         "Avery Collector",
		Email:        "avery@artmatch.app",
		PasswordHash: string(password),
		Role:         models.RoleCollector,
		Onboarded:    true,
		Preferences: datatypes.NewJSONType(models.Preferences{
			Budget:  "500-5000",
			Context: "home",
			Styles:  []string{"Abstract", "Minimalist"},
		}),
	}
	if err := db.WithContext(ctx).Create(collector).Error; err != nil {
		return err
	}

	artists := make(map[string]*models.User)
	for _, entry := range catalogue {
		artist, ok := artists[entry.artist]
		if !ok {
			artist = &models.User{
				Name:         entry.artist,
				Email:        artistEmail(entry.artist),
				PasswordHash: string(password),
				Role:         models.RoleArtist,
				Onboarded:    true,
			}
			if err := db.WithContext(ctx).Create(artist).Error; err != nil {
				return err
			}
			artists[entry.artist] = artist
		}

		artwork := &models.Artwork{
			Title:      entry.title,
			Price:      entry.price,
			ImageURL:   "https://images.unsplash.com/photo-" + entry.imageID,
			Medium:     "Unknown",
			Dimensions: "N/A",
			Tags:       datatypes.JSONSlice[string](entry.tags),
			Emotions:   models.EmotionMap(entry.emotions),
			ArtistID:   artist.ID,
		}
		if err := db.WithContext(ctx).Create(artwork).Error; err != nil {
			return fmt.Errorf("seed artwork %q: %w", entry.title, err)
		}
	}

	applog.Debug(ctx, "mock database seeded", "artworks", len(catalogue), "artists", len(artists))
	return nil
}

func artistEmail(name string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "."))
	return slug + "@artists.artmatch.app"
}
