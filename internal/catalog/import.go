package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"artmatch/internal/ai"
	applog "artmatch/internal/log"
	"artmatch/models"

	"gorm.io/gorm"
)

// ErrUnknownArtist is returned when a row names an email that is not an artist account.
var ErrUnknownArtist = errors.New("artist not found")

// EmotionProfiler fills in emotions for rows that carry none.
type EmotionProfiler interface {
	ProfileEmotions(ctx context.Context, brief ai.ArtworkBrief) (map[string]float64, error)
}

// Options control how rows are stored.
type Options struct {
	// ArtistID owns every row when set; artist_email columns are then ignored.
	ArtistID uint
	// DefaultArtistEmail is used for rows without an artist_email.
	DefaultArtistEmail string
	// Profiler, when non-nil, is asked for emotions of rows that have none.
	Profiler EmotionProfiler
}

// Result summarises an import.
type Result struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Failed  []RowError `json:"-"`
}

// Errors returns the failure messages in line order.
func (r Result) Errors() []string {
	messages := make([]string, 0, len(r.Failed))
	for _, failure := range r.Failed {
		messages = append(messages, failure.Error())
	}
	return messages
}

// Import stores rows as artworks. An artwork with the same title and artist is
// updated in place; anything else is created. Each row runs in its own
// transaction so one bad row does not discard the rest.
func Import(ctx context.Context, db *gorm.DB, rows []Row, opts Options) (Result, error) {
	if db == nil {
		return Result{}, gorm.ErrInvalidDB
	}

	var result Result
	artists := map[string]uint{}

	for _, row := range rows {
		artistID, err := resolveArtist(ctx, db, row, opts, artists)
		if err != nil {
			result.Failed = append(result.Failed, RowError{Line: row.Line, Err: err})
			continue
		}

		if len(row.Emotions) == 0 && opts.Profiler != nil {
			row.Emotions = profile(ctx, opts.Profiler, row)
		}

		created := false
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			artwork := row.Artwork(artistID)

			var existing models.Artwork
			err := tx.Where("artist_id = ? AND lower(title) = ?", artistID, strings.ToLower(artwork.Title)).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&artwork).Error; err != nil {
					return fmt.Errorf("create artwork %q: %w", artwork.Title, err)
				}
				created = true
				return nil
			case err != nil:
				return fmt.Errorf("find artwork %q: %w", artwork.Title, err)
			}

			updates := map[string]any{
				"price":      artwork.Price,
				"medium":     artwork.Medium,
				"dimensions": artwork.Dimensions,
				"tags":       artwork.Tags,
			}
			if artwork.ImageURL != "" {
				updates["image_url"] = artwork.ImageURL
			}
			if len(artwork.Emotions) > 0 {
				updates["emotions"] = artwork.Emotions
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update artwork %q: %w", artwork.Title, err)
			}
			return nil
		})
		if err != nil {
			result.Failed = append(result.Failed, RowError{Line: row.Line, Err: err})
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	applog.Info(ctx, "catalogue imported", "created", result.Created, "updated", result.Updated, "failed", len(result.Failed))
	return result, nil
}

func resolveArtist(ctx context.Context, db *gorm.DB, row Row, opts Options, cache map[string]uint) (uint, error) {
	if opts.ArtistID != 0 {
		return opts.ArtistID, nil
	}

	email := row.ArtistEmail
	if email == "" {
		email = strings.ToLower(strings.TrimSpace(opts.DefaultArtistEmail))
	}
	if email == "" {
		return 0, fmt.Errorf("%w: row has no artist_email", ErrUnknownArtist)
	}
	if id, ok := cache[email]; ok {
		return id, nil
	}

	var artist models.User
	err := db.WithContext(ctx).
		Where("lower(email) = ? AND role = ?", email, models.RoleArtist).
		First(&artist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownArtist, email)
	}
	if err != nil {
		return 0, fmt.Errorf("find artist %s: %w", email, err)
	}
	cache[email] = artist.ID
	return artist.ID, nil
}

func profile(ctx context.Context, profiler EmotionProfiler, row Row) map[string]float64 {
	scores, err := profiler.ProfileEmotions(ctx, ai.ArtworkBrief{
		Title:      row.Title,
		Medium:     row.Medium,
		Dimensions: row.Dimensions,
		Tags:       row.Tags,
	})
	if err != nil {
		applog.Error(ctx, "emotion profiling failed", "title", row.Title, "error", err)
		return nil
	}
	return scores
}
