package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Artwork is a single piece listed for sale by an artist. Emotions maps an affect
// dimension to a weight in [0,1]; older records have none.
type Artwork struct {
	gorm.Model
	Title      string                      `gorm:"not null" json:"title"`
	Price      float64                     `gorm:"not null;index" json:"price"`
	ImageURL   string                      `json:"image_url"`
	Medium     string                      `gorm:"not null;default:Unknown" json:"medium"`
	Dimensions string                      `gorm:"not null;default:N/A" json:"dimensions"`
	Tags       datatypes.JSONSlice[string] `json:"tags"`
	Emotions   datatypes.JSONMap           `json:"emotions,omitempty"`
	ArtistID   uint                        `gorm:"not null;index" json:"artist_id"`
	Artist     *User                       `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Likes      []Like                      `gorm:"foreignKey:ArtworkID" json:"-"`
}

// EmotionScores converts the stored JSON map into lowercase dimension weights.
// Entries that are not numeric are skipped. It returns nil when the artwork was
// never profiled.
func (a Artwork) EmotionScores() map[string]float64 {
	if len(a.Emotions) == 0 {
		return nil
	}
	scores := make(map[string]float64, len(a.Emotions))
	for name, raw := range a.Emotions {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		switch v := raw.(type) {
		case float64:
			scores[key] = v
		case float32:
			scores[key] = float64(v)
		case int:
			scores[key] = float64(v)
		case int64:
			scores[key] = float64(v)
		case json.Number:
			if parsed, err := v.Float64(); err == nil {
				scores[key] = parsed
			}
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				scores[key] = parsed
			}
		}
	}
	if len(scores) == 0 {
		return nil
	}
	return scores
}

// EmotionMap builds the JSON column value from weights.
func EmotionMap(scores map[string]float64) datatypes.JSONMap {
	if len(scores) == 0 {
		return nil
	}
	out := make(datatypes.JSONMap, len(scores))
	for name, value := range scores {
		out[name] = value
	}
	return out
}

// NormalizeTags trims, lowercases and de-duplicates tags, dropping empty entries.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

// SplitTags parses a comma separated tag list such as "Abstract, Pop Art".
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, ","))
}
