package models

import "time"

// Like records that a user favourited an artwork. A user likes an artwork at most once.
type Like struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_artwork"`
	ArtworkID uint      `gorm:"not null;uniqueIndex:idx_likes_user_artwork;index"`
	CreatedAt time.Time `json:"created_at"`
}
