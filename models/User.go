package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account roles.
const (
	RoleCollector = "collector"
	RoleArtist    = "artist"
)

// User represents an application account that can authenticate with the platform.
// Collectors carry preferences; artists own artworks.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Bio          string `gorm:"type:text"`
	Role         string `gorm:"type:varchar(16);not null;default:collector"`
	Onboarded    bool   `gorm:"not null;default:false"`
	Preferences  datatypes.JSONType[Preferences]
}

// NormalizeRole maps free-form input onto a known role, defaulting to collector.
func NormalizeRole(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), RoleArtist) {
		return RoleArtist
	}
	return RoleCollector
}

// IsArtist reports whether the account lists artworks.
func (u *User) IsArtist() bool {
	return u != nil && u.Role == RoleArtist
}
