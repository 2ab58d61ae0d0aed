package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account
type User struct {
	gorm.Model
	PublicID       string `gorm:"size:100;uniqueIndex"`
	Username       string `gorm:"unique;not null;size:100"`
	Email          string `gorm:"unique;not null;size:200"`
	Password       string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	ProfilePicture string `gorm:"size:500"`
	LastEditedAt   time.Time

	FlashcardSets []FlashcardSet `gorm:"foreignKey:UserID"`
}

// SanitizedUser is the projection of a User that is safe to return to clients.
type SanitizedUser struct {
	ID             string    `json:"_id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	LastEditedAt   time.Time `json:"lastEditedAt"`
}

func (u *User) Sanitized() SanitizedUser {
	return SanitizedUser{
		ID:             u.PublicID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		LastEditedAt:   u.LastEditedAt,
	}
}
