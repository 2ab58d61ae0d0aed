package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FlashcardSet represents a collection of cards
type FlashcardSet struct {
	gorm.Model
	PublicID    string `gorm:"size:100;uniqueIndex"`
	Title       string `gorm:"not null;size:200"`
	Description string `gorm:"size:1000"`
	IsPublic    bool   `gorm:"default:false"`

	UserID uint `gorm:"not null"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// CardIDs is the ordered list of card public IDs belonging to this set.
	// It is only ever written by the services package, together with the
	// matching Card rows.
	CardIDs datatypes.JSON `gorm:"type:json"`

	Cards []Card `gorm:"foreignKey:SetID"`
}
