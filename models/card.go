package models

import "gorm.io/gorm"

// Card represents a single term/definition pair
type Card struct {
	gorm.Model
	PublicID   string `gorm:"size:100;uniqueIndex"`
	Term       string `gorm:"not null;size:500"`
	Definition string `gorm:"not null;size:2000"`
	Reference  string `gorm:"size:500"` // optional media URL

	SetID        uint         `gorm:"not null;index"`
	FlashcardSet FlashcardSet `gorm:"foreignKey:SetID" json:"-"`
}
