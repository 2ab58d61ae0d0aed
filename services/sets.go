package services

import (
	"encoding/json"
	"errors"
	"log"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/models"
)

// SetService owns every write that touches a FlashcardSet together with its
// Card rows. The database has no cross-table transactions guarding these
// steps; each multi-step mutation is ordered so that a failure partway
// leaves an orphaned-but-harmless state (an untracked card, an empty set)
// rather than a dangling reference.
type SetService struct {
	db *gorm.DB
}

func NewSetService(db *gorm.DB) *SetService {
	return &SetService{db: db}
}

// CardInput is the request shape for a card inside a create/replace call.
type CardInput struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Reference  string `json:"reference,omitempty"`
}

func encodeCardIDs(ids []string) datatypes.JSON {
	if ids == nil {
		ids = []string{}
	}
	b, _ := json.Marshal(ids)
	return datatypes.JSON(b)
}

func decodeCardIDs(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return []string{}
	}
	return ids
}

func (s *SetService) findSet(publicID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	if err := s.db.Where("public_id = ?", publicID).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Flashcard set not found")
		}
		return nil, apperror.NewInternalError("Failed to load flashcard set", err)
	}
	return &set, nil
}

// CreateSet creates an empty flashcard set owned by the given user.
func (s *SetService) CreateSet(title, description string, isPublic bool, ownerPublicID string) (*models.FlashcardSet, error) {
	if strings.TrimSpace(ownerPublicID) == "" {
		return nil, apperror.NewValidationError("createdBy is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, apperror.NewValidationError("Title is required")
	}

	var owner models.User
	if err := s.db.Where("public_id = ?", ownerPublicID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("User not found")
		}
		return nil, apperror.NewInternalError("Failed to load user", err)
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, apperror.NewInternalError("Failed to generate set ID", err)
	}

	set := models.FlashcardSet{
		PublicID:    publicID,
		Title:       title,
		Description: description,
		IsPublic:    isPublic,
		UserID:      owner.ID,
		CardIDs:     encodeCardIDs(nil),
	}
	if err := s.db.Create(&set).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to create set", err)
	}

	log.Printf("CreateSet: created set %s for user %s", set.PublicID, owner.PublicID)
	return &set, nil
}

// AddCard inserts a card pointing at the set, then appends its id to the
// set's card list. The two steps are not atomic: if the append fails the
// card row stays behind as an orphan and the caller may retry, which
// produces a second card rather than deduplicating.
func (s *SetService) AddCard(setPublicID string, in CardInput) (*models.Card, error) {
	if strings.TrimSpace(in.Term) == "" || strings.TrimSpace(in.Definition) == "" {
		return nil, apperror.NewValidationError("Term and definition are required")
	}

	set, err := s.findSet(setPublicID)
	if err != nil {
		return nil, err
	}

	publicID, err := gonanoid.New()
	if err != nil {
		return nil, apperror.NewInternalError("Failed to generate card ID", err)
	}

	card := models.Card{
		PublicID:   publicID,
		Term:       in.Term,
		Definition: in.Definition,
		Reference:  in.Reference,
		SetID:      set.ID,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to create card", err)
	}

	ids := append(decodeCardIDs(set.CardIDs), card.PublicID)
	if err := s.db.Model(set).Update("card_ids", encodeCardIDs(ids)).Error; err != nil {
		// The card row already exists; it is now untracked by the set.
		log.Printf("AddCard: card %s inserted but set %s update failed: %v", card.PublicID, setPublicID, err)
		return nil, apperror.NewInternalError("Failed to attach card to set", err)
	}

	return &card, nil
}

// ReplaceSetCards deletes every card the set owns, bulk-inserts the new
// list, then overwrites the set's card-id list, in that order. Card
// identities are not preserved across a replace.
func (s *SetService) ReplaceSetCards(setPublicID string, cards []CardInput) ([]models.Card, error) {
	set, err := s.findSet(setPublicID)
	if err != nil {
		return nil, err
	}

	for _, c := range cards {
		if strings.TrimSpace(c.Term) == "" || strings.TrimSpace(c.Definition) == "" {
			return nil, apperror.NewValidationError("Each card must have a term and definition")
		}
	}

	if err := s.db.Where("set_id = ?", set.ID).Delete(&models.Card{}).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to delete existing cards", err)
	}

	created := make([]models.Card, 0, len(cards))
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		publicID, err := gonanoid.New()
		if err != nil {
			return nil, apperror.NewInternalError("Failed to generate card ID", err)
		}
		card := models.Card{
			PublicID:   publicID,
			Term:       c.Term,
			Definition: c.Definition,
			Reference:  c.Reference,
			SetID:      set.ID,
		}
		if err := s.db.Create(&card).Error; err != nil {
			// Cards created so far stay; the set's list is not yet updated.
			log.Printf("ReplaceSetCards: partial insert for set %s: %v", setPublicID, err)
			return nil, apperror.NewInternalError("Failed to create card", err)
		}
		created = append(created, card)
		ids = append(ids, publicID)
	}

	if err := s.db.Model(set).Update("card_ids", encodeCardIDs(ids)).Error; err != nil {
		log.Printf("ReplaceSetCards: cards inserted but set %s update failed: %v", setPublicID, err)
		return nil, apperror.NewInternalError("Failed to update set card list", err)
	}

	return created, nil
}

// UpdateSetMeta updates title, description and visibility. Nil fields are
// left untouched.
func (s *SetService) UpdateSetMeta(setPublicID string, title, description *string, isPublic *bool) (*models.FlashcardSet, error) {
	set, err := s.findSet(setPublicID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return nil, apperror.NewValidationError("Title is required")
		}
		set.Title = *title
	}
	if description != nil {
		set.Description = *description
	}
	if isPublic != nil {
		set.IsPublic = *isPublic
	}

	if err := s.db.Save(set).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to update set", err)
	}
	return set, nil
}

// DeleteSet removes the set's cards first and the set second, so an
// interruption leaves an empty set rather than cards pointing at a
// vanished set.
func (s *SetService) DeleteSet(setPublicID string) error {
	set, err := s.findSet(setPublicID)
	if err != nil {
		return err
	}

	if err := s.db.Where("set_id = ?", set.ID).Delete(&models.Card{}).Error; err != nil {
		return apperror.NewInternalError("Failed to delete cards", err)
	}
	if err := s.db.Delete(set).Error; err != nil {
		return apperror.NewInternalError("Failed to delete set", err)
	}

	log.Printf("DeleteSet: deleted set %s", setPublicID)
	return nil
}

// DeleteCardsForSet removes every card the set owns and clears its card
// list, returning the number of deleted rows.
func (s *SetService) DeleteCardsForSet(setPublicID string) (int64, error) {
	set, err := s.findSet(setPublicID)
	if err != nil {
		return 0, err
	}

	result := s.db.Where("set_id = ?", set.ID).Delete(&models.Card{})
	if result.Error != nil {
		return 0, apperror.NewInternalError("Failed to delete cards", result.Error)
	}
	if err := s.db.Model(set).Update("card_ids", encodeCardIDs(nil)).Error; err != nil {
		log.Printf("DeleteCardsForSet: cards deleted but set %s update failed: %v", setPublicID, err)
		return result.RowsAffected, apperror.NewInternalError("Failed to update set card list", err)
	}

	return result.RowsAffected, nil
}

// DeleteUserCascade deletes the user row, then every set the user owned via
// DeleteSet. A cascade step that fails after the user row is gone is logged
// and skipped; the remaining sets are still attempted.
func (s *SetService) DeleteUserCascade(user *models.User) error {
	var sets []models.FlashcardSet
	if err := s.db.Where("user_id = ?", user.ID).Find(&sets).Error; err != nil {
		return apperror.NewInternalError("Failed to load user's sets", err)
	}

	if err := s.db.Delete(user).Error; err != nil {
		return apperror.NewInternalError("Failed to delete user", err)
	}

	for _, set := range sets {
		if err := s.DeleteSet(set.PublicID); err != nil {
			log.Printf("DeleteUserCascade: user %s deleted but set %s cascade failed: %v", user.PublicID, set.PublicID, err)
		}
	}

	log.Printf("DeleteUserCascade: deleted user %s and %d owned sets", user.PublicID, len(sets))
	return nil
}
