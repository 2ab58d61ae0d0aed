package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/models"
)

// AggregationService answers the read-side questions: which cards belong to
// which sets, and which sets should a listing show. It never writes.
type AggregationService struct {
	db *gorm.DB
}

func NewAggregationService(db *gorm.DB) *AggregationService {
	return &AggregationService{db: db}
}

// CardView is a card as returned to clients.
type CardView struct {
	ID         string `json:"_id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Reference  string `json:"reference,omitempty"`
}

func cardView(c models.Card) CardView {
	return CardView{
		ID:         c.PublicID,
		Term:       c.Term,
		Definition: c.Definition,
		Reference:  c.Reference,
	}
}

// OwnerView is the sanitized owner projection attached to set responses.
type OwnerView struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SetView is a set listing entry.
type SetView struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	CreatedBy   OwnerView `json:"createdBy"`
	CardCount   int       `json:"cardCount"`
}

// SetDetail is a single set with its cards in authored order.
type SetDetail struct {
	SetView
	Cards []CardView `json:"cards"`
}

// GroupedCards is one entry of the batched card lookup.
type GroupedCards struct {
	FlashcardSetID string     `json:"flashcardSetId"`
	CardCount      int        `json:"cardCount"`
	Cards          []CardView `json:"cards"`
}

// CountAndGroupCards fetches every card belonging to any of the given set
// ids in one query and groups them per set. Sets with zero cards produce no
// entry; callers treat a missing id as an empty set.
func (s *AggregationService) CountAndGroupCards(setPublicIDs []string) ([]GroupedCards, error) {
	if len(setPublicIDs) == 0 {
		return []GroupedCards{}, nil
	}

	var sets []models.FlashcardSet
	if err := s.db.Where("public_id IN ?", setPublicIDs).Find(&sets).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to load sets", err)
	}
	if len(sets) == 0 {
		return []GroupedCards{}, nil
	}

	idToPublic := make(map[uint]string, len(sets))
	setIDs := make([]uint, 0, len(sets))
	for _, set := range sets {
		idToPublic[set.ID] = set.PublicID
		setIDs = append(setIDs, set.ID)
	}

	var cards []models.Card
	if err := s.db.Where("set_id IN ?", setIDs).Find(&cards).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to load cards", err)
	}

	grouped := make(map[string]*GroupedCards)
	order := []string{}
	for _, card := range cards {
		publicID := idToPublic[card.SetID]
		entry, ok := grouped[publicID]
		if !ok {
			entry = &GroupedCards{FlashcardSetID: publicID, Cards: []CardView{}}
			grouped[publicID] = entry
			order = append(order, publicID)
		}
		entry.Cards = append(entry.Cards, cardView(card))
		entry.CardCount++
	}

	result := make([]GroupedCards, 0, len(order))
	for _, publicID := range order {
		result = append(result, *grouped[publicID])
	}
	return result, nil
}

// SetFilter selects which sets a listing returns. With both an owner and
// IncludePublic set, the result is the union (public OR owned-by-user).
type SetFilter struct {
	OwnerPublicID string
	IsPublic      *bool
}

// ListSets returns sets matching the filter, each annotated with the
// sanitized owner projection and a card count. No ordering is guaranteed.
func (s *AggregationService) ListSets(filter SetFilter) ([]SetView, error) {
	query := s.db.Preload("User").Preload("Cards")

	switch {
	case filter.OwnerPublicID != "" && filter.IsPublic != nil && *filter.IsPublic:
		var owner models.User
		if err := s.db.Where("public_id = ?", filter.OwnerPublicID).First(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NewNotFoundError("User not found")
			}
			return nil, apperror.NewInternalError("Failed to load user", err)
		}
		query = query.Where("is_public = ? OR user_id = ?", true, owner.ID)
	case filter.OwnerPublicID != "":
		var owner models.User
		if err := s.db.Where("public_id = ?", filter.OwnerPublicID).First(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NewNotFoundError("User not found")
			}
			return nil, apperror.NewInternalError("Failed to load user", err)
		}
		query = query.Where("user_id = ?", owner.ID)
	case filter.IsPublic != nil:
		query = query.Where("is_public = ?", *filter.IsPublic)
	}

	var sets []models.FlashcardSet
	if err := query.Find(&sets).Error; err != nil {
		return nil, apperror.NewInternalError("Failed to fetch sets", err)
	}

	views := make([]SetView, 0, len(sets))
	for _, set := range sets {
		views = append(views, SetView{
			ID:          set.PublicID,
			Title:       set.Title,
			Description: set.Description,
			IsPublic:    set.IsPublic,
			CreatedBy: OwnerView{
				ID:       set.User.PublicID,
				Username: set.User.Username,
				Email:    set.User.Email,
			},
			CardCount: len(set.Cards),
		})
	}
	return views, nil
}

// GetSet returns one set with its owner projection and cards. Cards come
// back in the order of the set's card-id list; cards present in the table
// but missing from the list (orphans of a failed append) are placed last.
func (s *AggregationService) GetSet(setPublicID string) (*SetDetail, error) {
	var set models.FlashcardSet
	err := s.db.Preload("User").Preload("Cards").Where("public_id = ?", setPublicID).First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFoundError("Flashcard set not found")
		}
		return nil, apperror.NewInternalError("Failed to load flashcard set", err)
	}

	byPublicID := make(map[string]models.Card, len(set.Cards))
	for _, c := range set.Cards {
		byPublicID[c.PublicID] = c
	}

	cards := make([]CardView, 0, len(set.Cards))
	seen := make(map[string]bool, len(set.Cards))
	for _, id := range decodeCardIDs(set.CardIDs) {
		if c, ok := byPublicID[id]; ok {
			cards = append(cards, cardView(c))
			seen[id] = true
		}
	}
	for _, c := range set.Cards {
		if !seen[c.PublicID] {
			cards = append(cards, cardView(c))
		}
	}

	return &SetDetail{
		SetView: SetView{
			ID:          set.PublicID,
			Title:       set.Title,
			Description: set.Description,
			IsPublic:    set.IsPublic,
			CreatedBy: OwnerView{
				ID:       set.User.PublicID,
				Username: set.User.Username,
				Email:    set.User.Email,
			},
			CardCount: len(set.Cards),
		},
		Cards: cards,
	}, nil
}
