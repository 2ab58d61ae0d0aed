package handlers

import (
	"net/http"
	"strings"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/services"
)

// GET /api/cards?flashcardSetIds=a,b,c
func (h *Handler) GetGroupedCards(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("flashcardSetIds")

	var setIDs []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			setIDs = append(setIDs, id)
		}
	}

	grouped, err := h.Agg.CountAndGroupCards(setIDs)
	if err != nil {
		writeError(w, "GetGroupedCards", err)
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

// POST /api/cards
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term           string `json:"term"`
		Definition     string `json:"definition"`
		Reference      string `json:"reference"`
		FlashcardSetID string `json:"flashcardSetId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FlashcardSetID == "" {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "flashcardSetId is required"})
		return
	}

	card, err := h.Sets.AddCard(req.FlashcardSetID, services.CardInput{
		Term:       req.Term,
		Definition: req.Definition,
		Reference:  req.Reference,
	})
	if err != nil {
		writeError(w, "CreateCard", err)
		return
	}

	writeJSON(w, http.StatusCreated, services.CardView{
		ID:         card.PublicID,
		Term:       card.Term,
		Definition: card.Definition,
		Reference:  card.Reference,
	})
}

// PUT /api/cards: full replace of a set's cards
func (h *Handler) ReplaceCards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlashcardSetID string               `json:"flashcardSetId"`
		Cards          []services.CardInput `json:"cards"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FlashcardSetID == "" {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "flashcardSetId is required"})
		return
	}

	created, err := h.Sets.ReplaceSetCards(req.FlashcardSetID, req.Cards)
	if err != nil {
		writeError(w, "ReplaceCards", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Cards updated successfully",
		"cardCount": len(created),
	})
}

// DELETE /api/cards
func (h *Handler) DeleteCards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FlashcardSetID string `json:"flashcardSetId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FlashcardSetID == "" {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "flashcardSetId is required"})
		return
	}

	count, err := h.Sets.DeleteCardsForSet(req.FlashcardSetID)
	if err != nil {
		writeError(w, "DeleteCards", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": count})
}
