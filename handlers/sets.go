package handlers

import (
	"log"
	"net/http"

	"github.com/cardfolio/cardfolio-api/services"
)

// GET /api/flashcard-sets?userId=&isPublic=
func (h *Handler) ListSets(w http.ResponseWriter, r *http.Request) {
	filter := services.SetFilter{
		OwnerPublicID: r.URL.Query().Get("userId"),
	}
	if v := r.URL.Query().Get("isPublic"); v != "" {
		isPublic := v == "true"
		filter.IsPublic = &isPublic
	}

	sets, err := h.Agg.ListSets(filter)
	if err != nil {
		writeError(w, "ListSets", err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

// POST /api/flashcard-sets
func (h *Handler) CreateSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string               `json:"title"`
		Description string               `json:"description"`
		IsPublic    bool                 `json:"isPublic"`
		CreatedBy   string               `json:"createdBy"`
		Cards       []services.CardInput `json:"cards"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	set, err := h.Sets.CreateSet(req.Title, req.Description, req.IsPublic, req.CreatedBy)
	if err != nil {
		writeError(w, "CreateSet", err)
		return
	}

	if len(req.Cards) > 0 {
		if _, err := h.Sets.ReplaceSetCards(set.PublicID, req.Cards); err != nil {
			writeError(w, "CreateSet", err)
			return
		}
	}

	detail, err := h.Agg.GetSet(set.PublicID)
	if err != nil {
		writeError(w, "CreateSet", err)
		return
	}

	log.Printf("CreateSet: created set %s with %d cards", set.PublicID, len(req.Cards))
	writeJSON(w, http.StatusCreated, detail)
}

// GET /api/flashcard-sets/{setID}
func (h *Handler) GetSet(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Agg.GetSet(r.PathValue("setID"))
	if err != nil {
		writeError(w, "GetSet", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// PUT /api/flashcard-sets/{setID}
func (h *Handler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")

	var req struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
		IsPublic    *bool   `json:"isPublic,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.Sets.UpdateSetMeta(setID, req.Title, req.Description, req.IsPublic); err != nil {
		writeError(w, "UpdateSet", err)
		return
	}

	detail, err := h.Agg.GetSet(setID)
	if err != nil {
		writeError(w, "UpdateSet", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DELETE /api/flashcard-sets/{setID}
func (h *Handler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	setID := r.PathValue("setID")
	if err := h.Sets.DeleteSet(setID); err != nil {
		writeError(w, "DeleteSet", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard set deleted successfully"})
}
