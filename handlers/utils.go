package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/media"
	"github.com/cardfolio/cardfolio-api/services"
)

// Handler bundles the services the HTTP layer dispatches into.
type Handler struct {
	Sets  *services.SetService
	Agg   *services.AggregationService
	Users *services.UserService
	Media *media.Storage
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writeJSON: encode failed: %v", err)
	}
}

// writeError maps any error onto the taxonomy's status code and the
// {"error": msg} envelope. Internal detail is logged, not returned.
func writeError(w http.ResponseWriter, operation string, err error) {
	appErr := apperror.FromError(err)
	if appErr.StatusCode() == http.StatusInternalServerError {
		log.Printf("%s: %v", operation, appErr)
	}
	writeJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}
