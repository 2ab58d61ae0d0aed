package handlers

import (
	"log"
	"net/http"

	"github.com/cardfolio/cardfolio-api/apperror"
	"github.com/cardfolio/cardfolio-api/auth"
	"github.com/cardfolio/cardfolio-api/middleware"
)

// POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.Users.Register(req.Username, req.Email, req.Password); err != nil {
		writeError(w, "Register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, "Login", err)
		return
	}

	tokenString, err := auth.CreateToken(user.Email)
	if err != nil {
		writeError(w, "Login", apperror.NewInternalError("Failed to generate token", err))
		return
	}
	auth.SetSessionCookie(w, tokenString)

	log.Printf("Login: user %s logged in", user.PublicID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user.Sanitized(),
	})
}

// GET /api/users?userId= for session re-hydration of a client-held identity
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "userId is required"})
		return
	}

	user, err := h.Users.GetByPublicID(userID)
	if err != nil {
		writeError(w, "GetUser", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user.Sanitized()})
}

// PATCH /api/users with multipart form: username, email, password?, profilePicture?
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "Invalid form data"})
		return
	}

	email := r.FormValue("email")
	username := r.FormValue("username")
	password := r.FormValue("password")

	pictureURL := ""
	if file, header, err := r.FormFile("profilePicture"); err == nil {
		defer file.Close()
		pictureURL, err = h.Media.SaveProfilePicture(header.Filename, file)
		if err != nil {
			log.Printf("UpdateProfile: picture upload failed: %v", err)
			writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "Failed to store profile picture"})
			return
		}
	}

	user, err := h.Users.UpdateProfile(email, username, password, pictureURL)
	if err != nil {
		writeError(w, "UpdateProfile", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user.Sanitized(),
	})
}

// DELETE /api/users removes the account and cascades to owned sets
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, apperror.ErrorResponse{Error: "userId is required"})
		return
	}

	if err := h.Users.DeleteAccount(req.UserID); err != nil {
		writeError(w, "DeleteAccount", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
