package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/cardfolio/cardfolio-api/auth"
	"github.com/cardfolio/cardfolio-api/config"
	"github.com/cardfolio/cardfolio-api/models"
)

type contextKey string

const userKey contextKey = "user"

// RequireSession verifies the auth_token cookie, resolves it to a User row
// and attaches the user to the request context.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.CookieName)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		email, err := auth.VerifyToken(cookie.Value)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := config.Database.Where("email = ?", email).First(&user).Error; err != nil {
			log.Printf("RequireSession: no user for token email: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserFromContext returns the session user attached by RequireSession.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}
