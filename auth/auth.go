package auth

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cardfolio/cardfolio-api/config"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "auth_token"

func secretKey() ([]byte, error) {
	secretKeyStr := os.Getenv("JWT_SECRET_KEY")
	if secretKeyStr == "" {
		return nil, fmt.Errorf("auth.go: JWT_SECRET_KEY not set")
	}
	return []byte(secretKeyStr), nil
}

// CreateToken mints a session token for the given account email.
func CreateToken(email string) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"email": email,
			"exp":   time.Now().Add(time.Hour * 24).Unix(),
		})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks the token signature and expiry and returns the email
// claim it was minted for.
func VerifyToken(tokenString string) (string, error) {
	secret, err := secretKey()
	if err != nil {
		return "", err
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("token missing email claim")
	}

	return email, nil
}

// SetSessionCookie writes the auth_token cookie for a freshly logged-in user.
func SetSessionCookie(w http.ResponseWriter, tokenString string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Path:     "/",
		Domain:   config.Env.Domain,
		HttpOnly: true,
		Secure:   config.Env.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})
}
