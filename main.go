package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/cardfolio/cardfolio-api/config"
	"github.com/cardfolio/cardfolio-api/handlers"
	"github.com/cardfolio/cardfolio-api/media"
	"github.com/cardfolio/cardfolio-api/middleware"
	"github.com/cardfolio/cardfolio-api/services"
)

func init() {
	// Load .env file if not in a deployed environment
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection
	config.Connect()

	sets := services.NewSetService(config.Database)
	h := &handlers.Handler{
		Sets:  sets,
		Agg:   services.NewAggregationService(config.Database),
		Users: services.NewUserService(config.Database, sets),
		Media: media.NewStorage(config.Env.MediaDir),
	}

	mux := http.NewServeMux()

	// Flashcard sets
	mux.HandleFunc("GET /api/flashcard-sets", h.ListSets)
	mux.HandleFunc("POST /api/flashcard-sets", h.CreateSet)
	mux.HandleFunc("GET /api/flashcard-sets/{setID}", h.GetSet)
	mux.HandleFunc("PUT /api/flashcard-sets/{setID}", h.UpdateSet)
	mux.HandleFunc("DELETE /api/flashcard-sets/{setID}", h.DeleteSet)

	// Cards
	mux.HandleFunc("GET /api/cards", h.GetGroupedCards)
	mux.HandleFunc("POST /api/cards", h.CreateCard)
	mux.HandleFunc("PUT /api/cards", h.ReplaceCards)
	mux.HandleFunc("DELETE /api/cards", h.DeleteCards)

	// Users
	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.HandleFunc("GET /api/users", h.GetUser)
	mux.HandleFunc("PATCH /api/users", middleware.RequireSession(h.UpdateProfile))
	mux.HandleFunc("DELETE /api/users", middleware.RequireSession(h.DeleteAccount))

	// Stored media
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.Env.MediaDir))))

	// Configure CORS with specific options
	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	log.Printf("Listening on %s", serverAddr)
	http.ListenAndServe(serverAddr, corsHandler)
}
