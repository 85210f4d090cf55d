package rest

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"adaptiq/internal/service"
	"adaptiq/internal/transport/rest/handler"
	"adaptiq/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService        *service.AuthService
	AssessmentService  *service.AssessmentService
	LeaderboardService *service.LeaderboardService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	quizHandler := handler.NewQuizHandler(c.AssessmentService)
	lbHandler := handler.NewLeaderboardHandler(c.LeaderboardService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
	}).Methods("GET")

	v1 := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Authenticated routes
	authed := v1.NewRoute().Subrouter()
	authed.Use(authMW.RequireUser)

	authed.HandleFunc("/auth/profile", authHandler.Profile).Methods("GET", "OPTIONS")

	authed.HandleFunc("/quiz/next", quizHandler.NextQuestion).Methods("GET", "OPTIONS")
	authed.HandleFunc("/quiz/answer", quizHandler.SubmitAnswer).Methods("POST", "OPTIONS")
	authed.HandleFunc("/quiz/metrics", quizHandler.Metrics).Methods("GET", "OPTIONS")

	authed.HandleFunc("/leaderboard/score", lbHandler.Score).Methods("GET", "OPTIONS")
	authed.HandleFunc("/leaderboard/streak", lbHandler.Streak).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
