package api

import (
	"github.com/gorilla/mux"

	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/internal/quests"
	"github.com/communityforge/sprint/pkg/store"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, st store.Store, provider *quests.Provider) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	profileHandler := NewProfileHandler(st)
	trackHandler := NewTrackHandler(st, provider)
	questsHandler := NewQuestsHandler(provider)
	submissionsHandler := NewSubmissionsHandler(st)
	adminHandler := NewAdminHandler(st, cfg.AdminPassword, cfg.JWTSecret, cfg.TokenDuration)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.HandleFunc("/profile", profileHandler.UpsertProfile).Methods("POST")
	apiV1.HandleFunc("/users/lookup", profileHandler.LookupUser).Methods("GET")
	apiV1.HandleFunc("/users/{id}", profileHandler.GetUser).Methods("GET")
	apiV1.HandleFunc("/track", trackHandler.SetTrack).Methods("POST")
	apiV1.HandleFunc("/track/suggest", trackHandler.SuggestTrack).Methods("POST")
	apiV1.HandleFunc("/track/{userID}", trackHandler.GetTrack).Methods("GET")
	apiV1.HandleFunc("/quests", questsHandler.ListQuests).Methods("GET")
	apiV1.HandleFunc("/submissions", submissionsHandler.CreateSubmission).Methods("POST")
	apiV1.HandleFunc("/submissions", submissionsHandler.ListSubmissions).Methods("GET")
	apiV1.HandleFunc("/stats", submissionsHandler.Stats).Methods("GET")
	apiV1.HandleFunc("/admin/login", adminHandler.Login).Methods("POST")

	// Admin review endpoints behind the bearer token from /admin/login
	adminV1 := apiV1.PathPrefix("/admin").Subrouter()
	adminV1.Use(AdminAuthMiddleware(cfg.JWTSecret))
	adminV1.HandleFunc("/submissions", adminHandler.ListSubmissions).Methods("GET")
	adminV1.HandleFunc("/submissions/{id}/status", adminHandler.SetStatus).Methods("POST")
	adminV1.HandleFunc("/export/users.csv", adminHandler.ExportUsersCSV).Methods("GET")
	adminV1.HandleFunc("/export/submissions.csv", adminHandler.ExportSubmissionsCSV).Methods("GET")
	adminV1.HandleFunc("/social-posts", adminHandler.SocialPosts).Methods("GET")
	adminV1.HandleFunc("/artifact", adminHandler.ArtifactURL).Methods("GET")

	return r
}
