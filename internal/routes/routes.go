package routes

import (
	"pressroom/internal/config"
	"pressroom/internal/handlers"
	"pressroom/internal/middleware"
	"pressroom/internal/services"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	cfg *config.Config,
	authz *services.AuthzGateway,
	authHandler *handlers.AuthHandler,
	articleH *handlers.ArticleHandler,
	adminH *handlers.AdminHandler,
	mediaH *handlers.MediaHandler,
	realtimeH *handlers.RealtimeHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	// --- Public routes ---
	// Reads carry an optional identity: the same endpoints show admins
	// drafts and archived rows the public never sees.
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.OptionalIdentity(cfg.JWTSecret))
	api.Use(middleware.WithTimeout(cfg.GetRequestTimeout()))

	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/articles", articleH.List).Methods("GET")
	api.HandleFunc("/articles/{id}", articleH.GetByID).Methods("GET")

	// Public media objects (featured images).
	media := router.PathPrefix("/media").Subrouter()
	media.HandleFunc("/{bucket}/{path:.+}", mediaH.Serve).Methods("GET")

	// --- Admin (JWT + registry check) ---
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.RequireIdentity(cfg.JWTSecret))
	admin.Use(middleware.RequireAdmin(authz))
	admin.Use(middleware.WithTimeout(cfg.GetRequestTimeout()))

	admin.HandleFunc("/articles/preview", articleH.Preview).Methods("POST")
	admin.HandleFunc("/articles", articleH.Create).Methods("POST")
	admin.HandleFunc("/articles/{id}", articleH.Update).Methods("PATCH")
	admin.HandleFunc("/articles/{id}", articleH.Delete).Methods("DELETE")

	admin.HandleFunc("/media", mediaH.Upload).Methods("POST")
	admin.HandleFunc("/media", mediaH.List).Methods("GET")

	admin.HandleFunc("/admins", adminH.Grant).Methods("POST")
	admin.HandleFunc("/admins", adminH.List).Methods("GET")
	admin.HandleFunc("/admins/{email}", adminH.Revoke).Methods("DELETE")

	// The change feed is long-lived, so it mounts outside the request
	// timeout.
	stream := router.PathPrefix("/api/admin").Subrouter()
	stream.Use(middleware.RequireIdentity(cfg.JWTSecret))
	stream.Use(middleware.RequireAdmin(authz))
	stream.HandleFunc("/articles/stream", realtimeH.StreamArticles).Methods("GET")
}
