package app

import (
	"pressroom/internal/config"
	"pressroom/internal/db"
	"pressroom/internal/handlers"
	"pressroom/internal/repository"
	"pressroom/internal/routes"
	"pressroom/internal/services"
	"pressroom/internal/storage"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Repositories
	articleRepo := repository.NewArticleRepo(conn)
	adminRepo := repository.NewAdminRepo(conn)
	userRepo := repository.NewUserRepo(conn)

	// Media bucket provisioning runs once at startup, outside the
	// request path.
	store := storage.NewLocalStore(cfg.MediaDir, cfg.SiteURL)
	if err := store.EnsureBucket(cfg.MediaBucket, storage.BucketConfig{
		Public:              true,
		AllowedMimePrefixes: []string{"image/"},
		MaxSizeBytes:        cfg.MediaMaxUploadMB << 20,
	}); err != nil {
		return nil, err
	}

	// Services
	registry := services.NewAdminRegistry(adminRepo)
	authz := services.NewAuthzGateway(registry)
	hub := services.NewChangeHub()
	articleSvc := services.NewArticleService(articleRepo, authz, hub)
	mediaSvc := services.NewMediaService(store, authz, cfg.MediaBucket)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.GetAccessTokenTTL())

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	articleH := handlers.NewArticleHandler(articleSvc)
	adminH := handlers.NewAdminHandler(registry)
	mediaH := handlers.NewMediaHandler(mediaSvc)
	realtimeH := handlers.NewRealtimeHandler(hub)

	// Routes
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg, authz, authHandler, articleH, adminH, mediaH, realtimeH)

	return router, nil
}
