package routes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"channel_feed_backend/config"
	"channel_feed_backend/db"
	"channel_feed_backend/handlers"
	"channel_feed_backend/middleware"
	"channel_feed_backend/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewHandlers wires the posts, upload and health handlers from cfg.
func NewHandlers(cfg *config.Config, database *sql.DB) (Handlers, error) {
	verifier, err := middleware.NewVerifier(cfg)
	if err != nil {
		return Handlers{}, err
	}

	store := db.NewPostStore(database)
	posts := handlers.NewPostHandler(handlers.PostStoreFunc(func(ctx context.Context) (handlers.PostRepository, error) {
		session, err := store.Open(ctx)
		if err != nil {
			return nil, err
		}
		return session, nil
	}), verifier)

	var blobs handlers.BlobStore
	if cfg.UploadDir != "" {
		local, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			return Handlers{}, fmt.Errorf("upload storage: %w", err)
		}
		blobs = local
	}

	return Handlers{
		Posts:      posts,
		Uploads:    handlers.NewUploadHandler(handlers.NewMinter(cfg.UploadBaseURL, blobs)),
		Health:     handlers.NewHealthHandler(database),
		UploadDir:  cfg.UploadDir,
		AuthHeader: verifier.HeaderName(),
	}, nil
}

// NewEngine builds the gin engine with CORS and all routes mounted.
func NewEngine(h Handlers) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
	}
	if h.AuthHeader != "" {
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, h.AuthHeader)
	}
	corsConfig.AllowMethods = []string{
		"GET",
		"POST",
		"PUT",
		"DELETE",
		"OPTIONS",
	}
	corsConfig.MaxAge = 24 * time.Hour
	corsConfig.OptionsResponseStatusCode = 200
	r.Use(cors.New(corsConfig))

	SetupRoutes(r, h)
	return r
}
