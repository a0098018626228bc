package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"channel_feed_backend/config"
	"channel_feed_backend/db"
	"channel_feed_backend/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Initialize(ctx, cfg.DSN())
	if err != nil {
		cancel()
		log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	// Initialize database schema
	if err := db.InitSchema(ctx, database); err != nil {
		cancel()
		log.Fatalf("Error initializing database schema: %v", err)
	}

	if cfg.SeedData {
		if err := db.SeedData(ctx, database); err != nil {
			log.Printf("Warning: error seeding data: %v", err)
		}
	}
	cancel()

	h, err := routes.NewHandlers(cfg, database)
	if err != nil {
		log.Fatalf("Error building handlers: %v", err)
	}
	r := routes.NewEngine(h)
	log.Printf("Auth mode: %s", cfg.AuthMode)

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
}
