package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spashta/legal-docs/internal/api"
	"spashta/legal-docs/internal/config"
	"spashta/legal-docs/internal/dedup"
	"spashta/legal-docs/internal/scoping"
	"spashta/legal-docs/internal/search"
	"spashta/legal-docs/internal/service"
	"spashta/legal-docs/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting legal document search server...")

	// Local development convenience; production relies on real env vars.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	ctx := context.Background()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Search ---
	log.Println("Initializing search service...")
	searchService, err := search.NewDiscoveryService(ctx, cfg.Search)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize search service: %v", err)
	}

	// --- Scoping Strategy ---
	mode := scoping.ModeGlobal
	if cfg.Scoping.Mode == config.ModeTenant {
		mode = scoping.ModeTenant
	}
	strategy := scoping.NewStrategy(mode, cfg.Scoping.FallbackTenant)
	log.Printf("Scoping mode: %s", cfg.Scoping.Mode)

	// --- Optional Event Dedup ---
	var filter *dedup.Filter
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("WARN: Redis unreachable, event dedup disabled: %v", err)
		} else {
			filter = dedup.NewFilter(rdb)
			log.Println("Event dedup enabled.")
		}
		cancel()
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	uploadService := service.NewUploadService(fileStorage, cfg.Upload)
	ingestService := service.NewIngestService(searchService, strategy, filter)
	queryService := service.NewQueryService(searchService, strategy, cfg.Scoping)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.Auth.JWTSecret, uploadService, queryService, ingestService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
