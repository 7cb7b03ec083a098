package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/contractshield/contractshield/internal/application"
	appanalysis "github.com/contractshield/contractshield/internal/application/analysis"
	"github.com/contractshield/contractshield/internal/config"
	domain "github.com/contractshield/contractshield/internal/domain/analysis"
	"github.com/contractshield/contractshield/internal/infra/ai/groq"
	"github.com/contractshield/contractshield/internal/infra/extract"
	"github.com/contractshield/contractshield/internal/infra/httpserver"
	minioStore "github.com/contractshield/contractshield/internal/infra/storage"
	"github.com/contractshield/contractshield/internal/infra/store"
	"github.com/contractshield/contractshield/internal/middleware"
)

func main() {
	// Credentials may live in a local .env during development.
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	reasoner := groq.NewClient(groq.Config{
		APIKey:  cfg.GroqAPIKey(),
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AITimeout(),
	})
	if !reasoner.Configured() {
		log.Println("warning: GROQ_API_KEY is not set; analyses will use the fallback result")
	}

	var archive domain.ArtifactArchive
	if cfg.Archive.Enabled {
		a, err := minioStore.New(ctx,
			cfg.Archive.Endpoint,
			cfg.Archive.Region,
			cfg.Archive.BucketName,
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			cfg.Archive.UseSSL,
		)
		if err != nil {
			log.Fatalf("archive init error: %v", err)
		}
		archive = a
	}

	svc := &appanalysis.Service{
		Extractor: extract.NewService(),
		Reasoner:  reasoner,
		Store:     store.NewMemory(cfg.Store.Capacity),
		Archive:   archive,
		Clock:     application.SystemClock{},
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		UploadDir:      cfg.Server.UploadDir,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		RateLimit:      middleware.RateLimitMiddleware(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		// Write timeout must outlive a full reasoning call.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
