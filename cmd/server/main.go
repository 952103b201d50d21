package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/communityforge/sprint/api"
	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/internal/db"
	"github.com/communityforge/sprint/internal/quests"
	sqlitestore "github.com/communityforge/sprint/internal/store/sqlite"
	supabasestore "github.com/communityforge/sprint/internal/store/supabase"
	"github.com/communityforge/sprint/pkg/ollama"
	"github.com/communityforge/sprint/pkg/store"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ollama.SetLogger(logger)

	log.Printf("Starting sprint server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if err := st.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}

	provider := buildProvider(cfg, logger)

	handler := api.SetupRoutes(cfg, version, buildTime, st, provider)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := st.Close(); err != nil {
		log.Printf("Error closing store: %v", err)
	}

	log.Println("Server exited")
}

// openStore is the only place that knows which backend is configured.
// Everything downstream holds the store.Store interface.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, error) {
	if cfg.UseSupabase {
		return supabasestore.New(cfg.Supabase, logger)
	}

	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return sqlitestore.New(conn, cfg.UploadDir, logger), nil
}

// buildProvider wires the quest provider. Without an Ollama base URL the
// provider runs on static content only.
func buildProvider(cfg *config.Config, logger *slog.Logger) *quests.Provider {
	if cfg.Ollama.BaseURL == "" {
		return quests.NewProvider(nil, cfg.Community, logger)
	}

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Printf("Ollama client unavailable, quests fall back to static content: %v", err)
		return quests.NewProvider(nil, cfg.Community, logger)
	}
	engine, err := quests.NewEngine(client, cfg.Engine)
	if err != nil {
		log.Printf("Quest engine unavailable, quests fall back to static content: %v", err)
		return quests.NewProvider(nil, cfg.Community, logger)
	}
	return quests.NewProvider(engine, cfg.Community, logger)
}
