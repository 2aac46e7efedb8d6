package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/blog-api/internal/config"
	"github.com/crucial707/blog-api/internal/db"
	"github.com/crucial707/blog-api/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err.Error())
	}
	defer database.Close()
	log.Info("Successfully connected to the database", "host", cfg.DB.Host, "name", cfg.DB.Name)

	version, err := db.Migrate(cfg.DB)
	if err != nil {
		log.Fatal("Failed to apply migrations", "error", err.Error())
	}
	log.Info("Database schema is current", "version", version)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err.Error())
		}
	}()

	// Start server LAST
	log.Info("Starting server", "port", cfg.Port, "env", cfg.Env, "tls", cfg.TLS.Enabled())
	if cfg.TLS.Enabled() {
		err = srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", "error", err.Error())
	}
	log.Info("server stopped")
}
