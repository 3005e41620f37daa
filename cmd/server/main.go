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

	"github.com/romangod6/blog-api/config"
	"github.com/romangod6/blog-api/internal/api"
	"github.com/romangod6/blog-api/internal/metrics"
	"github.com/romangod6/blog-api/internal/storage"
	"github.com/romangod6/blog-api/internal/utils"
	"go.uber.org/zap"
)

const serviceName = "blog-api"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	// Initialize storage
	store, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		sugar.Fatalw("failed to initialize storage", "driver", cfg.Database.Driver, "error", err)
	}
	defer store.Close()

	opts := api.Options{
		Port:              cfg.Server.Port,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		LegacyStatusCodes: cfg.API.LegacyStatusCodes,
		Logger:            sugar,
	}

	var diag *http.Server
	if cfg.Metrics.Enabled {
		m, err := metrics.New(serviceName)
		if err != nil {
			sugar.Fatalw("failed to initialize metrics", "error", err)
		}
		opts.Metrics = m

		mux := http.NewServeMux()
		mux.Handle("/metrics", m)
		diag = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}

		go func() {
			sugar.Infow("starting diagnostics server", "addr", cfg.Metrics.Addr)
			if err := diag.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				sugar.Errorw("diagnostics server stopped", "error", err)
			}
		}()
	}

	// Initialize API server
	server := api.NewServer(store, opts)

	go func() {
		sugar.Infow("starting API server", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("failed to start API server", "error", err)
		}
	}()

	// Wait for shutdown
	waitForShutdown(sugar, server, diag)
}

func waitForShutdown(logger *zap.SugaredLogger, server *api.Server, diag *http.Server) {
	// Handle system signals for shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("shutting down")

	// Graceful server shutdown
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorw("error shutting down server", "error", err)
	}
	if diag != nil {
		if err := diag.Shutdown(ctx); err != nil {
			logger.Errorw("error shutting down diagnostics server", "error", err)
		}
	}
	logger.Info("server shut down gracefully")
}
