package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docmerge/internal/api"
	"github.com/dgallion1/docmerge/internal/config"
	"github.com/dgallion1/docmerge/internal/delivery"
	"github.com/dgallion1/docmerge/internal/pipeline"
	"github.com/dgallion1/docmerge/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize batch history.
	history, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Error("open batch store", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	// Initialize delivery client when a target is configured.
	var deliverer *delivery.Client
	if cfg.DeliveryURL != "" {
		deliverer = delivery.NewClient(cfg.DeliveryURL, cfg.DeliveryAPIKey, cfg.DeliveryTimeout)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, deliverer, history, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if deliverer != nil {
			deliverer.Close()
		}
		history.Close()
	}()

	log.Info("starting docmerge", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
