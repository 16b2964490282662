package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"planner-backend/infrastructure/config"
	"planner-backend/infrastructure/di"
	"planner-backend/infrastructure/persistence/localstore"
	"planner-backend/interfaces/http/rest"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Restore the persisted graph before serving requests.
	if err := container.Graphs.Initialize(ctx); err != nil {
		container.Logger.Fatal("Failed to restore graph", zap.Error(err))
	}

	// Hot-reload the config file in development.
	if cfg.IsDevelopment() {
		watcher, err := config.NewWatcher(cfg, container.Logger)
		if err != nil {
			container.Logger.Warn("Config watcher disabled", zap.Error(err))
		} else {
			watcher.OnChange(func(updated *config.Config) {
				container.Logger.Info("Configuration reloaded",
					zap.String("environment", updated.Environment),
				)
			})
			defer watcher.Stop()
		}
	}

	// Create router
	router := rest.NewRouter(cfg, container, container.Logger)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	// Clean up resources
	if store, ok := container.Store.(*localstore.Store); ok {
		if err := store.Close(); err != nil {
			container.Logger.Error("Failed to close local store", zap.Error(err))
		}
	}
	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
