package main

import (
	"log/slog"
	"net/http"
	"os"

	"image-catalog/pkg/config"
	"image-catalog/pkg/handlers"
	"image-catalog/pkg/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Initialize services
	svc, err := services.NewService(cfg)
	if err != nil {
		slog.Error("Failed to initialize catalog", "error", err)
		os.Exit(1)
	}

	// Start server
	cfg.PrintServerStartMessage()
	if err := http.ListenAndServe(cfg.ServerAddress(), handlers.NewMux(cfg, services.WithCache(svc, cfg.CacheTTL))); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
