package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"image-catalog/pkg/handlers"
	"image-catalog/pkg/services"
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server to serve the catalog pages, JSON feeds and image files via HTTP.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := loadService()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			server := &http.Server{
				Addr:              cfg.ServerAddress(),
				Handler:           handlers.NewMux(cfg, services.WithCache(svc, cfg.CacheTTL)),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serveWebsite(cmd.Context(), server, cfg.PrintServerStartMessage)
		},
	}
}

// serveWebsite runs server until ctx is cancelled or it fails
func serveWebsite(ctx context.Context, server *http.Server, started func()) error {
	serverErr := make(chan error, 1)
	go func() {
		started()
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "err", err)
			return err
		}
		slog.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
