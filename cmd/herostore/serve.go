package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/herostore/config"
	herohttp "github.com/sagarc03/herostore/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the herostore HTTP server.

Routes:
  GET    /heroes         list every hero
  GET    /heroes/{id}    fetch one hero
  POST   /heroes         create a hero (?id= overrides the body id)
  PUT    /heroes         replace the hero with the body id
  DELETE /heroes/{id}    delete a hero
  POST   /heroes/data    bulk load a JSON array of heroes
  GET    /healthz        liveness probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 7071, "HTTP server port (env: HEROSTORE_SERVER_PORT)")
	serveCmd.Flags().String("status-mode", "compat", "failure status codes: compat or strict (env: HEROSTORE_SERVER_STATUS_MODE)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	service, _, closeStore, err := openService(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	handler := herohttp.NewHandler(cfg.HandlerConfig(), service)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"backend", cfg.Storage.Backend,
		"status_mode", cfg.Server.StatusMode,
		"id_strategy", cfg.IDs.Strategy,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
