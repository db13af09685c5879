// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

// Command server runs the Local Legends HTTP service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/locallegends/locallegends/internal/api"
	"github.com/locallegends/locallegends/internal/config"
	"github.com/locallegends/locallegends/internal/database"
	"github.com/locallegends/locallegends/internal/logging"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// The database is opened lazily by the first request that needs it.
	connector := database.NewConnector(cfg.Database)
	defer func() {
		if err := connector.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	handler := api.NewHandler(connector, cfg)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", srv.Addr).
			Str("static_dir", cfg.Server.StaticDir).
			Msg("HTTP server listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
