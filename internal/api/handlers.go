// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

// Package api implements the HTTP surface: story endpoints, health checks,
// middleware wiring and static asset serving.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/locallegends/locallegends/internal/config"
	"github.com/locallegends/locallegends/internal/database"
	"github.com/locallegends/locallegends/internal/logging"
)

// StoreProvider yields a ready story store, connecting lazily if needed.
// *database.Connector implements it.
type StoreProvider interface {
	Store(ctx context.Context) (database.StoryStore, error)
	Ready(ctx context.Context) bool
	State() database.ConnState
}

// Handler carries the dependencies of all API endpoints.
type Handler struct {
	stores    StoreProvider
	cfg       *config.Config
	startTime time.Time
}

// NewHandler builds the API handler set.
func NewHandler(stores StoreProvider, cfg *config.Config) *Handler {
	return &Handler{
		stores:    stores,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// requireStore obtains a ready store or writes the 503 gate response. The
// false return means the response has been written.
func (h *Handler) requireStore(w http.ResponseWriter, r *http.Request) (database.StoryStore, bool) {
	store, err := h.stores.Store(r.Context())
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Warn().Err(err).Msg("Store not ready, rejecting request")
		respondError(w, http.StatusServiceUnavailable, "Database connection not ready")
		return nil, false
	}
	return store, true
}

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError writes the flat error body every failure shares.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
