// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// Health handles GET /api/health with an overall status summary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.stores.Ready(r.Context()) {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, healthResponse{
		Status:   status,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Database: h.stores.State().String(),
	})
}

// HealthLive handles GET /api/health/live. The process is alive if it can
// answer at all.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/health/ready. Ready means the database is
// connected and answering pings; it never triggers a connection attempt.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !h.stores.Ready(r.Context()) {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not ready",
			"database": h.stores.State().String(),
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
