// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/locallegends/locallegends/internal/database"
	"github.com/locallegends/locallegends/internal/logging"
	"github.com/locallegends/locallegends/internal/models"
	"github.com/locallegends/locallegends/internal/validation"
)

// StoriesNearby handles GET /api/stories?lat=&lng=. Responds with a JSON
// array of the nearest stories, closest first.
func (h *Handler) StoriesNearby(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireStore(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "lat must be a decimal number")
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "lng must be a decimal number")
		return
	}
	if err := validation.ValidateStruct(nearbyRequest{Lat: lat, Lng: lng}); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stories, err := store.NearestStories(r.Context(), lat, lng,
		h.cfg.API.NearbyLimit, h.cfg.API.MaxDistanceMeters)
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Msg("Nearest stories query failed")
		respondError(w, http.StatusInternalServerError, "Failed to fetch stories")
		return
	}
	if stories == nil {
		stories = []models.Story{}
	}
	respondJSON(w, http.StatusOK, stories)
}

// CreateStory handles POST /api/story.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireStore(w, r)
	if !ok {
		return
	}

	var body createStoryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(body.Location); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := createStoryRequest{
		Content: body.Content,
		Lng:     body.Location.Lng(),
		Lat:     body.Location.Lat(),
	}
	if err := validation.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if max := h.cfg.API.MaxContentLength; utf8.RuneCountInString(body.Content) > max {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("content must be at most %d characters", max))
		return
	}

	story, err := store.CreateStory(r.Context(), body.Content, req.Lng, req.Lat)
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Msg("Story creation failed")
		respondError(w, http.StatusInternalServerError, "Failed to create story")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": story})
}

// UpdateStory handles PUT /api/story/{id}. Only content may change.
func (h *Handler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireStore(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := validation.ValidateStruct(storyIDRequest{ID: id}); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid story id")
		return
	}

	var body updateStoryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validation.ValidateStruct(updateStoryRequest{Content: body.Content}); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if max := h.cfg.API.MaxContentLength; utf8.RuneCountInString(body.Content) > max {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("content must be at most %d characters", max))
		return
	}

	story, err := store.UpdateStoryContent(r.Context(), id, body.Content)
	if errors.Is(err, database.ErrStoryNotFound) {
		respondError(w, http.StatusNotFound, "Story not found")
		return
	}
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Str("story_id", id).Msg("Story update failed")
		respondError(w, http.StatusInternalServerError, "Failed to update story")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "updated",
		"story":  story,
	})
}

// DeleteStory handles DELETE /api/story/{id}.
func (h *Handler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	store, ok := h.requireStore(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := validation.ValidateStruct(storyIDRequest{ID: id}); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid story id")
		return
	}

	err := store.DeleteStory(r.Context(), id)
	if errors.Is(err, database.ErrStoryNotFound) {
		respondError(w, http.StatusNotFound, "Story not found")
		return
	}
	if err != nil {
		logger := logging.Ctx(r.Context())
		logger.Error().Err(err).Str("story_id", id).Msg("Story deletion failed")
		respondError(w, http.StatusInternalServerError, "Failed to delete story")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "deleted",
		"id":     id,
	})
}
