// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package database

import (
	"context"

	"github.com/locallegends/locallegends/internal/models"
)

// StoryStore is the persistence interface the API consumes. *DB implements
// it; tests substitute fakes.
type StoryStore interface {
	// CreateStory persists a new story and returns the stored record with
	// its assigned id and creation time.
	CreateStory(ctx context.Context, content string, lng, lat float64) (models.Story, error)

	// NearestStories returns at most limit stories within maxDistanceMeters
	// of the query point, ordered by ascending distance.
	NearestStories(ctx context.Context, lat, lng float64, limit int, maxDistanceMeters float64) ([]models.Story, error)

	// GetStory returns the story with the given id, or (nil, nil) when no
	// such story exists.
	GetStory(ctx context.Context, id string) (*models.Story, error)

	// UpdateStoryContent replaces a story's content, preserving its id,
	// location and creation time. Returns ErrStoryNotFound for unknown ids.
	UpdateStoryContent(ctx context.Context, id, content string) (models.Story, error)

	// DeleteStory removes a story. Returns ErrStoryNotFound for unknown ids.
	DeleteStory(ctx context.Context, id string) error
}
