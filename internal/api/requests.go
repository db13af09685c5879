// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package api

import "github.com/locallegends/locallegends/internal/models"

// nearbyRequest is the validated form of GET /api/stories query parameters.
type nearbyRequest struct {
	Lat float64 `validate:"latitude"`
	Lng float64 `validate:"longitude"`
}

// createStoryBody is the decoded body of POST /api/story.
type createStoryBody struct {
	Content  string          `json:"content"`
	Location models.GeoPoint `json:"location"`
}

// createStoryRequest is the validated form of a story creation. Content
// bounds come from configuration, so Max is applied separately.
type createStoryRequest struct {
	Content string  `validate:"required,min=1"`
	Lng     float64 `validate:"longitude"`
	Lat     float64 `validate:"latitude"`
}

// updateStoryBody is the decoded body of PUT /api/story/{id}.
type updateStoryBody struct {
	Content string `json:"content"`
}

// updateStoryRequest is the validated form of a story edit. Content bounds
// come from configuration, so Max is applied separately.
type updateStoryRequest struct {
	Content string `validate:"required,min=1"`
}

// storyIDRequest validates the {id} path parameter.
type storyIDRequest struct {
	ID string `validate:"required,uuid"`
}
