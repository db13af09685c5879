// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/locallegends/locallegends/internal/metrics"
	"github.com/locallegends/locallegends/internal/models"
)

const storyColumns = "CAST(id AS VARCHAR), content, longitude, latitude, created_at"

// CreateStory persists a new story with a fresh UUID and UTC timestamp.
func (db *DB) CreateStory(ctx context.Context, content string, lng, lat float64) (story models.Story, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("create_story", start, err) }()

	story = models.Story{
		ID:        uuid.NewString(),
		Content:   content,
		Location:  models.NewGeoPoint(lng, lat),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if db.spatialAvailable {
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO stories (id, content, longitude, latitude, geom, created_at)
			VALUES (CAST(? AS UUID), ?, ?, ?, ST_Point(?, ?), ?)`,
			story.ID, content, lng, lat, lng, lat, story.CreatedAt)
	} else {
		_, err = db.conn.ExecContext(ctx, `
			INSERT INTO stories (id, content, longitude, latitude, created_at)
			VALUES (CAST(? AS UUID), ?, ?, ?, ?)`,
			story.ID, content, lng, lat, story.CreatedAt)
	}
	if err != nil {
		return models.Story{}, fmt.Errorf("failed to create story: %w", err)
	}
	return story, nil
}

// NearestStories returns at most limit stories within maxDistanceMeters of
// the query point, closest first.
func (db *DB) NearestStories(ctx context.Context, lat, lng float64, limit int, maxDistanceMeters float64) (stories []models.Story, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("nearest_stories", start, err) }()

	var rows *sql.Rows
	if db.spatialAvailable {
		rows, err = db.conn.QueryContext(ctx, `
			SELECT `+storyColumns+`,
			       ST_Distance_Sphere(geom, ST_Point(?, ?)) AS distance_m
			FROM stories
			WHERE distance_m <= ?
			ORDER BY distance_m ASC
			LIMIT ?`,
			lng, lat, maxDistanceMeters, limit)
	} else {
		// Haversine over the raw coordinate columns.
		rows, err = db.conn.QueryContext(ctx, `
			SELECT `+storyColumns+`,
			       6371000.0 * 2.0 * ASIN(SQRT(
			           POWER(SIN(RADIANS(latitude - ?) / 2.0), 2) +
			           COS(RADIANS(?)) * COS(RADIANS(latitude)) *
			           POWER(SIN(RADIANS(longitude - ?) / 2.0), 2)
			       )) AS distance_m
			FROM stories
			WHERE distance_m <= ?
			ORDER BY distance_m ASC
			LIMIT ?`,
			lat, lat, lng, maxDistanceMeters, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest stories: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			s         models.Story
			lngCol    float64
			latCol    float64
			distanceM float64
		)
		if err = rows.Scan(&s.ID, &s.Content, &lngCol, &latCol, &s.CreatedAt, &distanceM); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		s.Location = models.NewGeoPoint(lngCol, latCol)
		s.CreatedAt = s.CreatedAt.UTC()
		stories = append(stories, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nearest stories: %w", err)
	}
	return stories, nil
}

// GetStory returns the story with the given id, or (nil, nil) when absent.
func (db *DB) GetStory(ctx context.Context, id string) (story *models.Story, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("get_story", start, err) }()

	var (
		s      models.Story
		lngCol float64
		latCol float64
	)
	err = db.conn.QueryRowContext(ctx, `
		SELECT `+storyColumns+`
		FROM stories
		WHERE id = CAST(? AS UUID)`, id).
		Scan(&s.ID, &s.Content, &lngCol, &latCol, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	s.Location = models.NewGeoPoint(lngCol, latCol)
	s.CreatedAt = s.CreatedAt.UTC()
	return &s, nil
}

// UpdateStoryContent replaces a story's content. Location and creation time
// never change.
func (db *DB) UpdateStoryContent(ctx context.Context, id, content string) (story models.Story, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("update_story", start, err) }()

	var (
		lngCol float64
		latCol float64
	)
	err = db.conn.QueryRowContext(ctx, `
		UPDATE stories
		SET content = ?
		WHERE id = CAST(? AS UUID)
		RETURNING `+storyColumns, content, id).
		Scan(&story.ID, &story.Content, &lngCol, &latCol, &story.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Story{}, ErrStoryNotFound
	}
	if err != nil {
		return models.Story{}, fmt.Errorf("failed to update story: %w", err)
	}
	story.Location = models.NewGeoPoint(lngCol, latCol)
	story.CreatedAt = story.CreatedAt.UTC()
	return story, nil
}

// DeleteStory removes a story by id.
func (db *DB) DeleteStory(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("delete_story", start, err) }()

	var deleted string
	err = db.conn.QueryRowContext(ctx, `
		DELETE FROM stories
		WHERE id = CAST(? AS UUID)
		RETURNING CAST(id AS VARCHAR)`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrStoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}
