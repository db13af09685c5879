// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

// Package database implements the DuckDB-backed story store and the lazy
// connection manager in front of it.
//
// The spatial extension is loaded opportunistically: when it is available,
// stories carry a GEOMETRY column with an RTREE index and proximity queries
// use ST_Distance_Sphere; when it is not, the same queries fall back to a
// haversine expression over the raw coordinate columns.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/locallegends/locallegends/internal/config"
	"github.com/locallegends/locallegends/internal/logging"
)

// DB wraps the DuckDB connection pool and schema state.
type DB struct {
	conn             *sql.DB
	spatialAvailable bool
}

const schemaTimeout = 60 * time.Second

// New opens the database at cfg.Path, loads extensions and ensures the
// schema exists. The returned DB is ready for queries.
func New(cfg config.DatabaseConfig) (*DB, error) {
	conn, err := sql.Open("duckdb", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	db.configurePool()

	if err := db.initialize(); err != nil {
		closeWithLog(conn, "database")
		return nil, err
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("spatial", db.spatialAvailable).
		Msg("Database ready")
	return db, nil
}

// dsn builds the DuckDB connection string. ":memory:" maps to the driver's
// in-memory default.
func dsn(cfg config.DatabaseConfig) string {
	params := url.Values{}
	if cfg.Threads > 0 {
		params.Set("threads", fmt.Sprintf("%d", cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		params.Set("max_memory", cfg.MaxMemory)
	}
	path := cfg.Path
	if path == ":memory:" {
		path = ""
	}
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

func (db *DB) configurePool() {
	// DuckDB is in-process; a small pool avoids write contention.
	maxConns := runtime.NumCPU() / 2
	if maxConns < 2 {
		maxConns = 2
	}
	db.conn.SetMaxOpenConns(maxConns)
	db.conn.SetMaxIdleConns(maxConns)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

func (db *DB) initialize() error {
	db.installSpatial()
	if err := db.createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	if err := db.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// installSpatial attempts to install and load the spatial extension.
// Failure is not fatal: the store degrades to haversine queries.
func (db *DB) installSpatial() {
	ctx, cancel := schemaContext()
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "INSTALL spatial;"); err != nil {
		logging.Warn().Err(err).Msg("Spatial extension install failed, using haversine fallback")
		return
	}
	if _, err := db.conn.ExecContext(ctx, "LOAD spatial;"); err != nil {
		logging.Warn().Err(err).Msg("Spatial extension load failed, using haversine fallback")
		return
	}
	db.spatialAvailable = true
}

func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	geomColumn := ""
	if db.spatialAvailable {
		geomColumn = "geom GEOMETRY,"
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS stories (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			longitude DOUBLE NOT NULL,
			latitude DOUBLE NOT NULL,
			%s
			created_at TIMESTAMP NOT NULL
		)`, geomColumn)

	_, err := db.conn.ExecContext(ctx, query)
	return err
}

func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_stories_created_at ON stories (created_at)",
	}
	if db.spatialAvailable {
		queries = append(queries,
			"CREATE INDEX IF NOT EXISTS idx_stories_geom ON stories USING RTREE (geom)")
	}
	for _, q := range queries {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), schemaTimeout)
}

// SpatialAvailable reports whether proximity queries use the spatial
// extension.
func (db *DB) SpatialAvailable() bool { return db.spatialAvailable }

// Ping verifies the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close checkpoints and closes the database.
func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT;"); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint on close failed")
	}
	return db.conn.Close()
}
