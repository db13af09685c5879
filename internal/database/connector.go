// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package database

import (
	"context"
	"sync"
	"time"

	"github.com/locallegends/locallegends/internal/config"
	"github.com/locallegends/locallegends/internal/logging"
	"github.com/locallegends/locallegends/internal/metrics"
)

// ConnState is the connection manager's lifecycle state.
type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OpenFunc opens the underlying database.
type OpenFunc func(ctx context.Context) (*DB, error)

const connectTimeout = 30 * time.Second

// attempt is one in-flight connection attempt. Every caller that joined it
// reads the same outcome, regardless of how the connector's state moves
// afterwards.
type attempt struct {
	done chan struct{}
	db   *DB
	err  error
}

// Connector lazily opens the database on first demand and memoizes the
// result. Concurrent callers during an in-flight attempt share that attempt;
// a failure is reported to all of them and the connector resets so a later
// call retries.
type Connector struct {
	mu      sync.Mutex
	state   ConnState
	db      *DB
	lastErr error
	current *attempt
	open    OpenFunc
	closed  bool
}

// NewConnector returns a connector that opens the database with cfg on first
// demand. No connection is made here.
func NewConnector(cfg config.DatabaseConfig) *Connector {
	return &Connector{
		open: func(_ context.Context) (*DB, error) {
			return New(cfg)
		},
	}
}

// NewConnectorWithOpen is NewConnector with an explicit open function, used
// by tests.
func NewConnectorWithOpen(open OpenFunc) *Connector {
	return &Connector{open: open}
}

// Store returns a ready StoryStore, connecting first if necessary.
func (c *Connector) Store(ctx context.Context) (StoryStore, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// DB returns the connected database, joining or starting a connection
// attempt as needed. Callers abandoning via ctx do not cancel the attempt;
// it completes in the background for the next caller.
func (c *Connector) DB(ctx context.Context) (*DB, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnectorClosed
	}
	if c.state == StateConnected {
		db := c.db
		c.mu.Unlock()
		return db, nil
	}
	if c.state != StateConnecting {
		att := &attempt{done: make(chan struct{})}
		c.current = att
		c.setState(StateConnecting)
		go c.connect(att)
	}
	att := c.current
	c.mu.Unlock()

	select {
	case <-att.done:
		return att.db, att.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Connector) connect(att *attempt) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := c.open(ctx)

	c.mu.Lock()
	if c.closed {
		// Close raced the attempt; do not resurrect the connection.
		if db != nil {
			closeWithLog(db, "database")
		}
		att.err = context.Canceled
		c.mu.Unlock()
		close(att.done)
		return
	}
	if err != nil {
		att.err = err
		c.lastErr = err
		c.db = nil
		c.setState(StateFailed)
		logging.Error().Err(err).Msg("Database connection failed")
	} else {
		att.db = db
		c.db = db
		c.lastErr = nil
		c.setState(StateConnected)
	}
	c.mu.Unlock()
	close(att.done)
}

func (c *Connector) setState(s ConnState) {
	if c.state != s {
		logging.Debug().
			Str("from", c.state.String()).
			Str("to", s.String()).
			Msg("Connection state change")
	}
	c.state = s
	metrics.SetConnectionState(int(s))
}

// State returns the current lifecycle state.
func (c *Connector) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the most recent failed attempt, if any.
func (c *Connector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Ready reports whether the database is connected and answering pings. It
// never triggers a connection attempt.
func (c *Connector) Ready(ctx context.Context) bool {
	c.mu.Lock()
	db := c.db
	connected := c.state == StateConnected
	c.mu.Unlock()
	if !connected || db == nil {
		return false
	}
	return db.Ping(ctx) == nil
}

// Close shuts the connection down if one was established. Subsequent DB
// calls fail.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	var err error
	if c.db != nil {
		err = c.db.Close()
		c.db = nil
	}
	c.setState(StateDisconnected)
	return err
}
