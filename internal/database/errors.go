// Local Legends - Location-Based Story Sharing
// Copyright 2026 Local Legends Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/locallegends/locallegends

package database

import (
	"errors"
	"io"

	"github.com/locallegends/locallegends/internal/logging"
)

// ErrStoryNotFound is returned by update and delete when no story has the
// given id.
var ErrStoryNotFound = errors.New("story not found")

// ErrConnectorClosed is returned by a Connector after Close.
var ErrConnectorClosed = errors.New("database connector closed")

// closeWithLog closes c and logs any error with the given label.
func closeWithLog(c io.Closer, label string) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Str("resource", label).Msg("Failed to close resource")
	}
}
