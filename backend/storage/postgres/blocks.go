// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package postgres

import (
	"context"
	"time"
)

// InsertBlock is idempotent; re-blocking an already blocked user keeps the
// original edge and its created_at.
func (s *Store) InsertBlock(ctx context.Context, blocker, blocked string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO match_blocks (blocker_id, blocked_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING`,
		blocker, blocked, at)
	return err
}

func (s *Store) DeleteBlock(ctx context.Context, blocker, blocked string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM match_blocks WHERE blocker_id = $1 AND blocked_id = $2`,
		blocker, blocked)
	return err
}

func (s *Store) BlockExists(ctx context.Context, blocker, blocked string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM match_blocks
			WHERE blocker_id = $1 AND blocked_id = $2
		)`, blocker, blocked).Scan(&exists)
	return exists, err
}
