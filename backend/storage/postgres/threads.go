// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pairmatch/matchchat/backend/models"
	"github.com/pairmatch/matchchat/backend/storage"
)

const threadColumns = `id, uuid, user1_id, user2_id, user1_allows_uploads, user2_allows_uploads,
	user1_last_seen_at, user2_last_seen_at, created_at, changed_at`

func scanThread(row interface{ Scan(...any) error }) (*models.Thread, error) {
	var t models.Thread
	var seen1, seen2 sql.NullTime

	err := row.Scan(
		&t.ID, &t.UUID, &t.User1ID, &t.User2ID,
		&t.User1AllowsUploads, &t.User2AllowsUploads,
		&seen1, &seen2, &t.CreatedAt, &t.ChangedAt,
	)
	if err != nil {
		return nil, err
	}

	if seen1.Valid {
		t.User1LastSeenAt = &seen1.Time
	}
	if seen2.Valid {
		t.User2LastSeenAt = &seen2.Time
	}
	return &t, nil
}

// CreateThread inserts a new thread row for a canonical pair. The unique
// pair constraint turns a concurrent duplicate insert into ErrDuplicate so
// the caller can re-fetch the winner.
func (s *Store) CreateThread(ctx context.Context, t *models.Thread) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO match_threads (uuid, user1_id, user2_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, changed_at`,
		t.UUID, t.User1ID, t.User2ID,
	).Scan(&t.ID, &t.CreatedAt, &t.ChangedAt)

	if isUniqueViolation(err) {
		return storage.ErrDuplicate
	}
	return err
}

func (s *Store) GetThread(ctx context.Context, id int64) (*models.Thread, error) {
	t, err := scanThread(s.db.QueryRowContext(ctx,
		`SELECT `+threadColumns+` FROM match_threads WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) GetThreadByUUID(ctx context.Context, uuid string) (*models.Thread, error) {
	t, err := scanThread(s.db.QueryRowContext(ctx,
		`SELECT `+threadColumns+` FROM match_threads WHERE uuid = $1`, uuid))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) FindThreadByPair(ctx context.Context, user1, user2 string) (*models.Thread, error) {
	t, err := scanThread(s.db.QueryRowContext(ctx,
		`SELECT `+threadColumns+` FROM match_threads WHERE user1_id = $1 AND user2_id = $2`,
		user1, user2))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) TouchThread(ctx context.Context, id int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE match_threads SET changed_at = $2 WHERE id = $1`, id, at)
	return err
}

func (s *Store) SetConsent(ctx context.Context, id int64, slot int, allowed bool, at time.Time) error {
	column, err := slotColumn(slot, "user1_allows_uploads", "user2_allows_uploads")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE match_threads SET `+column+` = $2, changed_at = $3 WHERE id = $1`,
		id, allowed, at)
	return err
}

// AdvanceWatermark is a monotonic max: an at earlier than the stored value
// leaves the row unchanged.
func (s *Store) AdvanceWatermark(ctx context.Context, id int64, slot int, at time.Time) error {
	column, err := slotColumn(slot, "user1_last_seen_at", "user2_last_seen_at")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE match_threads
		SET `+column+` = GREATEST(COALESCE(`+column+`, to_timestamp(0)), $2)
		WHERE id = $1`,
		id, at)
	return err
}

func (s *Store) ThreadsForUser(ctx context.Context, userID string) ([]*models.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+threadColumns+` FROM match_threads
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY changed_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*models.Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

func slotColumn(slot int, user1, user2 string) (string, error) {
	switch slot {
	case models.Slot1:
		return user1, nil
	case models.Slot2:
		return user2, nil
	default:
		return "", fmt.Errorf("invalid participant slot %d", slot)
	}
}
