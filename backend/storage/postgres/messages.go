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
	"time"

	"github.com/lib/pq"

	"github.com/pairmatch/matchchat/backend/models"
	"github.com/pairmatch/matchchat/backend/storage"
)

// InsertMessage appends to the thread's log. The thread row is locked for
// the transaction so seq assignment and the strictly-increasing created_at
// are race-free across concurrent senders.
func (s *Store) InsertMessage(ctx context.Context, m *models.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var threadID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM match_threads WHERE id = $1 FOR UPDATE`, m.ThreadID,
	).Scan(&threadID)
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}

	var lastSeq int64
	var lastCreated time.Time
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0), COALESCE(MAX(created_at), to_timestamp(0))
		FROM match_messages WHERE thread_id = $1`, m.ThreadID,
	).Scan(&lastSeq, &lastCreated)
	if err != nil {
		return err
	}

	m.Seq = lastSeq + 1
	m.CreatedAt = time.Now().UTC()
	if !m.CreatedAt.After(lastCreated) {
		// Clock resolution too coarse for back-to-back sends.
		m.CreatedAt = lastCreated.Add(time.Microsecond)
	}

	attachments := m.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO match_messages (thread_id, sender_id, body, attachments, seq, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		m.ThreadID, m.SenderID, m.Body, pq.Array(attachments), m.Seq, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) MessagesForThread(ctx context.Context, threadID int64, afterSeq int64, limit int) ([]*models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, thread_id, sender_id, body, attachments, seq, created_at
		FROM match_messages
		WHERE thread_id = $1 AND seq > $2
		ORDER BY created_at ASC, seq ASC
		LIMIT $3`, threadID, afterSeq, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Body,
			pq.Array(&m.Attachments), &m.Seq, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

func (s *Store) LastMessage(ctx context.Context, threadID int64) (*models.Message, error) {
	var m models.Message
	err := s.db.QueryRowContext(ctx, `
		SELECT id, thread_id, sender_id, body, attachments, seq, created_at
		FROM match_messages
		WHERE thread_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`, threadID,
	).Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Body,
		pq.Array(&m.Attachments), &m.Seq, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) CountUnread(ctx context.Context, threadID int64, userID string, after *time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM match_messages
		WHERE thread_id = $1
		  AND sender_id <> $2
		  AND ($3::timestamptz IS NULL OR created_at > $3)`,
		threadID, userID, after,
	).Scan(&count)
	return count, err
}
