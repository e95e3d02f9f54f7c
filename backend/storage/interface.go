// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/pairmatch/matchchat/backend/models"
)

// Sentinel errors shared by every implementation.
var (
	ErrNotFound  = errors.New("storage: not found")
	ErrDuplicate = errors.New("storage: duplicate key")
)

// ThreadStore persists threads. CreateThread must enforce at most one
// thread per canonical user pair and return ErrDuplicate on a losing race.
type ThreadStore interface {
	CreateThread(ctx context.Context, t *models.Thread) error
	GetThread(ctx context.Context, id int64) (*models.Thread, error)
	GetThreadByUUID(ctx context.Context, uuid string) (*models.Thread, error)
	// FindThreadByPair expects user1 < user2 (the canonical pair key order).
	FindThreadByPair(ctx context.Context, user1, user2 string) (*models.Thread, error)
	TouchThread(ctx context.Context, id int64, at time.Time) error
	SetConsent(ctx context.Context, id int64, slot int, allowed bool, at time.Time) error
	// AdvanceWatermark moves the slot's last-seen timestamp forward; an
	// earlier or equal value must be a no-op.
	AdvanceWatermark(ctx context.Context, id int64, slot int, at time.Time) error
	// ThreadsForUser returns the user's threads ordered by changed_at descending.
	ThreadsForUser(ctx context.Context, userID string) ([]*models.Thread, error)
}

// BlockStore persists directed block edges, unique per ordered pair.
type BlockStore interface {
	InsertBlock(ctx context.Context, blocker, blocked string, at time.Time) error
	DeleteBlock(ctx context.Context, blocker, blocked string) error
	BlockExists(ctx context.Context, blocker, blocked string) (bool, error)
}

// MessageStore persists the per-thread append-only message log.
// InsertMessage assigns ID, Seq and a strictly-increasing CreatedAt within
// the thread.
type MessageStore interface {
	InsertMessage(ctx context.Context, m *models.Message) error
	// MessagesForThread lists messages with seq > afterSeq ascending by
	// (created_at, seq), at most limit rows.
	MessagesForThread(ctx context.Context, threadID int64, afterSeq int64, limit int) ([]*models.Message, error)
	LastMessage(ctx context.Context, threadID int64) (*models.Message, error)
	// CountUnread counts messages not sent by userID and created strictly
	// after the watermark; a nil watermark counts all of them.
	CountUnread(ctx context.Context, threadID int64, userID string, after *time.Time) (int, error)
}

// Store aggregates everything the chat services need.
type Store interface {
	ThreadStore
	BlockStore
	MessageStore
}
