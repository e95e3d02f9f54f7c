// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"context"
	"errors"
	"time"

	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/storage"
)

// ReadTracker maintains per-participant read watermarks and derives unread
// counts from them.
type ReadTracker struct {
	threads  storage.ThreadStore
	messages storage.MessageStore
	cache    InboxCache
}

func NewReadTracker(threads storage.ThreadStore, messages storage.MessageStore, cache InboxCache) *ReadTracker {
	return &ReadTracker{threads: threads, messages: messages, cache: cache}
}

// MarkSeen advances the caller's watermark to at. The update is a
// monotonic max, so stale updates from a second tab or device never move
// the watermark backwards.
func (r *ReadTracker) MarkSeen(ctx context.Context, threadID int64, userID string, at time.Time) error {
	t, err := r.threads.GetThread(ctx, threadID)
	if errors.Is(err, storage.ErrNotFound) {
		return chaterrors.ErrThreadNotFound
	}
	if err != nil {
		return chaterrors.ErrStorage(err)
	}

	slot := t.SlotOf(userID)
	if slot == 0 {
		return chaterrors.ErrNotParticipant
	}

	if err := r.threads.AdvanceWatermark(ctx, threadID, slot, at); err != nil {
		return chaterrors.ErrStorage(err)
	}
	r.cache.Invalidate(ctx, userID)
	return nil
}

// UnreadCount counts the other participant's messages newer than userID's
// watermark. A user who has never viewed the thread has no watermark, so
// every message from the other side counts.
func (r *ReadTracker) UnreadCount(ctx context.Context, threadID int64, userID string) (int, error) {
	t, err := r.threads.GetThread(ctx, threadID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, chaterrors.ErrThreadNotFound
	}
	if err != nil {
		return 0, chaterrors.ErrStorage(err)
	}
	if !t.IsParticipant(userID) {
		return 0, chaterrors.ErrNotParticipant
	}

	count, err := r.messages.CountUnread(ctx, threadID, userID, t.LastSeenBy(userID))
	if err != nil {
		return 0, chaterrors.ErrStorage(err)
	}
	return count, nil
}

// TotalUnread sums unread counts across every thread the user participates
// in; this backs the global badge.
func (r *ReadTracker) TotalUnread(ctx context.Context, userID string) (int, error) {
	threads, err := r.threads.ThreadsForUser(ctx, userID)
	if err != nil {
		return 0, chaterrors.ErrStorage(err)
	}

	total := 0
	for _, t := range threads {
		count, err := r.messages.CountUnread(ctx, t.ID, userID, t.LastSeenBy(userID))
		if err != nil {
			return 0, chaterrors.ErrStorage(err)
		}
		total += count
	}
	return total, nil
}
