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
	"fmt"
	"strings"

	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/models"
	"github.com/pairmatch/matchchat/backend/storage"
)

// Inbox projects a user's thread listing: a pure read composition over
// threads, messages, blocks and watermarks. Results are cacheable per user;
// every mutating path invalidates the affected participants.
type Inbox struct {
	threads  storage.ThreadStore
	messages storage.MessageStore
	blocks   *BlockRegistry
	cache    InboxCache

	// hideBlocked excludes threads with an active block in either
	// direction from the listing. Threads stay reachable by id.
	hideBlocked bool
}

func NewInbox(threads storage.ThreadStore, messages storage.MessageStore, blocks *BlockRegistry, cache InboxCache, hideBlocked bool) *Inbox {
	return &Inbox{
		threads:     threads,
		messages:    messages,
		blocks:      blocks,
		cache:       cache,
		hideBlocked: hideBlocked,
	}
}

// ListForUser returns inbox entries ordered by thread changed_at
// descending.
func (i *Inbox) ListForUser(ctx context.Context, userID string) ([]models.InboxEntry, error) {
	if entries, ok := i.cache.Get(ctx, userID); ok {
		return entries, nil
	}

	threads, err := i.threads.ThreadsForUser(ctx, userID)
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}

	entries := make([]models.InboxEntry, 0, len(threads))
	for _, t := range threads {
		other := t.OtherParticipant(userID)

		if i.hideBlocked {
			blocked, err := i.blocks.AnyBlockBetween(ctx, t.User1ID, t.User2ID)
			if err != nil {
				return nil, err
			}
			if blocked {
				continue
			}
		}

		entry := models.InboxEntry{
			ThreadID:    t.ID,
			ThreadUUID:  t.UUID,
			OtherUserID: other,
		}

		last, err := i.messages.LastMessage(ctx, t.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, chaterrors.ErrStorage(err)
		}
		if last != nil {
			entry.LastMessagePreview = previewText(last)
			at := last.CreatedAt
			entry.LastMessageAt = &at
		}

		unread, err := i.messages.CountUnread(ctx, t.ID, userID, t.LastSeenBy(userID))
		if err != nil {
			return nil, chaterrors.ErrStorage(err)
		}
		entry.UnreadCount = unread

		entries = append(entries, entry)
	}

	i.cache.Set(ctx, userID, entries)
	return entries, nil
}

// previewText renders the one-line inbox preview. Attachment-only messages
// read "N image(s)"; text with attachments gets the count appended.
func previewText(m *models.Message) string {
	text := strings.TrimSpace(m.Body)
	if len(m.Attachments) == 0 {
		return text
	}

	imageText := fmt.Sprintf("%d images", len(m.Attachments))
	if len(m.Attachments) == 1 {
		imageText = "1 image"
	}
	if text == "" {
		return imageText
	}
	return fmt.Sprintf("%s (%s)", text, imageText)
}
