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
	"strings"

	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/models"
	"github.com/pairmatch/matchchat/backend/notify"
	"github.com/pairmatch/matchchat/backend/storage"
)

// DefaultPageSize bounds a single List page.
const DefaultPageSize = 100

// Messages is the append/list surface over a thread's message log. Append
// re-validates the block relation and attachment consent on every call.
type Messages struct {
	threads  storage.ThreadStore
	messages storage.MessageStore
	blocks   *BlockRegistry
	consent  *ConsentGate
	registry *ThreadRegistry
	cache    InboxCache
	notifier notify.Notifier
}

func NewMessages(
	threads storage.ThreadStore,
	messages storage.MessageStore,
	blocks *BlockRegistry,
	consent *ConsentGate,
	registry *ThreadRegistry,
	cache InboxCache,
	notifier notify.Notifier,
) *Messages {
	return &Messages{
		threads:  threads,
		messages: messages,
		blocks:   blocks,
		consent:  consent,
		registry: registry,
		cache:    cache,
		notifier: notifier,
	}
}

// Append validates in a fixed order, first failure wins:
// thread/participant, block relation, non-empty content, attachment count,
// attachment consent. A send with attachments and missing consent is
// rejected whole; nothing is persisted.
func (m *Messages) Append(ctx context.Context, threadID int64, senderID, body string, attachments []string) (*models.Message, error) {
	t, err := m.threads.GetThread(ctx, threadID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, chaterrors.ErrThreadNotFound
	}
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}
	if !t.IsParticipant(senderID) {
		return nil, chaterrors.ErrNotParticipant
	}

	blocked, err := m.blocks.AnyBlockBetween(ctx, t.User1ID, t.User2ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, chaterrors.ErrThreadBlocked
	}

	if strings.TrimSpace(body) == "" && len(attachments) == 0 {
		return nil, chaterrors.ErrEmptyMessage
	}
	if len(attachments) > models.MaxAttachments {
		return nil, chaterrors.ErrTooManyAttachments
	}
	if len(attachments) > 0 {
		enabled, err := m.consent.UploadsEnabled(ctx, threadID)
		if err != nil {
			return nil, err
		}
		if !enabled {
			return nil, chaterrors.ErrUploadsNotAllowed
		}
	}

	msg := &models.Message{
		ThreadID:    threadID,
		SenderID:    senderID,
		Body:        body,
		Attachments: attachments,
	}
	if err := m.messages.InsertMessage(ctx, msg); err != nil {
		return nil, chaterrors.ErrStorage(err)
	}

	if err := m.registry.Touch(ctx, threadID); err != nil {
		return nil, err
	}
	m.cache.Invalidate(ctx, t.User1ID, t.User2ID)
	m.notifier.Notify(ctx, t.OtherParticipant(senderID), "You have a new message.")

	return msg, nil
}

// List returns a page of messages ascending by (created_at, seq), starting
// after the given seq cursor. A zero cursor starts from the beginning; the
// last entry's Seq restarts the walk.
func (m *Messages) List(ctx context.Context, threadID int64, afterSeq int64, limit int) ([]*models.Message, error) {
	if limit <= 0 || limit > DefaultPageSize {
		limit = DefaultPageSize
	}
	if _, err := m.registry.Get(ctx, threadID); err != nil {
		return nil, err
	}
	messages, err := m.messages.MessagesForThread(ctx, threadID, afterSeq, limit)
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}
	return messages, nil
}

// LastMessage returns the newest message, or nil when the thread is empty.
func (m *Messages) LastMessage(ctx context.Context, threadID int64) (*models.Message, error) {
	msg, err := m.messages.LastMessage(ctx, threadID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}
	return msg, nil
}
