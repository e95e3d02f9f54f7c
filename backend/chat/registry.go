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

	"github.com/google/uuid"

	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/models"
	"github.com/pairmatch/matchchat/backend/notify"
	"github.com/pairmatch/matchchat/backend/storage"
)

// ThreadRegistry owns canonical thread lookup and creation: exactly one
// thread per unordered user pair.
type ThreadRegistry struct {
	threads  storage.ThreadStore
	notifier notify.Notifier
}

func NewThreadRegistry(threads storage.ThreadStore, notifier notify.Notifier) *ThreadRegistry {
	return &ThreadRegistry{threads: threads, notifier: notifier}
}

// pairKey returns the canonical, order-independent storage order for two
// user ids.
func pairKey(userX, userY string) (string, string) {
	if userX < userY {
		return userX, userY
	}
	return userY, userX
}

// FindOrCreate returns the pair's thread, creating it on first contact.
// Two concurrent calls converge on one row: the loser of the insert race
// hits the unique pair constraint and re-fetches the winner.
func (r *ThreadRegistry) FindOrCreate(ctx context.Context, userX, userY string) (*models.Thread, error) {
	if userX == userY {
		return nil, chaterrors.ErrSelfThread
	}
	user1, user2 := pairKey(userX, userY)

	t, err := r.threads.FindThreadByPair(ctx, user1, user2)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, chaterrors.ErrStorage(err)
	}

	t = &models.Thread{
		UUID:    uuid.New().String(),
		User1ID: user1,
		User2ID: user2,
	}
	err = r.threads.CreateThread(ctx, t)
	if err == nil {
		r.notifier.Notify(ctx, t.OtherParticipant(userX), "You have a new chat.")
		return t, nil
	}
	if !errors.Is(err, storage.ErrDuplicate) {
		return nil, chaterrors.ErrStorage(err)
	}

	// Lost the creation race; the winner's row must exist now.
	t, err = r.threads.FindThreadByPair(ctx, user1, user2)
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}
	return t, nil
}

func (r *ThreadRegistry) Get(ctx context.Context, id int64) (*models.Thread, error) {
	t, err := r.threads.GetThread(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, chaterrors.ErrThreadNotFound
	}
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}
	return t, nil
}

// GetByUUID serves external routing, which addresses threads by UUID.
func (r *ThreadRegistry) GetByUUID(ctx context.Context, threadUUID string) (*models.Thread, error) {
	t, err := r.threads.GetThreadByUUID(ctx, threadUUID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, chaterrors.ErrThreadNotFound
	}
	if err != nil {
		return nil, chaterrors.ErrStorage(err)
	}
	return t, nil
}

// Touch bumps changed_at, which drives inbox ordering.
func (r *ThreadRegistry) Touch(ctx context.Context, id int64) error {
	if err := r.threads.TouchThread(ctx, id, time.Now().UTC()); err != nil {
		return chaterrors.ErrStorage(err)
	}
	return nil
}
