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

// ConsentGate tracks each participant's personal attachment opt-in. Uploads
// flow only while both flags are true.
type ConsentGate struct {
	threads storage.ThreadStore
	cache   InboxCache
}

func NewConsentGate(threads storage.ThreadStore, cache InboxCache) *ConsentGate {
	return &ConsentGate{threads: threads, cache: cache}
}

// SetConsent writes the caller's own flag. Each writer owns exactly one
// slot, so last-write-wins needs no merging.
func (g *ConsentGate) SetConsent(ctx context.Context, threadID int64, userID string, allowed bool) error {
	t, err := g.threads.GetThread(ctx, threadID)
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

	if err := g.threads.SetConsent(ctx, threadID, slot, allowed, time.Now().UTC()); err != nil {
		return chaterrors.ErrStorage(err)
	}
	g.cache.Invalidate(ctx, t.User1ID, t.User2ID)
	return nil
}

// UploadsEnabled re-reads the thread on every call: either side may have
// flipped their flag since the last read, so the result must never be
// cached across requests.
func (g *ConsentGate) UploadsEnabled(ctx context.Context, threadID int64) (bool, error) {
	t, err := g.threads.GetThread(ctx, threadID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, chaterrors.ErrThreadNotFound
	}
	if err != nil {
		return false, chaterrors.ErrStorage(err)
	}
	return t.BothAllowUploads(), nil
}
