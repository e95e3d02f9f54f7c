// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"context"
	"time"

	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/storage"
)

// BlockRegistry manages directed block edges. A thread's "blocked" state is
// never stored anywhere; it is derived from two directed lookups at the
// moment of use.
type BlockRegistry struct {
	blocks storage.BlockStore
	cache  InboxCache
}

func NewBlockRegistry(blocks storage.BlockStore, cache InboxCache) *BlockRegistry {
	return &BlockRegistry{blocks: blocks, cache: cache}
}

// Block records a directed edge. Idempotent.
func (r *BlockRegistry) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return chaterrors.ErrSelfBlock
	}
	if err := r.blocks.InsertBlock(ctx, blockerID, blockedID, time.Now().UTC()); err != nil {
		return chaterrors.ErrStorage(err)
	}
	r.cache.Invalidate(ctx, blockerID, blockedID)
	return nil
}

// Unblock removes a directed edge. Idempotent.
func (r *BlockRegistry) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if err := r.blocks.DeleteBlock(ctx, blockerID, blockedID); err != nil {
		return chaterrors.ErrStorage(err)
	}
	r.cache.Invalidate(ctx, blockerID, blockedID)
	return nil
}

func (r *BlockRegistry) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	blocked, err := r.blocks.BlockExists(ctx, blockerID, blockedID)
	if err != nil {
		return false, chaterrors.ErrStorage(err)
	}
	return blocked, nil
}

// AnyBlockBetween checks both directions; messaging stops no matter which
// side placed the block.
func (r *BlockRegistry) AnyBlockBetween(ctx context.Context, a, b string) (bool, error) {
	if blocked, err := r.IsBlocked(ctx, a, b); err != nil || blocked {
		return blocked, err
	}
	return r.IsBlocked(ctx, b, a)
}
