// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairmatch/matchchat/backend/chaterrors"
)

func TestThreadRegistry_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects chatting with yourself", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.registry.FindOrCreate(ctx, "alice", "alice")
		require.Error(t, err)
		assert.Equal(t, chaterrors.CodeInvalidArgument, chaterrors.CodeOf(err))
	})

	t.Run("creates on first contact and reuses after", func(t *testing.T) {
		env := newTestEnv()

		first, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)
		require.NotZero(t, first.ID)
		require.NotEmpty(t, first.UUID)

		again, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("pair key is order independent", func(t *testing.T) {
		env := newTestEnv()

		ab, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		ba, err := env.registry.FindOrCreate(ctx, "bob", "alice")
		require.NoError(t, err)

		assert.Equal(t, ab.ID, ba.ID)
		assert.Equal(t, ab.UUID, ba.UUID)
	})

	t.Run("concurrent calls converge on one thread", func(t *testing.T) {
		env := newTestEnv()

		const n = 32
		ids := make([]int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				userX, userY := "1", "2"
				if i%2 == 0 {
					userX, userY = userY, userX
				}
				thread, err := env.registry.FindOrCreate(ctx, userX, userY)
				if assert.NoError(t, err) {
					ids[i] = thread.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 1; i < n; i++ {
			assert.Equal(t, ids[0], ids[i])
		}
	})

	t.Run("get by id and uuid", func(t *testing.T) {
		env := newTestEnv()

		created, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		byID, err := env.registry.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.UUID, byID.UUID)

		byUUID, err := env.registry.GetByUUID(ctx, created.UUID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byUUID.ID)
	})

	t.Run("unknown thread is not found", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.registry.Get(ctx, 9999)
		require.Error(t, err)
		assert.Equal(t, chaterrors.CodeNotFound, chaterrors.CodeOf(err))
	})

	t.Run("touch bumps changed_at", func(t *testing.T) {
		env := newTestEnv()

		created, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		require.NoError(t, env.registry.Touch(ctx, created.ID))

		after, err := env.registry.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, after.ChangedAt.Before(created.ChangedAt))
	})
}
