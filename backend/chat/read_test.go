// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairmatch/matchchat/backend/chaterrors"
)

func TestReadTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("never seen counts everything from the other side", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "1", "2")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := env.messages.Append(ctx, thread.ID, "2", "hey", nil)
			require.NoError(t, err)
		}

		unread, err := env.reads.UnreadCount(ctx, thread.ID, "1")
		require.NoError(t, err)
		assert.Equal(t, 3, unread)

		// The sender's own messages are never unread for them.
		unread, err = env.reads.UnreadCount(ctx, thread.ID, "2")
		require.NoError(t, err)
		assert.Equal(t, 0, unread)
	})

	t.Run("mark seen zeroes the count until new messages arrive", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "1", "2")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := env.messages.Append(ctx, thread.ID, "2", "hey", nil)
			require.NoError(t, err)
		}

		require.NoError(t, env.reads.MarkSeen(ctx, thread.ID, "1", time.Now().UTC()))

		unread, err := env.reads.UnreadCount(ctx, thread.ID, "1")
		require.NoError(t, err)
		assert.Equal(t, 0, unread)

		_, err = env.messages.Append(ctx, thread.ID, "2", "one more", nil)
		require.NoError(t, err)

		unread, err = env.reads.UnreadCount(ctx, thread.ID, "1")
		require.NoError(t, err)
		assert.Equal(t, 1, unread)
	})

	t.Run("watermark only moves forward", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "1", "2")
		require.NoError(t, err)

		_, err = env.messages.Append(ctx, thread.ID, "2", "hey", nil)
		require.NoError(t, err)

		now := time.Now().UTC()
		require.NoError(t, env.reads.MarkSeen(ctx, thread.ID, "1", now))

		// A stale update from a second tab must not resurrect unread
		// messages.
		require.NoError(t, env.reads.MarkSeen(ctx, thread.ID, "1", now.Add(-time.Hour)))

		unread, err := env.reads.UnreadCount(ctx, thread.ID, "1")
		require.NoError(t, err)
		assert.Equal(t, 0, unread)
	})

	t.Run("watermarks are independent per participant", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "1", "2")
		require.NoError(t, err)

		_, err = env.messages.Append(ctx, thread.ID, "1", "from one", nil)
		require.NoError(t, err)
		_, err = env.messages.Append(ctx, thread.ID, "2", "from two", nil)
		require.NoError(t, err)

		require.NoError(t, env.reads.MarkSeen(ctx, thread.ID, "1", time.Now().UTC()))

		unread1, err := env.reads.UnreadCount(ctx, thread.ID, "1")
		require.NoError(t, err)
		assert.Equal(t, 0, unread1)

		unread2, err := env.reads.UnreadCount(ctx, thread.ID, "2")
		require.NoError(t, err)
		assert.Equal(t, 1, unread2)
	})

	t.Run("non participant is rejected", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "1", "2")
		require.NoError(t, err)

		err = env.reads.MarkSeen(ctx, thread.ID, "3", time.Now().UTC())
		require.Error(t, err)
		assert.Equal(t, chaterrors.CodePermissionDenied, chaterrors.CodeOf(err))

		_, err = env.reads.UnreadCount(ctx, thread.ID, "3")
		require.Error(t, err)
		assert.Equal(t, chaterrors.CodePermissionDenied, chaterrors.CodeOf(err))
	})

	t.Run("total unread sums every thread", func(t *testing.T) {
		env := newTestEnv()

		withBob, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)
		withCarol, err := env.registry.FindOrCreate(ctx, "alice", "carol")
		require.NoError(t, err)

		_, err = env.messages.Append(ctx, withBob.ID, "bob", "hi", nil)
		require.NoError(t, err)
		_, err = env.messages.Append(ctx, withBob.ID, "bob", "there", nil)
		require.NoError(t, err)
		_, err = env.messages.Append(ctx, withCarol.ID, "carol", "hello", nil)
		require.NoError(t, err)

		total, err := env.reads.TotalUnread(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		require.NoError(t, env.reads.MarkSeen(ctx, withBob.ID, "alice", time.Now().UTC()))

		total, err = env.reads.TotalUnread(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}
