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
)

func TestInbox_ListForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("empty inbox", func(t *testing.T) {
		env := newTestEnv()

		entries, err := env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("latest activity first", func(t *testing.T) {
		env := newTestEnv()

		withBob, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)
		withCarol, err := env.registry.FindOrCreate(ctx, "alice", "carol")
		require.NoError(t, err)

		_, err = env.messages.Append(ctx, withCarol.ID, "carol", "hi", nil)
		require.NoError(t, err)
		_, err = env.messages.Append(ctx, withBob.ID, "bob", "newer", nil)
		require.NoError(t, err)

		entries, err := env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "bob", entries[0].OtherUserID)
		assert.Equal(t, "carol", entries[1].OtherUserID)
	})

	t.Run("entry carries preview and unread count", func(t *testing.T) {
		env := newTestEnv()

		thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		_, err = env.messages.Append(ctx, thread.ID, "bob", "hello alice", nil)
		require.NoError(t, err)
		_, err = env.messages.Append(ctx, thread.ID, "bob", "you there?", nil)
		require.NoError(t, err)

		entries, err := env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)

		entry := entries[0]
		assert.Equal(t, thread.ID, entry.ThreadID)
		assert.Equal(t, thread.UUID, entry.ThreadUUID)
		assert.Equal(t, "bob", entry.OtherUserID)
		assert.Equal(t, "you there?", entry.LastMessagePreview)
		assert.NotNil(t, entry.LastMessageAt)
		assert.Equal(t, 2, entry.UnreadCount)

		require.NoError(t, env.reads.MarkSeen(ctx, thread.ID, "alice", time.Now().UTC()))

		entries, err = env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 0, entries[0].UnreadCount)
	})

	t.Run("thread without messages has empty preview", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		entries, err := env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].LastMessagePreview)
		assert.Nil(t, entries[0].LastMessageAt)
	})

	t.Run("blocked threads stay listed by default", func(t *testing.T) {
		env := newTestEnv()

		thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)
		_, err = env.messages.Append(ctx, thread.ID, "bob", "hi", nil)
		require.NoError(t, err)

		require.NoError(t, env.blocks.Block(ctx, "alice", "bob"))

		entries, err := env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("hide blocked policy filters the listing", func(t *testing.T) {
		env := newTestEnvHideBlocked(true)

		withBob, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)
		_, err = env.registry.FindOrCreate(ctx, "alice", "carol")
		require.NoError(t, err)

		require.NoError(t, env.blocks.Block(ctx, "bob", "alice"))

		entries, err := env.inbox.ListForUser(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "carol", entries[0].OtherUserID)

		// The blocked thread is filtered, not gone: it stays reachable
		// by id for the management view.
		reachable, err := env.registry.Get(ctx, withBob.ID)
		require.NoError(t, err)
		assert.Equal(t, withBob.UUID, reachable.UUID)
	})
}

func TestPreviewText(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv()
	thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
	require.NoError(t, err)

	require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "alice", true))
	require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "bob", true))

	cases := []struct {
		name        string
		body        string
		attachments []string
		want        string
	}{
		{"text only", "see you at 8", nil, "see you at 8"},
		{"single image only", "", []string{"f1"}, "1 image"},
		{"multiple images only", "", []string{"f1", "f2"}, "2 images"},
		{"text with images", "holiday pics", []string{"f1", "f2", "f3"}, "holiday pics (3 images)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.messages.Append(ctx, thread.ID, "bob", tc.body, tc.attachments)
			require.NoError(t, err)

			entries, err := env.inbox.ListForUser(ctx, "alice")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.want, entries[0].LastMessagePreview)
		})
	}
}
