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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairmatch/matchchat/backend/chaterrors"
)

func TestConsentGate(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads disabled by default", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		enabled, err := env.consent.UploadsEnabled(ctx, thread.ID)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("non participant cannot set consent", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		err = env.consent.SetConsent(ctx, thread.ID, "mallory", true)
		require.Error(t, err)
		assert.Equal(t, chaterrors.CodePermissionDenied, chaterrors.CodeOf(err))
	})

	t.Run("both flags must be true", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "alice", true))

		enabled, err := env.consent.UploadsEnabled(ctx, thread.ID)
		require.NoError(t, err)
		assert.False(t, enabled, "one flag is not enough")

		require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "bob", true))

		enabled, err = env.consent.UploadsEnabled(ctx, thread.ID)
		require.NoError(t, err)
		assert.True(t, enabled)
	})

	t.Run("either side flipping false disables immediately", func(t *testing.T) {
		env := newTestEnv()
		thread, err := env.registry.FindOrCreate(ctx, "alice", "bob")
		require.NoError(t, err)

		require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "alice", true))
		require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "bob", true))

		require.NoError(t, env.consent.SetConsent(ctx, thread.ID, "bob", false))

		enabled, err := env.consent.UploadsEnabled(ctx, thread.ID)
		require.NoError(t, err)
		assert.False(t, enabled)
	})

	t.Run("unknown thread is not found", func(t *testing.T) {
		env := newTestEnv()

		err := env.consent.SetConsent(ctx, 9999, "alice", true)
		require.Error(t, err)
		assert.Equal(t, chaterrors.CodeNotFound, chaterrors.CodeOf(err))
	})
}
