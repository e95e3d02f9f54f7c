// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"github.com/pairmatch/matchchat/backend/notify"
	"github.com/pairmatch/matchchat/backend/storage/memory"
)

// testEnv wires every chat component over one in-memory store, mirroring
// the production wiring in cmd/server.
type testEnv struct {
	store    *memory.Store
	registry *ThreadRegistry
	blocks   *BlockRegistry
	consent  *ConsentGate
	messages *Messages
	reads    *ReadTracker
	inbox    *Inbox
}

func newTestEnv() *testEnv {
	return newTestEnvHideBlocked(false)
}

func newTestEnvHideBlocked(hideBlocked bool) *testEnv {
	store := memory.NewStore()
	cache := NopCache{}
	notifier := notify.Nop{}

	registry := NewThreadRegistry(store, notifier)
	blocks := NewBlockRegistry(store, cache)
	consent := NewConsentGate(store, cache)
	messages := NewMessages(store, store, blocks, consent, registry, cache, notifier)
	reads := NewReadTracker(store, store, cache)
	inbox := NewInbox(store, store, blocks, cache, hideBlocked)

	return &testEnv{
		store:    store,
		registry: registry,
		blocks:   blocks,
		consent:  consent,
		messages: messages,
		reads:    reads,
		inbox:    inbox,
	}
}
