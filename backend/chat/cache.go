// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pairmatch/matchchat/backend/models"
)

// InboxCache holds a user's computed inbox. Every mutation that touches a
// thread invalidates both participants so the projection is recomputed on
// the next read.
type InboxCache interface {
	Get(ctx context.Context, userID string) ([]models.InboxEntry, bool)
	Set(ctx context.Context, userID string, entries []models.InboxEntry)
	Invalidate(ctx context.Context, userIDs ...string)
}

const inboxKeyPrefix = "inbox:"

type RedisInboxCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisInboxCache(rdb *redis.Client, ttl time.Duration) *RedisInboxCache {
	return &RedisInboxCache{rdb: rdb, ttl: ttl}
}

func (c *RedisInboxCache) Get(ctx context.Context, userID string) ([]models.InboxEntry, bool) {
	data, err := c.rdb.Get(ctx, inboxKeyPrefix+userID).Result()
	if err != nil {
		return nil, false
	}
	var entries []models.InboxEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (c *RedisInboxCache) Set(ctx context.Context, userID string, entries []models.InboxEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		return
	}
	// Best effort; a failed write just means a recompute later.
	c.rdb.Set(ctx, inboxKeyPrefix+userID, data, c.ttl)
}

func (c *RedisInboxCache) Invalidate(ctx context.Context, userIDs ...string) {
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = inboxKeyPrefix + id
	}
	c.rdb.Del(ctx, keys...)
}

// NopCache disables caching; used in tests and single-process setups.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]models.InboxEntry, bool) { return nil, false }
func (NopCache) Set(context.Context, string, []models.InboxEntry)       {}
func (NopCache) Invalidate(context.Context, ...string)                  {}
