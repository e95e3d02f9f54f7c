// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package notify is the boundary to the platform's notification delivery.
// The chat core only ever fires and forgets; delivery, batching and toast
// rendering live elsewhere.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Notifier interface {
	Notify(ctx context.Context, userID, text string)
}

// RedisNotifier publishes to a per-user channel consumed by the delivery
// service.
type RedisNotifier struct {
	rdb *redis.Client
	log *slog.Logger
}

func NewRedisNotifier(rdb *redis.Client, log *slog.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, log: log}
}

func (n *RedisNotifier) Notify(ctx context.Context, userID, text string) {
	payload, err := json.Marshal(map[string]string{
		"type": "chat",
		"text": text,
	})
	if err != nil {
		return
	}
	if err := n.rdb.Publish(ctx, "chat:notify:"+userID, payload).Err(); err != nil {
		n.log.Warn("notify publish failed", "user_id", userID, "err", err)
	}
}

// Nop discards notifications; used in tests.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) {}
