// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment. JWT_SECRET is the only value
// without a usable default.
type Config struct {
	Port        string `envconfig:"PORT" default:"8081"`
	DatabaseURL string `envconfig:"DATABASE_URL" default:"postgres://localhost/matchchat?sslmode=disable"`
	RedisURL    string `envconfig:"REDIS_URL" default:"localhost:6379"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	JWTIssuer   string `envconfig:"JWT_ISSUER" default:"pairmatch"`

	// HideBlockedThreads removes threads with an active block in either
	// direction from the inbox listing. Individual threads stay reachable
	// by id regardless.
	HideBlockedThreads bool `envconfig:"HIDE_BLOCKED_THREADS" default:"false"`

	InboxCacheTTL time.Duration `envconfig:"INBOX_CACHE_TTL" default:"60s"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
