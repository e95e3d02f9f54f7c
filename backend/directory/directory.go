// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package directory is the boundary to the platform's user identity
// service. The chat core only needs display names for thread titles.
package directory

import "context"

type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// Static resolves names from a fixed map and falls back to the raw id;
// useful for tests and deployments where the gateway injects names.
type Static struct {
	Names map[string]string
}

func (s Static) DisplayName(_ context.Context, userID string) (string, error) {
	if name, ok := s.Names[userID]; ok {
		return name, nil
	}
	return userID, nil
}
