// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package memory holds an in-process Store used by component tests and
// local runs without a database. It enforces the same invariants as the
// postgres store: pair uniqueness, per-thread seq assignment, monotonic
// watermarks.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pairmatch/matchchat/backend/models"
	"github.com/pairmatch/matchchat/backend/storage"
)

type pairKey struct {
	user1, user2 string
}

type edgeKey struct {
	blocker, blocked string
}

type Store struct {
	mu sync.Mutex

	nextThreadID  int64
	nextMessageID int64

	threads  map[int64]*models.Thread
	byUUID   map[string]int64
	byPair   map[pairKey]int64
	messages map[int64][]*models.Message
	blocks   map[edgeKey]time.Time
}

func NewStore() *Store {
	return &Store{
		threads:  make(map[int64]*models.Thread),
		byUUID:   make(map[string]int64),
		byPair:   make(map[pairKey]int64),
		messages: make(map[int64][]*models.Message),
		blocks:   make(map[edgeKey]time.Time),
	}
}

func copyThread(t *models.Thread) *models.Thread {
	c := *t
	if t.User1LastSeenAt != nil {
		at := *t.User1LastSeenAt
		c.User1LastSeenAt = &at
	}
	if t.User2LastSeenAt != nil {
		at := *t.User2LastSeenAt
		c.User2LastSeenAt = &at
	}
	return &c
}

func copyMessage(m *models.Message) *models.Message {
	c := *m
	c.Attachments = append([]string(nil), m.Attachments...)
	return &c
}

func (s *Store) CreateThread(_ context.Context, t *models.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{t.User1ID, t.User2ID}
	if _, ok := s.byPair[key]; ok {
		return storage.ErrDuplicate
	}

	s.nextThreadID++
	now := time.Now().UTC()
	t.ID = s.nextThreadID
	t.CreatedAt = now
	t.ChangedAt = now

	s.threads[t.ID] = copyThread(t)
	s.byUUID[t.UUID] = t.ID
	s.byPair[key] = t.ID
	return nil
}

func (s *Store) GetThread(_ context.Context, id int64) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyThread(t), nil
}

func (s *Store) GetThreadByUUID(_ context.Context, uuid string) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUUID[uuid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyThread(s.threads[id]), nil
}

func (s *Store) FindThreadByPair(_ context.Context, user1, user2 string) (*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPair[pairKey{user1, user2}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyThread(s.threads[id]), nil
}

func (s *Store) TouchThread(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return storage.ErrNotFound
	}
	t.ChangedAt = at
	return nil
}

func (s *Store) SetConsent(_ context.Context, id int64, slot int, allowed bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return storage.ErrNotFound
	}
	switch slot {
	case models.Slot1:
		t.User1AllowsUploads = allowed
	case models.Slot2:
		t.User2AllowsUploads = allowed
	}
	t.ChangedAt = at
	return nil
}

func (s *Store) AdvanceWatermark(_ context.Context, id int64, slot int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[id]
	if !ok {
		return storage.ErrNotFound
	}

	var current **time.Time
	switch slot {
	case models.Slot1:
		current = &t.User1LastSeenAt
	case models.Slot2:
		current = &t.User2LastSeenAt
	default:
		return nil
	}

	if *current == nil || at.After(**current) {
		stamp := at
		*current = &stamp
	}
	return nil
}

func (s *Store) ThreadsForUser(_ context.Context, userID string) ([]*models.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var threads []*models.Thread
	for _, t := range s.threads {
		if t.IsParticipant(userID) {
			threads = append(threads, copyThread(t))
		}
	}
	sort.Slice(threads, func(i, j int) bool {
		return threads[i].ChangedAt.After(threads[j].ChangedAt)
	})
	return threads, nil
}

func (s *Store) InsertBlock(_ context.Context, blocker, blocked string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := edgeKey{blocker, blocked}
	if _, ok := s.blocks[key]; !ok {
		s.blocks[key] = at
	}
	return nil
}

func (s *Store) DeleteBlock(_ context.Context, blocker, blocked string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blocks, edgeKey{blocker, blocked})
	return nil
}

func (s *Store) BlockExists(_ context.Context, blocker, blocked string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.blocks[edgeKey{blocker, blocked}]
	return ok, nil
}

func (s *Store) InsertMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[m.ThreadID]; !ok {
		return storage.ErrNotFound
	}

	log := s.messages[m.ThreadID]
	m.CreatedAt = time.Now().UTC()
	if n := len(log); n > 0 {
		m.Seq = log[n-1].Seq + 1
		if !m.CreatedAt.After(log[n-1].CreatedAt) {
			m.CreatedAt = log[n-1].CreatedAt.Add(time.Microsecond)
		}
	} else {
		m.Seq = 1
	}

	s.nextMessageID++
	m.ID = s.nextMessageID
	s.messages[m.ThreadID] = append(log, copyMessage(m))
	return nil
}

func (s *Store) MessagesForThread(_ context.Context, threadID int64, afterSeq int64, limit int) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var messages []*models.Message
	for _, m := range s.messages[threadID] {
		if m.Seq <= afterSeq {
			continue
		}
		messages = append(messages, copyMessage(m))
		if len(messages) == limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) LastMessage(_ context.Context, threadID int64) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.messages[threadID]
	if len(log) == 0 {
		return nil, storage.ErrNotFound
	}
	return copyMessage(log[len(log)-1]), nil
}

func (s *Store) CountUnread(_ context.Context, threadID int64, userID string, after *time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, m := range s.messages[threadID] {
		if m.SenderID == userID {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		count++
	}
	return count, nil
}
