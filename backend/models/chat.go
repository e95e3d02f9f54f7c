// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import "time"

// MaxAttachments is the most attachment references a single message may carry.
const MaxAttachments = 3

// Thread is the single conversation container for an unordered user pair.
// Slot assignment (User1/User2) is stable but carries no priority meaning;
// it only anchors the two per-participant fields.
type Thread struct {
	ID                  int64      `json:"id" db:"id"`
	UUID                string     `json:"uuid" db:"uuid"`
	User1ID             string     `json:"user1_id" db:"user1_id"`
	User2ID             string     `json:"user2_id" db:"user2_id"`
	User1AllowsUploads  bool       `json:"user1_allows_uploads" db:"user1_allows_uploads"`
	User2AllowsUploads  bool       `json:"user2_allows_uploads" db:"user2_allows_uploads"`
	User1LastSeenAt     *time.Time `json:"user1_last_seen_at,omitempty" db:"user1_last_seen_at"`
	User2LastSeenAt     *time.Time `json:"user2_last_seen_at,omitempty" db:"user2_last_seen_at"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	ChangedAt           time.Time  `json:"changed_at" db:"changed_at"`
}

// Slot numbers for the two participant positions.
const (
	Slot1 = 1
	Slot2 = 2
)

// SlotOf resolves which participant slot userID occupies, or 0 when the
// user is not a participant. All "am I user1 or user2" branching funnels
// through here.
func (t *Thread) SlotOf(userID string) int {
	switch userID {
	case t.User1ID:
		return Slot1
	case t.User2ID:
		return Slot2
	default:
		return 0
	}
}

// IsParticipant reports whether userID occupies either slot.
func (t *Thread) IsParticipant(userID string) bool {
	return t.SlotOf(userID) != 0
}

// OtherParticipant returns the id of the participant opposite userID.
// Returns "" when userID is not a participant.
func (t *Thread) OtherParticipant(userID string) string {
	switch t.SlotOf(userID) {
	case Slot1:
		return t.User2ID
	case Slot2:
		return t.User1ID
	default:
		return ""
	}
}

// BothAllowUploads reports whether every participant has opted in to
// attachments. Callers must re-read the thread before trusting this at
// send time; either side may have flipped their flag.
func (t *Thread) BothAllowUploads() bool {
	return t.User1AllowsUploads && t.User2AllowsUploads
}

// LastSeenBy returns userID's read watermark, nil when the user has never
// viewed the thread.
func (t *Thread) LastSeenBy(userID string) *time.Time {
	switch t.SlotOf(userID) {
	case Slot1:
		return t.User1LastSeenAt
	case Slot2:
		return t.User2LastSeenAt
	default:
		return nil
	}
}

// Message is one immutable entry in a thread's append-only log.
// Seq is a per-thread sequence number that breaks created-at ties.
type Message struct {
	ID          int64     `json:"id" db:"id"`
	ThreadID    int64     `json:"thread_id" db:"thread_id"`
	SenderID    string    `json:"sender_id" db:"sender_id"`
	Body        string    `json:"body" db:"body"`
	Attachments []string  `json:"attachments,omitempty" db:"attachments"`
	Seq         int64     `json:"seq" db:"seq"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// BlockEdge is a directed "blocker has blocked blocked" record. A pair can
// hold zero, one or two edges; the directions are never merged.
type BlockEdge struct {
	BlockerID string    `json:"blocker_id" db:"blocker_id"`
	BlockedID string    `json:"blocked_id" db:"blocked_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// InboxEntry is one row of a user's thread listing.
type InboxEntry struct {
	ThreadID           int64      `json:"thread_id"`
	ThreadUUID         string     `json:"thread_uuid"`
	OtherUserID        string     `json:"other_user_id"`
	LastMessagePreview string     `json:"last_message_preview"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty"`
	UnreadCount        int        `json:"unread_count"`
}
