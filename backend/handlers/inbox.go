// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"net/http"

	"github.com/pairmatch/matchchat/backend/chat"
)

type InboxHandler struct {
	inbox *chat.Inbox
	reads *chat.ReadTracker
}

func NewInboxHandler(inbox *chat.Inbox, reads *chat.ReadTracker) *InboxHandler {
	return &InboxHandler{inbox: inbox, reads: reads}
}

// GetInbox returns the caller's thread listing, newest activity first.
func (h *InboxHandler) GetInbox(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	entries, err := h.inbox.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"threads": entries,
		"count":   len(entries),
	})
}

// GetUnreadTotal backs the global unread badge.
func (h *InboxHandler) GetUnreadTotal(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	total, err := h.reads.TotalUnread(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"unread": total,
	})
}
