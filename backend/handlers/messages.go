// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/pairmatch/matchchat/backend/chat"
	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/models"
)

type MessageHandler struct {
	registry *chat.ThreadRegistry
	messages *chat.Messages
	reads    *chat.ReadTracker
}

func NewMessageHandler(registry *chat.ThreadRegistry, messages *chat.Messages, reads *chat.ReadTracker) *MessageHandler {
	return &MessageHandler{registry: registry, messages: messages, reads: reads}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// SendMessage appends to the thread log. Attachment references point at
// bytes already accepted by the file store; this service never sees the
// bytes themselves.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	threadUUID := mux.Vars(r)["uuid"]

	var req struct {
		Body        string   `json:"body"`
		Attachments []string `json:"attachments"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, chaterrors.InvalidArg("invalid request body"))
		return
	}

	t, err := h.registry.GetByUUID(r.Context(), threadUUID)
	if err != nil {
		writeError(w, err)
		return
	}

	msg, err := h.messages.Append(r.Context(), t.ID, userID, req.Body, req.Attachments)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// ListMessages pages through a thread ascending. Viewing a thread is what
// marks it seen, so the caller's watermark advances to now after a
// successful read.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	threadUUID := mux.Vars(r)["uuid"]

	t, err := h.registry.GetByUUID(r.Context(), threadUUID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !t.IsParticipant(userID) {
		writeError(w, chaterrors.ErrNotParticipant)
		return
	}

	afterSeq, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := h.messages.List(r.Context(), t.ID, afterSeq, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.reads.MarkSeen(r.Context(), t.ID, userID, time.Now().UTC()); err != nil {
		writeError(w, err)
		return
	}

	if messages == nil {
		messages = []*models.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// MarkSeen lets a client advance its watermark without re-fetching
// messages.
func (h *MessageHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	threadUUID := mux.Vars(r)["uuid"]

	t, err := h.registry.GetByUUID(r.Context(), threadUUID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reads.MarkSeen(r.Context(), t.ID, userID, time.Now().UTC()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "seen",
	})
}
