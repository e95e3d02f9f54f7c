// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pairmatch/matchchat/backend/chat"
	"github.com/pairmatch/matchchat/backend/chaterrors"
	"github.com/pairmatch/matchchat/backend/directory"
	"github.com/pairmatch/matchchat/backend/models"
)

type ThreadHandler struct {
	registry  *chat.ThreadRegistry
	consent   *chat.ConsentGate
	directory directory.UserDirectory
}

func NewThreadHandler(registry *chat.ThreadRegistry, consent *chat.ConsentGate, dir directory.UserDirectory) *ThreadHandler {
	return &ThreadHandler{registry: registry, consent: consent, directory: dir}
}

type threadResponse struct {
	*models.Thread
	OtherUserName string `json:"other_user_name,omitempty"`
}

// StartChat finds or creates the thread between the caller and the target
// user.
func (h *ThreadHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	targetID := mux.Vars(r)["userId"]

	t, err := h.registry.FindOrCreate(r.Context(), userID, targetID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.threadView(r, t, userID))
}

// GetThread loads a thread by UUID; only participants may see it. A thread
// stays reachable here even when blocked, so the blocking party can manage
// it.
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, h.threadView(r, t, userID))
}

// SetConsent flips the caller's own attachment opt-in.
func (h *ThreadHandler) SetConsent(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	threadUUID := mux.Vars(r)["uuid"]

	var req struct {
		AllowUploads bool `json:"allow_uploads"`
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
	if err := h.consent.SetConsent(r.Context(), t.ID, userID, req.AllowUploads); err != nil {
		writeError(w, err)
		return
	}

	enabled, err := h.consent.UploadsEnabled(r.Context(), t.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"uploads_enabled": enabled,
	})
}

func (h *ThreadHandler) threadView(r *http.Request, t *models.Thread, userID string) threadResponse {
	resp := threadResponse{Thread: t}
	if other := t.OtherParticipant(userID); other != "" {
		if name, err := h.directory.DisplayName(r.Context(), other); err == nil {
			resp.OtherUserName = name
		}
	}
	return resp
}
