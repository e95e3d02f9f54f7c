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
)

type BlockHandler struct {
	blocks *chat.BlockRegistry
}

func NewBlockHandler(blocks *chat.BlockRegistry) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

func (h *BlockHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	targetID := mux.Vars(r)["userId"]

	if err := h.blocks.Block(r.Context(), userID, targetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "blocked",
	})
}

func (h *BlockHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	targetID := mux.Vars(r)["userId"]

	if err := h.blocks.Unblock(r.Context(), userID, targetID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "unblocked",
	})
}

// GetBlockStatus reports both directions so the client can render the
// right management view.
func (h *BlockHandler) GetBlockStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	targetID := mux.Vars(r)["userId"]

	byMe, err := h.blocks.IsBlocked(r.Context(), userID, targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	byThem, err := h.blocks.IsBlocked(r.Context(), targetID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"blocked_by_me":   byMe,
		"blocked_by_them": byThem,
	})
}
