// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pairmatch/matchchat/backend/chaterrors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps typed chat errors onto HTTP statuses; anything untyped
// becomes a 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var app *chaterrors.AppError
	if errors.As(err, &app) {
		writeJSON(w, chaterrors.HTTPStatus(app.Code), map[string]string{
			"code":  string(app.Code),
			"error": app.Message,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"code":  string(chaterrors.CodeUnknown),
		"error": "internal error",
	})
}
