// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chaterrors

import "net/http"

type Code string

const (
	CodeUnknown             Code = "UNKNOWN"
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeNotFound            Code = "NOT_FOUND"
	CodePermissionDenied    Code = "PERMISSION_DENIED"
	CodeBlocked             Code = "BLOCKED"
	CodeEmptyMessage        Code = "EMPTY_MESSAGE"
	CodeTooManyAttachments  Code = "TOO_MANY_ATTACHMENTS"
	CodeUploadsNotConsented Code = "UPLOADS_NOT_CONSENTED"
	CodeStorageUnavailable  Code = "STORAGE_UNAVAILABLE"
)

// HTTPStatus maps an error code onto the status the HTTP surface reports.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument, CodeEmptyMessage, CodeTooManyAttachments:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodePermissionDenied, CodeBlocked, CodeUploadsNotConsented:
		return http.StatusForbidden
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
