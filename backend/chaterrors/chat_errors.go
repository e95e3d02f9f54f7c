// Copyright (C) 2025 pairmatch.app <dev@pairmatch.app>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package chaterrors

var (
	ErrSelfThread         = InvalidArg("cannot start a chat with yourself")
	ErrSelfBlock          = InvalidArg("cannot block yourself")
	ErrThreadNotFound     = NotFound("chat thread not found")
	ErrNotParticipant     = Forbidden("you are not a participant of this thread")
	ErrThreadBlocked      = Blocked("cannot send message: the chat is blocked")
	ErrEmptyMessage       = New(CodeEmptyMessage, "you must enter a message or attach at least one image")
	ErrTooManyAttachments = New(CodeTooManyAttachments, "a message can carry at most 3 images")
	ErrUploadsNotAllowed  = New(CodeUploadsNotConsented, "file uploads are not allowed by both participants")
)

func ErrStorage(cause error) error {
	return Wrap(CodeStorageUnavailable, "storage unavailable", cause)
}
