// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tasks

import "errors"

// Sentinel errors for the task repository. The strings double as the
// client-facing messages; the frontend displays them verbatim.
var (
	// ErrTaskNotFound indicates an unknown task id.
	ErrTaskNotFound = errors.New("Task not found")

	// ErrUserNotFound indicates an unknown user id.
	ErrUserNotFound = errors.New("User not found")

	// ErrInvalidCredentials covers both "no such user" and "wrong
	// password"; the message is identical on purpose so responses do
	// not leak which half failed.
	ErrInvalidCredentials = errors.New("Invalid email or password")
)
