// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

// User is a seeded team member. Users are written once at first boot and
// never mutated through the HTTP surface.
//
// The password is stored and compared in plaintext; hardened
// authentication is out of scope for this service. Responses strip it
// via WithoutPassword.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// WithoutPassword returns a copy of the user safe for API responses.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// Document is the single unit of persistence: every mutation loads the
// whole document, changes one collection, and rewrites the whole file.
type Document struct {
	Tasks []Task `json:"tasks"`
	Users []User `json:"users"`
}

// Clone returns a deep copy of the document. Load hands copies to
// callers so the store's in-memory mirror is never aliased.
func (d *Document) Clone() *Document {
	clone := &Document{
		Tasks: make([]Task, len(d.Tasks)),
		Users: make([]User, len(d.Users)),
	}
	copy(clone.Tasks, d.Tasks)
	copy(clone.Users, d.Users)
	return clone
}

// LoginRequest is the payload for POST /api/auth/login. The binding tags
// reject missing fields before the credential check runs.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse wraps a successful login.
type LoginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}
