// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes defines the wire and storage types for the TaskBoard
// service: the persisted document, tasks, users, and the request shapes
// accepted by the HTTP surface.
package datatypes

import "encoding/json"

// Task is a single tracked task. Tasks are persisted verbatim inside the
// Document; the JSON tags are the wire contract with the frontend.
type Task struct {
	// ID is an opaque unique identifier, assigned at creation, immutable.
	ID string `json:"id"`

	// Title is always non-empty for a persisted task.
	Title string `json:"title"`

	// Description may be empty.
	Description string `json:"description"`

	Completed bool `json:"completed"`

	// AssigneeID references a User id. Nil means unassigned. A dangling
	// id is tolerated; clients render it as "Unknown User".
	AssigneeID *int `json:"assigneeId"`

	// CreatedAt is an RFC3339 timestamp, set once at creation.
	CreatedAt string `json:"createdAt"`

	// Priority is one of "low", "medium", "high".
	Priority string `json:"priority"`

	// DueDate is an optional date string, constrained to year 2025 or
	// earlier at write time. Nil means no due date.
	DueDate *string `json:"dueDate"`
}

// CreateTaskRequest is the payload for POST /api/tasks. Only Title is
// required; the server fills every other field with its default.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	AssigneeID  *int    `json:"assigneeId"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

// TaskPatch is the payload for PUT /api/tasks/:id with partial-update
// semantics: a field absent from the request body is left untouched, a
// field present in the body overwrites the stored value, and an explicit
// JSON null clears it. The distinction between "absent" and "null" is
// carried by the presence set captured during unmarshaling, so handlers
// never have to guess what a nil pointer means.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	AssigneeID  *int    `json:"assigneeId"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`

	present map[string]bool
}

// UnmarshalJSON decodes the patch and records which fields were present
// in the request body.
func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	type alias TaskPatch
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = TaskPatch(decoded)
	p.present = make(map[string]bool, len(raw))
	for key := range raw {
		p.present[key] = true
	}
	return nil
}

// Has reports whether the named JSON field appeared in the request body,
// including as an explicit null.
func (p *TaskPatch) Has(field string) bool {
	return p.present[field]
}

// SetField marks a field as present. Intended for tests and programmatic
// patch construction; HTTP requests go through UnmarshalJSON.
func (p *TaskPatch) SetField(field string) {
	if p.present == nil {
		p.present = make(map[string]bool)
	}
	p.present[field] = true
}
