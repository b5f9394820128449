// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tasks owns the CRUD logic over the task collection and the
// credential lookup over the seeded users. Every operation goes through
// the injected store, which serializes load-mutate-save.
package tasks

import (
	"time"

	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianTasks/pkg/validation"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/query"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/storage"
)

// Repository implements task CRUD and user lookups over a Store.
//
// The store is an explicit dependency so tests can run against a temp
// file and races stay visible at the call site.
type Repository struct {
	store *storage.Store

	// now is swappable for tests.
	now func() time.Time
}

// NewRepository creates a repository backed by the given store.
func NewRepository(store *storage.Store) *Repository {
	return &Repository{
		store: store,
		now:   time.Now,
	}
}

// =============================================================================
// Task CRUD
// =============================================================================

// List returns the task collection, filtered and ordered per f.
func (r *Repository) List(f query.Filter) ([]datatypes.Task, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	return query.Apply(doc.Tasks, f), nil
}

// Create validates the input, fills server-assigned fields, appends the
// task, and persists. Returns the created task including the generated
// id and timestamp. Validation failures write nothing.
func (r *Repository) Create(input datatypes.CreateTaskRequest) (datatypes.Task, error) {
	if err := validation.ValidateTitle(input.Title); err != nil {
		return datatypes.Task{}, err
	}
	if input.DueDate != nil {
		if err := validation.ValidateDueDate(*input.DueDate); err != nil {
			return datatypes.Task{}, err
		}
	}
	priority, err := validation.SanitizePriority(input.Priority)
	if err != nil {
		return datatypes.Task{}, err
	}

	task := datatypes.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   false,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   r.now().UTC().Format(time.RFC3339),
		Priority:    priority,
		DueDate:     input.DueDate,
	}

	err = r.store.Mutate(func(doc *datatypes.Document) error {
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		return datatypes.Task{}, err
	}
	return task, nil
}

// Update applies a partial update to the task with the given id and
// persists. Fields absent from the patch are untouched; fields present
// overwrite, including explicit nulls (a null due date clears it). The
// due date is re-validated whenever the patch carries the field.
func (r *Repository) Update(id string, patch datatypes.TaskPatch) (datatypes.Task, error) {
	if patch.Has("dueDate") && patch.DueDate != nil {
		if err := validation.ValidateDueDate(*patch.DueDate); err != nil {
			return datatypes.Task{}, err
		}
	}
	if patch.Has("priority") && patch.Priority != nil {
		priority, err := validation.SanitizePriority(*patch.Priority)
		if err != nil {
			return datatypes.Task{}, err
		}
		// Store the normalized value, same as Create.
		patch.Priority = &priority
	}

	var updated datatypes.Task
	err := r.store.Mutate(func(doc *datatypes.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID != id {
				continue
			}
			applyPatch(&doc.Tasks[i], patch)
			updated = doc.Tasks[i]
			return nil
		}
		return ErrTaskNotFound
	})
	if err != nil {
		return datatypes.Task{}, err
	}
	return updated, nil
}

// Delete removes the task with the given id and persists. A missing id
// returns ErrTaskNotFound and leaves the collection unchanged.
func (r *Repository) Delete(id string) error {
	return r.store.Mutate(func(doc *datatypes.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	})
}

// =============================================================================
// Users
// =============================================================================

// Users returns all seeded users with passwords stripped.
func (r *Repository) Users() ([]datatypes.User, error) {
	doc, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	users := make([]datatypes.User, len(doc.Users))
	for i, u := range doc.Users {
		users[i] = u.WithoutPassword()
	}
	return users, nil
}

// FindUser returns the user with the given id, password stripped.
func (r *Repository) FindUser(id int) (datatypes.User, error) {
	doc, err := r.store.Load()
	if err != nil {
		return datatypes.User{}, err
	}
	for _, u := range doc.Users {
		if u.ID == id {
			return u.WithoutPassword(), nil
		}
	}
	return datatypes.User{}, ErrUserNotFound
}

// Authenticate checks credentials by exact email then exact plaintext
// password match. Both failure modes return ErrInvalidCredentials.
func (r *Repository) Authenticate(email, password string) (datatypes.User, error) {
	doc, err := r.store.Load()
	if err != nil {
		return datatypes.User{}, err
	}
	for _, u := range doc.Users {
		if u.Email != email {
			continue
		}
		if u.Password != password {
			return datatypes.User{}, ErrInvalidCredentials
		}
		return u.WithoutPassword(), nil
	}
	return datatypes.User{}, ErrInvalidCredentials
}

// applyPatch merges present patch fields into the stored task. A present
// nil pointer clears nullable fields and zeroes the rest: any value sent
// in the body, null included, overwrites.
func applyPatch(task *datatypes.Task, patch datatypes.TaskPatch) {
	if patch.Has("title") {
		task.Title = deref(patch.Title, "")
	}
	if patch.Has("description") {
		task.Description = deref(patch.Description, "")
	}
	if patch.Has("completed") {
		if patch.Completed != nil {
			task.Completed = *patch.Completed
		} else {
			task.Completed = false
		}
	}
	if patch.Has("assigneeId") {
		task.AssigneeID = patch.AssigneeID
	}
	if patch.Has("priority") {
		task.Priority = deref(patch.Priority, "")
	}
	if patch.Has("dueDate") {
		task.DueDate = patch.DueDate
	}
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
