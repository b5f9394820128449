// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoad_SeedsOnFirstBoot(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load()
	require.NoError(t, err)

	assert.Empty(t, doc.Tasks)
	require.Len(t, doc.Users, 5)
	assert.Equal(t, "Edward Sinclair", doc.Users[0].Name)
	assert.Equal(t, "edward@example.com", doc.Users[0].Email)
	assert.Equal(t, "password123", doc.Users[0].Password)

	// The seed must be on disk, not just in memory.
	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var onDisk datatypes.Document
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk.Users, 5)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Load()
	require.NoError(t, err)

	due := "2025-06-01"
	assignee := 2
	first.Tasks = append(first.Tasks, datatypes.Task{
		ID:         "task-1",
		Title:      "Buy milk",
		Completed:  false,
		AssigneeID: &assignee,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Priority:   "medium",
		DueDate:    &due,
	})
	require.NoError(t, s.Save(first))

	second, err := s.Load()
	require.NoError(t, err)

	// save(load()) is a semantic no-op.
	assert.Equal(t, first, second)
	require.NoError(t, s.Save(second))
	third, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestLoad_ReturnsCopies(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load()
	require.NoError(t, err)
	doc.Users[0].Name = "mutated"

	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "Edward Sinclair", again.Users[0].Name,
		"mutating a loaded document must not touch the mirror")
}

func TestMutate_PersistsChanges(t *testing.T) {
	s := newTestStore(t)

	err := s.Mutate(func(doc *datatypes.Document) error {
		doc.Tasks = append(doc.Tasks, datatypes.Task{ID: "t1", Title: "one", Priority: "medium"})
		return nil
	})
	require.NoError(t, err)

	doc, err := s.Load()
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, "one", doc.Tasks[0].Title)
}

func TestMutate_ErrorWritesNothing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load() // force seed write
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.Mutate(func(doc *datatypes.Document) error {
		doc.Tasks = append(doc.Tasks, datatypes.Task{ID: "t1", Title: "one"})
		return boom
	})
	require.ErrorIs(t, err, boom)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed mutation must not touch the file")

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Tasks, "a failed mutation must not touch the mirror")
}

func TestSetOnWrite_ObservesPersists(t *testing.T) {
	s := newTestStore(t)

	var results []error
	s.SetOnWrite(func(err error) { results = append(results, err) })

	_, err := s.Load() // seed write
	require.NoError(t, err)
	require.NoError(t, s.Mutate(func(doc *datatypes.Document) error {
		doc.Tasks = append(doc.Tasks, datatypes.Task{ID: "t1", Title: "one"})
		return nil
	}))

	require.Len(t, results, 2)
	assert.NoError(t, results[0])
	assert.NoError(t, results[1])
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0640))

	s, err := NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing data file")
}

func TestWatcher_ExternalEditInvalidatesMirror(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load()
	require.NoError(t, err)

	// Rewrite the file behind the store's back.
	edited := &datatypes.Document{
		Tasks: []datatypes.Task{{ID: "ext", Title: "added externally", Priority: "low"}},
		Users: []datatypes.User{{ID: 1, Name: "Edward Sinclair"}},
	}
	data, err := json.MarshalIndent(edited, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), data, 0640))

	assert.Eventually(t, func() bool {
		doc, err := s.Load()
		if err != nil {
			return false
		}
		return len(doc.Tasks) == 1 && doc.Tasks[0].ID == "ext"
	}, 2*time.Second, 20*time.Millisecond,
		"external edit should be picked up after the watcher fires")
}

func TestSeedDocument(t *testing.T) {
	doc := SeedDocument()

	require.Len(t, doc.Users, 5)
	assert.NotNil(t, doc.Tasks)
	assert.Empty(t, doc.Tasks)

	ids := make(map[int]bool)
	for _, u := range doc.Users {
		assert.False(t, ids[u.ID], "duplicate seed user id %d", u.ID)
		ids[u.ID] = true
		assert.NotEmpty(t, u.Name)
		assert.NotEmpty(t, u.Email)
		assert.NotEmpty(t, u.Password)
	}
}
