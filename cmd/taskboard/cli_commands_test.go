// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommand(t *testing.T) {
	t.Run("creates the data file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")

		err := runSeedCommand(seedCmd, []string{path})
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Edward Sinclair")
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"tasks": [], "users": []}`), 0o644))

		err := runSeedCommand(seedCmd, []string{path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("overwrites with force", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"tasks": [], "users": []}`), 0o644))

		forceSeed = true
		defer func() { forceSeed = false }()

		err := runSeedCommand(seedCmd, []string{path})
		require.NoError(t, err)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "Edward Sinclair")
	})
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean file passes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		require.NoError(t, runSeedCommand(seedCmd, []string{path}))

		assert.NoError(t, runCheckCommand(checkCmd, []string{path}))
	})

	t.Run("duplicate ids and bad due dates are reported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		doc := `{
			"tasks": [
				{"id": "a", "title": "one", "completed": false, "createdAt": "", "priority": "medium"},
				{"id": "a", "title": "", "completed": false, "createdAt": "", "priority": "medium", "dueDate": "whenever"}
			],
			"users": []
		}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		err := runCheckCommand(checkCmd, []string{path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "3 problems")
	})

	t.Run("garbage is not a valid document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

		assert.Error(t, runCheckCommand(checkCmd, []string{path}))
	})
}

func TestServerCommands(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "t1", "title": "from server", "completed": false, "createdAt": "", "priority": "high"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	oldURL := config.Server.URL
	config.Server.URL = srv.URL
	defer func() { config.Server.URL = oldURL }()

	t.Run("health succeeds against a live server", func(t *testing.T) {
		assert.NoError(t, runHealthCommand(healthCmd, nil))
	})

	t.Run("tasks list decodes the response", func(t *testing.T) {
		assert.NoError(t, runTasksListCommand(tasksListCmd, nil))
	})

	t.Run("health fails when the server is down", func(t *testing.T) {
		config.Server.URL = "http://127.0.0.1:1"
		defer func() { config.Server.URL = srv.URL }()

		assert.Error(t, runHealthCommand(healthCmd, nil))
	})
}
