// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/storage"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/tasks"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := tasks.NewRepository(store)
	router := gin.New()
	router.POST("/api/auth/login", Login(repo))
	router.GET("/api/auth/user", GetUser(repo))
	router.GET("/api/users", ListUsers(repo))
	return router
}

// =============================================================================
// POST /api/auth/login
// =============================================================================

func TestLogin(t *testing.T) {
	t.Run("valid credentials return user without password", func(t *testing.T) {
		router := authRouter(t)

		w := performRequest(router, http.MethodPost, "/api/auth/login",
			gin.H{"email": "edward@example.com", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)

		var resp datatypes.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Login successful", resp.Message)
		assert.Equal(t, 1, resp.User.ID)
		assert.Equal(t, "Edward Sinclair", resp.User.Name)
		assert.Empty(t, resp.User.Password)
		assert.NotContains(t, w.Body.String(), "password123")
	})

	t.Run("missing fields are 400 with fixed message", func(t *testing.T) {
		router := authRouter(t)

		for _, body := range []gin.H{
			{},
			{"email": "edward@example.com"},
			{"password": "password123"},
		} {
			w := performRequest(router, http.MethodPost, "/api/auth/login", body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Email and password are required", errorMessage(t, w))
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		router := authRouter(t)

		wrongPass := performRequest(router, http.MethodPost, "/api/auth/login",
			gin.H{"email": "edward@example.com", "password": "wrong"})
		noUser := performRequest(router, http.MethodPost, "/api/auth/login",
			gin.H{"email": "nobody@example.com", "password": "password123"})

		require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		require.Equal(t, http.StatusUnauthorized, noUser.Code)
		assert.Equal(t, "Invalid email or password", errorMessage(t, wrongPass))
		assert.Equal(t, errorMessage(t, wrongPass), errorMessage(t, noUser))
	})
}

// =============================================================================
// GET /api/auth/user
// =============================================================================

func TestGetUser(t *testing.T) {
	router := authRouter(t)

	t.Run("returns profile without password", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/auth/user?userId=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var user datatypes.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.Equal(t, "Emily Clarke", user.Name)
		assert.Empty(t, user.Password)
	})

	t.Run("missing id is 400", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/auth/user", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User ID is required", errorMessage(t, w))
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/auth/user?userId=999", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", errorMessage(t, w))
	})

	t.Run("non-numeric id is 404", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/api/auth/user?userId=bob", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// GET /api/users
// =============================================================================

func TestListUsers(t *testing.T) {
	router := authRouter(t)

	w := performRequest(router, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []datatypes.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 5)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}
	assert.NotContains(t, w.Body.String(), "password123")
}
