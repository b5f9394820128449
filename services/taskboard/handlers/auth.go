// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/tasks"
)

// Login handles POST /api/auth/login.
//
// No session token is issued on success: the client persists the
// returned user locally and identifies itself by plain header on later
// requests. The 401 message is identical for unknown email and wrong
// password so responses do not leak which one failed.
func Login(repo *tasks.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
			return
		}

		user, err := repo.Authenticate(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, tasks.ErrInvalidCredentials) {
				slog.Info("login rejected", "email", req.Email)
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			slog.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
			return
		}

		slog.Info("login successful", "user_id", user.ID)
		c.JSON(http.StatusOK, datatypes.LoginResponse{
			Message: "Login successful",
			User:    user,
		})
	}
}

// GetUser handles GET /api/auth/user?userId=.
func GetUser(repo *tasks.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("userId")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
			return
		}

		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": tasks.ErrUserNotFound.Error()})
			return
		}

		user, err := repo.FindUser(id)
		if err != nil {
			if errors.Is(err, tasks.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("failed to load user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ListUsers handles GET /api/users. Passwords are stripped.
func ListUsers(repo *tasks.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := repo.Users()
		if err != nil {
			slog.Error("failed to list users", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
