// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the TaskBoard service.
//
// # Identity Flow
//
// Login issues no token: the client stores the returned user locally and
// sends its id back on the X-User-ID header. The identity middleware
// copies that id into the Gin context for logging and handlers. The id
// is trusted without verification.
package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// =============================================================================
// Context Keys
// =============================================================================

// userIDKey is the context key for the client-claimed user id.
// Typed key string prevents collisions with other context values.
const userIDKey = "taskboard_user_id"

// UserIDHeader is the request header carrying the client-claimed user id.
const UserIDHeader = "X-User-ID"

// =============================================================================
// Context Helpers
// =============================================================================

// SetUserID stores the claimed user id in the Gin context.
func SetUserID(c *gin.Context, id int) {
	c.Set(userIDKey, id)
}

// GetUserID retrieves the claimed user id from the Gin context.
// The second return is false when the request carried no usable id.
func GetUserID(c *gin.Context) (int, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int)
	return id, ok
}

// =============================================================================
// Middleware
// =============================================================================

// Identity extracts the X-User-ID header into the request context. A
// missing or non-numeric header is not an error; the request simply has
// no identity attached.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(UserIDHeader); raw != "" {
			if id, err := strconv.Atoi(raw); err == nil {
				SetUserID(c, id)
			}
		}
		c.Next()
	}
}
