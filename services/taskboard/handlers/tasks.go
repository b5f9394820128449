// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP surface of the TaskBoard service.
//
// Handlers are constructors returning gin.HandlerFunc with their
// dependencies injected, so routes stay declarative and tests can wire
// a repository over a temp file.
//
// Error taxonomy on the wire: validation failures map to 400, unknown
// ids to 404, bad credentials to 401, and storage failures to 500. All
// error bodies are `{"error": "<message>"}`; the messages are displayed
// verbatim by the frontend.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianTasks/pkg/validation"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/observability"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/query"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/tasks"
)

// TaskView is a task plus its computed due-date urgency. The urgency is
// a presentation hint, never persisted; it only appears in list
// responses.
type TaskView struct {
	datatypes.Task
	Urgency query.Urgency `json:"urgency,omitempty"`
}

// ListTasks handles GET /api/tasks?search=&status=&userId=.
//
// The userId parameter is accepted and ignored for compatibility with
// clients that send it; assignment only affects client-side display.
// When search is set, results are relevance-ordered; see
// query.SortByRelevance.
func ListTasks(repo *tasks.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := query.Filter{
			Term:   c.Query("search"),
			Status: query.Status(c.DefaultQuery("status", "all")),
		}

		listed, err := repo.List(f)
		if err != nil {
			slog.Error("failed to list tasks", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
			return
		}

		now := time.Now()
		views := make([]TaskView, len(listed))
		for i, task := range listed {
			views[i] = TaskView{Task: task, Urgency: query.ClassifyDueDate(task, now)}
		}
		c.JSON(http.StatusOK, views)
	}
}

// CreateTask handles POST /api/tasks.
func CreateTask(repo *tasks.Repository, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		task, err := repo.Create(req)
		if err != nil {
			writeTaskError(c, err)
			return
		}

		metrics.RecordMutation("create")
		slog.Info("task created", "task_id", task.ID, "title", task.Title)
		c.JSON(http.StatusCreated, task)
	}
}

// UpdateTask handles PUT /api/tasks/:id with partial-update semantics.
func UpdateTask(repo *tasks.Repository, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var patch datatypes.TaskPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		task, err := repo.Update(id, patch)
		if err != nil {
			writeTaskError(c, err)
			return
		}

		metrics.RecordMutation("update")
		slog.Info("task updated", "task_id", id)
		c.JSON(http.StatusOK, task)
	}
}

// DeleteTask handles DELETE /api/tasks/:id.
func DeleteTask(repo *tasks.Repository, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		if err := repo.Delete(id); err != nil {
			writeTaskError(c, err)
			return
		}

		metrics.RecordMutation("delete")
		slog.Info("task deleted", "task_id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
	}
}

// writeTaskError maps repository errors onto the wire taxonomy.
func writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tasks.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("task operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist tasks"})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, validation.ErrTitleRequired) ||
		errors.Is(err, validation.ErrDueDateTooFar) ||
		errors.Is(err, validation.ErrDueDateFormat) ||
		errors.Is(err, validation.ErrBadPriority)
}
