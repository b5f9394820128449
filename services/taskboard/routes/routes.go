// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianTasks/services/taskboard/handlers"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/middleware"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/observability"
	"github.com/AleutianAI/AleutianTasks/services/taskboard/tasks"
)

// SetupRoutes registers the full HTTP surface on the router.
func SetupRoutes(router *gin.Engine, repo *tasks.Repository, metrics *observability.Metrics) {
	router.Use(middleware.Identity())
	router.Use(middleware.Requests(metrics))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login(repo))
			auth.GET("/user", handlers.GetUser(repo))
		}

		api.GET("/users", handlers.ListUsers(repo))

		api.GET("/tasks", handlers.ListTasks(repo))
		api.POST("/tasks", handlers.CreateTask(repo, metrics))
		api.PUT("/tasks/:id", handlers.UpdateTask(repo, metrics))
		api.DELETE("/tasks/:id", handlers.DeleteTask(repo, metrics))
	}
}
