// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package routes wires the leveler service's HTTP surface.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relevel/relevel/pkg/extensions"
	"github.com/relevel/relevel/services/leveler/handlers"
	"github.com/relevel/relevel/services/leveler/middleware"
	"github.com/relevel/relevel/services/leveler/observability"
	"github.com/relevel/relevel/services/leveler/prompt"
	"github.com/relevel/relevel/services/llm"
)

// SetupRoutes registers all endpoints. Health and metrics stay outside the
// auth boundary; everything under /v1 requires a valid bearer token.
func SetupRoutes(router *gin.Engine, oracle llm.Client, builder *prompt.Builder,
	authProvider extensions.AuthProvider, metrics *observability.TransformMetrics) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	v1.Use(middleware.RequestID())
	v1.Use(middleware.AuthMiddleware(authProvider))
	{
		v1.POST("/transform", handlers.HandleTransform(oracle, builder, metrics))
		v1.POST("/transform/batch", handlers.HandleTransformBatch(oracle, builder, metrics))
	}
}
