// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/relevel/relevel/pkg/extensions"
	"github.com/relevel/relevel/services/leveler/observability"
	"github.com/relevel/relevel/services/leveler/prompt"
	"github.com/relevel/relevel/services/leveler/routes"
	"github.com/relevel/relevel/services/llm"
)

// runServe runs the leveler service in-process. Equivalent to the
// standalone services/leveler binary, minus the OTLP exporter; traces go
// to the global provider, which is a no-op unless the host wires one.
func runServe(cmd *cobra.Command, args []string) {
	var oracle llm.Client
	var err error
	switch firstNonEmpty(oracleFlag, config.Oracle) {
	case "ollama":
		oracle, err = llm.NewOllamaClient()
	default:
		oracle, err = llm.NewOpenAIClient()
	}
	if err != nil {
		log.Fatalf("Failed to initialize the oracle client: %v", err)
	}

	builder := prompt.NewBuilder()
	if config.PromptOverrides != "" {
		if err := prompt.LoadOverrides(config.PromptOverrides, builder); err != nil {
			log.Fatalf("Failed to load prompt overrides: %v", err)
		}
		if err := prompt.WatchOverrides(context.Background(), config.PromptOverrides, builder); err != nil {
			logger.Warn("Prompt overrides will not hot-reload", "error", err)
		}
	}

	var auth extensions.AuthProvider = &extensions.NopAuthProvider{}
	if config.APIToken != "" {
		auth = &extensions.StaticTokenProvider{Secret: config.APIToken}
	} else {
		logger.Warn("No API token configured, accepting all requests as local-user")
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("leveler-service"))
	routes.SetupRoutes(router, oracle, builder, auth, observability.InitMetrics())

	logger.Info("Starting the leveler server", "port", config.Port)
	if err := router.Run(":" + config.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
