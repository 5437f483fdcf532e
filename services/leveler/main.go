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
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/relevel/relevel/pkg/extensions"
	"github.com/relevel/relevel/services/leveler/observability"
	"github.com/relevel/relevel/services/leveler/prompt"
	"github.com/relevel/relevel/services/leveler/routes"
	"github.com/relevel/relevel/services/llm"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "relevel-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("leveler-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newOracle picks the oracle backend from LEVELER_ORACLE.
func newOracle() (llm.Client, error) {
	switch os.Getenv("LEVELER_ORACLE") {
	case "ollama":
		slog.Info("Using Ollama oracle backend")
		return llm.NewOllamaClient()
	case "openai":
		slog.Info("Using OpenAI oracle backend")
		return llm.NewOpenAIClient()
	default:
		slog.Warn("LEVELER_ORACLE not set or invalid, defaulting to openai")
		return llm.NewOpenAIClient()
	}
}

// newAuthProvider wires the identity seam. A shared secret enables real
// token checks; without one the service accepts everything as local-user.
func newAuthProvider() extensions.AuthProvider {
	if secret := os.Getenv("LEVELER_API_TOKEN"); secret != "" {
		slog.Info("Bearer auth enabled via shared secret")
		return &extensions.StaticTokenProvider{
			Secret: secret,
			AppID:  os.Getenv("RELEVEL_APP_ID"),
		}
	}
	slog.Warn("LEVELER_API_TOKEN not set, accepting all requests as local-user")
	return &extensions.NopAuthProvider{}
}

func main() {
	port := os.Getenv("LEVELER_PORT")
	if port == "" {
		port = "12310"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	oracle, err := newOracle()
	if err != nil {
		log.Fatalf("Failed to initialize the oracle client: %v", err)
	}

	builder := prompt.NewBuilder()
	if overridesPath := os.Getenv("LEVELER_PROMPT_OVERRIDES"); overridesPath != "" {
		if err := prompt.LoadOverrides(overridesPath, builder); err != nil {
			log.Fatalf("Failed to load prompt overrides: %v", err)
		}
		if err := prompt.WatchOverrides(context.Background(), overridesPath, builder); err != nil {
			slog.Warn("Prompt overrides will not hot-reload", "error", err)
		}
	}

	metrics := observability.InitMetrics()

	router := gin.Default()
	router.Use(otelgin.Middleware("leveler-service"))

	routes.SetupRoutes(router, oracle, builder, newAuthProvider(), metrics)

	slog.Info("Starting the leveler server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
