// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package handlers implements the HTTP handlers of the leveler service.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/relevel/relevel/services/leveler/datatypes"
	"github.com/relevel/relevel/services/leveler/middleware"
	"github.com/relevel/relevel/services/leveler/observability"
	"github.com/relevel/relevel/services/leveler/prompt"
	"github.com/relevel/relevel/services/llm"
)

var transformTracer = otel.Tracer("relevel.leveler.handlers")

// rewrite runs one text through the oracle and validates the reply against
// the marker protocol. The returned error is prompt.ErrDeclined,
// prompt.ErrUnexpectedFormat, or an oracle transport/API failure.
func rewrite(ctx context.Context, oracle llm.Client, builder *prompt.Builder,
	metrics *observability.TransformMetrics, endpoint, text, grade, curriculum, extraPrompt string) (string, error) {

	instruction := builder.Build(grade, curriculum, extraPrompt)

	temperature := prompt.DefaultTemperature
	maxTokens := prompt.MaxCompletionTokens
	params := llm.GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}

	metrics.AddWords("input", len(strings.Fields(text)))

	start := time.Now()
	reply, err := oracle.Complete(ctx, instruction, text, params)
	if err != nil {
		metrics.ObserveOracleDuration(endpoint, "error", time.Since(start).Seconds())
		return "", err
	}
	metrics.ObserveOracleDuration(endpoint, "success", time.Since(start).Seconds())

	rewritten, err := prompt.Parse(reply)
	if err != nil {
		switch {
		case errors.Is(err, prompt.ErrDeclined):
			metrics.RecordDeclined(endpoint)
		case errors.Is(err, prompt.ErrUnexpectedFormat):
			metrics.RecordProtocolViolation(endpoint)
		}
		return "", err
	}

	metrics.AddWords("output", len(strings.Fields(rewritten)))
	return rewritten, nil
}

// HandleTransform serves POST /v1/transform: one text in, one validated
// rewrite out. Any oracle failure, refusal, or protocol violation is a 500
// with an error body; the caller must leave its document untouched.
func HandleTransform(oracle llm.Client, builder *prompt.Builder,
	metrics *observability.TransformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := transformTracer.Start(c.Request.Context(), "HandleTransform")
		defer span.End()
		defer metrics.TrackInFlight()()

		var req datatypes.TransformRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the transform request", "error", err,
				"request_id", middleware.GetRequestID(c))
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request body"})
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "text is required"})
			return
		}
		span.SetAttributes(
			attribute.Int("transform.input_chars", len(req.Text)),
			attribute.String("transform.grade", req.Grade),
		)

		rewritten, err := rewrite(ctx, oracle, builder, metrics, "transform",
			req.Text, req.Grade, req.Curriculum, req.ExtraPrompt)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Transform request failed", "error", err,
				"request_id", middleware.GetRequestID(c))
			metrics.RecordRequest("transform", "error")
			c.JSON(http.StatusInternalServerError, datatypes.ErrorResponse{Error: "rewrite request failed"})
			return
		}

		metrics.RecordRequest("transform", "success")
		c.JSON(http.StatusOK, datatypes.TransformResponse{Text: rewritten})
	}
}

// HandleTransformBatch serves POST /v1/transform/batch. Items are
// processed independently and in order; a failing item yields an error
// result at its index while the rest of the batch continues.
func HandleTransformBatch(oracle llm.Client, builder *prompt.Builder,
	metrics *observability.TransformMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := transformTracer.Start(c.Request.Context(), "HandleTransformBatch")
		defer span.End()
		defer metrics.TrackInFlight()()

		var req datatypes.BatchTransformRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the batch transform request", "error", err,
				"request_id", middleware.GetRequestID(c))
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "invalid request body"})
			return
		}
		for i := range req.Items {
			req.Items[i].Text = strings.TrimSpace(req.Items[i].Text)
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{Error: "items with non-empty text are required"})
			return
		}
		span.SetAttributes(attribute.Int("transform.batch_size", len(req.Items)))

		results := make([]datatypes.BatchResult, len(req.Items))
		failed := 0
		for i, item := range req.Items {
			rewritten, err := rewrite(ctx, oracle, builder, metrics, "transform_batch",
				item.Text, req.Grade, req.Curriculum, req.ExtraPrompt)
			if err != nil {
				slog.Warn("Batch item failed, continuing", "index", i, "error", err,
					"request_id", middleware.GetRequestID(c))
				results[i] = datatypes.BatchResult{Error: "rewrite request failed"}
				failed++
				continue
			}
			results[i] = datatypes.BatchResult{Text: rewritten}
		}

		if failed > 0 {
			span.SetAttributes(attribute.Int("transform.batch_failed", failed))
			metrics.RecordRequest("transform_batch", "error")
		} else {
			metrics.RecordRequest("transform_batch", "success")
		}
		c.JSON(http.StatusOK, datatypes.BatchTransformResponse{Results: results})
	}
}

// HealthCheck serves GET /health.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
