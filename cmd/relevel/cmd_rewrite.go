// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relevel/relevel/pkg/extensions"
	"github.com/relevel/relevel/services/leveler/prompt"
	"github.com/relevel/relevel/services/llm"
	"github.com/relevel/relevel/services/session"
)

// runRewrite rewrites each input text to the target grade level and
// records the conversions in the session ledger.
func runRewrite(cmd *cobra.Command, args []string) {
	texts := gatherTexts(args)
	if len(texts) == 0 {
		log.Fatalf("Nothing to rewrite: pass text arguments or pipe text on stdin")
	}

	sess, path := loadSession()
	backend, err := newTransformer()
	if err != nil {
		log.Fatalf("Failed to set up the rewrite backend: %v", err)
	}

	params := session.TransformParams{
		TargetGrade: firstNonEmpty(gradeFlag, config.Grade),
		Curriculum:  firstNonEmpty(curriculum, config.Curriculum),
		ExtraPrompt: firstNonEmpty(extraPrompt, config.ExtraPrompt),
	}

	orchestrator := session.NewOrchestrator(sess, backend, logger.Slog())
	result, err := orchestrator.Run(context.Background(), session.NewSnapshot(texts...), params, session.ModeTransform)
	if err != nil {
		log.Fatalf("Rewrite run failed: %v", err)
	}

	if result.ShortInputWarning() {
		logger.Warn("Some items were too short to rewrite and were left unchanged",
			"skipped", result.ShortSkipped, "min_words", session.MinTransformWords)
	}
	for _, item := range result.Items {
		if item.Err != nil {
			logger.Error("Item failed", "index", item.Index, "error", item.Err)
		}
		fmt.Println(item.Text)
	}

	saveSession(sess, path)
	if result.State == session.StateError {
		os.Exit(1)
	}
}

// gatherTexts returns the positional arguments, or stdin split into
// paragraphs when there are none.
func gatherTexts(args []string) []string {
	if len(args) > 0 {
		return args
	}
	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil
	}
	var texts []string
	for _, block := range strings.Split(string(data), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			texts = append(texts, block)
		}
	}
	return texts
}

// newTransformer picks HTTP or direct mode from flags/config.
func newTransformer() (session.Transformer, error) {
	baseURL := firstNonEmpty(backendURL, config.BaseURL)
	if baseURL != "" {
		logger.Debug("Using leveler service backend", "base_url", baseURL)
		opts := []session.BackendOption{}
		if token := firstNonEmpty(apiToken, config.APIToken); token != "" {
			opts = append(opts, session.WithTokenSource(&extensions.StaticTokenSource{Value: token}))
		}
		return session.NewBackendClient(baseURL, opts...), nil
	}

	var oracle llm.Client
	var err error
	switch firstNonEmpty(oracleFlag, config.Oracle) {
	case "ollama":
		oracle, err = llm.NewOllamaClient()
	default:
		oracle, err = llm.NewOpenAIClient()
	}
	if err != nil {
		return nil, err
	}

	builder := prompt.NewBuilder()
	if config.PromptOverrides != "" {
		if err := prompt.LoadOverrides(config.PromptOverrides, builder); err != nil {
			return nil, err
		}
	}
	logger.Debug("Using in-process oracle backend")
	return session.NewDirectTransformer(oracle, builder), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
