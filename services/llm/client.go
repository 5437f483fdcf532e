// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm provides clients for the text-transformation oracles the
// leveler service can run against. The oracle is deliberately opaque: the
// service hands it a system instruction and the user's text and gets a
// single reply back. Which model sits behind the interface is a deployment
// concern, not a protocol one.
package llm

import "context"

// GenerationParams tunes a single completion call. Nil pointers mean
// "use the backend's default".
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Client is the standard interface for any rewriting oracle backend.
//
// Complete sends one system instruction plus one user message and returns
// the oracle's raw reply, markers and all. Callers own protocol validation.
type Client interface {
	Complete(ctx context.Context, system, user string, params GenerationParams) (string, error)
}
