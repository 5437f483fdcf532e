// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"context"
	"errors"

	"github.com/relevel/relevel/services/leveler/prompt"
	"github.com/relevel/relevel/services/llm"
)

// DirectTransformer talks to the oracle in-process, bypassing the leveler
// service. The CLI uses it when no backend URL is configured; semantics
// match the service's rewrite path, including marker validation.
type DirectTransformer struct {
	oracle  llm.Client
	builder *prompt.Builder
}

// NewDirectTransformer wires an oracle and an instruction builder. A nil
// builder gets the stock template.
func NewDirectTransformer(oracle llm.Client, builder *prompt.Builder) *DirectTransformer {
	if builder == nil {
		builder = prompt.NewBuilder()
	}
	return &DirectTransformer{oracle: oracle, builder: builder}
}

// Transform implements Transformer against the oracle directly.
func (d *DirectTransformer) Transform(ctx context.Context, text string, params TransformParams) (string, error) {
	instruction := d.builder.Build(params.TargetGrade, params.Curriculum, params.ExtraPrompt)

	temperature := prompt.DefaultTemperature
	maxTokens := prompt.MaxCompletionTokens
	reply, err := d.oracle.Complete(ctx, instruction, text, llm.GenerationParams{
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", &TransformError{Kind: KindTransport, Err: err}
	}

	rewritten, err := prompt.Parse(reply)
	switch {
	case errors.Is(err, prompt.ErrDeclined):
		return "", &TransformError{Kind: KindDeclined, Err: err}
	case errors.Is(err, prompt.ErrUnexpectedFormat):
		return "", &TransformError{Kind: KindUnexpectedFormat, Err: err}
	case err != nil:
		return "", &TransformError{Kind: KindInvalidResponse, Err: err}
	}
	return rewritten, nil
}
