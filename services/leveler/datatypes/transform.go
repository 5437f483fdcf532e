// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes holds the wire payloads of the leveler service.
package datatypes

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// TransformRequest is the body of POST /v1/transform.
//
// Grade, curriculum, and extra prompt are free-form and forwarded to the
// prompt builder verbatim; only defaulting is applied, no vocabulary check.
type TransformRequest struct {
	Text        string `json:"text" validate:"required"`
	Grade       string `json:"grade,omitempty"`
	Curriculum  string `json:"curriculum,omitempty"`
	ExtraPrompt string `json:"extraPrompt,omitempty"`
}

// Validate checks structural constraints on the request.
func (r *TransformRequest) Validate() error {
	return validate.Struct(r)
}

// TransformResponse is the success body of POST /v1/transform.
type TransformResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the failure body of every leveler endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BatchTransformRequest is the body of POST /v1/transform/batch. Each item
// is processed independently; one failing item does not fail the batch.
type BatchTransformRequest struct {
	Items       []BatchItem `json:"items" validate:"required,min=1,max=100,dive"`
	Grade       string      `json:"grade,omitempty"`
	Curriculum  string      `json:"curriculum,omitempty"`
	ExtraPrompt string      `json:"extraPrompt,omitempty"`
}

// Validate checks structural constraints on the batch request.
func (r *BatchTransformRequest) Validate() error {
	return validate.Struct(r)
}

// BatchItem is one unit of text inside a batch request.
type BatchItem struct {
	Text string `json:"text" validate:"required"`
}

// BatchResult is the per-item outcome in a batch response: exactly one of
// Text or Error is set.
type BatchResult struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// BatchTransformResponse is the success body of POST /v1/transform/batch.
// Results are index-aligned with the request items.
type BatchTransformResponse struct {
	Results []BatchResult `json:"results"`
}
