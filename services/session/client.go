// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/relevel/relevel/pkg/extensions"
	"github.com/relevel/relevel/services/leveler/datatypes"
	"github.com/relevel/relevel/services/leveler/prompt"
)

// DefaultRequestTimeout bounds one backend call. Oracle latency dominates
// it; a run that exceeds this fails the item with KindTransport.
const DefaultRequestTimeout = 60 * time.Second

// BackendClient calls the leveler service's /v1/transform endpoint. It is
// the production Transformer for the panel path.
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     extensions.TokenSource
	tracer     trace.Tracer
}

// BackendOption configures a BackendClient.
type BackendOption func(*BackendClient)

// WithHTTPClient swaps the underlying HTTP client. Tests use this with
// httptest; the default client carries DefaultRequestTimeout.
func WithHTTPClient(c *http.Client) BackendOption {
	return func(b *BackendClient) { b.httpClient = c }
}

// WithTokenSource attaches bearer credentials. The token is fetched per
// request, so rotating sources work without rebuilding the client.
func WithTokenSource(ts extensions.TokenSource) BackendOption {
	return func(b *BackendClient) { b.tokens = ts }
}

// NewBackendClient returns a client for the leveler service at baseURL
// (scheme and host, no path).
func NewBackendClient(baseURL string, opts ...BackendOption) *BackendClient {
	b := &BackendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		tracer:     otel.Tracer("relevel.session.client"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Transform sends one item to the backend and returns the rewritten text.
// Failures come back as *TransformError so the orchestrator and the UI
// can distinguish transport trouble from a backend refusal.
func (b *BackendClient) Transform(ctx context.Context, text string, params TransformParams) (string, error) {
	ctx, span := b.tracer.Start(ctx, "backend.transform")
	defer span.End()
	span.SetAttributes(attribute.Int("request.text_length", len(text)))

	reqBody := datatypes.TransformRequest{
		Text:        text,
		Grade:       params.TargetGrade,
		Curriculum:  params.Curriculum,
		ExtraPrompt: params.ExtraPrompt,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &TransformError{Kind: KindInvalidResponse, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/v1/transform", bytes.NewReader(payload))
	if err != nil {
		return "", &TransformError{Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if b.tokens != nil {
		token, err := b.tokens.Token(ctx)
		if err != nil {
			return "", &TransformError{Kind: KindTransport, Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", &TransformError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &TransformError{Kind: KindTransport, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp datatypes.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return "", &TransformError{Kind: KindRequestFailed,
				Err: fmt.Errorf("backend returned %d: %s", resp.StatusCode, errResp.Error)}
		}
		return "", &TransformError{Kind: KindRequestFailed,
			Err: fmt.Errorf("backend returned %d", resp.StatusCode)}
	}

	var out datatypes.TransformResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &TransformError{Kind: KindInvalidResponse, Err: err}
	}
	if out.Text == "" {
		return "", &TransformError{Kind: KindInvalidResponse,
			Err: fmt.Errorf("backend response missing text")}
	}
	// The service strips protocol markers before responding; one leaking
	// through means the reply was not parsed and must not reach the
	// document.
	if prompt.ContainsMarker(out.Text) {
		return "", &TransformError{Kind: KindInvalidResponse,
			Err: fmt.Errorf("backend response contains an unstripped protocol marker")}
	}
	return out.Text, nil
}
