// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines the identity extension points for Relevel.
//
// The core deliberately treats authentication as an external collaborator:
// the backend validates inbound bearer tokens through an AuthProvider, and
// the session client obtains outbound tokens through a TokenSource. Host
// platforms (the design-tool panel, an SSO gateway) supply real
// implementations; the defaults here keep a local deployment working with
// no identity infrastructure at all.
package extensions

import (
	"context"
	"crypto/subtle"
	"errors"
)

// ErrUnauthorized is returned by AuthProvider implementations when a token
// is missing, malformed, or rejected by the identity system.
var ErrUnauthorized = errors.New("unauthorized")

// AuthInfo describes an authenticated caller.
type AuthInfo struct {
	// UserID uniquely identifies the user within the identity system.
	UserID string

	// AppID identifies the host application the token was minted for.
	AppID string

	// Roles lists the caller's roles. Empty means no special privileges.
	Roles []string
}

// AuthProvider validates inbound bearer tokens for the backend service.
//
// Implementations must be safe for concurrent use. Validate is called on
// every request, so expensive verification should cache internally.
type AuthProvider interface {
	// Validate checks the token and returns the caller's identity.
	// An empty or invalid token returns ErrUnauthorized.
	Validate(ctx context.Context, token string) (*AuthInfo, error)
}

// TokenSource supplies outbound bearer tokens for the session client.
//
// Tokens are assumed short-lived and refreshed by the host platform, so the
// client asks for a fresh one on every request and never caches.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// NopAuthProvider accepts every request as a local user.
//
// This is the default for local deployments where the backend and panel run
// on the same machine and no identity system exists.
type NopAuthProvider struct{}

func (p *NopAuthProvider) Validate(_ context.Context, _ string) (*AuthInfo, error) {
	return &AuthInfo{UserID: "local-user", Roles: []string{"admin"}}, nil
}

var _ AuthProvider = (*NopAuthProvider)(nil)

// StaticTokenProvider validates tokens against a single shared secret.
//
// Suitable for small deployments fronted by a reverse proxy; anything
// multi-tenant should plug in a real identity provider instead.
type StaticTokenProvider struct {
	// Secret is the expected bearer token. Must be non-empty.
	Secret string

	// AppID is stamped onto every AuthInfo this provider returns.
	AppID string
}

func (p *StaticTokenProvider) Validate(_ context.Context, token string) (*AuthInfo, error) {
	if p.Secret == "" || token == "" {
		return nil, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(p.Secret)) != 1 {
		return nil, ErrUnauthorized
	}
	return &AuthInfo{UserID: "shared-secret-user", AppID: p.AppID}, nil
}

var _ AuthProvider = (*StaticTokenProvider)(nil)

// StaticTokenSource returns the same token on every call.
//
// Used by the CLI, where the user supplies a token via flag or environment.
type StaticTokenSource struct {
	Value string
}

func (s *StaticTokenSource) Token(_ context.Context) (string, error) {
	return s.Value, nil
}

var _ TokenSource = (*StaticTokenSource)(nil)

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
