// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNopAuthProvider_AcceptsAnything(t *testing.T) {
	p := &NopAuthProvider{}

	info, err := p.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "local-user", info.UserID)
	assert.Contains(t, info.Roles, "admin")
}

func TestStaticTokenProvider_Validate(t *testing.T) {
	p := &StaticTokenProvider{Secret: "s3cret", AppID: "app-123"}

	t.Run("matching token", func(t *testing.T) {
		info, err := p.Validate(context.Background(), "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "app-123", info.AppID)
	})

	t.Run("wrong token", func(t *testing.T) {
		_, err := p.Validate(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := p.Validate(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty secret rejects even empty token", func(t *testing.T) {
		empty := &StaticTokenProvider{}
		_, err := empty.Validate(context.Background(), "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestStaticTokenSource(t *testing.T) {
	src := &StaticTokenSource{Value: "tok"}
	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestTokenSourceFunc(t *testing.T) {
	calls := 0
	src := TokenSourceFunc(func(ctx context.Context) (string, error) {
		calls++
		return "fresh", nil
	})

	for i := 0; i < 3; i++ {
		tok, err := src.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "fresh", tok)
	}
	assert.Equal(t, 3, calls)
}
