// Copyright (C) 2026 Relevel Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package middleware provides HTTP middleware for the leveler service.
//
// The auth middleware extracts a bearer token from the Authorization
// header, validates it through the configured extensions.AuthProvider, and
// stores the resulting AuthInfo in the Gin context for downstream
// handlers. With the default NopAuthProvider every request authenticates
// as a local user, which keeps a single-machine deployment working with no
// identity infrastructure; real deployments plug in a provider that
// verifies the host platform's tokens.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/relevel/relevel/pkg/extensions"
)

// authInfoKey is the context key for storing AuthInfo. A package-scoped
// key prevents collisions with other context values.
const authInfoKey = "relevel_auth_info"

// SetAuthInfo stores the authenticated caller in the Gin context. Called
// by AuthMiddleware after successful validation.
func SetAuthInfo(c *gin.Context, info *extensions.AuthInfo) {
	c.Set(authInfoKey, info)
}

// GetAuthInfo retrieves the authenticated caller, or nil when the request
// did not pass through AuthMiddleware.
func GetAuthInfo(c *gin.Context) *extensions.AuthInfo {
	if info, exists := c.Get(authInfoKey); exists {
		if authInfo, ok := info.(*extensions.AuthInfo); ok {
			return authInfo
		}
	}
	return nil
}

// AuthMiddleware validates the bearer token on every request. Requests the
// provider rejects are aborted with 401 before any handler runs.
func AuthMiddleware(provider extensions.AuthProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		authInfo, err := provider.Validate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, extensions.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "unauthorized",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication failed",
			})
			return
		}
		SetAuthInfo(c, authInfo)
		c.Next()
	}
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
// Returns "" for a missing or malformed header.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
