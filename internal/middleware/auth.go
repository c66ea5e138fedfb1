// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Package middleware provides HTTP middleware for authentication, rate
// limiting, security headers, and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// Authenticator reports whether the current session is authenticated.
// Implemented by auth.Gate.
type Authenticator interface {
	IsAuthenticated(ctx context.Context) bool
}

// RequireAuth creates middleware that rejects unauthenticated requests with
// a 401 JSON error. Use RequireAuthPage for the admin page itself, which
// redirects to the login view instead.
func RequireAuth(gate Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.IsAuthenticated(r.Context()) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": "Authentication required",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthPage creates middleware that redirects unauthenticated requests
// to the login view.
func RequireAuthPage(gate Authenticator, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
