// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/alexedwards/scs/v2"
)

// Session keys owned by the gate.
const (
	sessionKeyAuthenticated = "authenticated"
	sessionKeyAdminEmail    = "admin_email"
)

// ErrNotConfigured is returned when the server has no admin credential pair
// configured. Presented to callers identically to ErrInvalidCredentials but
// logged as a configuration error.
var ErrNotConfigured = errors.New("admin credentials not configured")

// ErrInvalidCredentials is returned when the presented email or password is
// wrong. Deliberately does not distinguish which.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Gate is the login/session state machine guarding the admin view.
// A session is either anonymous or authenticated; the only transition to
// authenticated is a successful Login, which also regenerates the session
// token to prevent fixation.
type Gate struct {
	adminEmail string
	adminHash  string
	sessions   *scs.SessionManager
}

// NewGate creates a Gate for the single configured admin account.
func NewGate(adminEmail, adminPasswordHash string, sm *scs.SessionManager) *Gate {
	return &Gate{
		adminEmail: adminEmail,
		adminHash:  adminPasswordHash,
		sessions:   sm,
	}
}

// Login verifies the presented credential pair and, on success, marks the
// session authenticated. Rate limiting must happen before this call so the
// bcrypt comparison cost is bounded under abuse.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	if g.adminEmail == "" || g.adminHash == "" {
		slog.Error("admin credentials not configured")
		return ErrNotConfigured
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(g.adminEmail)) == 1

	valid, err := CheckPassword(password, g.adminHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		return ErrInvalidCredentials
	}
	if !emailMatch || !valid {
		slog.Debug("invalid login attempt", "email", email)
		return ErrInvalidCredentials
	}

	// Regenerate the session token so a pre-login identifier cannot be
	// replayed into an authenticated session.
	if err := g.sessions.RenewToken(ctx); err != nil {
		slog.Error("session renewal error", "error", err)
		return ErrInvalidCredentials
	}

	g.sessions.Put(ctx, sessionKeyAuthenticated, true)
	g.sessions.Put(ctx, sessionKeyAdminEmail, email)

	slog.Info("admin logged in", "email", email)
	return nil
}

// Logout destroys the session, returning it to the anonymous state.
func (g *Gate) Logout(ctx context.Context) error {
	email := g.sessions.GetString(ctx, sessionKeyAdminEmail)

	if err := g.sessions.Destroy(ctx); err != nil {
		slog.Error("session destroy error", "error", err)
		return err
	}

	slog.Info("admin logged out", "email", email)
	return nil
}

// IsAuthenticated reports whether the session is in the authenticated state.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	return g.sessions.GetBool(ctx, sessionKeyAuthenticated)
}

// AdminEmail returns the authenticated admin identity, or "" if anonymous.
func (g *Gate) AdminEmail(ctx context.Context) string {
	return g.sessions.GetString(ctx, sessionKeyAdminEmail)
}
