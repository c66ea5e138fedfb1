// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/primemeridian/site/internal/auth"
)

// Route paths shared between handlers and middleware wiring.
const (
	LoginPath  = "/api/login"
	AdminPath  = "/api/admin"
	LogoutPath = "/api/logout"
)

// AuthHandler serves the login form and processes login/logout.
type AuthHandler struct {
	gate *auth.Gate
	tmpl *template.Template
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(gate *auth.Gate, tmpl *template.Template) *AuthHandler {
	return &AuthHandler{gate: gate, tmpl: tmpl}
}

type loginPageData struct {
	// Error comes straight from the query string; the template escapes it.
	Error string
}

// LoginForm handles GET /api/login. An already-authenticated session goes
// straight to the report.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.gate.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, AdminPath, http.StatusSeeOther)
		return
	}

	renderPage(w, h.tmpl, "login.html", loginPageData{
		Error: r.URL.Query().Get("error"),
	})
}

// Login handles POST /api/login. Bad credentials and a missing server-side
// admin configuration both redirect back with a generic message; only the
// server log tells them apart.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "Login failed")
		return
	}

	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	err := h.gate.Login(r.Context(), email, password)
	switch {
	case err == nil:
		http.Redirect(w, r, AdminPath, http.StatusSeeOther)
	case errors.Is(err, auth.ErrNotConfigured):
		redirectWithError(w, r, "System configuration error")
	case errors.Is(err, auth.ErrInvalidCredentials):
		redirectWithError(w, r, "Invalid email or password")
	default:
		slog.Error("login failed unexpectedly", "error", err)
		redirectWithError(w, r, "Login failed")
	}
}

// Logout handles GET /api/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context()); err != nil {
		slog.Error("failed to destroy session", "error", err)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, LoginPath+"?error="+url.QueryEscape(message), http.StatusSeeOther)
}
