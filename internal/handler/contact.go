// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Package handler implements the HTTP handlers for the site backend.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/primemeridian/site/internal/model"
	"github.com/primemeridian/site/internal/store"
)

// ContactHandler accepts public contact-form submissions.
type ContactHandler struct {
	store store.SubmissionStore
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(s store.SubmissionStore) *ContactHandler {
	return &ContactHandler{store: s}
}

// contactRequest is the POST /api/contact payload.
type contactRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	Inquiry   string `json:"inquiry"`
	Message   string `json:"message"`
}

// Submit handles POST /api/contact. Validation is ordered: required fields
// first, then email syntax. The response is a success acknowledgment even
// when persistence fails; storage errors are logged server-side so a broken
// disk never turns away a prospective client.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Message == "" {
		writeJSONError(w, http.StatusBadRequest,
			"Missing required fields: firstName, lastName, email, and message are required.")
		return
	}

	if !isValidEmail(req.Email) {
		writeJSONError(w, http.StatusBadRequest, "Invalid email address format.")
		return
	}

	saved, err := h.store.Append(r.Context(), model.Submission{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Company:   req.Company,
		Inquiry:   req.Inquiry,
		Message:   req.Message,
	})
	if err != nil {
		slog.Error("failed to save submission", "error", err, "email", req.Email)
	} else {
		slog.Info("contact form submission saved", "id", saved.ID, "inquiry", saved.Inquiry)
	}

	writeJSONSuccess(w, map[string]any{
		"message": "Contact form submitted successfully",
	})
}
