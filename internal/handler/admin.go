// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/primemeridian/site/internal/model"
	"github.com/primemeridian/site/internal/store"
)

// AdminHandler renders the submission report for authenticated admins.
type AdminHandler struct {
	store store.SubmissionStore
	tmpl  *template.Template
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(s store.SubmissionStore, tmpl *template.Template) *AdminHandler {
	return &AdminHandler{store: s, tmpl: tmpl}
}

// adminRow is one pre-formatted report table row.
type adminRow struct {
	Date         string
	Name         string
	Email        string
	Company      string
	InquiryClass string
	InquiryLabel string
	Message      string
}

type adminPageData struct {
	Stats model.InquiryStats
	Rows  []adminRow
	// Submissions feeds the client-side CSV export script. html/template
	// serializes it as JSON inside the script context.
	Submissions []model.Submission
}

// Report handles GET /api/admin. Rows are most-recent-first; a store read
// failure is the one storage error this service surfaces to a caller.
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	subs, err := h.store.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to load submissions", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": "Failed to load submissions",
		})
		return
	}

	stats := model.CountByInquiry(subs)

	rows := make([]adminRow, 0, len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		s := subs[i]

		company := s.Company
		if company == "" {
			company = "-"
		}
		class := s.Inquiry
		if class == "" {
			class = model.InquiryOther
		}

		rows = append(rows, adminRow{
			Date:         s.Timestamp.Format("1/2/2006"),
			Name:         s.FirstName + " " + s.LastName,
			Email:        s.Email,
			Company:      company,
			InquiryClass: class,
			InquiryLabel: model.InquiryLabel(s.Inquiry),
			Message:      s.Message,
		})
	}

	renderPage(w, h.tmpl, "admin.html", adminPageData{
		Stats:       stats,
		Rows:        rows,
		Submissions: subs,
	})
}
