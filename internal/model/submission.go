// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Package model contains domain models and constants for the application.
package model

import "time"

// Inquiry category constants. These match the values submitted by the
// contact form's service-interest selector.
const (
	InquiryMAAdvisory          = "ma-advisory"
	InquiryCapitalAdvisory     = "capital-advisory"
	InquiryStrategicConsulting = "strategic-consulting"
	InquiryOther               = "other"
)

// ValidInquiries returns all known inquiry categories.
func ValidInquiries() []string {
	return []string{
		InquiryMAAdvisory,
		InquiryCapitalAdvisory,
		InquiryStrategicConsulting,
		InquiryOther,
	}
}

// InquiryLabel returns the display label for an inquiry category.
// Unknown or empty categories fall back to "Other".
func InquiryLabel(inquiry string) string {
	switch inquiry {
	case InquiryMAAdvisory:
		return "M&A Advisory"
	case InquiryCapitalAdvisory:
		return "Capital Advisory"
	case InquiryStrategicConsulting:
		return "Strategic Intelligence"
	default:
		return "Other"
	}
}

// Submission is one persisted contact inquiry record.
// ID is time-derived (Unix milliseconds at creation, bumped on collision so
// identifiers stay monotonic within a process). Phone, Company and Inquiry
// are optional and omitted from the persisted JSON when empty.
type Submission struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Inquiry   string    `json:"inquiry,omitempty"`
	Message   string    `json:"message"`
}

// InquiryStats holds per-category submission counts for the admin report.
type InquiryStats struct {
	Total               int
	MAAdvisory          int
	CapitalAdvisory     int
	StrategicConsulting int
	Other               int
}

// CountByInquiry aggregates submissions into per-category counts.
// Submissions with an empty or unknown inquiry value count as Other.
func CountByInquiry(subs []Submission) InquiryStats {
	stats := InquiryStats{Total: len(subs)}
	for _, s := range subs {
		switch s.Inquiry {
		case InquiryMAAdvisory:
			stats.MAAdvisory++
		case InquiryCapitalAdvisory:
			stats.CapitalAdvisory++
		case InquiryStrategicConsulting:
			stats.StrategicConsulting++
		default:
			stats.Other++
		}
	}
	return stats
}
