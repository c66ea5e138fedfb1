// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

package handler

import "regexp"

// emailPattern accepts local@domain.tld. Deliberately loose: the goal is to
// catch obvious typos, not to implement RFC 5322. Note mail.ParseAddress
// would accept "a@b" (no TLD), which we want rejected.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// isValidEmail reports whether the string looks like an email address.
func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
