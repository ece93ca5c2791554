// Package handlers defines the HTTP-layer error codes used across all API
// endpoints. These constants are mapped to responses via the fail() helper
// and give clients a stable, machine-readable taxonomy that supplements the
// human-readable messages.
//
// Generic codes mirror common HTTP status semantics; domain-specific codes
// are reserved for business errors that a status alone cannot convey.
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeChapterMismatch  = "chapter_novel_mismatch"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
