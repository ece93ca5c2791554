// Package services implements the business logic of the analytics service:
// the analytics aggregator, the trend computation, and the reading-history
// enrichment pipeline. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
// Upstream degradation is deliberately absent from this taxonomy: a degraded
// gateway envelope never surfaces as an error on the read path, it only
// zeroes the enrichment fields it would have filled.
package services

import "errors"

var (
	// ErrUserNotFound indicates the user domain could not confirm the user.
	// On the write path an unconfirmed user is authoritative: the record is
	// not written.
	ErrUserNotFound = errors.New("user not found")

	// ErrNovelNotFound indicates the content domain could not confirm the
	// novel referenced by a write.
	ErrNovelNotFound = errors.New("novel not found")

	// ErrChapterNotFound indicates the content domain could not confirm the
	// chapter referenced by a write.
	ErrChapterNotFound = errors.New("chapter not found")

	// ErrChapterNovelMismatch is returned when the chapter exists but belongs
	// to a different novel than the one supplied.
	ErrChapterNovelMismatch = errors.New("chapter does not belong to novel")

	// ErrHistoryNotFound indicates the requested history record does not
	// exist or is not owned by the caller. The two cases are intentionally
	// indistinguishable so that callers cannot probe other users' records.
	ErrHistoryNotFound = errors.New("history record not found")
)
