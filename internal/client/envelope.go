// Package client implements the resilient gateways to the upstream bounded
// contexts this service aggregates from (user, content, engagement,
// gamification).
//
// Every upstream speaks the same wire contract: a JSON envelope
// {success, code, message, data}. Gateways never return Go errors to their
// callers — transport errors, timeouts, non-success statuses, and decode
// failures are all converted into a degraded envelope so that an upstream
// outage can never become a caller-visible exception. Callers decide what a
// degraded envelope means for them (the read path substitutes defaults, the
// write path refuses).
package client

import "net/http"

// Envelope is the uniform success/failure wrapper carried by every
// cross-service response. Data is nil when the call failed or the upstream
// returned no payload.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

// OK reports whether the envelope carries a usable payload: the upstream
// confirmed success with code 200 and a non-nil data field. Callers must
// check OK before dereferencing Data.
func (e Envelope[T]) OK() bool {
	return e.Success && e.Code == http.StatusOK && e.Data != nil
}

// Degraded constructs the fixed envelope returned when an upstream call could
// not complete. The message should identify the unavailable upstream and the
// attempted operation.
func Degraded[T any](code int, message string) Envelope[T] {
	return Envelope[T]{Success: false, Code: code, Message: message}
}
