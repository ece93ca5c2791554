package client

import (
	"context"
	"time"
)

// UserGateway is the resilient typed client for the user domain.
// All methods return an envelope, never an error; a degraded envelope means
// the upstream could not answer.
type UserGateway struct {
	g *gateway
}

// NewUserGateway constructs a UserGateway sharing the given breaker across
// all callers of the user upstream.
func NewUserGateway(baseURL string, timeout time.Duration, breaker *Breaker) *UserGateway {
	return &UserGateway{g: newGateway("user-service", baseURL, timeout, breaker)}
}

// Breaker exposes the user upstream's circuit breaker.
func (u *UserGateway) Breaker() *Breaker { return u.g.breaker }

// GetUser fetches a single user profile by UUID.
func (u *UserGateway) GetUser(ctx context.Context, userID string) Envelope[UserProfile] {
	return getJSON[UserProfile](ctx, u.g, "getUser", "/api/v1/users/"+userID, nil)
}

// GetUsersBatch fetches profiles for the given user UUIDs. The returned
// list's order is not correlated to the request order; key results by UUID.
func (u *UserGateway) GetUsersBatch(ctx context.Context, userIDs []string) Envelope[[]UserProfile] {
	return postJSON[[]UserProfile](ctx, u.g, "getUsersBatch", "/api/v1/users/batch/get", userIDs)
}

// GetAllUsersForRanking pages through all users sorted for ranking views.
func (u *UserGateway) GetAllUsersForRanking(ctx context.Context, page, size int, sortBy, sortOrder string) Envelope[Page[UserProfile]] {
	q := pageQuery(page, size, "sortBy", sortBy, "sortOrder", sortOrder)
	return getJSON[Page[UserProfile]](ctx, u.g, "getAllUsersForRanking", "/api/v1/admin/users", q)
}

// ValidateUser reports whether the user exists according to the user domain.
// A degraded envelope reads as "not confirmed": the write path treats that as
// not found because it requires certainty, not best-effort enrichment.
func (u *UserGateway) ValidateUser(ctx context.Context, userID string) bool {
	return u.GetUser(ctx, userID).OK()
}
