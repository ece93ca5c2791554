package client

import (
	"context"
	"time"
)

// GamificationGateway is the resilient typed client for the gamification
// domain (levels, experience, currency).
type GamificationGateway struct {
	g *gateway
}

// NewGamificationGateway constructs a GamificationGateway sharing the given
// breaker across all callers of the gamification upstream.
func NewGamificationGateway(baseURL string, timeout time.Duration, breaker *Breaker) *GamificationGateway {
	return &GamificationGateway{g: newGateway("gamification-service", baseURL, timeout, breaker)}
}

// Breaker exposes the gamification upstream's circuit breaker.
func (gg *GamificationGateway) Breaker() *Breaker { return gg.g.breaker }

// GetAllUsersStats fetches progress snapshots for every user.
func (gg *GamificationGateway) GetAllUsersStats(ctx context.Context) Envelope[[]GamificationStats] {
	return getJSON[[]GamificationStats](ctx, gg.g, "getAllUsersStats", "/api/v1/gamification/users/stats", nil)
}

// GetUserStats fetches one user's progress snapshot.
func (gg *GamificationGateway) GetUserStats(ctx context.Context, userID string) Envelope[GamificationStats] {
	return getJSON[GamificationStats](ctx, gg.g, "getUserStats", "/api/v1/gamification/users/"+userID+"/stats", nil)
}

// GetBatchUsersStats fetches snapshots for the given user ids. Result order
// is not correlated to request order; key results by UserID.
func (gg *GamificationGateway) GetBatchUsersStats(ctx context.Context, userIDs []string) Envelope[[]GamificationStats] {
	return postJSON[[]GamificationStats](ctx, gg.g, "getBatchUsersStats", "/api/v1/gamification/users/stats/batch", userIDs)
}
