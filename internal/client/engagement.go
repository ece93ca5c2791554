package client

import (
	"context"
	"strconv"
	"time"
)

// EngagementGateway is the resilient typed client for the engagement domain
// (ratings, reviews, comments, moderation).
type EngagementGateway struct {
	g *gateway
}

// NewEngagementGateway constructs an EngagementGateway sharing the given
// breaker across all callers of the engagement upstream.
func NewEngagementGateway(baseURL string, timeout time.Duration, breaker *Breaker) *EngagementGateway {
	return &EngagementGateway{g: newGateway("engagement-service", baseURL, timeout, breaker)}
}

// Breaker exposes the engagement upstream's circuit breaker.
func (e *EngagementGateway) Breaker() *Breaker { return e.g.breaker }

// GetNovelRatingStats fetches the rating aggregate for one novel.
func (e *EngagementGateway) GetNovelRatingStats(ctx context.Context, novelID int) Envelope[RatingStats] {
	return getJSON[RatingStats](ctx, e.g, "getNovelRatingStats", "/api/v1/ratings/novels/"+strconv.Itoa(novelID), nil)
}

// GetNovelReviews pages through a novel's reviews.
func (e *EngagementGateway) GetNovelReviews(ctx context.Context, novelID, page, size int) Envelope[Page[ReviewSummary]] {
	q := pageQuery(page, size, "", "", "", "")
	return getJSON[Page[ReviewSummary]](ctx, e.g, "getNovelReviews", "/api/v1/reviews/novels/"+strconv.Itoa(novelID), q)
}

// GetChapterCommentStats fetches comment counters for one chapter.
func (e *EngagementGateway) GetChapterCommentStats(ctx context.Context, chapterID int) Envelope[CommentStatistics] {
	return getJSON[CommentStatistics](ctx, e.g, "getChapterCommentStats", "/api/v1/comments/chapters/"+strconv.Itoa(chapterID)+"/statistics", nil)
}

// GetModerationStatistics fetches the platform-wide engagement aggregate.
func (e *EngagementGateway) GetModerationStatistics(ctx context.Context) Envelope[ModerationStatistics] {
	return getJSON[ModerationStatistics](ctx, e.g, "getModerationStatistics", "/api/v1/moderation/statistics", nil)
}
