// Analytics HTTP handlers.
//
// This file exposes the read-only aggregation endpoints:
//   - GET /analytics/user-trends       (active-user trend with growth rates)
//   - GET /analytics/reading-activity  (reading-session trend)
//   - GET /analytics/summary           (activity overview for a window)
//   - GET /analytics/platform          (platform-wide statistics)
//   - GET /analytics/active-users      (DAU/WAU/MAU with hourly breakdown)
//   - GET /analytics/top-content       (most-read novels, enriched)
//   - GET /analytics/top-readers       (most-active readers, enriched)
//   - GET /analytics/ranking           (user ranking with gamification data)
//
// Every view applies the partial-result policy in the service layer, so a
// degraded upstream never turns into an error response here; only a local
// store failure produces a 500.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yushan/go-analytics-backend/internal/services"
	"github.com/yushan/go-analytics-backend/internal/utils"
)

// AnalyticsService defines the aggregation operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type AnalyticsService interface {
	UserTrends(ctx context.Context, start, end time.Time, period string) (*services.TrendReport, error)
	ReadingActivity(ctx context.Context, start, end time.Time, period string) (*services.ActivityReport, error)
	Summary(ctx context.Context, start, end time.Time, period string) (*services.ActivitySummary, error)
	Platform(ctx context.Context) (*services.PlatformStatistics, error)
	DailyActive(ctx context.Context, day time.Time) (*services.DailyActiveUsersReport, error)
	TopContent(ctx context.Context, start, end time.Time, limit int) (*services.TopContent, error)
	TopReaders(ctx context.Context, limit int) (*services.TopReaders, error)
	UserRanking(ctx context.Context, page, size int) (*services.UserRankingPage, error)
}

// dateRange parses startDate/endDate/period query params. Zero times signal
// the service to apply its default trailing window.
func dateRange(c *gin.Context) (start, end time.Time, period string) {
	start = utils.DateDefault(c.Query("startDate"), time.Time{})
	end = utils.DateDefault(c.Query("endDate"), time.Time{})
	period = c.Query("period")
	return
}

// UserTrends returns the active-user trend for the requested range.
func (h *Handlers) UserTrends(c *gin.Context) {
	start, end, period := dateRange(c)

	report, err := h.analyticsSvc.UserTrends(c.Request.Context(), start, end, period)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, report)
}

// ReadingActivity returns the reading-session trend for the requested range.
func (h *Handlers) ReadingActivity(c *gin.Context) {
	start, end, period := dateRange(c)

	report, err := h.analyticsSvc.ReadingActivity(c.Request.Context(), start, end, period)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, report)
}

// Summary returns the activity overview for the requested window.
func (h *Handlers) Summary(c *gin.Context) {
	start, end, period := dateRange(c)

	summary, err := h.analyticsSvc.Summary(c.Request.Context(), start, end, period)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, summary)
}

// Platform returns the platform-wide statistics snapshot.
func (h *Handlers) Platform(c *gin.Context) {
	stats, err := h.analyticsSvc.Platform(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}

// ActiveUsers returns DAU/WAU/MAU for one day (default today) with the
// hourly breakdown.
func (h *Handlers) ActiveUsers(c *gin.Context) {
	day := utils.DateDefault(c.Query("date"), time.Time{})

	report, err := h.analyticsSvc.DailyActive(c.Request.Context(), day)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, report)
}

// TopContent returns the most-read novels, enriched with content metadata.
// Without a date range the ranking covers all recorded history.
func (h *Handlers) TopContent(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 10)
	if limit > 100 {
		limit = 100
	}
	start := utils.DateDefault(c.Query("startDate"), time.Time{})
	end := utils.DateDefault(c.Query("endDate"), time.Time{})

	top, err := h.analyticsSvc.TopContent(c.Request.Context(), start, end, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, top)
}

// TopReaders returns the most-active readers, enriched with profile data.
func (h *Handlers) TopReaders(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 10)
	if limit > 100 {
		limit = 100
	}

	top, err := h.analyticsSvc.TopReaders(c.Request.Context(), limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, top)
}

// Ranking returns one page of users enriched with gamification progress.
func (h *Handlers) Ranking(c *gin.Context) {
	page, size := clampPagination(c)

	result, err := h.analyticsSvc.UserRanking(c.Request.Context(), page, size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, result)
}
