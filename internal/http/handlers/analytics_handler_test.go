package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yushan/go-analytics-backend/internal/services"
)

// recordingAnalyticsSvc captures the arguments handlers pass down.
type recordingAnalyticsSvc struct {
	stubAnalyticsSvc

	trendStart, trendEnd time.Time
	trendPeriod          string
	topStart, topEnd     time.Time
	topLimit             int
	readersLimit         int
	activeDay            time.Time
	rankPage, rankSize   int
	platformErr          error
}

func (s *recordingAnalyticsSvc) UserTrends(_ context.Context, start, end time.Time, period string) (*services.TrendReport, error) {
	s.trendStart, s.trendEnd, s.trendPeriod = start, end, period
	return &services.TrendReport{Period: period, DataPoints: []services.TrendDataPoint{}}, nil
}

func (s *recordingAnalyticsSvc) Platform(context.Context) (*services.PlatformStatistics, error) {
	if s.platformErr != nil {
		return nil, s.platformErr
	}
	return &services.PlatformStatistics{TotalNovels: 5}, nil
}

func (s *recordingAnalyticsSvc) DailyActive(_ context.Context, day time.Time) (*services.DailyActiveUsersReport, error) {
	s.activeDay = day
	return &services.DailyActiveUsersReport{}, nil
}

func (s *recordingAnalyticsSvc) TopContent(_ context.Context, start, end time.Time, limit int) (*services.TopContent, error) {
	s.topStart, s.topEnd, s.topLimit = start, end, limit
	return &services.TopContent{TopNovels: []services.TopNovel{}}, nil
}

func (s *recordingAnalyticsSvc) TopReaders(_ context.Context, limit int) (*services.TopReaders, error) {
	s.readersLimit = limit
	return &services.TopReaders{Readers: []services.TopReader{}}, nil
}

func (s *recordingAnalyticsSvc) UserRanking(_ context.Context, page, size int) (*services.UserRankingPage, error) {
	s.rankPage, s.rankSize = page, size
	return &services.UserRankingPage{Items: []services.RankedUser{}, Page: page, Size: size}, nil
}

func newAnalyticsRouter(svc AnalyticsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(stubHistorySvc{}, stubLibrarySvc{}, svc)
	r := gin.New()
	r.GET("/analytics/user-trends", h.UserTrends)
	r.GET("/analytics/platform", h.Platform)
	r.GET("/analytics/active-users", h.ActiveUsers)
	r.GET("/analytics/top-content", h.TopContent)
	r.GET("/analytics/top-readers", h.TopReaders)
	r.GET("/analytics/ranking", h.Ranking)
	return r
}

func TestUserTrends_ParsesRangeAndPeriod(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analytics/user-trends?startDate=2026-04-01&endDate=2026-04-30&period=week", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if svc.trendPeriod != "week" {
		t.Fatalf("period = %q", svc.trendPeriod)
	}
	want := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if !svc.trendStart.Equal(want) {
		t.Fatalf("start = %v, want %v", svc.trendStart, want)
	}
}

func TestUserTrends_MissingRangeSignalsDefaults(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/user-trends", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	// Zero times tell the service to apply its default trailing window.
	if !svc.trendStart.IsZero() || !svc.trendEnd.IsZero() {
		t.Fatalf("start=%v end=%v, want zero times", svc.trendStart, svc.trendEnd)
	}
}

func TestPlatform_ErrorBecomes500(t *testing.T) {
	svc := &recordingAnalyticsSvc{platformErr: context.DeadlineExceeded}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/platform", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeInternal {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestTopContent_LimitDefaultAndCap(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-content", nil))
	if w.Code != http.StatusOK || svc.topLimit != 10 {
		t.Fatalf("default: code=%d limit=%d", w.Code, svc.topLimit)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-content?limit=5000", nil))
	if svc.topLimit != 100 {
		t.Fatalf("cap: limit=%d, want 100", svc.topLimit)
	}
}

func TestTopContent_PassesDateRange(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-content?startDate=2026-04-01&endDate=2026-04-30", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	wantStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if !svc.topStart.Equal(wantStart) {
		t.Fatalf("start = %v, want %v", svc.topStart, wantStart)
	}

	// Without range params the service sees zero times (all-time ranking).
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-content", nil))
	if !svc.topStart.IsZero() || !svc.topEnd.IsZero() {
		t.Fatalf("start=%v end=%v, want zero times", svc.topStart, svc.topEnd)
	}
}

func TestTopReaders_LimitDefaultAndCap(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-readers", nil))
	if w.Code != http.StatusOK || svc.readersLimit != 10 {
		t.Fatalf("default: code=%d limit=%d", w.Code, svc.readersLimit)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/top-readers?limit=250", nil))
	if svc.readersLimit != 100 {
		t.Fatalf("cap: limit=%d, want 100", svc.readersLimit)
	}
}

func TestActiveUsers_ParsesDate(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/active-users?date=2026-04-15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	want := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	if !svc.activeDay.Equal(want) {
		t.Fatalf("day = %v, want %v", svc.activeDay, want)
	}
}

func TestRanking_PassesPagination(t *testing.T) {
	svc := &recordingAnalyticsSvc{}
	r := newAnalyticsRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/ranking?page=3&size=15", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}
	if svc.rankPage != 3 || svc.rankSize != 15 {
		t.Fatalf("page=%d size=%d", svc.rankPage, svc.rankSize)
	}
}
