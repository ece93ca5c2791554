package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yushan/go-analytics-backend/internal/config"
	"github.com/yushan/go-analytics-backend/internal/repo"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:routerdb?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// schema so handlers don't explode on list endpoints
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        100,
		RateBurst:      10,
		GatewayTimeout: time.Second,
		CORS:           config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Upstream: config.UpstreamConfig{
			// Unreachable upstreams: reads must still degrade gracefully.
			UserURL:         "http://127.0.0.1:1",
			ContentURL:      "http://127.0.0.1:1",
			EngagementURL:   "http://127.0.0.1:1",
			GamificationURL: "http://127.0.0.1:1",
		},
		Breaker: config.BreakerConfig{
			FailureRate:   50,
			MinimumCalls:  10,
			Cooldown:      30 * time.Second,
			HalfOpenCalls: 1,
		},
	}
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig()
	db := newTestDB(t)

	RegisterRoutes(r, db, NewGateways(cfg), cfg)

	// /health works
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// unknown route → structured 404
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope = %d", w.Code)
	}

	// wrong method on a known route → 405
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/v1/history", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("PUT /api/v1/history = %d", w.Code)
	}
}

func TestRegisterRoutes_ReadsSurviveUnreachableUpstreams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig()
	db := newTestDB(t)

	RegisterRoutes(r, db, NewGateways(cfg), cfg)

	// Analytics views and the history read degrade instead of failing even
	// though every upstream is unreachable.
	for _, path := range []string{
		"/api/v1/analytics/platform",
		"/api/v1/analytics/top-content",
		"/api/v1/analytics/top-readers",
		"/api/v1/analytics/ranking",
		"/api/v1/history",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-User-ID", "u-router")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, w.Code)
		}
	}

	// The write path refuses when the user cannot be confirmed.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/history",
		bytes.NewBufferString(`{"novelId":1,"chapterId":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u-router")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("POST /api/v1/history = %d, want 404 (user unconfirmed)", w.Code)
	}
}
