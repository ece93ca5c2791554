// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, CORS, and
// rate limiting, and performs the dependency injection from config to
// breakers, gateways, services, and handlers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/yushan/go-analytics-backend/internal/client"
	"github.com/yushan/go-analytics-backend/internal/config"
	"github.com/yushan/go-analytics-backend/internal/http/handlers"
	"github.com/yushan/go-analytics-backend/internal/http/middleware"
	"github.com/yushan/go-analytics-backend/internal/services"
)

// Gateways bundles the four upstream clients the services consume. Built
// once in main (or tests) and injected here.
type Gateways struct {
	Users        *client.UserGateway
	Content      *client.ContentGateway
	Engagement   *client.EngagementGateway
	Gamification *client.GamificationGateway
}

// NewGateways constructs all four upstream gateways from configuration, one
// circuit breaker per upstream. Breaker state transitions are exported as a
// Prometheus gauge.
func NewGateways(cfg config.Config) Gateways {
	settings := client.BreakerSettings{
		FailureRate:   cfg.Breaker.FailureRate,
		MinimumCalls:  cfg.Breaker.MinimumCalls,
		Cooldown:      cfg.Breaker.Cooldown,
		HalfOpenCalls: cfg.Breaker.HalfOpenCalls,
		OnStateChange: func(name string, state client.BreakerState) {
			middleware.SetBreakerState(name, int(state))
		},
	}
	t := cfg.GatewayTimeout
	return Gateways{
		Users:        client.NewUserGateway(cfg.Upstream.UserURL, t, client.NewBreaker("user-service", settings)),
		Content:      client.NewContentGateway(cfg.Upstream.ContentURL, t, client.NewBreaker("content-service", settings)),
		Engagement:   client.NewEngagementGateway(cfg.Upstream.EngagementURL, t, client.NewBreaker("engagement-service", settings)),
		Gamification: client.NewGamificationGateway(cfg.Upstream.GamificationURL, t, client.NewBreaker("gamification-service", settings)),
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS
//  9. Gzip compression
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gw Gateways, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 9) Compress JSON responses (trend series get large)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← db/gateways
	historySvc := services.NewHistoryService(db, gw.Users, gw.Content)
	librarySvc := services.NewLibraryService(db, gw.Content)
	analyticsSvc := services.NewAnalyticsService(db, gw.Content, gw.Engagement, gw.Users, gw.Gamification)
	h := handlers.New(historySvc, librarySvc, analyticsSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// History
		api.POST("/history", h.RecordRead)
		api.GET("/history", h.ListHistory)
		api.DELETE("/history/:id", h.DeleteHistory)
		api.DELETE("/history", h.ClearHistory)

		// Library
		api.POST("/library/:novelId", h.AddToLibrary)
		api.DELETE("/library/:novelId", h.RemoveFromLibrary)

		// Analytics
		api.GET("/analytics/user-trends", h.UserTrends)
		api.GET("/analytics/reading-activity", h.ReadingActivity)
		api.GET("/analytics/summary", h.Summary)
		api.GET("/analytics/platform", h.Platform)
		api.GET("/analytics/active-users", h.ActiveUsers)
		api.GET("/analytics/top-content", h.TopContent)
		api.GET("/analytics/top-readers", h.TopReaders)
		api.GET("/analytics/ranking", h.Ranking)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body
// reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
