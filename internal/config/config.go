// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the local database path, upstream service
// endpoints, circuit-breaker thresholds, rate limiting, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-analytics-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// UpstreamConfig holds the base URLs of the remote bounded contexts this
// service aggregates from. Each upstream is independently deployed and
// independently failing; a blank URL is a configuration error.
type UpstreamConfig struct {
	UserURL         string // USER_SERVICE_URL
	ContentURL      string // CONTENT_SERVICE_URL
	EngagementURL   string // ENGAGEMENT_SERVICE_URL
	GamificationURL string // GAMIFICATION_SERVICE_URL
}

// BreakerConfig holds the circuit-breaker thresholds shared by all gateways.
// One breaker instance is created per upstream; these knobs apply to each.
type BreakerConfig struct {
	FailureRate   float64       // BREAKER_FAILURE_RATE: open when failure %% over the window reaches this (0..100]
	MinimumCalls  int           // BREAKER_MIN_CALLS: minimum call volume before the rate is evaluated
	Cooldown      time.Duration // BREAKER_COOLDOWN: how long the breaker stays open before probing
	HalfOpenCalls int           // BREAKER_HALF_OPEN_CALLS: trial calls allowed in half-open state
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel    string // debug|info|warn|error|fatal|panic
	LogPretty   bool   // pretty console logs in dev
	APIBasePath string // base path for API routes

	// App
	DBPath string // SQLite path

	// Upstreams
	Upstream       UpstreamConfig
	GatewayTimeout time.Duration // fixed per-call budget for every gateway call
	Breaker        BreakerConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS CORSConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8086"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:    strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:   getbool("LOG_PRETTY", false),
		APIBasePath: normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "analytics.db"),

		// Upstreams
		Upstream: UpstreamConfig{
			UserURL:         getenv("USER_SERVICE_URL", "http://yushan-user-service:8081"),
			ContentURL:      getenv("CONTENT_SERVICE_URL", "http://yushan-content-service:8082"),
			EngagementURL:   getenv("ENGAGEMENT_SERVICE_URL", "http://yushan-engagement-service:8083"),
			GamificationURL: getenv("GAMIFICATION_SERVICE_URL", "http://yushan-gamification-service:8084"),
		},
		GatewayTimeout: getdur("GATEWAY_TIMEOUT", 3*time.Second),
		Breaker: BreakerConfig{
			FailureRate:   getfloat("BREAKER_FAILURE_RATE", 50.0),
			MinimumCalls:  getint("BREAKER_MIN_CALLS", 10),
			Cooldown:      getdur("BREAKER_COOLDOWN", 30*time.Second),
			HalfOpenCalls: getint("BREAKER_HALF_OPEN_CALLS", 1),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 20.0),
		RateBurst: getint("RATE_BURST", 40),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-analytics-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	for _, u := range []struct{ name, val string }{
		{"USER_SERVICE_URL", cfg.Upstream.UserURL},
		{"CONTENT_SERVICE_URL", cfg.Upstream.ContentURL},
		{"ENGAGEMENT_SERVICE_URL", cfg.Upstream.EngagementURL},
		{"GAMIFICATION_SERVICE_URL", cfg.Upstream.GamificationURL},
	} {
		if strings.TrimSpace(u.val) == "" {
			return cfg, errors.New(u.name + " must not be empty")
		}
	}
	if cfg.GatewayTimeout <= 0 {
		return cfg, errors.New("GATEWAY_TIMEOUT must be positive")
	}
	if cfg.Breaker.FailureRate <= 0 || cfg.Breaker.FailureRate > 100 {
		return cfg, errors.New("BREAKER_FAILURE_RATE must be in (0,100]")
	}
	if cfg.Breaker.MinimumCalls < 1 {
		return cfg, errors.New("BREAKER_MIN_CALLS must be >= 1")
	}
	if cfg.Breaker.Cooldown <= 0 {
		return cfg, errors.New("BREAKER_COOLDOWN must be positive")
	}
	if cfg.Breaker.HalfOpenCalls < 1 {
		return cfg, errors.New("BREAKER_HALF_OPEN_CALLS must be >= 1")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}

	return cfg, nil
}

// getenv returns the value of the environment variable or a default.
func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// getdur parses a duration env var (e.g. "15s"), falling back to def.
func getdur(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return def
}

// getint parses an integer env var, falling back to def.
func getint(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// getfloat parses a float env var, falling back to def.
func getfloat(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// getbool parses a boolean env var ("1", "true", "yes", "on"), falling back to def.
func getbool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// splitCSV splits a comma-separated env value into trimmed, non-empty parts.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath ensures the base path starts with "/" and has no trailing slash.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
