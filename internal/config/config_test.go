package config

import (
	"reflect"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server
	t.Setenv("PORT", "8099")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")

	// Upstreams + breaker
	t.Setenv("USER_SERVICE_URL", "http://users:8081")
	t.Setenv("GATEWAY_TIMEOUT", "5s")
	t.Setenv("BREAKER_FAILURE_RATE", "60")
	t.Setenv("BREAKER_MIN_CALLS", "20")
	t.Setenv("BREAKER_COOLDOWN", "45s")
	t.Setenv("BREAKER_HALF_OPEN_CALLS", "2")

	// Rate limiting (invalids fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 20.0
	t.Setenv("RATE_BURST", "nope") // -> default 40

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8099" || cfg.ReadTimeout != 2*time.Second || cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging fields unexpected: %+v", cfg)
	}
	if cfg.DBPath != "db.sqlite" {
		t.Fatalf("db path unexpected: %+v", cfg)
	}
	if cfg.Upstream.UserURL != "http://users:8081" {
		t.Fatalf("upstream override unexpected: %+v", cfg.Upstream)
	}
	// Untouched upstream keeps its default.
	if cfg.Upstream.ContentURL == "" {
		t.Fatalf("content default missing: %+v", cfg.Upstream)
	}
	if cfg.GatewayTimeout != 5*time.Second {
		t.Fatalf("gateway timeout = %v", cfg.GatewayTimeout)
	}
	if cfg.Breaker.FailureRate != 60 || cfg.Breaker.MinimumCalls != 20 ||
		cfg.Breaker.Cooldown != 45*time.Second || cfg.Breaker.HalfOpenCalls != 2 {
		t.Fatalf("breaker fields unexpected: %+v", cfg.Breaker)
	}
	if cfg.RateRPS != 20.0 || cfg.RateBurst != 40 {
		t.Fatalf("rate fields unexpected: rps=%v burst=%d", cfg.RateRPS, cfg.RateBurst)
	}
	if want := []string{"https://a.com", "http://b"}; !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("cors = %v; want %v", cfg.CORS.AllowedOrigins, want)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel fields unexpected: %+v", cfg.OTEL)
	}
}

// --- validation failures ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"zero gateway timeout", "GATEWAY_TIMEOUT", "0s"},
		{"rate over 100", "BREAKER_FAILURE_RATE", "150"},
		{"rate zero", "BREAKER_FAILURE_RATE", "0"},
		{"min calls zero", "BREAKER_MIN_CALLS", "0"},
		{"cooldown zero", "BREAKER_COOLDOWN", "0s"},
		{"half open zero", "BREAKER_HALF_OPEN_CALLS", "0"},
		{"negative rps", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}
