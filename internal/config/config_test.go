package config

import (
	"testing"
	"time"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("RECOMMENDER_TIMEOUT_SECONDS", "3")
	t.Setenv("STORAGE_DRIVER", "s3")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.JWTAccessTTL != 5*time.Minute {
		t.Fatalf("expected 5m access ttl, got %s", cfg.JWTAccessTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", cfg.AllowedOrigins)
	}
	if cfg.RecommenderTimeout() != 3*time.Second {
		t.Fatalf("expected 3s recommender timeout, got %s", cfg.RecommenderTimeout())
	}
	if cfg.StorageDriver != "s3" {
		t.Fatalf("expected s3 driver, got %s", cfg.StorageDriver)
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("JWT_REFRESH_TTL", "forever")
	t.Setenv("RECOMMENDER_TIMEOUT_SECONDS", "soon")
	t.Setenv("SEARCH_CACHE_TTL", "")

	cfg := Load()

	if cfg.JWTRefreshTTL != 168*time.Hour {
		t.Fatalf("expected default refresh ttl, got %s", cfg.JWTRefreshTTL)
	}
	if cfg.RecommenderTimeoutSeconds != 10 {
		t.Fatalf("expected default timeout, got %d", cfg.RecommenderTimeoutSeconds)
	}
	if cfg.SearchCacheTTL != 10*time.Minute {
		t.Fatalf("expected default cache ttl, got %s", cfg.SearchCacheTTL)
	}
}

func TestRecommenderTimeoutStaysBelowWriteTimeout(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{seconds: 10, want: 10 * time.Second},
		{seconds: 13, want: 13 * time.Second},
		{seconds: 20, want: ServerWriteTimeout - writeMargin},
		{seconds: 600, want: ServerWriteTimeout - writeMargin},
		{seconds: 0, want: ServerWriteTimeout - writeMargin},
		{seconds: -5, want: ServerWriteTimeout - writeMargin},
	}

	for _, tt := range tests {
		cfg := &Config{RecommenderTimeoutSeconds: tt.seconds}
		got := cfg.RecommenderTimeout()
		if got != tt.want {
			t.Fatalf("seconds=%d: expected %s, got %s", tt.seconds, tt.want, got)
		}
		if got >= ServerWriteTimeout {
			t.Fatalf("seconds=%d: timeout %s reaches the write timeout", tt.seconds, got)
		}
	}
}
