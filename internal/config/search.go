package config

import (
	"fmt"
	"time"

	"petcare/internal/utils"
)

const (
	// RateLimitBackendWindow counts fixed windows in the shared store.
	RateLimitBackendWindow = "window"
	// RateLimitBackendBucket uses an in-process token bucket.
	RateLimitBackendBucket = "bucket"
)

type SearchConfig struct {
	DefaultRadiusKm float64       `yaml:"default_radius_km"`
	MaxRadiusKm     float64       `yaml:"max_radius_km"`
	DefaultTake     int           `yaml:"default_take"`
	MaxTake         int           `yaml:"max_take"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	RateLimit       int           `yaml:"rate_limit"`
	RateLimitWindow time.Duration `yaml:"rate_limit_window"`
	EnrichmentLimit int           `yaml:"enrichment_limit"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	// IncludeStore merges internal place rows into vet and shelter searches.
	IncludeStore bool `yaml:"include_store"`
	// RateLimitBackend is RateLimitBackendWindow or RateLimitBackendBucket.
	RateLimitBackend string `yaml:"rate_limit_backend"`
}

func loadSearchConfig() *SearchConfig {
	return &SearchConfig{
		DefaultRadiusKm:  getEnvAsFloat64("SEARCH_DEFAULT_RADIUS_KM", utils.DefaultSearchRadiusKm),
		MaxRadiusKm:      getEnvAsFloat64("SEARCH_MAX_RADIUS_KM", utils.MaxSearchRadiusKm),
		DefaultTake:      getEnvAsInt("SEARCH_DEFAULT_TAKE", utils.DefaultTake),
		MaxTake:          getEnvAsInt("SEARCH_MAX_TAKE", utils.MaxTake),
		CacheTTL:         getEnvAsDuration("SEARCH_CACHE_TTL", utils.DefaultCacheTTL),
		RateLimit:        getEnvAsInt("SEARCH_RATE_LIMIT", utils.DefaultRateLimit),
		RateLimitWindow:  getEnvAsDuration("SEARCH_RATE_LIMIT_WINDOW", utils.DefaultRateLimitWindow),
		EnrichmentLimit:  getEnvAsInt("SEARCH_ENRICHMENT_LIMIT", utils.DefaultEnrichmentLimit),
		HTTPTimeout:      getEnvAsDuration("HTTP_TIMEOUT", utils.DefaultHTTPTimeout),
		IncludeStore:     getEnvAsBool("SEARCH_INCLUDE_STORE", true),
		RateLimitBackend: getEnv("SEARCH_RATE_LIMIT_BACKEND", RateLimitBackendWindow),
	}
}

func (s *SearchConfig) Validate() error {
	if s.DefaultRadiusKm <= 0 || s.MaxRadiusKm <= 0 {
		return fmt.Errorf("search radius must be positive")
	}
	if s.DefaultRadiusKm > s.MaxRadiusKm {
		return fmt.Errorf("default radius %.1f km exceeds max %.1f km", s.DefaultRadiusKm, s.MaxRadiusKm)
	}
	if s.MaxTake < utils.MinTake || s.DefaultTake < utils.MinTake {
		return fmt.Errorf("take limits must be at least 1")
	}
	if s.RateLimit < 1 || s.RateLimitWindow <= 0 {
		return fmt.Errorf("rate limit must allow at least one request per window")
	}
	return nil
}
