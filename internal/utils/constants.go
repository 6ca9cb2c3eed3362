package utils

import "time"

// Application Constants
const (
	AppName    = "PetCare"
	AppVersion = "1.0.0"

	// Search defaults
	DefaultSearchRadiusKm = 10.0
	MaxSearchRadiusKm     = 50.0
	DefaultTake           = 20
	MaxTake               = 50
	MinTake               = 1

	// Nearby places around a stored place
	NearbyRadiusKm = 5.0
	NearbyTake     = 10

	// Upstream calls
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultEnrichmentLimit = 8

	// Result cache
	DefaultCacheTTL    = 60 * time.Second
	SearchCacheControl = "public, s-maxage=30, stale-while-revalidate=300"
	PlaceCacheControl  = "public, s-maxage=60, stale-while-revalidate=300"

	// Rate Limiting
	DefaultRateLimit       = 30
	DefaultRateLimitWindow = 5 * time.Minute
)

// Error Messages
const (
	ErrInternalServer   = "internal server error"
	ErrGenericFailure   = "Something went wrong"
	ErrValidationFailed = "validation failed"
)

// Cache Keys
const (
	CacheSearchPrefix    = "search:"
	CacheRateLimitPrefix = "rate_limit:"
)

// Geographic Constants
const (
	EarthRadiusKM = 6371.0
	MilesPerKm    = 0.621371
)
