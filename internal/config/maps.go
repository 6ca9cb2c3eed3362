package config

import "time"

type MapsConfig struct {
	GoogleMaps *GoogleMapsConfig `yaml:"google_maps"`
	Mapbox     *MapboxConfig     `yaml:"mapbox"`
	Nominatim  *NominatimConfig  `yaml:"nominatim"`
	// ZipCacheTTL bounds how long a cached ZIP centroid is trusted.
	ZipCacheTTL time.Duration `yaml:"zip_cache_ttl"`
}

type GoogleMapsConfig struct {
	APIKey     string `yaml:"api_key"`
	MaxRadiusM int    `yaml:"max_radius_m"`
	BaseURL    string `yaml:"base_url"`
	Country    string `yaml:"country"`
}

type MapboxConfig struct {
	AccessToken string `yaml:"access_token"`
	BaseURL     string `yaml:"base_url"`
}

type NominatimConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

func (g *GoogleMapsConfig) Enabled() bool {
	return g != nil && g.APIKey != ""
}

func (m *MapboxConfig) Enabled() bool {
	return m != nil && m.AccessToken != ""
}

func loadMapsConfig() *MapsConfig {
	return &MapsConfig{
		GoogleMaps: &GoogleMapsConfig{
			APIKey:     getEnv("GOOGLE_MAPS_API_KEY", ""),
			MaxRadiusM: getEnvAsInt("GOOGLE_PLACES_MAX_RADIUS_M", 50000),
			BaseURL:    getEnv("GOOGLE_MAPS_BASE_URL", ""),
			Country:    getEnv("GEOCODE_COUNTRY", "US"),
		},
		Mapbox: &MapboxConfig{
			AccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
			BaseURL:     getEnv("MAPBOX_BASE_URL", "https://api.mapbox.com"),
		},
		Nominatim: &NominatimConfig{
			BaseURL:   getEnv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("NOMINATIM_USER_AGENT", "petapp/1.0 (search; geocode)"),
		},
		ZipCacheTTL: getEnvAsDuration("ZIP_CACHE_TTL", 30*24*time.Hour),
	}
}
