package config

type PetfinderConfig struct {
	BaseURL       string `yaml:"base_url"`
	TokenURL      string `yaml:"token_url"`
	ClientID      string `yaml:"client_id"`
	ClientSecret  string `yaml:"client_secret"`
	MaxDistanceMi int    `yaml:"max_distance_mi"`
	MaxLimit      int    `yaml:"max_limit"`
}

func (p *PetfinderConfig) Enabled() bool {
	return p != nil && p.ClientID != "" && p.ClientSecret != ""
}

type YelpConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIKey     string `yaml:"api_key"`
	MaxRadiusM int    `yaml:"max_radius_m"`
	MaxLimit   int    `yaml:"max_limit"`
}

func (y *YelpConfig) Enabled() bool {
	return y != nil && y.APIKey != ""
}

func loadPetfinderConfig() *PetfinderConfig {
	baseURL := getEnv("PETFINDER_BASE_URL", "https://api.petfinder.com/v2")
	return &PetfinderConfig{
		BaseURL:       baseURL,
		TokenURL:      getEnv("PETFINDER_TOKEN_URL", baseURL+"/oauth2/token"),
		ClientID:      getEnv("PETFINDER_CLIENT_ID", ""),
		ClientSecret:  getEnv("PETFINDER_CLIENT_SECRET", ""),
		MaxDistanceMi: getEnvAsInt("PETFINDER_MAX_DISTANCE_MI", 100),
		MaxLimit:      getEnvAsInt("PETFINDER_MAX_LIMIT", 100),
	}
}

func loadYelpConfig() *YelpConfig {
	return &YelpConfig{
		BaseURL:    getEnv("YELP_BASE_URL", "https://api.yelp.com/v3"),
		APIKey:     getEnv("YELP_API_KEY", ""),
		MaxRadiusM: getEnvAsInt("YELP_MAX_RADIUS_M", 40000),
		MaxLimit:   getEnvAsInt("YELP_MAX_LIMIT", 50),
	}
}
