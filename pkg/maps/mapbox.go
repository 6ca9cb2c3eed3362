package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type MapboxProvider struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
	country     string
}

func NewMapboxProvider(accessToken, baseURL string, timeout time.Duration) *MapboxProvider {
	if baseURL == "" {
		baseURL = "https://api.mapbox.com"
	}
	return &MapboxProvider{
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		country:     "us",
	}
}

func (m *MapboxProvider) Name() string {
	return "mapbox"
}

func (m *MapboxProvider) GeocodePostalCode(ctx context.Context, postalCode string) (*GeocodeResult, error) {
	if m.accessToken == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("access_token", m.accessToken)
	params.Set("country", m.country)
	params.Set("types", "postcode")
	params.Set("limit", "1")

	apiURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		m.baseURL, url.PathEscape(postalCode), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("mapbox rejected token: %w", ErrNotConfigured)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrOverQueryLimit
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{Provider: "Mapbox", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var mapboxResp struct {
		Features []struct {
			ID        string    `json:"id"`
			Text      string    `json:"text"`
			PlaceName string    `json:"place_name"`
			Center    []float64 `json:"center"`
		} `json:"features"`
	}

	if err := json.Unmarshal(body, &mapboxResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	for _, feature := range mapboxResp.Features {
		if len(feature.Center) < 2 {
			continue
		}
		return &GeocodeResult{
			Address: feature.PlaceName,
			Coordinates: Location{
				Latitude:  feature.Center[1],
				Longitude: feature.Center[0],
			},
			PostalCode: feature.Text,
		}, nil
	}

	return nil, ErrNoResults
}
