package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NominatimProvider geocodes through OpenStreetMap. Nominatim requires an
// identifying User-Agent on every request.
type NominatimProvider struct {
	baseURL     string
	userAgent   string
	countryCode string
	httpClient  *http.Client
}

func NewNominatimProvider(baseURL, userAgent string, timeout time.Duration) *NominatimProvider {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		userAgent:   userAgent,
		countryCode: "us",
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (n *NominatimProvider) Name() string {
	return "nominatim"
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (n *NominatimProvider) GeocodePostalCode(ctx context.Context, postalCode string) (*GeocodeResult, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("postalcode", postalCode)
	params.Set("countrycodes", n.countryCode)
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrOverQueryLimit
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: "Nominatim", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(places) == 0 {
		return nil, ErrNoResults
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return nil, fmt.Errorf("invalid coordinates %q,%q in response", places[0].Lat, places[0].Lon)
	}

	return &GeocodeResult{
		Address:     places[0].DisplayName,
		Coordinates: Location{Latitude: lat, Longitude: lng},
		PostalCode:  postalCode,
	}, nil
}
