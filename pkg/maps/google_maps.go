package maps

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client  *maps.Client
	country string
}

type GoogleMapsOption func(*googleMapsSettings)

type googleMapsSettings struct {
	httpClient *http.Client
	baseURL    string
	country    string
}

func WithGoogleHTTPClient(c *http.Client) GoogleMapsOption {
	return func(s *googleMapsSettings) { s.httpClient = c }
}

// WithGoogleBaseURL points the client at another host. Used by tests.
func WithGoogleBaseURL(baseURL string) GoogleMapsOption {
	return func(s *googleMapsSettings) { s.baseURL = baseURL }
}

func WithGoogleCountry(country string) GoogleMapsOption {
	return func(s *googleMapsSettings) { s.country = country }
}

func NewGoogleMapsProvider(apiKey string, opts ...GoogleMapsOption) (*GoogleMapsProvider, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	settings := &googleMapsSettings{country: "US"}
	for _, opt := range opts {
		opt(settings)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if settings.httpClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(settings.httpClient))
	}
	if settings.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(settings.baseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client:  client,
		country: settings.country,
	}, nil
}

func (g *GoogleMapsProvider) Name() string {
	return "google"
}

func (g *GoogleMapsProvider) GeocodePostalCode(ctx context.Context, postalCode string) (*GeocodeResult, error) {
	req := &maps.GeocodingRequest{
		Address: postalCode,
		Components: map[maps.Component]string{
			maps.ComponentPostalCode: postalCode,
			maps.ComponentCountry:    g.country,
		},
	}

	resp, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, classifyGoogleError("geocoding failed", err)
	}
	if len(resp) == 0 {
		return nil, ErrNoResults
	}

	first := resp[0]
	result := &GeocodeResult{
		Address: first.FormattedAddress,
		Coordinates: Location{
			Latitude:  first.Geometry.Location.Lat,
			Longitude: first.Geometry.Location.Lng,
		},
	}
	for _, component := range first.AddressComponents {
		for _, t := range component.Types {
			if t == "postal_code" {
				result.PostalCode = component.ShortName
			}
		}
	}

	return result, nil
}

func (g *GoogleMapsProvider) NearbySearch(ctx context.Context, request *NearbySearchRequest) (*NearbySearchResponse, error) {
	// the page token is forwarded exactly as the previous page returned it
	req := &maps.NearbySearchRequest{
		Location:  &maps.LatLng{Lat: request.Location.Latitude, Lng: request.Location.Longitude},
		Radius:    uint(request.RadiusM),
		Type:      maps.PlaceType(request.Type),
		Keyword:   request.Keyword,
		PageToken: request.PageToken,
	}

	resp, err := g.client.NearbySearch(ctx, req)
	if err != nil {
		if isZeroResults(err) {
			return &NearbySearchResponse{}, nil
		}
		return nil, classifyGoogleError("nearby search failed", err)
	}

	results := make([]PlaceResult, len(resp.Results))
	for i, r := range resp.Results {
		photos := make([]string, 0, len(r.Photos))
		for _, p := range r.Photos {
			if p.PhotoReference != "" {
				photos = append(photos, p.PhotoReference)
			}
		}

		results[i] = PlaceResult{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Vicinity:         r.Vicinity,
			FormattedAddress: r.FormattedAddress,
			Location: Location{
				Latitude:  r.Geometry.Location.Lat,
				Longitude: r.Geometry.Location.Lng,
			},
			Rating:           float64(r.Rating),
			UserRatingsTotal: r.UserRatingsTotal,
			PriceLevel:       r.PriceLevel,
			Types:            r.Types,
			PhotoReferences:  photos,
		}
	}

	return &NearbySearchResponse{
		Results:       results,
		NextPageToken: resp.NextPageToken,
	}, nil
}

func (g *GoogleMapsProvider) GetPlaceContact(ctx context.Context, placeID string) (*PlaceContact, error) {
	req := &maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
			maps.PlaceDetailsFieldMaskWebsite,
		},
	}

	resp, err := g.client.PlaceDetails(ctx, req)
	if err != nil {
		return nil, classifyGoogleError("place details failed", err)
	}

	return &PlaceContact{
		Phone:   resp.FormattedPhoneNumber,
		Website: resp.Website,
	}, nil
}

func isZeroResults(err error) bool {
	return strings.Contains(err.Error(), "ZERO_RESULTS")
}

// classifyGoogleError maps the client's status strings onto package errors.
func classifyGoogleError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ZERO_RESULTS"):
		return ErrNoResults
	case strings.Contains(msg, "OVER_QUERY_LIMIT"), strings.Contains(msg, "OVER_DAILY_LIMIT"):
		return fmt.Errorf("%s: %w: %v", op, ErrOverQueryLimit, err)
	case strings.Contains(msg, "REQUEST_DENIED"):
		return fmt.Errorf("%s: %w: %v", op, ErrNotConfigured, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
