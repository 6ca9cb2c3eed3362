package maps

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoResults means the geocoder answered but knows no such place.
	ErrNoResults = errors.New("maps: no results")
	// ErrNotConfigured means credentials are missing or were rejected.
	ErrNotConfigured = errors.New("maps: provider not configured")
	// ErrOverQueryLimit means the provider throttled the request.
	ErrOverQueryLimit = errors.New("maps: over query limit")
)

// StatusError is a non-2xx answer from an HTTP provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Geocoder resolves a postal code to coordinates.
type Geocoder interface {
	Name() string
	GeocodePostalCode(ctx context.Context, postalCode string) (*GeocodeResult, error)
}

type GeocodeResult struct {
	Address     string   `json:"formatted_address"`
	Coordinates Location `json:"geometry"`
	// PostalCode is the normalized code reported by the provider, if any.
	PostalCode string `json:"postal_code,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlacesClient is a nearby search API with a details lookup.
type PlacesClient interface {
	NearbySearch(ctx context.Context, request *NearbySearchRequest) (*NearbySearchResponse, error)
	GetPlaceContact(ctx context.Context, placeID string) (*PlaceContact, error)
}

type NearbySearchRequest struct {
	Location  Location `json:"location"`
	RadiusM   int      `json:"radius"`
	Type      string   `json:"type"`
	Keyword   string   `json:"keyword,omitempty"`
	PageToken string   `json:"pagetoken,omitempty"`
}

type NearbySearchResponse struct {
	Results       []PlaceResult `json:"results"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

type PlaceResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Vicinity         string   `json:"vicinity"`
	FormattedAddress string   `json:"formatted_address"`
	Location         Location `json:"location"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       int      `json:"price_level"`
	Types            []string `json:"types"`
	PhotoReferences  []string `json:"photo_references"`
	Phone            string   `json:"formatted_phone_number,omitempty"`
	Website          string   `json:"website,omitempty"`
}

type PlaceContact struct {
	Phone   string `json:"formatted_phone_number"`
	Website string `json:"website"`
}
