package services

import (
	"context"
	"errors"
	"time"

	"petcare/internal/apperrors"
	"petcare/internal/models"
	"petcare/internal/repositories/interfaces"
	"petcare/pkg/logger"
	"petcare/pkg/maps"
)

const geocodingProvider = "geocoding"

type LocationService interface {
	Resolve(ctx context.Context, location models.SearchLocation) (*models.ResolvedLocation, error)
}

type locationService struct {
	zipCodes  interfaces.ZipCodeRepository
	geocoders []maps.Geocoder
	timeout   time.Duration
	logger    *logger.Logger
}

// NewLocationService resolves ZIP codes through geocoders in order. zipCodes
// may be nil to disable the centroid cache.
func NewLocationService(zipCodes interfaces.ZipCodeRepository, geocoders []maps.Geocoder, timeout time.Duration, logger *logger.Logger) LocationService {
	return &locationService{
		zipCodes:  zipCodes,
		geocoders: geocoders,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *locationService) Resolve(ctx context.Context, location models.SearchLocation) (*models.ResolvedLocation, error) {
	if location.HasCoords() {
		return &models.ResolvedLocation{Lat: location.Coords.Lat, Lng: location.Coords.Lng}, nil
	}
	if !location.HasZip() {
		return nil, apperrors.Client("Provide zip or lat/lng")
	}

	zip := location.Zip
	if cached := s.cached(ctx, zip); cached != nil {
		return cached, nil
	}

	var (
		noResults   bool
		upstreamErr error
	)

	for _, geocoder := range s.geocoders {
		result, err := s.geocode(ctx, geocoder, zip)
		if err == nil {
			resolved := &models.ResolvedLocation{
				Lat: result.Coordinates.Latitude,
				Lng: result.Coordinates.Longitude,
				Zip: zip,
			}
			if result.PostalCode != "" {
				resolved.Zip = result.PostalCode
			}
			s.store(ctx, zip, resolved, geocoder.Name())
			return resolved, nil
		}

		switch {
		case errors.Is(err, maps.ErrNoResults):
			noResults = true
		case errors.Is(err, maps.ErrNotConfigured):
			// skipped
		default:
			upstreamErr = err
		}
	}

	switch {
	case noResults:
		return nil, apperrors.BadLocation("Unknown zip code", upstreamErr)
	case upstreamErr != nil:
		return nil, apperrors.Upstream(geocodingProvider, "zip code lookup failed", upstreamErr)
	default:
		return nil, apperrors.Unconfigured(geocodingProvider)
	}
}

func (s *locationService) geocode(ctx context.Context, geocoder maps.Geocoder, zip string) (*maps.GeocodeResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := geocoder.GeocodePostalCode(ctx, zip)
	s.logger.LogProviderCall(geocoder.Name(), "geocode", time.Since(start), err)
	return result, err
}

// cached never fails the lookup; cache errors only log.
func (s *locationService) cached(ctx context.Context, zip string) *models.ResolvedLocation {
	if s.zipCodes == nil {
		return nil
	}

	zipCode, err := s.zipCodes.GetByZip(ctx, zip)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.WithError(err).WithField("zip", zip).Warn("zip code cache read failed")
		}
		return nil
	}

	return &models.ResolvedLocation{
		Lat: zipCode.Location.Latitude(),
		Lng: zipCode.Location.Longitude(),
		Zip: zipCode.Zip,
	}
}

func (s *locationService) store(ctx context.Context, zip string, resolved *models.ResolvedLocation, source string) {
	if s.zipCodes == nil {
		return
	}

	zipCode := &models.ZipCode{
		Zip:      zip,
		Location: models.NewGeoPoint(resolved.Lat, resolved.Lng),
		Source:   source,
	}
	if err := s.zipCodes.Upsert(ctx, zipCode); err != nil {
		s.logger.WithError(err).WithField("zip", zip).Warn("zip code cache write failed")
	}
}
