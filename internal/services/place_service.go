package services

import (
	"context"
	"errors"

	"petcare/internal/apperrors"
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/internal/providers"
	"petcare/internal/repositories/interfaces"
	"petcare/internal/utils"
)

type PlaceService interface {
	GetPlace(ctx context.Context, id string) (*models.Place, error)
	// GetNearby lists stored places close to a stored place, excluding it.
	GetNearby(ctx context.Context, id string) (*models.NearbyResult, error)
}

type placeService struct {
	repo   interfaces.PlaceRepository
	nearby providers.Provider
}

func NewPlaceService(repo interfaces.PlaceRepository) PlaceService {
	return &placeService{
		repo:   repo,
		nearby: providers.NewStoreProvider(repo, ""),
	}
}

func (s *placeService) GetPlace(ctx context.Context, id string) (*models.Place, error) {
	stored, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	place := mappers.FromStoredPlace(stored, nil)
	return &place, nil
}

func (s *placeService) GetNearby(ctx context.Context, id string) (*models.NearbyResult, error) {
	stored, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.Lat == nil || stored.Lng == nil {
		return nil, apperrors.NotFound("place location")
	}

	center := utils.Point{Lat: *stored.Lat, Lng: *stored.Lng}
	result, err := s.nearby.Search(ctx, providers.Request{
		Center:   center,
		RadiusKm: utils.NearbyRadiusKm,
		Take:     utils.NearbyTake + 1,
		Page:     1,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Place, 0, utils.NearbyTake)
	for _, item := range result.Items {
		if item.ID == id {
			continue
		}
		if len(items) == utils.NearbyTake {
			break
		}
		items = append(items, item)
	}
	return &models.NearbyResult{Items: items, Center: center, RadiusKm: utils.NearbyRadiusKm}, nil
}

func (s *placeService) get(ctx context.Context, id string) (*models.StoredPlace, error) {
	if id == "" {
		return nil, apperrors.Client("place id is required")
	}
	if s.repo == nil {
		return nil, apperrors.Unconfigured(providers.NameStore)
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, apperrors.NotFound("place")
		}
		return nil, apperrors.Internal("failed to load place", err)
	}
	return stored, nil
}
