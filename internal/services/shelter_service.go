package services

import (
	"context"
	"time"

	"petcare/internal/apperrors"
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/internal/providers"
	"petcare/pkg/logger"
	"petcare/pkg/petfinder"
)

type OrganizationGetter interface {
	GetOrganization(ctx context.Context, id string) (*petfinder.Organization, error)
}

type ShelterService interface {
	GetShelter(ctx context.Context, id string) (*models.Place, error)
}

type shelterService struct {
	client OrganizationGetter
	logger *logger.Logger
}

// NewShelterService accepts a nil client when Petfinder is not configured.
func NewShelterService(client OrganizationGetter, logger *logger.Logger) ShelterService {
	return &shelterService{client: client, logger: logger}
}

func (s *shelterService) GetShelter(ctx context.Context, id string) (*models.Place, error) {
	if s.client == nil {
		return nil, apperrors.Unconfigured(providers.NamePetfinder)
	}

	start := time.Now()
	org, err := s.client.GetOrganization(ctx, id)
	s.logger.LogProviderCall(providers.NamePetfinder, "get_organization", time.Since(start), err)
	if err != nil {
		return nil, providers.ClassifyPetfinderError(err)
	}

	place := mappers.FromPetfinderOrganization(*org)
	return &place, nil
}
