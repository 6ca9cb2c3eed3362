package providers

import (
	"context"
	"errors"
	"fmt"

	"petcare/internal/apperrors"
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/internal/utils"
	"petcare/pkg/petfinder"
)

type OrganizationSearcher interface {
	SearchOrganizations(ctx context.Context, params petfinder.SearchParams) (*petfinder.OrganizationsResponse, error)
}

// PetfinderProvider searches shelter organizations. The ZIP is sent when the
// center came from one, otherwise the coordinates.
type PetfinderProvider struct {
	client OrganizationSearcher
}

func NewPetfinderProvider(client OrganizationSearcher) *PetfinderProvider {
	return &PetfinderProvider{client: client}
}

func (p *PetfinderProvider) Name() string {
	return NamePetfinder
}

func (p *PetfinderProvider) Search(ctx context.Context, req Request) (*Result, error) {
	if p.client == nil {
		return nil, apperrors.Unconfigured(NamePetfinder)
	}

	location := req.Zip
	if location == "" {
		location = fmt.Sprintf("%f,%f", req.Center.Lat, req.Center.Lng)
	}

	resp, err := p.client.SearchOrganizations(ctx, petfinder.SearchParams{
		Location:   location,
		DistanceMi: utils.KmToMiles(req.RadiusKm),
		Limit:      req.Take,
		Page:       req.Page,
	})
	if err != nil {
		return nil, ClassifyPetfinderError(err)
	}

	items := make([]models.Place, 0, len(resp.Organizations))
	for _, org := range resp.Organizations {
		items = append(items, mappers.FromPetfinderOrganization(org))
	}

	result := &Result{Items: items}
	if resp.Pagination.TotalCount > 0 {
		total := resp.Pagination.TotalCount
		result.Total = &total
	}
	return result, nil
}

// ClassifyPetfinderError maps client errors onto the application taxonomy.
func ClassifyPetfinderError(err error) error {
	var rateLimit *petfinder.RateLimitError

	switch {
	case errors.As(err, &rateLimit):
		return apperrors.UpstreamRateLimited(NamePetfinder, rateLimit.RetryAfter)
	case errors.Is(err, petfinder.ErrCredentialsRejected):
		return apperrors.Unconfigured(NamePetfinder)
	case errors.Is(err, petfinder.ErrUnauthorized):
		return apperrors.Upstream(NamePetfinder, "request unauthorized after token refresh", err)
	case errors.Is(err, petfinder.ErrNotFound):
		return apperrors.NotFound("shelter")
	case errors.Is(err, petfinder.ErrInvalidID):
		return apperrors.Client("invalid shelter id")
	default:
		return upstreamError(NamePetfinder, err)
	}
}
