package providers

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"petcare/internal/apperrors"
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/internal/utils"
	"petcare/pkg/logger"
	"petcare/pkg/maps"
)

const (
	googleVetType        = "veterinary_care"
	googleShelterKeyword = "animal shelter"
)

type GoogleConfig struct {
	PlaceType       models.PlaceType
	MaxRadiusM      int
	EnrichmentLimit int
	Timeout         time.Duration
}

// GoogleProvider runs a nearby search and fetches contact details for the
// first EnrichmentLimit results.
type GoogleProvider struct {
	client maps.PlacesClient
	config GoogleConfig
	logger *logger.Logger
}

// NewGoogleProvider accepts a nil client; searches then report the provider
// as unconfigured.
func NewGoogleProvider(client maps.PlacesClient, config GoogleConfig, log *logger.Logger) *GoogleProvider {
	if config.PlaceType == "" {
		config.PlaceType = models.PlaceTypeVet
	}
	if config.MaxRadiusM <= 0 {
		config.MaxRadiusM = 50000
	}
	return &GoogleProvider{client: client, config: config, logger: log}
}

func (p *GoogleProvider) Name() string {
	return NameGoogle
}

func (p *GoogleProvider) Search(ctx context.Context, req Request) (*Result, error) {
	if p.client == nil {
		return nil, apperrors.Unconfigured(NameGoogle)
	}

	request := &maps.NearbySearchRequest{
		Location:  maps.Location{Latitude: req.Center.Lat, Longitude: req.Center.Lng},
		RadiusM:   utils.ClampInt(utils.KmToMeters(req.RadiusKm), 1, p.config.MaxRadiusM),
		PageToken: req.PageToken,
	}
	if p.config.PlaceType == models.PlaceTypeShelter {
		request.Keyword = googleShelterKeyword
	} else {
		request.Type = googleVetType
	}

	searchCtx, cancel := withTimeout(ctx, p.config.Timeout)
	resp, err := p.client.NearbySearch(searchCtx, request)
	cancel()
	if err != nil {
		return nil, classifyGoogleError(err)
	}

	results := resp.Results
	if req.Take > 0 && len(results) > req.Take {
		results = results[:req.Take]
	}
	p.enrich(ctx, results)

	center := req.Center
	items := make([]models.Place, 0, len(results))
	for _, r := range results {
		place := mappers.FromGooglePlace(r, &center, req.Zip)
		place.Type = p.config.PlaceType
		items = append(items, place)
	}

	return &Result{Items: items, NextPageToken: resp.NextPageToken}, nil
}

// enrich fills phone and website in place. A failed lookup leaves its item
// untouched and never fails the batch.
func (p *GoogleProvider) enrich(ctx context.Context, results []maps.PlaceResult) {
	limit := p.config.EnrichmentLimit
	if limit > len(results) {
		limit = len(results)
	}
	if limit <= 0 {
		return
	}

	var g errgroup.Group
	for i := 0; i < limit; i++ {
		i := i // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loopvar semantics)
		g.Go(func() error {
			detailsCtx, cancel := withTimeout(ctx, p.config.Timeout)
			defer cancel()

			contact, err := p.client.GetPlaceContact(detailsCtx, results[i].PlaceID)
			if err != nil {
				p.logger.WithError(err).WithField("place_id", results[i].PlaceID).Debug("place details lookup failed")
				return nil
			}
			if contact.Phone != "" {
				results[i].Phone = contact.Phone
			}
			if contact.Website != "" {
				results[i].Website = contact.Website
			}
			return nil
		})
	}
	g.Wait()
}

func classifyGoogleError(err error) error {
	switch {
	case errors.Is(err, maps.ErrNotConfigured):
		return apperrors.Unconfigured(NameGoogle)
	case errors.Is(err, maps.ErrOverQueryLimit):
		return apperrors.UpstreamRateLimited(NameGoogle, 0)
	default:
		return upstreamError(NameGoogle, err)
	}
}
