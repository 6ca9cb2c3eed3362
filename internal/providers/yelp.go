package providers

import (
	"context"
	"errors"

	"petcare/internal/apperrors"
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/pkg/yelp"
)

type BusinessSearcher interface {
	SearchBusinesses(ctx context.Context, params yelp.SearchParams) (*yelp.SearchResponse, error)
}

type YelpProvider struct {
	client BusinessSearcher
}

func NewYelpProvider(client BusinessSearcher) *YelpProvider {
	return &YelpProvider{client: client}
}

func (p *YelpProvider) Name() string {
	return NameYelp
}

func (p *YelpProvider) Search(ctx context.Context, req Request) (*Result, error) {
	if p.client == nil {
		return nil, apperrors.Unconfigured(NameYelp)
	}

	resp, err := p.client.SearchBusinesses(ctx, yelp.SearchParams{
		Latitude:  req.Center.Lat,
		Longitude: req.Center.Lng,
		RadiusKm:  req.RadiusKm,
		Limit:     req.Take,
		Page:      req.Page,
	})
	if err != nil {
		return nil, classifyYelpError(err)
	}

	center := req.Center
	items := make([]models.Place, 0, len(resp.Businesses))
	for _, biz := range resp.Businesses {
		items = append(items, mappers.FromYelpBusiness(biz, &center))
	}

	total := resp.Total
	return &Result{Items: items, Total: &total}, nil
}

func classifyYelpError(err error) error {
	var rateLimit *yelp.RateLimitError

	switch {
	case errors.As(err, &rateLimit):
		return apperrors.UpstreamRateLimited(NameYelp, rateLimit.RetryAfter)
	case errors.Is(err, yelp.ErrNotConfigured), errors.Is(err, yelp.ErrUnauthorized):
		return apperrors.Unconfigured(NameYelp)
	default:
		return upstreamError(NameYelp, err)
	}
}
