package providers

import (
	"context"

	"petcare/internal/apperrors"
	"petcare/internal/mappers"
	"petcare/internal/models"
	"petcare/internal/repositories/interfaces"
	"petcare/internal/search"
	"petcare/internal/utils"
)

// StoreProvider searches the internal places table with a bounding-box
// prefilter and an exact distance postfilter.
type StoreProvider struct {
	repo      interfaces.PlaceRepository
	placeType models.PlaceType
}

func NewStoreProvider(repo interfaces.PlaceRepository, placeType models.PlaceType) *StoreProvider {
	return &StoreProvider{repo: repo, placeType: placeType}
}

func (p *StoreProvider) Name() string {
	return NameStore
}

func (p *StoreProvider) Search(ctx context.Context, req Request) (*Result, error) {
	if p.repo == nil {
		return nil, apperrors.Unconfigured(NameStore)
	}

	box := utils.NewBoundingBox(req.Center, req.RadiusKm)
	rows, err := p.repo.FindInBoundingBox(ctx, box, p.placeType)
	if err != nil {
		return nil, apperrors.Upstream(NameStore, "places query failed", err)
	}

	center := req.Center
	items := make([]models.Place, 0, len(rows))
	for _, row := range rows {
		place := mappers.FromStoredPlace(row, &center)
		if place.DistanceKm == nil || *place.DistanceKm > req.RadiusKm {
			continue
		}
		items = append(items, place)
	}

	search.Sort(items, models.SortDistance)
	total := len(items)

	start := utils.ClampInt(req.offset(), 0, len(items))
	end := len(items)
	if req.Take > 0 && start+req.Take < end {
		end = start + req.Take
	}

	return &Result{Items: items[start:end], Total: &total}, nil
}
