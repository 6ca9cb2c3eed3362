package services

import (
	"context"
	"errors"
	"math"

	"golang.org/x/sync/errgroup"

	"petcare/internal/apperrors"
	"petcare/internal/config"
	"petcare/internal/models"
	"petcare/internal/providers"
	"petcare/internal/search"
	"petcare/pkg/cache"
	"petcare/pkg/logger"
)

type SearchService interface {
	// Search runs a geo search. callerKey identifies the caller for rate
	// limiting; an empty key skips the limiter.
	Search(ctx context.Context, query models.SearchQuery, callerKey string) (*models.SearchResult, error)
}

// SearchPath is the provider set for one place type. External results are
// merged ahead of Store results so they win dedup ties. Store may be nil.
type SearchPath struct {
	External providers.Provider
	Store    providers.Provider
}

type SearchDependencies struct {
	Locations LocationService
	Vet       SearchPath
	Shelter   SearchPath
	// Cache and Limiter are optional.
	Cache   cache.Store
	Limiter RateLimiter
}

type searchService struct {
	locations    LocationService
	vet          SearchPath
	shelter      SearchPath
	cache        cache.Store
	limiter      RateLimiter
	config       *config.SearchConfig
	cacheEnabled bool
	logger       *logger.Logger
}

// NewSearchService builds the orchestrator. Callers pass cacheEnabled false
// outside production.
func NewSearchService(deps SearchDependencies, cfg *config.SearchConfig, cacheEnabled bool, logger *logger.Logger) SearchService {
	return &searchService{
		locations:    deps.Locations,
		vet:          deps.Vet,
		shelter:      deps.Shelter,
		cache:        deps.Cache,
		limiter:      deps.Limiter,
		config:       cfg,
		cacheEnabled: cacheEnabled && deps.Cache != nil,
		logger:       logger,
	}
}

type pathResult struct {
	items         [][]models.Place
	nextPageToken string
	total         *int
}

func (s *searchService) Search(ctx context.Context, query models.SearchQuery, callerKey string) (*models.SearchResult, error) {
	query, err := s.normalize(query)
	if err != nil {
		return nil, err
	}

	if err := s.checkRateLimit(ctx, callerKey); err != nil {
		return nil, err
	}

	cacheKey := query.CacheKey()
	if s.cacheEnabled {
		var cached models.SearchResult
		cacheErr := s.cache.Get(ctx, cacheKey, &cached)
		if cacheErr == nil {
			return &cached, nil
		}
		if !errors.Is(cacheErr, cache.ErrCacheMiss) {
			s.logger.WithError(cacheErr).Warn("search cache read failed")
		}
	}

	resolved, err := s.locations.Resolve(ctx, query.Location)
	if err != nil {
		return nil, err
	}

	req := providers.Request{
		Center:    resolved.Point(),
		RadiusKm:  query.RadiusKm,
		Take:      query.Take,
		Page:      query.Page,
		PageToken: query.PageToken,
		Zip:       resolved.Zip,
	}

	var path *pathResult
	switch query.Type {
	case models.SearchTypeVet:
		path, err = s.runPath(ctx, "vet", s.vet, req)
	case models.SearchTypeShelter:
		path, err = s.runPath(ctx, "shelter", s.shelter, req)
	default:
		path, err = s.runAll(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	result := &models.SearchResult{
		Items: search.Merge(req.Center, query.Sort, query.Take, path.items...),
		Pagination: models.Pagination{
			Take:          query.Take,
			Page:          query.Page,
			Total:         path.total,
			NextPageToken: path.nextPageToken,
		},
		Center:   req.Center,
		RadiusKm: query.RadiusKm,
		Zip:      resolved.Zip,
	}

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, cacheKey, result, s.config.CacheTTL); err != nil {
			s.logger.WithError(err).Warn("search cache write failed")
		}
	}

	return result, nil
}

func (s *searchService) normalize(query models.SearchQuery) (models.SearchQuery, error) {
	if query.Location.IsEmpty() {
		return query, apperrors.Client("Provide zip or lat/lng")
	}
	if query.Type == "" {
		query.Type = models.SearchTypeVet
	}
	if !query.Type.Valid() {
		return query, apperrors.Client("Unsupported type " + string(query.Type))
	}
	if query.Sort == "" {
		query.Sort = models.SortDistance
	}
	if !query.Sort.Valid() {
		return query, apperrors.Client("Unsupported sort " + string(query.Sort))
	}

	switch {
	case query.RadiusKm <= 0 || math.IsNaN(query.RadiusKm):
		query.RadiusKm = s.config.DefaultRadiusKm
	case query.RadiusKm > s.config.MaxRadiusKm:
		query.RadiusKm = s.config.MaxRadiusKm
	}
	if query.Take <= 0 {
		query.Take = s.config.DefaultTake
	}
	if query.Take > s.config.MaxTake {
		query.Take = s.config.MaxTake
	}
	if query.Page < 1 {
		query.Page = 1
	}

	return query, nil
}

// checkRateLimit fails open: a broken limiter backend never blocks searches.
func (s *searchService) checkRateLimit(ctx context.Context, callerKey string) error {
	if s.limiter == nil || callerKey == "" {
		return nil
	}

	result, err := s.limiter.CheckRateLimit(ctx, callerKey)
	if err != nil {
		s.logger.WithError(err).Warn("rate limiter unavailable")
		return nil
	}
	if !result.Allowed {
		return apperrors.RateLimited(result.RetryAfter)
	}
	return nil
}

// runAll searches both paths against the same center. One failed path
// degrades to no items; the request fails only when both do.
func (s *searchService) runAll(ctx context.Context, req providers.Request) (*pathResult, error) {
	var (
		g                  errgroup.Group
		vet, shelter       *pathResult
		vetErr, shelterErr error
	)

	g.Go(func() error {
		vet, vetErr = s.runPath(ctx, "vet", s.vet, req)
		return nil
	})
	g.Go(func() error {
		shelter, shelterErr = s.runPath(ctx, "shelter", s.shelter, req)
		return nil
	})
	g.Wait()

	switch {
	case vetErr != nil && shelterErr != nil:
		return nil, vetErr
	case vetErr != nil:
		s.logger.WithError(vetErr).Warn("vet search failed, returning shelters only")
		return shelter, nil
	case shelterErr != nil:
		s.logger.WithError(shelterErr).Warn("shelter search failed, returning vets only")
		return vet, nil
	}

	return &pathResult{
		items:         append(vet.items, shelter.items...),
		nextPageToken: vet.nextPageToken,
		total:         sumTotals(vet.total, shelter.total),
	}, nil
}

func (s *searchService) runPath(ctx context.Context, name string, path SearchPath, req providers.Request) (*pathResult, error) {
	var (
		g                     errgroup.Group
		external, stored      *providers.Result
		externalErr, storeErr error
	)

	if path.External != nil {
		g.Go(func() error {
			external, externalErr = path.External.Search(ctx, req)
			return nil
		})
	} else {
		externalErr = apperrors.Unconfigured(name)
	}
	if path.Store != nil {
		g.Go(func() error {
			stored, storeErr = path.Store.Search(ctx, req)
			return nil
		})
	}
	g.Wait()

	log := s.logger.WithField("path", name)
	if storeErr != nil {
		log.WithError(storeErr).Warn("store search failed")
		stored = nil
	}

	if externalErr != nil {
		// the store stands in only when no external provider is configured
		if stored != nil && apperrors.IsKind(externalErr, apperrors.KindProviderUnconfigured) {
			log.Debug("no external provider configured, using store results")
			return &pathResult{items: [][]models.Place{stored.Items}, total: stored.Total}, nil
		}
		return nil, externalErr
	}

	result := &pathResult{
		items:         [][]models.Place{external.Items},
		nextPageToken: external.NextPageToken,
		total:         external.Total,
	}
	if stored != nil {
		result.items = append(result.items, stored.Items)
		result.total = sumTotals(external.Total, stored.Total)
	}
	return result, nil
}

// sumTotals adds the known totals; nil when none is known.
func sumTotals(totals ...*int) *int {
	var (
		sum   int
		known bool
	)
	for _, t := range totals {
		if t != nil {
			sum += *t
			known = true
		}
	}
	if !known {
		return nil
	}
	return &sum
}
