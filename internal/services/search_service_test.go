package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"petcare/internal/apperrors"
	"petcare/internal/config"
	"petcare/internal/models"
	"petcare/internal/providers"
	"petcare/pkg/cache"
	"petcare/pkg/logger"
	"petcare/pkg/maps"
	"petcare/pkg/petfinder"
)

func testSearchConfig() *config.SearchConfig {
	return &config.SearchConfig{
		DefaultRadiusKm: 10,
		MaxRadiusKm:     50,
		DefaultTake:     20,
		MaxTake:         50,
		CacheTTL:        time.Minute,
	}
}

type stubProvider struct {
	name   string
	result *providers.Result
	err    error
	calls  int32
	last   atomic.Value
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(_ context.Context, req providers.Request) (*providers.Result, error) {
	atomic.AddInt32(&s.calls, 1)
	s.last.Store(req)
	return s.result, s.err
}

func (s *stubProvider) request() providers.Request {
	req, _ := s.last.Load().(providers.Request)
	return req
}

func placeAt(id string, km float64) models.Place {
	return models.Place{ID: id, Name: id, Type: models.PlaceTypeVet, DistanceKm: &km, Source: models.SourceGoogle}
}

func coordsQuery(t models.SearchType) models.SearchQuery {
	return models.SearchQuery{Location: models.CoordsLocation(47.6062, -122.3321), Type: t, RadiusKm: 5}
}

func newTestSearchService(deps SearchDependencies, cacheEnabled bool) SearchService {
	if deps.Locations == nil {
		deps.Locations = NewLocationService(nil, nil, time.Second, logger.NewNop())
	}
	return NewSearchService(deps, testSearchConfig(), cacheEnabled, logger.NewNop())
}

type fakePlacesClient struct {
	results  []maps.PlaceResult
	contacts map[string]*maps.PlaceContact
}

func (f *fakePlacesClient) NearbySearch(context.Context, *maps.NearbySearchRequest) (*maps.NearbySearchResponse, error) {
	return &maps.NearbySearchResponse{Results: f.results}, nil
}

func (f *fakePlacesClient) GetPlaceContact(_ context.Context, placeID string) (*maps.PlaceContact, error) {
	if c, ok := f.contacts[placeID]; ok {
		return c, nil
	}
	return nil, errors.New("details unavailable")
}

func TestSearchVetByZip(t *testing.T) {
	geocoder := &fakeGeocoder{name: "google", result: &maps.GeocodeResult{
		Coordinates: maps.Location{Latitude: 47.6101, Longitude: -122.3344},
		PostalCode:  "98101",
	}}
	places := &fakePlacesClient{
		results: []maps.PlaceResult{
			{PlaceID: "far", Name: "Far Vet", Location: maps.Location{Latitude: 47.64, Longitude: -122.33}},
			{PlaceID: "near", Name: "Near Vet", Location: maps.Location{Latitude: 47.611, Longitude: -122.335}},
		},
		contacts: map[string]*maps.PlaceContact{"near": {Phone: "(206) 555-0123", Website: "nearvet.example"}},
	}
	log := logger.NewNop()
	vet := providers.NewChain("vet", log, providers.Step{Provider: providers.NewGoogleProvider(places, providers.GoogleConfig{EnrichmentLimit: 8}, log)})

	svc := newTestSearchService(SearchDependencies{
		Locations: NewLocationService(nil, []maps.Geocoder{geocoder}, time.Second, log),
		Vet:       SearchPath{External: vet},
	}, false)

	result, err := svc.Search(context.Background(), models.SearchQuery{
		Location: models.ZipLocation("98101"), Type: models.SearchTypeVet, RadiusKm: 10, Take: 20, Page: 1,
	}, "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(result.Items) != 2 || result.Items[0].ID != "google:near" || result.Items[1].ID != "google:far" {
		t.Fatalf("items = %+v", result.Items)
	}
	if result.Items[0].Phone == nil || result.Items[1].Phone != nil {
		t.Errorf("enrichment: near=%v far=%v", result.Items[0].Phone, result.Items[1].Phone)
	}
	if result.Center.Lat != 47.6101 || result.Center.Lng != -122.3344 || result.Zip != "98101" {
		t.Errorf("center = %+v zip %q", result.Center, result.Zip)
	}
	if result.Pagination.Take != 20 || result.Pagination.Page != 1 || result.RadiusKm != 10 {
		t.Errorf("pagination = %+v radius %v", result.Pagination, result.RadiusKm)
	}
}

func TestSearchShelterRefreshesTokenOnce(t *testing.T) {
	var tokenRequests, apiRequests int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&tokenRequests, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"token_type":"Bearer","expires_in":3600,"access_token":"token-%d"}`, n)
	})
	mux.HandleFunc("/organizations", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&apiRequests, 1) == 1 || r.Header.Get("Authorization") != "Bearer token-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"organizations":[{"id":"WA01","name":"Seattle Humane","distance":2.5}],
			"pagination":{"total_count":1}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	tokens := petfinder.NewTokenStore("id", "secret", server.URL+"/oauth2/token", cache.NewMemoryStore(), server.Client())
	client := petfinder.NewClient(petfinder.Config{BaseURL: server.URL, MaxDistanceMi: 100, MaxLimit: 100, Timeout: time.Second}, tokens)
	shelter := providers.NewChain("shelter", logger.NewNop(), providers.Step{Provider: providers.NewPetfinderProvider(client)})

	svc := newTestSearchService(SearchDependencies{Shelter: SearchPath{External: shelter}}, false)

	result, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeShelter), "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "petfinder:WA01" {
		t.Fatalf("items = %+v", result.Items)
	}
	if apiRequests != 2 || tokenRequests != 2 {
		t.Errorf("api requests = %d, token requests = %d", apiRequests, tokenRequests)
	}

	token, err := tokens.Token(context.Background())
	if err != nil || token != "token-2" {
		t.Errorf("cached token = %q, %v", token, err)
	}
	if tokenRequests != 2 {
		t.Errorf("cached token was not reused")
	}
}

func TestSearchAllPartialFailure(t *testing.T) {
	vet := &stubProvider{name: "vet", result: &providers.Result{Items: []models.Place{
		placeAt("c", 3), placeAt("a", 1), placeAt("b", 2),
	}}}
	shelter := &stubProvider{name: "shelter", err: apperrors.Upstream("petfinder", "request timed out", context.DeadlineExceeded)}

	svc := newTestSearchService(SearchDependencies{
		Vet:     SearchPath{External: vet},
		Shelter: SearchPath{External: shelter},
	}, false)

	result, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeAll), "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Items) != 3 || result.Items[0].ID != "a" || result.Items[1].ID != "b" || result.Items[2].ID != "c" {
		t.Errorf("items = %+v", result.Items)
	}
	if vet.request().Center != shelter.request().Center {
		t.Errorf("paths used different centers")
	}
}

func TestSearchAllBothFail(t *testing.T) {
	svc := newTestSearchService(SearchDependencies{
		Vet:     SearchPath{External: &stubProvider{name: "vet", err: apperrors.Upstream("google", "down", nil)}},
		Shelter: SearchPath{External: &stubProvider{name: "shelter", err: apperrors.Upstream("petfinder", "down", nil)}},
	}, false)

	_, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeAll), "")
	if !apperrors.IsKind(err, apperrors.KindUpstreamUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestSearchSingleProviderFailureSurfaces(t *testing.T) {
	svc := newTestSearchService(SearchDependencies{
		Vet: SearchPath{External: &stubProvider{name: "vet", err: apperrors.UpstreamRateLimited("google", 3*time.Second)}},
	}, false)

	_, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeVet), "")
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind != apperrors.KindUpstreamRateLimited || appErr.RetryAfter != 3*time.Second {
		t.Errorf("err = %v", err)
	}

	svc = newTestSearchService(SearchDependencies{}, false)
	if _, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeShelter), ""); !apperrors.IsKind(err, apperrors.KindProviderUnconfigured) {
		t.Errorf("no providers err = %v", err)
	}
}

func TestSearchStorePath(t *testing.T) {
	store := &stubProvider{name: "store", result: &providers.Result{Items: []models.Place{placeAt("db-1", 0.5)}}}

	svc := newTestSearchService(SearchDependencies{
		Vet: SearchPath{External: &stubProvider{name: "vet", err: apperrors.Unconfigured("google")}, Store: store},
	}, false)
	result, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeVet), "")
	if err != nil || len(result.Items) != 1 || result.Items[0].ID != "db-1" {
		t.Fatalf("store-only result = %+v, %v", result, err)
	}

	total := 4
	external := &stubProvider{name: "vet", result: &providers.Result{Items: []models.Place{placeAt("g-1", 2)}, Total: &total}}
	broken := &stubProvider{name: "store", err: apperrors.Upstream("store", "db down", nil)}
	svc = newTestSearchService(SearchDependencies{Vet: SearchPath{External: external, Store: broken}}, false)

	result, err = svc.Search(context.Background(), coordsQuery(models.SearchTypeVet), "")
	if err != nil || len(result.Items) != 1 || result.Pagination.Total == nil || *result.Pagination.Total != 4 {
		t.Fatalf("store failure should be ignored: %+v, %v", result, err)
	}
}

func TestSearchCache(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		t.Run(fmt.Sprintf("enabled=%v", enabled), func(t *testing.T) {
			vet := &stubProvider{name: "vet", result: &providers.Result{Items: []models.Place{placeAt("a", 1)}}}
			svc := newTestSearchService(SearchDependencies{
				Vet:   SearchPath{External: vet},
				Cache: cache.NewMemoryStore(),
			}, enabled)

			for i := 0; i < 2; i++ {
				result, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeVet), "")
				if err != nil || len(result.Items) != 1 || result.Items[0].ID != "a" {
					t.Fatalf("Search %d = %+v, %v", i, result, err)
				}
			}

			want := int32(2)
			if enabled {
				want = 1
			}
			if vet.calls != want {
				t.Errorf("provider calls = %d, want %d", vet.calls, want)
			}
		})
	}
}

type fakeLimiter struct {
	result *RateLimitResult
	err    error
	keys   []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string) (*RateLimitResult, error) {
	f.keys = append(f.keys, key)
	return f.result, f.err
}

func TestSearchRateLimit(t *testing.T) {
	vet := &stubProvider{name: "vet", result: &providers.Result{}}

	limiter := &fakeLimiter{result: &RateLimitResult{Allowed: false, RetryAfter: 90 * time.Second}}
	svc := newTestSearchService(SearchDependencies{Vet: SearchPath{External: vet}, Limiter: limiter}, false)

	_, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeVet), "user:42")
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind != apperrors.KindRateLimited || appErr.RetryAfter != 90*time.Second {
		t.Fatalf("err = %v", err)
	}
	if vet.calls != 0 || len(limiter.keys) != 1 || limiter.keys[0] != "user:42" {
		t.Errorf("calls = %d keys = %v", vet.calls, limiter.keys)
	}

	broken := &fakeLimiter{err: errors.New("redis down")}
	svc = newTestSearchService(SearchDependencies{Vet: SearchPath{External: vet}, Limiter: broken}, false)
	if _, err := svc.Search(context.Background(), coordsQuery(models.SearchTypeVet), "ip:1.2.3.4"); err != nil {
		t.Errorf("limiter failure should fail open, got %v", err)
	}
}

func TestSearchValidation(t *testing.T) {
	vet := &stubProvider{name: "vet", result: &providers.Result{}}
	svc := newTestSearchService(SearchDependencies{Vet: SearchPath{External: vet}}, false)

	tests := []struct {
		name  string
		query models.SearchQuery
	}{
		{"no location", models.SearchQuery{Type: models.SearchTypeVet}},
		{"bad type", models.SearchQuery{Location: models.ZipLocation("98101"), Type: "groomer"}},
		{"bad sort", models.SearchQuery{Location: models.ZipLocation("98101"), Sort: "name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Search(context.Background(), tt.query, ""); !apperrors.IsKind(err, apperrors.KindClient) {
				t.Errorf("err = %v, want client error", err)
			}
		})
	}
	if vet.calls != 0 {
		t.Errorf("providers called for invalid queries")
	}

	query := coordsQuery(models.SearchTypeVet)
	query.RadiusKm, query.Take, query.Page = 500, 1000, -3
	result, err := svc.Search(context.Background(), query, "")
	if err != nil {
		t.Fatal(err)
	}
	if result.RadiusKm != 50 || result.Pagination.Take != 50 || result.Pagination.Page != 1 {
		t.Errorf("clamping = radius %v take %d page %d", result.RadiusKm, result.Pagination.Take, result.Pagination.Page)
	}
	if req := vet.request(); req.RadiusKm != 50 || req.Take != 50 {
		t.Errorf("provider request = %+v", req)
	}
}
