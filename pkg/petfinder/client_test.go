package petfinder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"petcare/pkg/cache"
)

// fakePetfinder serves the token endpoint and the organizations API.
type fakePetfinder struct {
	server        *httptest.Server
	tokenRequests int32
	apiRequests   int32
	// rejectFirst makes the first API call answer 401 regardless of token.
	rejectFirst bool
	orgStatus   int
	retryAfter  string
	lastQuery   atomic.Value
}

func newFakePetfinder(t *testing.T) *fakePetfinder {
	t.Helper()
	f := &fakePetfinder{orgStatus: http.StatusOK}
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&f.tokenRequests, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" || r.PostForm.Get("client_id") != "id" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error":"invalid_client"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"token_type":"Bearer","expires_in":3600,"access_token":"token-%d"}`, n)
	})

	mux.HandleFunc("/organizations", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&f.apiRequests, 1)
		f.lastQuery.Store(r.URL.RawQuery)
		if f.rejectFirst && n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.orgStatus == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", f.retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if f.orgStatus != http.StatusOK {
			w.WriteHeader(f.orgStatus)
			return
		}
		if r.Header.Get("Authorization") == "" {
			t.Errorf("missing Authorization header")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"organizations":[{"id":"WA01","name":"Seattle Humane","phone":"(425) 641-0080",
			"address":{"address1":"13212 SE Eastgate Way","city":"Bellevue","state":"WA","postcode":"98005"},
			"website":"seattlehumane.org/","distance":3.2}],
			"pagination":{"count_per_page":20,"total_count":1,"current_page":1,"total_pages":1}}`)
	})

	mux.HandleFunc("/organizations/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.apiRequests, 1)
		if r.URL.Path != "/organizations/WA01" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"organization":{"id":"WA01","name":"Seattle Humane"}}`)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakePetfinder) client(store cache.Store) (*Client, *TokenStore) {
	tokens := NewTokenStore("id", "secret", f.server.URL+"/oauth2/token", store, f.server.Client())
	return NewClient(Config{BaseURL: f.server.URL, Timeout: time.Second}, tokens), tokens
}

func TestTokenStoreCachesUntilNearExpiry(t *testing.T) {
	f := newFakePetfinder(t)
	store := cache.NewMemoryStore()
	_, tokens := f.client(store)

	now := time.Now()
	tokens.now = func() time.Time { return now }

	ctx := context.Background()
	first, err := tokens.Token(ctx)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	second, _ := tokens.Token(ctx)
	if first != second || atomic.LoadInt32(&f.tokenRequests) != 1 {
		t.Fatalf("token not reused: %q %q (%d requests)", first, second, f.tokenRequests)
	}

	// inside the refresh margin the cached token is replaced
	now = now.Add(3600*time.Second - 30*time.Second)
	third, _ := tokens.Token(ctx)
	if third == first || atomic.LoadInt32(&f.tokenRequests) != 2 {
		t.Errorf("token not refreshed near expiry: %q (%d requests)", third, f.tokenRequests)
	}
}

func TestTokenStoreRejectedCredentials(t *testing.T) {
	f := newFakePetfinder(t)
	tokens := NewTokenStore("wrong", "secret", f.server.URL+"/oauth2/token", cache.NewMemoryStore(), f.server.Client())

	if _, err := tokens.Token(context.Background()); !errors.Is(err, ErrCredentialsRejected) {
		t.Errorf("error = %v, want ErrCredentialsRejected", err)
	}
}

func TestSearchRefreshesTokenOnceOn401(t *testing.T) {
	f := newFakePetfinder(t)
	f.rejectFirst = true
	store := cache.NewMemoryStore()
	client, _ := f.client(store)

	resp, err := client.SearchOrganizations(context.Background(), SearchParams{Location: "47.6062,-122.3321", DistanceMi: 3.1, Limit: 20})
	if err != nil {
		t.Fatalf("SearchOrganizations: %v", err)
	}
	if len(resp.Organizations) != 1 || resp.Organizations[0].ID != "WA01" {
		t.Fatalf("organizations = %+v", resp.Organizations)
	}
	if got := atomic.LoadInt32(&f.tokenRequests); got != 2 {
		t.Errorf("token requests = %d, want 2", got)
	}
	if got := atomic.LoadInt32(&f.apiRequests); got != 2 {
		t.Errorf("api requests = %d, want 2", got)
	}

	var cached cachedToken
	if err := store.Get(context.Background(), tokenCacheKey, &cached); err != nil || cached.AccessToken != "token-2" {
		t.Errorf("cached token = %+v, %v; want token-2", cached, err)
	}
}

func TestSearchUnauthorizedAfterRefresh(t *testing.T) {
	f := newFakePetfinder(t)
	f.orgStatus = http.StatusUnauthorized
	client, _ := f.client(cache.NewMemoryStore())

	_, err := client.SearchOrganizations(context.Background(), SearchParams{Location: "98101", DistanceMi: 5})
	if !errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrCredentialsRejected) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if got := atomic.LoadInt32(&f.apiRequests); got != 2 {
		t.Errorf("api requests = %d, want 2", got)
	}
	if got := atomic.LoadInt32(&f.tokenRequests); got != 2 {
		t.Errorf("token requests = %d, want 2", got)
	}
}

func TestSearchRateLimitedCarriesRetryAfter(t *testing.T) {
	f := newFakePetfinder(t)
	f.orgStatus = http.StatusTooManyRequests
	f.retryAfter = "42"
	client, _ := f.client(cache.NewMemoryStore())

	_, err := client.SearchOrganizations(context.Background(), SearchParams{Location: "98101", DistanceMi: 5})
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("error = %v, want RateLimitError", err)
	}
	if rl.RetryAfter != 42*time.Second {
		t.Errorf("RetryAfter = %v", rl.RetryAfter)
	}
}

func TestSearchServerErrorIsAPIError(t *testing.T) {
	f := newFakePetfinder(t)
	f.orgStatus = http.StatusBadGateway
	client, _ := f.client(cache.NewMemoryStore())

	_, err := client.SearchOrganizations(context.Background(), SearchParams{Location: "98101", DistanceMi: 5})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("error = %v", err)
	}
}

func TestSearchSendsRoundedDistance(t *testing.T) {
	f := newFakePetfinder(t)
	client, _ := f.client(cache.NewMemoryStore())

	if _, err := client.SearchOrganizations(context.Background(), SearchParams{Location: "98101", DistanceMi: 3.1, Limit: 500}); err != nil {
		t.Fatalf("SearchOrganizations: %v", err)
	}
	q, err := url.ParseQuery(f.lastQuery.Load().(string))
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	want := map[string]string{"distance": "3", "limit": "100", "location": "98101", "sort": "distance"}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("%s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestDistanceParam(t *testing.T) {
	c := NewClient(Config{MaxDistanceMi: 100}, nil)
	tests := []struct {
		miles float64
		want  int
	}{
		{0, 1},
		{0.4, 1},
		{2.5, 3},
		{6.21371, 6},
		{6.6, 7},
		{99.6, 100},
		{250, 100},
	}
	for _, tt := range tests {
		if got := c.DistanceParam(tt.miles); got != tt.want {
			t.Errorf("DistanceParam(%v) = %d, want %d", tt.miles, got, tt.want)
		}
	}
}

func TestGetOrganization(t *testing.T) {
	f := newFakePetfinder(t)
	client, _ := f.client(cache.NewMemoryStore())
	ctx := context.Background()

	org, err := client.GetOrganization(ctx, "WA01")
	if err != nil || org.Name != "Seattle Humane" {
		t.Fatalf("GetOrganization = %+v, %v", org, err)
	}

	if _, err := client.GetOrganization(ctx, "XX99"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing org error = %v, want ErrNotFound", err)
	}
	if _, err := client.GetOrganization(ctx, "../etc"); !errors.Is(err, ErrInvalidID) {
		t.Errorf("invalid id error = %v, want ErrInvalidID", err)
	}
}
