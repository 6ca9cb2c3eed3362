package petfinder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"petcare/pkg/cache"
)

// DefaultRefreshMargin is how long before expiry a cached token is replaced.
const DefaultRefreshMargin = 60 * time.Second

const tokenCacheKey = "token:petfinder"

// TokenSource hands out bearer tokens. Refresh bypasses any cached token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

type cachedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenStore caches client-credential tokens in a cache.Store. Concurrent
// refreshes within one process share a single token request.
type TokenStore struct {
	config        clientcredentials.Config
	store         cache.Store
	httpClient    *http.Client
	refreshMargin time.Duration
	now           func() time.Time
	group         singleflight.Group
}

func NewTokenStore(clientID, clientSecret, tokenURL string, store cache.Store, httpClient *http.Client) *TokenStore {
	return &TokenStore{
		config: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		store:         store,
		httpClient:    httpClient,
		refreshMargin: DefaultRefreshMargin,
		now:           time.Now,
	}
}

func (s *TokenStore) Token(ctx context.Context) (string, error) {
	var cached cachedToken
	err := s.store.Get(ctx, tokenCacheKey, &cached)
	// store errors other than a miss fall through to a fresh token
	if err == nil && cached.AccessToken != "" && s.now().Before(cached.ExpiresAt.Add(-s.refreshMargin)) {
		return cached.AccessToken, nil
	}
	return s.fetch(ctx)
}

// Refresh drops the shared cached token, which the API has rejected, and
// fetches a new one.
func (s *TokenStore) Refresh(ctx context.Context) (string, error) {
	_ = s.store.Delete(ctx, tokenCacheKey)
	return s.fetch(ctx)
}

func (s *TokenStore) fetch(ctx context.Context) (string, error) {
	v, err, _ := s.group.Do("token", func() (interface{}, error) {
		tokenCtx := ctx
		if s.httpClient != nil {
			tokenCtx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
		}

		tok, err := s.config.Token(tokenCtx)
		if err != nil {
			var retrieveErr *oauth2.RetrieveError
			if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
				switch retrieveErr.Response.StatusCode {
				case http.StatusUnauthorized, http.StatusForbidden, http.StatusBadRequest:
					return nil, fmt.Errorf("token request rejected: %w", ErrCredentialsRejected)
				}
			}
			return nil, fmt.Errorf("failed to fetch token: %w", err)
		}

		expiresAt := tok.Expiry
		if expiresAt.IsZero() {
			expiresAt = s.now().Add(time.Hour)
		}

		ttl := expiresAt.Sub(s.now()) - s.refreshMargin
		if ttl > 0 {
			entry := cachedToken{AccessToken: tok.AccessToken, ExpiresAt: expiresAt}
			_ = s.store.Set(ctx, tokenCacheKey, entry, ttl) // best effort
		}

		return tok.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
