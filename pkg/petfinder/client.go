package petfinder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"petcare/pkg/httpclient"
)

var (
	ErrNotFound     = errors.New("petfinder: not found")
	ErrInvalidID    = errors.New("petfinder: invalid organization id")
	// ErrUnauthorized is a 401 that persisted after one token refresh.
	ErrUnauthorized = errors.New("petfinder: unauthorized")
	// ErrCredentialsRejected is the token endpoint refusing the client id or secret.
	ErrCredentialsRejected = errors.New("petfinder: client credentials rejected")
)

// RateLimitError carries the provider's Retry-After hint; zero when absent.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("petfinder: rate limited, retry after %s", e.RetryAfter)
	}
	return "petfinder: rate limited"
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Petfinder API error: status %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL       string
	MaxDistanceMi int
	MaxLimit      int
	Timeout       time.Duration
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokens        TokenSource
	maxDistanceMi int
	maxLimit      int
}

var orgIDRegex = regexp.MustCompile(`^[A-Za-z0-9]+$`)

func NewClient(config Config, tokens TokenSource) *Client {
	maxDistance := config.MaxDistanceMi
	if maxDistance <= 0 {
		maxDistance = 100
	}
	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}

	return &Client{
		baseURL:       strings.TrimRight(config.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: config.Timeout},
		tokens:        tokens,
		maxDistanceMi: maxDistance,
		maxLimit:      maxLimit,
	}
}

// DistanceParam converts a radius to the whole miles the API accepts,
// rounding to nearest and clamping to [1, max].
func (c *Client) DistanceParam(miles float64) int {
	d := int(math.Round(miles))
	if d < 1 {
		return 1
	}
	if d > c.maxDistanceMi {
		return c.maxDistanceMi
	}
	return d
}

func (c *Client) limitParam(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > c.maxLimit {
		return c.maxLimit
	}
	return limit
}

func (c *Client) SearchOrganizations(ctx context.Context, params SearchParams) (*OrganizationsResponse, error) {
	query := url.Values{}
	query.Set("location", params.Location)
	query.Set("distance", strconv.Itoa(c.DistanceParam(params.DistanceMi)))
	query.Set("limit", strconv.Itoa(c.limitParam(params.Limit)))
	query.Set("sort", "distance")
	if params.Page > 1 {
		query.Set("page", strconv.Itoa(params.Page))
	}

	var resp OrganizationsResponse
	if err := c.get(ctx, "/organizations", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	if !orgIDRegex.MatchString(id) {
		return nil, ErrInvalidID
	}

	var resp organizationResponse
	if err := c.get(ctx, "/organizations/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Organization, nil
}

// get performs an authenticated GET. A 401 refreshes the token and retries once.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	status, body, header, err := c.send(ctx, path, query, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return err
		}
		status, body, header, err = c.send(ctx, path, query, token)
		if err != nil {
			return err
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: httpclient.ParseRetryAfter(header.Get("Retry-After"), time.Now())}
	case status < 200 || status >= 300:
		return &APIError{StatusCode: status, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, path string, query url.Values, token string) (int, []byte, http.Header, error) {
	apiURL := c.baseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, resp.Header, nil
}
