package yelp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"petcare/pkg/httpclient"
)

const (
	DefaultTerm       = "veterinarian"
	DefaultCategories = "veterinarians"
)

var (
	ErrNotConfigured = errors.New("yelp: api key not configured")
	ErrUnauthorized  = errors.New("yelp: unauthorized")
)

type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "yelp: rate limited"
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yelp API error: status %d: %s", e.StatusCode, e.Body)
}

type Config struct {
	BaseURL    string
	APIKey     string
	MaxRadiusM int
	MaxLimit   int
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	maxRadiusM int
	maxLimit   int
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	maxRadius := config.MaxRadiusM
	if maxRadius <= 0 {
		maxRadius = 40000
	}
	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 50
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		maxRadiusM: maxRadius,
		maxLimit:   maxLimit,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// RadiusParam converts km to whole meters within [1, max].
func (c *Client) RadiusParam(km float64) int {
	m := int(math.Round(km * 1000))
	if m < 1 {
		return 1
	}
	if m > c.maxRadiusM {
		return c.maxRadiusM
	}
	return m
}

func (c *Client) SearchBusinesses(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	limit := params.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > c.maxLimit {
		limit = c.maxLimit
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	term := params.Term
	if term == "" {
		term = DefaultTerm
	}
	categories := params.Categories
	if categories == "" {
		categories = DefaultCategories
	}

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(params.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(params.Longitude, 'f', -1, 64))
	query.Set("radius", strconv.Itoa(c.RadiusParam(params.RadiusKm)))
	query.Set("term", term)
	query.Set("categories", categories)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa((page-1)*limit))
	query.Set("sort_by", "distance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/businesses/search?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: httpclient.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())}
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &out, nil
}
