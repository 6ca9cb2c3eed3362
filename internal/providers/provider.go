// Package providers adapts each place source to one search contract.
package providers

import (
	"context"
	"errors"
	"net"
	"time"

	"petcare/internal/apperrors"
	"petcare/internal/models"
	"petcare/internal/utils"
)

const (
	NameStore     = "store"
	NameGoogle    = "google"
	NamePetfinder = "petfinder"
	NameYelp      = "yelp"
)

type Request struct {
	Center   utils.Point
	RadiusKm float64
	Take     int
	Page     int
	// PageToken is an opaque cursor from a previous result. Providers that do
	// not paginate by token ignore it.
	PageToken string
	// Zip is set when the center was resolved from a ZIP code.
	Zip string
}

func (r Request) offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.Take
}

type Result struct {
	Items         []models.Place
	NextPageToken string
	Total         *int
}

// Provider is one source of places. An empty result is a success; failures are
// returned as *apperrors.AppError.
type Provider interface {
	Name() string
	Search(ctx context.Context, req Request) (*Result, error)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// upstreamError wraps a transport or protocol failure of provider.
func upstreamError(provider string, err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if isTimeout(err) {
		return apperrors.Upstream(provider, "request timed out", err)
	}
	return apperrors.Upstream(provider, "request failed", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
