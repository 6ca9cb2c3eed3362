package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Kind int

const (
	KindInternal Kind = iota
	KindClient
	KindNotFound
	KindRateLimited
	KindUpstreamUnavailable
	KindUpstreamRateLimited
	KindProviderUnconfigured
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client_error"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindUpstreamRateLimited:
		return "upstream_rate_limited"
	case KindProviderUnconfigured:
		return "provider_unconfigured"
	default:
		return "internal"
	}
}

// Error codes used in the response envelope
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeBadLocation          = "BAD_LOCATION"
	CodeNotFound             = "NOT_FOUND"
	CodeRateLimited          = "RATE_LIMITED"
	CodeUpstreamUnavailable  = "UPSTREAM_UNAVAILABLE"
	CodeUpstreamRateLimited  = "UPSTREAM_RATE_LIMITED"
	CodeProviderUnconfigured = "PROVIDER_UNCONFIGURED"
	CodeInternal             = "INTERNAL"
)

type AppError struct {
	Kind     Kind
	Code     string
	Message  string
	Provider string
	// RetryAfter is zero when no hint is known.
	RetryAfter time.Duration
	Err        error
}

func (e *AppError) Error() string {
	msg := e.Message
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to the status returned at the endpoint.
func (e *AppError) HTTPStatus() int {
	return HTTPStatus(e.Kind)
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindClient:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited, KindUpstreamRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamUnavailable, KindProviderUnconfigured:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Client(message string) *AppError {
	return &AppError{Kind: KindClient, Code: CodeBadRequest, Message: message}
}

func BadLocation(message string, err error) *AppError {
	return &AppError{Kind: KindClient, Code: CodeBadLocation, Message: message, Err: err}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

func RateLimited(retryAfter time.Duration) *AppError {
	return &AppError{
		Kind:       KindRateLimited,
		Code:       CodeRateLimited,
		Message:    "too many requests",
		RetryAfter: retryAfter,
	}
}

func Upstream(provider, message string, err error) *AppError {
	return &AppError{
		Kind:     KindUpstreamUnavailable,
		Code:     CodeUpstreamUnavailable,
		Message:  message,
		Provider: provider,
		Err:      err,
	}
}

func UpstreamRateLimited(provider string, retryAfter time.Duration) *AppError {
	return &AppError{
		Kind:       KindUpstreamRateLimited,
		Code:       CodeUpstreamRateLimited,
		Message:    "rate limited by provider",
		Provider:   provider,
		RetryAfter: retryAfter,
	}
}

func Unconfigured(provider string) *AppError {
	return &AppError{
		Kind:     KindProviderUnconfigured,
		Code:     CodeProviderUnconfigured,
		Message:  "provider is not configured",
		Provider: provider,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports KindInternal for errors outside the taxonomy.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsUpstream is true for every failure that originates at a provider.
func IsUpstream(err error) bool {
	switch KindOf(err) {
	case KindUpstreamUnavailable, KindUpstreamRateLimited:
		return true
	}
	return false
}
