package providers

import (
	"context"
	"time"

	"petcare/internal/apperrors"
	"petcare/pkg/logger"
)

// Step is one candidate of a Chain. An unconfigured provider always advances
// the chain; FallbackOnFailure also advances it on upstream failures.
type Step struct {
	Provider          Provider
	FallbackOnFailure bool
}

// Chain walks its steps in order until one succeeds. It is itself a Provider.
type Chain struct {
	name   string
	steps  []Step
	logger *logger.Logger
}

func NewChain(name string, log *logger.Logger, steps ...Step) *Chain {
	return &Chain{name: name, steps: steps, logger: log}
}

func (c *Chain) Name() string {
	return c.name
}

func (c *Chain) Steps() []Step {
	return c.steps
}

func (c *Chain) Search(ctx context.Context, req Request) (*Result, error) {
	var lastErr error

	for _, step := range c.steps {
		start := time.Now()
		result, err := step.Provider.Search(ctx, req)
		c.logger.LogProviderCall(step.Provider.Name(), c.name+".search", time.Since(start), err)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !c.advance(step, err) {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = apperrors.Unconfigured(c.name)
	}
	return nil, lastErr
}

func (c *Chain) advance(step Step, err error) bool {
	switch apperrors.KindOf(err) {
	case apperrors.KindProviderUnconfigured:
		return true
	case apperrors.KindUpstreamUnavailable, apperrors.KindUpstreamRateLimited:
		return step.FallbackOnFailure
	default:
		return false
	}
}
