package semantic

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/carousel-labs/productcluster/model"
)

// Provider is the capability interface for an external semantic-label source.
// Implementations return labels with confidences in percent (0-100).
//
// Providers may be slow or unavailable; callers treat any error as a degraded
// signal, never as a batch failure.
type Provider interface {
	Labels(ctx context.Context, data []byte) ([]model.Label, error)
}

// ErrUnavailable reports a provider call that failed or timed out.
// The clustering core substitutes a neutral semantic score when it sees one.
type ErrUnavailable struct {
	cause error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("semantic provider unavailable: %v", e.cause)
}

func (e *ErrUnavailable) Unwrap() error { return e.cause }

// Unavailable wraps err as an *ErrUnavailable.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return &ErrUnavailable{cause: err}
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout bounds every provider call to d. Any failure, including the
// deadline firing, surfaces as *ErrUnavailable.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &timeoutProvider{inner: p, timeout: d}
}

func (p *timeoutProvider) Labels(ctx context.Context, data []byte) ([]model.Label, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	labels, err := p.inner.Labels(ctx, data)
	if err != nil {
		return nil, Unavailable(err)
	}
	return labels, nil
}

type rateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit paces provider calls with limiter. Waiting respects the
// caller's context; a cancelled wait surfaces as *ErrUnavailable.
func WithRateLimit(p Provider, limiter *rate.Limiter) Provider {
	return &rateLimitedProvider{inner: p, limiter: limiter}
}

func (p *rateLimitedProvider) Labels(ctx context.Context, data []byte) ([]model.Label, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, Unavailable(err)
	}
	return p.inner.Labels(ctx, data)
}
