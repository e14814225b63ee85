package semantic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/carousel-labs/productcluster/model"
)

// StaticProvider serves labels from an in-memory table keyed by the hex
// SHA-256 of the image bytes. It is deterministic and intended for tests
// and offline tuning.
type StaticProvider struct {
	labels map[string][]model.Label

	// Err, when set, is returned from every call (simulates an outage).
	Err error
	// Delay, when set, is slept before answering (simulates a slow provider).
	Delay time.Duration
}

// NewStatic builds a StaticProvider from content-hash -> labels.
func NewStatic(labels map[string][]model.Label) *StaticProvider {
	return &StaticProvider{labels: labels}
}

// Key returns the table key for raw image bytes.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Labels implements Provider. Unknown images resolve to an empty label set.
func (p *StaticProvider) Labels(ctx context.Context, data []byte) ([]model.Label, error) {
	if p.Delay > 0 {
		select {
		case <-time.After(p.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.labels[Key(data)], nil
}
