package productcluster

import (
	"errors"
	"fmt"

	"github.com/carousel-labs/productcluster/cluster"
	"github.com/carousel-labs/productcluster/feature"
	"github.com/carousel-labs/productcluster/model"
	"github.com/carousel-labs/productcluster/semantic"
)

var (
	// ErrNotFound is returned when a group or image id is not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation is returned when a mutation's preconditions do
	// not hold.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidConfig is returned when a clustering configuration fails
	// validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidImage is returned when image bytes cannot be decoded.
	ErrInvalidImage = errors.New("invalid image")

	// ErrUnsupportedFormat is returned for image formats outside the
	// supported set.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrProviderUnavailable is returned when the semantic label provider
	// fails or times out.
	ErrProviderUnavailable = errors.New("semantic provider unavailable")

	// ErrEmptyBatch is returned when clustering is asked to run on zero
	// images.
	ErrEmptyBatch = errors.New("empty batch")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	var nf *cluster.ErrNotFound
	if errors.As(err, &nf) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Precondition and argument normalization.
	var iop *cluster.ErrInvalidOperation
	if errors.As(err, &iop) {
		return fmt.Errorf("%w: %w", ErrInvalidOperation, err)
	}
	var cfg *model.ErrInvalidConfig
	if errors.As(err, &cfg) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Per-image decode failures.
	var uf *feature.ErrUnsupportedFormat
	if errors.As(err, &uf) {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	var ii *feature.ErrInvalidImage
	if errors.As(err, &ii) {
		return fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	var pu *semantic.ErrUnavailable
	if errors.As(err, &pu) {
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	return err
}
