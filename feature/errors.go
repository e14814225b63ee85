package feature

import (
	"fmt"

	"github.com/carousel-labs/productcluster/model"
)

// ErrInvalidImage reports bytes in a recognized encoding that failed to decode.
type ErrInvalidImage struct {
	ID    model.ImageID
	cause error
}

func (e *ErrInvalidImage) Error() string {
	return fmt.Sprintf("invalid image %q: %v", e.ID, e.cause)
}

func (e *ErrInvalidImage) Unwrap() error { return e.cause }

// ErrUnsupportedFormat reports bytes whose encoding was not recognized.
type ErrUnsupportedFormat struct {
	ID model.ImageID
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported image format for %q", e.ID)
}
