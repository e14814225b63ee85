package feature

import "github.com/carousel-labs/productcluster/model"

const (
	// FrameSize is the side length of the canonical square frame.
	FrameSize = 256

	// HistogramBins is the number of bins per color channel.
	HistogramBins = 32

	// BorderWidth is the thickness in pixels of the border region used for
	// the background histogram (1/8 of the frame on each side).
	BorderWidth = FrameSize / 8
)

// Set is the cached bundle of derived signals for one image.
// All planes refer to the canonical FrameSize×FrameSize frame and are
// treated as immutable once the Set is published to the cache.
type Set struct {
	// Hash is the content hash of the raw bytes this Set was derived from.
	Hash ContentHash

	// SourceWidth and SourceHeight are the decoded dimensions before
	// normalization. AspectRatio is width/height.
	SourceWidth  int
	SourceHeight int
	AspectRatio  float64

	// Luma is the canonical luminance plane, row-major, values in [0,1].
	Luma []float32

	// EdgeMap is the Sobel gradient magnitude of Luma, normalized to [0,1].
	EdgeMap []float32

	// Histogram is the normalized full-frame color histogram:
	// HistogramBins bins per channel, R then G then B, each channel
	// summing to 1.
	Histogram []float64

	// BorderHistogram is the same layout restricted to the border region.
	BorderHistogram []float64

	// Labels holds semantic labels when a provider resolved them.
	// LabelsResolved distinguishes "provider answered with no labels"
	// from "provider disabled or failed".
	Labels         []model.Label
	LabelsResolved bool
}
