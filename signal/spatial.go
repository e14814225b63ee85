package signal

import "github.com/carousel-labs/productcluster/feature"

// Fixed internal sub-weights of the spatial signal.
const (
	spatialLumaWeight   = 0.5
	spatialEdgeWeight   = 0.4
	spatialAspectWeight = 0.1
)

// patchGrid is the side length of the patch grid used for coarse luminance
// structure (8×8 patches of 32×32 pixels on the canonical frame).
const patchGrid = 8

// SpatialScore measures structural/layout similarity: a blend of patch-wise
// luminance correlation, edge-map correlation, and aspect-ratio closeness.
func SpatialScore(a, b *feature.Set) float64 {
	luma := corrToUnit(pearson(patchMeans(a.Luma), patchMeans(b.Luma)))
	edges := corrToUnit(pearson(a.EdgeMap, b.EdgeMap))
	aspect := aspectCloseness(a.AspectRatio, b.AspectRatio)

	return clamp01(spatialLumaWeight*luma + spatialEdgeWeight*edges + spatialAspectWeight*aspect)
}

// patchMeans reduces a FrameSize×FrameSize plane to patchGrid×patchGrid
// patch averages.
func patchMeans(plane []float32) []float64 {
	patch := feature.FrameSize / patchGrid
	means := make([]float64, patchGrid*patchGrid)
	for py := 0; py < patchGrid; py++ {
		for px := 0; px < patchGrid; px++ {
			var sum float64
			for y := py * patch; y < (py+1)*patch; y++ {
				for x := px * patch; x < (px+1)*patch; x++ {
					sum += float64(plane[y*feature.FrameSize+x])
				}
			}
			means[py*patchGrid+px] = sum / float64(patch*patch)
		}
	}
	return means
}

// aspectCloseness is the ratio of the smaller to the larger aspect ratio.
func aspectCloseness(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > b {
		a, b = b, a
	}
	return clamp01(a / b)
}
