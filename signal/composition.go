package signal

import (
	"math"

	"github.com/carousel-labs/productcluster/feature"
)

// foregroundFactor scales the mean edge magnitude into the threshold that
// separates subject pixels from background.
const foregroundFactor = 2.0

// CompositionScore compares the estimated subject bounding boxes: how far
// apart their centers sit and how differently sized they are, both normalized
// against the canonical frame.
func CompositionScore(a, b *feature.Set) float64 {
	ax0, ay0, ax1, ay1 := foregroundBox(a.EdgeMap)
	bx0, by0, bx1, by1 := foregroundBox(b.EdgeMap)

	acx, acy := float64(ax0+ax1)/2, float64(ay0+ay1)/2
	bcx, bcy := float64(bx0+bx1)/2, float64(by0+by1)/2

	// Center distance normalized by the frame diagonal.
	diag := math.Sqrt(2) * feature.FrameSize
	centerDelta := math.Hypot(acx-bcx, acy-bcy) / diag

	areaA := float64((ax1 - ax0 + 1) * (ay1 - ay0 + 1))
	areaB := float64((bx1 - bx0 + 1) * (by1 - by0 + 1))
	sizeDelta := math.Abs(areaA-areaB) / math.Max(areaA, areaB)

	return clamp01(1 - 0.5*centerDelta - 0.5*sizeDelta)
}

// foregroundBox estimates the subject bounding box as the extent of pixels
// whose edge magnitude exceeds foregroundFactor times the mean. A frame with
// no such pixels yields the full frame.
func foregroundBox(edges []float32) (x0, y0, x1, y1 int) {
	var sum float64
	for _, v := range edges {
		sum += float64(v)
	}
	threshold := foregroundFactor * sum / float64(len(edges))

	x0, y0 = feature.FrameSize, feature.FrameSize
	x1, y1 = -1, -1
	for y := 0; y < feature.FrameSize; y++ {
		for x := 0; x < feature.FrameSize; x++ {
			if float64(edges[y*feature.FrameSize+x]) <= threshold {
				continue
			}
			if x < x0 {
				x0 = x
			}
			if x > x1 {
				x1 = x
			}
			if y < y0 {
				y0 = y
			}
			if y > y1 {
				y1 = y
			}
		}
	}
	if x1 < 0 {
		return 0, 0, feature.FrameSize - 1, feature.FrameSize - 1
	}
	return x0, y0, x1, y1
}
