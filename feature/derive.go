package feature

import (
	"image"
	"math"
)

// lumaPlane converts the canonical frame to a row-major luminance plane
// using the BT.601 weights, values in [0,1].
func lumaPlane(frame *image.RGBA) []float32 {
	luma := make([]float32, FrameSize*FrameSize)
	for y := 0; y < FrameSize; y++ {
		row := frame.Pix[y*frame.Stride:]
		for x := 0; x < FrameSize; x++ {
			r := float64(row[x*4])
			g := float64(row[x*4+1])
			b := float64(row[x*4+2])
			luma[y*FrameSize+x] = float32((0.299*r + 0.587*g + 0.114*b) / 255.0)
		}
	}
	return luma
}

// sobelMagnitudeMax is the largest gradient magnitude a 3×3 Sobel operator
// can produce on a [0,1] plane: |gx| and |gy| each peak at 4.
var sobelMagnitudeMax = math.Sqrt(32)

// edgeMap computes the Sobel gradient magnitude of luma, normalized to [0,1].
// Border pixels (no full 3×3 neighborhood) are zero.
func edgeMap(luma []float32) []float32 {
	edges := make([]float32, FrameSize*FrameSize)
	at := func(x, y int) float64 {
		return float64(luma[y*FrameSize+x])
	}
	for y := 1; y < FrameSize-1; y++ {
		for x := 1; x < FrameSize-1; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			m := math.Sqrt(gx*gx+gy*gy) / sobelMagnitudeMax
			if m > 1 {
				m = 1
			}
			edges[y*FrameSize+x] = float32(m)
		}
	}
	return edges
}

// histograms bins the canonical frame into HistogramBins bins per channel,
// once over the full frame and once restricted to the border region.
// Each channel of each histogram is normalized to sum to 1.
func histograms(frame *image.RGBA) (full, border []float64) {
	full = make([]float64, 3*HistogramBins)
	border = make([]float64, 3*HistogramBins)
	binSize := 256 / HistogramBins

	for y := 0; y < FrameSize; y++ {
		row := frame.Pix[y*frame.Stride:]
		onBorderY := y < BorderWidth || y >= FrameSize-BorderWidth
		for x := 0; x < FrameSize; x++ {
			onBorder := onBorderY || x < BorderWidth || x >= FrameSize-BorderWidth
			for ch := 0; ch < 3; ch++ {
				bin := int(row[x*4+ch]) / binSize
				full[ch*HistogramBins+bin]++
				if onBorder {
					border[ch*HistogramBins+bin]++
				}
			}
		}
	}

	normalizeChannels(full)
	normalizeChannels(border)
	return full, border
}

func normalizeChannels(hist []float64) {
	for ch := 0; ch < 3; ch++ {
		sum := 0.0
		bins := hist[ch*HistogramBins : (ch+1)*HistogramBins]
		for _, v := range bins {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for i := range bins {
			bins[i] /= sum
		}
	}
}
