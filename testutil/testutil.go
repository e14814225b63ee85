package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0,1).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// ImageSpec describes a synthetic product photograph: a colored body on a
// plain background with horizontal stripes for edge structure.
type ImageSpec struct {
	Width, Height int
	Body          color.NRGBA
	Background    color.NRGBA
	Stripes       int
}

// WhiteOnGray is a baseline spec for a clearly visible product.
func WhiteOnGray(width, height int) ImageSpec {
	return ImageSpec{
		Width:      width,
		Height:     height,
		Body:       color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		Background: color.NRGBA{R: 90, G: 90, B: 90, A: 255},
		Stripes:    4,
	}
}

// ProductImage renders an ImageSpec deterministically: the body occupies the
// centered half of the frame, striped so edge and patch signals have
// structure to latch onto.
func ProductImage(spec ImageSpec) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, spec.Width, spec.Height))
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			img.SetNRGBA(x, y, spec.Background)
		}
	}

	x0, x1 := spec.Width/4, spec.Width*3/4
	y0, y1 := spec.Height/4, spec.Height*3/4
	stripeHeight := 1
	if spec.Stripes > 0 {
		stripeHeight = (y1 - y0) / (spec.Stripes * 2)
		if stripeHeight < 1 {
			stripeHeight = 1
		}
	}
	dark := color.NRGBA{
		R: spec.Body.R / 2,
		G: spec.Body.G / 2,
		B: spec.Body.B / 2,
		A: 255,
	}
	for y := y0; y < y1; y++ {
		c := spec.Body
		if spec.Stripes > 0 && ((y-y0)/stripeHeight)%2 == 1 {
			c = dark
		}
		for x := x0; x < x1; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// Perturb copies img with ±amplitude uniform noise per channel. Small
// amplitudes keep the image visually the same product.
func Perturb(rng *RNG, img *image.NRGBA, amplitude int) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	if amplitude <= 0 {
		return out
	}
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := int(out.Pix[i+c]) + rng.Intn(2*amplitude+1) - amplitude
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.Pix[i+c] = uint8(v)
		}
	}
	return out
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGProduct renders and encodes in one step.
func PNGProduct(spec ImageSpec) []byte {
	return EncodePNG(ProductImage(spec))
}

// CorruptPNG returns bytes that sniff as PNG but fail to decode.
func CorruptPNG() []byte {
	data := append([]byte(nil), pngMagic...)
	return append(data, []byte("not a real png body")...)
}

// TextBytes returns bytes with no recognizable image signature.
func TextBytes() []byte {
	return []byte("plain text, not an image at all")
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
