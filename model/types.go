package model

// ImageID is the caller-supplied stable identifier for an image.
// It is opaque to the clustering core; content addressing never uses it.
type ImageID string

// LocalID is a dense, batch-local identifier for an image.
// It is strictly 32-bit and valid only within one clustering run.
// Used for all hot-path structures (graph adjacency, membership bitmaps).
type LocalID uint32

// Image is the input unit of a batch: raw encoded bytes plus the caller's id.
// The byte slice is owned by the caller and must not be mutated during a run.
type Image struct {
	ID   ImageID
	Data []byte
}

// Label is a semantic label with the provider's confidence in percent (0-100).
type Label struct {
	Name       string
	Confidence float64
}

// SignalBreakdown carries the per-signal scores behind one fused pair score.
// All values are in [0,1].
type SignalBreakdown struct {
	Spatial     float64
	Feature     float64
	Semantic    float64
	Composition float64
	Background  float64
}
