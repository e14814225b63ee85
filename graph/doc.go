// Package graph builds the thresholded similarity graph over one batch.
//
// Images get dense batch-local ids (LocalID) assigned in sorted ImageID
// order, so graph topology never depends on input order or object identity.
// Every unordered pair is evaluated — O(N²) by design, since a batch is one
// photography session of tens of images — and pairs whose fused score meets
// the threshold become weighted edges carrying their per-signal breakdown.
package graph
