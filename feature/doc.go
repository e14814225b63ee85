// Package feature normalizes raw image bytes into a canonical representation
// and derives the cacheable per-image signals the similarity calculators
// consume: a 256×256 luminance plane, a gradient-magnitude edge map,
// full-frame and border-region color histograms, and optional semantic labels.
//
// FeatureSets are content-addressed by the SHA-256 of the raw bytes, so
// identical bytes always hit the cache regardless of the image id they
// arrived under. Extraction is embarrassingly parallel; concurrent requests
// for identical bytes collapse into one computation.
package feature
