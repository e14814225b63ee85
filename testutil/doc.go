// Package testutil provides testing utilities for productcluster.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded thread-safe random source and generators for
// synthetic product images with controllable visual similarity.
//
// # Random Generation
//
//	rng := testutil.NewRNG(seed)
//	n := rng.Intn(100)
//
// # Synthetic Images
//
//	base := testutil.ProductImage(rng, testutil.ImageSpec{Width: 200, Height: 200, Hue: 0})
//	near := testutil.Perturb(rng, base, 2) // same product, slight noise
package testutil
