// Package signal implements the five pairwise similarity signals over
// FeatureSets: spatial structure, color-histogram appearance, subject
// composition, border background, and semantic label overlap.
//
// Every calculator is a pure function of its two inputs: deterministic,
// symmetric, and clamped to [0,1]. Fuse combines them under configured
// weights into the score the graph builder thresholds.
package signal
