package model

import (
	"fmt"
	"math"
)

// WeightSumTolerance is the allowed deviation of the signal weight sum from 1.0.
const WeightSumTolerance = 0.01

// SignalWeights assigns a relative weight to each similarity signal.
// The weights must sum to 1.0 within WeightSumTolerance.
type SignalWeights struct {
	Spatial     float64
	Feature     float64
	Semantic    float64
	Composition float64
	Background  float64
}

// Sum returns the total of all five weights.
func (w SignalWeights) Sum() float64 {
	return w.Spatial + w.Feature + w.Semantic + w.Composition + w.Background
}

// EqualWeights returns the default uniform weighting (0.2 per signal).
func EqualWeights() SignalWeights {
	return SignalWeights{
		Spatial:     0.2,
		Feature:     0.2,
		Semantic:    0.2,
		Composition: 0.2,
		Background:  0.2,
	}
}

// Config controls one clustering run. Zero values are not usable; start from
// DefaultConfig and override.
type Config struct {
	// Enabled gates the whole engine. When false, every image in the batch
	// is returned ungrouped without any feature extraction.
	Enabled bool

	// Threshold is the minimum fused score for a pair to become a graph edge.
	Threshold float64

	// MinGroupSize and MaxGroupSize bound automatic group sizes.
	// Groups created or altered by manual operations are exempt.
	MinGroupSize int
	MaxGroupSize int

	// UseSemanticProvider enables label fetching through the configured
	// semantic provider. When false (or when the provider fails) the
	// semantic signal scores neutral.
	UseSemanticProvider bool

	// Weights is the signal fusion weighting. Must sum to 1.0 ± WeightSumTolerance.
	Weights SignalWeights
}

// DefaultConfig returns the standard configuration: threshold 0.70,
// group sizes 2..20, equal signal weights, semantic provider off.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		Threshold:    0.70,
		MinGroupSize: 2,
		MaxGroupSize: 20,
		Weights:      EqualWeights(),
	}
}

// ErrInvalidConfig reports a configuration that fails validation.
// Field names the offending field; Reason states the violated constraint.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Validate checks the configuration and returns an *ErrInvalidConfig naming
// the first violated constraint. Validation runs before any work begins.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return &ErrInvalidConfig{
			Field:  "Threshold",
			Reason: fmt.Sprintf("must be in [0,1], got %g", c.Threshold),
		}
	}
	if c.MinGroupSize < 1 {
		return &ErrInvalidConfig{
			Field:  "MinGroupSize",
			Reason: fmt.Sprintf("must be at least 1, got %d", c.MinGroupSize),
		}
	}
	if c.MaxGroupSize < c.MinGroupSize {
		return &ErrInvalidConfig{
			Field:  "MaxGroupSize",
			Reason: fmt.Sprintf("must be >= MinGroupSize (%d), got %d", c.MinGroupSize, c.MaxGroupSize),
		}
	}
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"Weights.Spatial", c.Weights.Spatial},
		{"Weights.Feature", c.Weights.Feature},
		{"Weights.Semantic", c.Weights.Semantic},
		{"Weights.Composition", c.Weights.Composition},
		{"Weights.Background", c.Weights.Background},
	} {
		if w.value < 0 || w.value > 1 {
			return &ErrInvalidConfig{
				Field:  w.name,
				Reason: fmt.Sprintf("must be in [0,1], got %g", w.value),
			}
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return &ErrInvalidConfig{
			Field:  "Weights",
			Reason: fmt.Sprintf("must sum to 1.0 ± %g, got %g", WeightSumTolerance, sum),
		}
	}
	return nil
}
