package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.70, cfg.Threshold)
	assert.Equal(t, 2, cfg.MinGroupSize)
	assert.Equal(t, 20, cfg.MaxGroupSize)
	assert.InDelta(t, 1.0, cfg.Weights.Sum(), 1e-12)
}

func TestValidateWeightSum(t *testing.T) {
	tests := []struct {
		name    string
		weights SignalWeights
		wantErr bool
	}{
		{
			name:    "sum 0.85 rejected",
			weights: SignalWeights{Spatial: 0.25, Feature: 0.2, Semantic: 0.2, Composition: 0.1, Background: 0.1},
			wantErr: true,
		},
		{
			name:    "sum 0.995 accepted",
			weights: SignalWeights{Spatial: 0.195, Feature: 0.2, Semantic: 0.2, Composition: 0.2, Background: 0.2},
			wantErr: false,
		},
		{
			name:    "sum 1.005 accepted",
			weights: SignalWeights{Spatial: 0.205, Feature: 0.2, Semantic: 0.2, Composition: 0.2, Background: 0.2},
			wantErr: false,
		},
		{
			name:    "sum 1.02 rejected",
			weights: SignalWeights{Spatial: 0.22, Feature: 0.2, Semantic: 0.2, Composition: 0.2, Background: 0.2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Weights = tt.weights
			err := cfg.Validate()
			if tt.wantErr {
				var ice *ErrInvalidConfig
				require.Error(t, err)
				require.True(t, errors.As(err, &ice))
				assert.Equal(t, "Weights", ice.Field)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateThresholdRange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = 1.2
	var ice *ErrInvalidConfig
	require.ErrorAs(t, cfg.Validate(), &ice)
	assert.Equal(t, "Threshold", ice.Field)

	cfg.Threshold = -0.1
	require.ErrorAs(t, cfg.Validate(), &ice)
	assert.Equal(t, "Threshold", ice.Field)
}

func TestValidateGroupSizes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinGroupSize = 0
	var ice *ErrInvalidConfig
	require.ErrorAs(t, cfg.Validate(), &ice)
	assert.Equal(t, "MinGroupSize", ice.Field)

	cfg = DefaultConfig()
	cfg.MinGroupSize = 5
	cfg.MaxGroupSize = 4
	require.ErrorAs(t, cfg.Validate(), &ice)
	assert.Equal(t, "MaxGroupSize", ice.Field)
}

func TestValidateNegativeWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Semantic = -0.2
	cfg.Weights.Spatial = 0.6
	var ice *ErrInvalidConfig
	require.ErrorAs(t, cfg.Validate(), &ice)
	assert.Equal(t, "Weights.Semantic", ice.Field)
}
