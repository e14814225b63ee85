package signal

import (
	"fmt"

	"github.com/carousel-labs/productcluster/feature"
	"github.com/carousel-labs/productcluster/model"
)

// Kind identifies one similarity signal.
type Kind int

const (
	Spatial Kind = iota
	Feature
	Semantic
	Composition
	Background
)

func (k Kind) String() string {
	switch k {
	case Spatial:
		return "spatial"
	case Feature:
		return "feature"
	case Semantic:
		return "semantic"
	case Composition:
		return "composition"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Kinds lists all signals in breakdown order.
func Kinds() []Kind {
	return []Kind{Spatial, Feature, Semantic, Composition, Background}
}

// Func is a pairwise similarity calculator. Implementations are pure,
// symmetric in their arguments, and return scores in [0,1].
type Func func(a, b *feature.Set) float64

// Provider returns the calculator for the given signal.
func Provider(k Kind) (Func, error) {
	switch k {
	case Spatial:
		return SpatialScore, nil
	case Feature:
		return FeatureScore, nil
	case Semantic:
		return SemanticScore, nil
	case Composition:
		return CompositionScore, nil
	case Background:
		return BackgroundScore, nil
	default:
		return nil, fmt.Errorf("unsupported signal: %v", k)
	}
}

// Fuse evaluates all five signals for a pair and combines them under w.
// The fused score is the weighted sum of the per-signal scores.
func Fuse(a, b *feature.Set, w model.SignalWeights) (float64, model.SignalBreakdown) {
	breakdown := model.SignalBreakdown{
		Spatial:     SpatialScore(a, b),
		Feature:     FeatureScore(a, b),
		Semantic:    SemanticScore(a, b),
		Composition: CompositionScore(a, b),
		Background:  BackgroundScore(a, b),
	}
	fused := w.Spatial*breakdown.Spatial +
		w.Feature*breakdown.Feature +
		w.Semantic*breakdown.Semantic +
		w.Composition*breakdown.Composition +
		w.Background*breakdown.Background
	return clamp01(fused), breakdown
}
