package model

import "fmt"

// MatchType classifies a fused pair score into identity confidence tiers.
type MatchType int

const (
	MatchDifferent MatchType = iota
	MatchPossiblySame
	MatchLikelySame
	MatchSameProduct
)

func (m MatchType) String() string {
	switch m {
	case MatchDifferent:
		return "DIFFERENT"
	case MatchPossiblySame:
		return "POSSIBLY_SAME"
	case MatchLikelySame:
		return "LIKELY_SAME"
	case MatchSameProduct:
		return "SAME_PRODUCT"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Thresholds maps fused scores to MatchType tiers.
type Thresholds struct {
	SameProduct  float64
	LikelySame   float64
	PossiblySame float64
}

// DefaultThresholds returns the standard tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SameProduct:  0.92,
		LikelySame:   0.85,
		PossiblySame: 0.75,
	}
}

// Classify returns the tier for a fused score.
func (t Thresholds) Classify(score float64) MatchType {
	switch {
	case score >= t.SameProduct:
		return MatchSameProduct
	case score >= t.LikelySame:
		return MatchLikelySame
	case score >= t.PossiblySame:
		return MatchPossiblySame
	default:
		return MatchDifferent
	}
}
