package signal

import (
	"math"

	"github.com/carousel-labs/productcluster/feature"
	"github.com/carousel-labs/productcluster/model"
)

// NeutralScore is the semantic score substituted whenever labels are missing:
// provider disabled, timed out, or errored. Neutral keeps the signal from
// pulling a pair in either direction in degraded mode.
const NeutralScore = 0.5

// SemanticScore is the confidence-weighted Jaccard similarity of the two
// label sets. Pairs without resolved labels on both sides score neutral.
func SemanticScore(a, b *feature.Set) float64 {
	if !a.LabelsResolved || !b.LabelsResolved {
		return NeutralScore
	}
	if len(a.Labels) == 0 && len(b.Labels) == 0 {
		// Both resolved to nothing: no evidence either way.
		return NeutralScore
	}
	return weightedJaccard(a.Labels, b.Labels)
}

// weightedJaccard sums min confidence over the label intersection and max
// confidence over the union. Duplicate label names keep their highest
// confidence.
func weightedJaccard(a, b []model.Label) float64 {
	ca := byName(a)
	cb := byName(b)

	var inter, union float64
	for name, wa := range ca {
		if wb, ok := cb[name]; ok {
			inter += math.Min(wa, wb)
			union += math.Max(wa, wb)
		} else {
			union += wa
		}
	}
	for name, wb := range cb {
		if _, ok := ca[name]; !ok {
			union += wb
		}
	}
	if union == 0 {
		return 0
	}
	return clamp01(inter / union)
}

func byName(labels []model.Label) map[string]float64 {
	m := make(map[string]float64, len(labels))
	for _, l := range labels {
		if l.Confidence > m[l.Name] {
			m[l.Name] = l.Confidence
		}
	}
	return m
}
