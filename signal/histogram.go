package signal

import "github.com/carousel-labs/productcluster/feature"

// FeatureScore is the appearance proxy: Pearson correlation of the two
// full-frame color histograms, mapped to [0,1].
func FeatureScore(a, b *feature.Set) float64 {
	return corrToUnit(pearson(a.Histogram, b.Histogram))
}

// BackgroundScore correlates the border-region histograms only, so two shots
// of different products on the same backdrop still score high here.
func BackgroundScore(a, b *feature.Set) float64 {
	return corrToUnit(pearson(a.BorderHistogram, b.BorderHistogram))
}
