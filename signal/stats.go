package signal

import "math"

// flatVarianceEps is the variance below which a plane is considered flat.
// Correlation is undefined on flat inputs, so those cases are resolved by
// comparing means instead.
const flatVarianceEps = 1e-9

// pearson returns the Pearson correlation of two equal-length vectors,
// accumulating in float64 regardless of the element type. Flat inputs: two
// flat vectors correlate by mean closeness in [-1,1] space; one flat vector
// against a varying one yields zero correlation.
func pearson[F float32 | float64](a, b []F) float64 {
	n := float64(len(a))
	if n == 0 || len(a) != len(b) {
		return 0
	}

	var sumA, sumB float64
	for i := range a {
		sumA += float64(a[i])
		sumB += float64(b[i])
	}
	meanA, meanB := sumA/n, sumB/n

	var cov, varA, varB float64
	for i := range a {
		da, db := float64(a[i])-meanA, float64(b[i])-meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA < flatVarianceEps || varB < flatVarianceEps {
		if varA < flatVarianceEps && varB < flatVarianceEps {
			d := math.Abs(meanA - meanB)
			if d > 1 {
				d = 1
			}
			return 1 - 2*d
		}
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// corrToUnit maps a correlation in [-1,1] to a similarity in [0,1].
func corrToUnit(r float64) float64 {
	return clamp01((r + 1) / 2)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
