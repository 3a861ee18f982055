package harmony

import "math"

// DyadSimilarity rates how close a frequency ratio is to a simple integer
// fraction, as the percentage of harmonics the two tones of the dyad share
// (Gill–Purves). A 2:1 octave scores 100, incommensurate ratios approach 0.
// Invalid ratios return NaN.
func DyadSimilarity(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return math.NaN()
	}

	num, den, err := LimitDenominator(ratio, MaxDyadDenominator)
	if err != nil || num <= 0 || den <= 0 {
		return math.NaN()
	}

	x := float64(num)
	y := float64(den)

	return 100 * (x + y - 1) / (x * y)
}

// RatiosToSimilarity maps each ratio to its dyadic similarity score.
func RatiosToSimilarity(ratios []float64) []float64 {
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = DyadSimilarity(r)
	}

	return out
}
