package harmony

import "math"

// Subharmonic tension defaults.
const (
	DefaultTensionHarmonics = 10
	DefaultTensionDeltaMs   = 20.0
	DefaultTensionExponent  = 2.1
)

// subharmonicPeriods returns the periods (in milliseconds) of the first n
// subharmonics of f: T, 2T, ..., nT with T = 1000/f.
func subharmonicPeriods(f float64, n int) []float64 {
	if f <= 0 || n < 1 {
		return nil
	}

	base := 1000 / f

	out := make([]float64, n)
	for i := range out {
		out[i] = base * float64(i+1)
	}

	return out
}

// ChordTension measures how far the tones of a chord are from sharing an
// exact subharmonic. For every tone pair, subharmonic period lattices are
// compared; lattice points closer than deltaLimMs milliseconds form common
// subharmonics, each contributing its normalized misalignment raised to the
// exponent c. The mean contribution is returned.
//
// ok is false when no tone pair shares a subharmonic within deltaLimMs; the
// tension value is NaN in that case so it cannot be mistaken for an exact
// alignment.
func ChordTension(freqs []float64, nHarm int, deltaLimMs, c float64) (tension float64, ok bool) {
	if nHarm < 1 {
		nHarm = DefaultTensionHarmonics
	}

	if deltaLimMs <= 0 {
		deltaLimMs = DefaultTensionDeltaMs
	}

	if c <= 0 {
		c = DefaultTensionExponent
	}

	var sum float64

	count := 0

	for i := 0; i < len(freqs); i++ {
		for j := i + 1; j < len(freqs); j++ {
			t, n := pairTension(freqs[i], freqs[j], nHarm, deltaLimMs, c)
			sum += t
			count += n
		}
	}

	if count == 0 {
		return math.NaN(), false
	}

	return sum / float64(count), true
}

// PeakSetTension aggregates chord tension over every cross-pair of two peak
// sets. ok is false when no cross-pair shares a subharmonic within the
// deviation bound.
func PeakSetTension(peaks1, peaks2 []float64, nHarm int, deltaLimMs, c float64) (tension float64, ok bool) {
	if nHarm < 1 {
		nHarm = DefaultTensionHarmonics
	}

	if deltaLimMs <= 0 {
		deltaLimMs = DefaultTensionDeltaMs
	}

	if c <= 0 {
		c = DefaultTensionExponent
	}

	var sum float64

	count := 0

	for _, f1 := range peaks1 {
		for _, f2 := range peaks2 {
			t, n := pairTension(f1, f2, nHarm, deltaLimMs, c)
			sum += t
			count += n
		}
	}

	if count == 0 {
		return math.NaN(), false
	}

	return sum / float64(count), true
}

// pairTension sums misalignment contributions of the common subharmonics of
// two tones and reports how many were found.
func pairTension(f1, f2 float64, nHarm int, deltaLimMs, c float64) (sum float64, count int) {
	periods1 := subharmonicPeriods(f1, nHarm)
	periods2 := subharmonicPeriods(f2, nHarm)

	for _, t1 := range periods1 {
		for _, t2 := range periods2 {
			delta := math.Abs(t1 - t2)
			if delta >= deltaLimMs {
				continue
			}

			mean := (t1 + t2) / 2
			if mean <= 0 {
				continue
			}

			sum += math.Pow(delta/mean, c)
			count++
		}
	}

	return sum, count
}
