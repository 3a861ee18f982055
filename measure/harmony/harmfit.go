package harmony

import "math"

// HarmonicSeries returns the first n multiplicative harmonics of f:
// f, 2f, ..., nf. For divisive series use f, f/2, ..., f/n.
func HarmonicSeries(f float64, n int, divisive bool) []float64 {
	if f <= 0 || n < 1 {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		k := float64(i + 1)
		if divisive {
			out[i] = f / k
		} else {
			out[i] = f * k
		}
	}

	return out
}

// CommonHarmonics counts how many of the first nHarm harmonics of f1
// coincide, within tolerance Hz, with harmonics of f2. Both multiplicative
// and divisive series are compared, mirroring the chord interpretation where
// either tone may act as the fundamental. Invalid frequencies count zero.
func CommonHarmonics(f1, f2 float64, nHarm int, tolerance float64) int {
	if f1 <= 0 || f2 <= 0 || nHarm < 1 || tolerance < 0 {
		return 0
	}

	count := 0

	for _, divisive := range []bool{false, true} {
		s1 := HarmonicSeries(f1, nHarm, divisive)
		s2 := HarmonicSeries(f2, nHarm, divisive)

		for _, a := range s1 {
			for _, b := range s2 {
				if math.Abs(a-b) <= tolerance {
					count++

					break
				}
			}
		}
	}

	return count
}
