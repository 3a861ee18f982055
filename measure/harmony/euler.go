package harmony

import "errors"

// ErrNoValues is returned when a measure receives no usable input values.
var ErrNoValues = errors.New("harmony: no values")

// Gradus computes Euler's gradus suavitatis of an integer tuple: one plus the
// sum of (p - 1) over the prime factorization of the least common multiple,
// counted with multiplicity. Lower values mean simpler joint harmonic
// structure. Non-positive entries are ignored; an input with no positive
// entries is an error.
func Gradus(values ...int) (int, error) {
	// Exponents of the LCM are the per-prime maxima across all values, which
	// avoids materializing the (potentially huge) LCM itself.
	maxExp := map[int]int{}
	seen := false

	for _, v := range values {
		if v <= 0 {
			continue
		}

		seen = true

		for p, e := range primeFactors(v) {
			if e > maxExp[p] {
				maxExp[p] = e
			}
		}
	}

	if !seen {
		return 0, ErrNoValues
	}

	g := 1
	for p, e := range maxExp {
		g += e * (p - 1)
	}

	return g, nil
}

// primeFactors returns the prime factorization of n >= 1 as prime -> exponent.
func primeFactors(n int) map[int]int {
	out := map[int]int{}

	for n%2 == 0 {
		out[2]++
		n /= 2
	}

	for p := 3; p*p <= n; p += 2 {
		for n%p == 0 {
			out[p]++
			n /= p
		}
	}

	if n > 1 {
		out[n]++
	}

	return out
}
