// Package harmony provides the number-theoretic harmonicity measures shared
// by the connectivity metrics: octave rebound, dyadic similarity, bounded
// rational approximation of frequency ratios, the generalized Euler gradus
// suavitatis, common-harmonic counting, and subharmonic lattice tension.
package harmony

import (
	"fmt"
	"math"
)

// MaxDyadDenominator bounds the rational approximation used by dyadic
// similarity.
const MaxDyadDenominator = 1000

// Rebound folds a positive ratio into the canonical octave [1, 2) by repeated
// doubling or halving. Non-positive and non-finite inputs return NaN.
func Rebound(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return math.NaN()
	}

	for ratio >= 2 {
		ratio /= 2
	}

	for ratio < 1 {
		ratio *= 2
	}

	return ratio
}

// LimitDenominator returns the closest rational approximation num/den of x
// with den <= maxDen, following the continued fraction construction.
// maxDen must be >= 1.
func LimitDenominator(x float64, maxDen int) (num, den int, err error) {
	if maxDen < 1 {
		return 0, 0, fmt.Errorf("harmony: max denominator must be >= 1: %d", maxDen)
	}

	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 0, fmt.Errorf("harmony: cannot approximate non-finite value: %f", x)
	}

	neg := x < 0
	if neg {
		x = -x
	}

	// Continued fraction convergents p/q with q bounded by maxDen.
	p0, q0 := 0, 1
	p1, q1 := 1, 0
	rem := x

	for {
		a := int(math.Floor(rem))

		q2 := q0 + a*q1
		if q2 > maxDen {
			break
		}

		p0, q0, p1, q1 = p1, q1, p0+a*p1, q2

		frac := rem - math.Floor(rem)
		if frac == 0 {
			break
		}

		rem = 1 / frac
	}

	// Semiconvergent may beat the last convergent.
	if q1 != 0 {
		k := (maxDen - q0) / q1

		bp := p0 + k*p1
		bq := q0 + k*q1

		if bq > 0 && math.Abs(float64(bp)/float64(bq)-x) < math.Abs(float64(p1)/float64(q1)-x) {
			p1, q1 = bp, bq
		}
	}

	if q1 == 0 {
		p1, q1 = p0, q0
	}

	if neg {
		p1 = -p1
	}

	return p1, q1, nil
}
