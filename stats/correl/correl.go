// Package correl computes missing-value-aware temporal correlation matrices
// between channel time series, with two-tailed Student-t p-values and a
// global Benjamini–Hochberg false-discovery-rate correction.
package correl

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// MinOverlap is the minimum number of valid overlapping samples required for
// a defined correlation; pairs below it are marked NaN.
const MinOverlap = 3

// Errors returned by Compute.
var (
	ErrNoSeries       = errors.New("correl: no series")
	ErrLengthMismatch = errors.New("correl: series length mismatch")
)

// Result pairs the correlation matrix with raw and FDR-corrected p-values.
// All three matrices are channels x channels. Cells backed by fewer than
// MinOverlap valid samples are NaN throughout.
type Result struct {
	R          [][]float64
	P          [][]float64
	PCorrected [][]float64
}

// Compute evaluates the Pearson correlation of every ordered channel pair,
// including the diagonal, masking positions where either series is NaN. The
// full flattened p-value set goes through one Benjamini–Hochberg pass before
// being reshaped, so the correction is global across the matrix.
func Compute(series [][]float64) (Result, error) {
	n := len(series)
	if n == 0 {
		return Result{}, ErrNoSeries
	}

	for i := 1; i < n; i++ {
		if len(series[i]) != len(series[0]) {
			return Result{}, fmt.Errorf("%w: series 0 has %d samples, series %d has %d",
				ErrLengthMismatch, len(series[0]), i, len(series[i]))
		}
	}

	res := Result{
		R: newMatrix(n),
		P: newMatrix(n),
	}

	flat := make([]float64, 0, n*n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r, count := maskedPearson(series[i], series[j])
			p := pValue(r, count)

			res.R[i][j] = r
			res.P[i][j] = p
			flat = append(flat, p)
		}
	}

	corrected := BenjaminiHochberg(flat)

	res.PCorrected = newMatrix(n)
	for i := 0; i < n; i++ {
		copy(res.PCorrected[i], corrected[i*n:(i+1)*n])
	}

	return res, nil
}

// maskedPearson computes the Pearson correlation over positions where both
// series carry finite values, returning the valid sample count. Fewer than
// MinOverlap valid samples, or a zero-variance input, yields NaN.
func maskedPearson(x, y []float64) (r float64, count int) {
	var sumX, sumY, sumXY, sumX2, sumY2 float64

	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}

		count++
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumX2 += x[i] * x[i]
		sumY2 += y[i] * y[i]
	}

	if count < MinOverlap {
		return math.NaN(), count
	}

	nf := float64(count)
	num := nf*sumXY - sumX*sumY
	den := math.Sqrt((nf*sumX2 - sumX*sumX) * (nf*sumY2 - sumY*sumY))

	if den == 0 {
		return math.NaN(), count
	}

	r = num / den

	// Guard rounding past the defined range.
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}

	return r, count
}

// pValue derives the two-tailed p-value of a correlation from the Student-t
// survival function with count-2 degrees of freedom. Perfect correlations
// have an unbounded t statistic and map to 0.
func pValue(r float64, count int) float64 {
	if math.IsNaN(r) || count < MinOverlap {
		return math.NaN()
	}

	if r == 1 || r == -1 {
		return 0
	}

	df := float64(count - 2)
	t := r * math.Sqrt(df/(1-r*r))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	p := 2 * dist.Survival(math.Abs(t))
	if p > 1 {
		p = 1
	}

	return p
}

// BenjaminiHochberg applies the false-discovery-rate step-up correction to a
// set of p-values. NaN entries are excluded from the correction and stay NaN
// in the output. Corrected values are element-wise >= the raw ones and
// clamped to [0, 1].
func BenjaminiHochberg(pvals []float64) []float64 {
	out := make([]float64, len(pvals))

	idx := make([]int, 0, len(pvals))

	for i, p := range pvals {
		if math.IsNaN(p) {
			out[i] = math.NaN()
			continue
		}

		idx = append(idx, i)
	}

	m := len(idx)
	if m == 0 {
		return out
	}

	sort.Slice(idx, func(a, b int) bool { return pvals[idx[a]] < pvals[idx[b]] })

	// Step-up: adjusted[k] = min over k' >= k of p[k'] * m / (k'+1).
	running := 1.0

	for k := m - 1; k >= 0; k-- {
		adj := pvals[idx[k]] * float64(m) / float64(k+1)
		if adj < running {
			running = adj
		}

		out[idx[k]] = running
	}

	return out
}

func newMatrix(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}

	return out
}
