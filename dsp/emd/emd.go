// Package emd implements empirical mode decomposition: iterative sifting of a
// signal into oscillatory modes ordered from fastest to slowest, with natural
// cubic spline envelopes fitted through the local extrema.
package emd

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/interp"
)

const (
	// DefaultMaxSiftIterations bounds the sifting loop per mode.
	DefaultMaxSiftIterations = 50

	// DefaultSDThreshold is the Cauchy-style stopping criterion for sifting.
	DefaultSDThreshold = 0.2
)

// ErrEmptyInput is returned when the input signal has no samples.
var ErrEmptyInput = errors.New("emd: empty input")

// Config holds decomposition parameters. Zero values select defaults.
type Config struct {
	MaxModes          int
	MaxSiftIterations int
	SDThreshold       float64
}

func normalizeConfig(cfg Config) Config {
	if cfg.MaxSiftIterations <= 0 {
		cfg.MaxSiftIterations = DefaultMaxSiftIterations
	}

	if cfg.SDThreshold <= 0 {
		cfg.SDThreshold = DefaultSDThreshold
	}

	return cfg
}

// Decompose splits the signal into intrinsic oscillatory modes plus a
// residual trend. At most cfg.MaxModes modes are extracted (unlimited when
// zero); extraction also stops once the residual is monotonic enough to lack
// two maxima or two minima.
func Decompose(signal []float64, cfg Config) (modes [][]float64, residual []float64, err error) {
	if len(signal) == 0 {
		return nil, nil, ErrEmptyInput
	}

	cfg = normalizeConfig(cfg)

	residual = make([]float64, len(signal))
	copy(residual, signal)

	for cfg.MaxModes <= 0 || len(modes) < cfg.MaxModes {
		mode, ok := sift(residual, cfg)
		if !ok {
			break
		}

		modes = append(modes, mode)
		for i := range residual {
			residual[i] -= mode[i]
		}
	}

	return modes, residual, nil
}

// sift extracts one intrinsic mode from the signal. Returns ok=false when the
// signal lacks enough extrema to continue.
func sift(signal []float64, cfg Config) ([]float64, bool) {
	h := make([]float64, len(signal))
	copy(h, signal)

	prev := make([]float64, len(signal))

	for iter := 0; iter < cfg.MaxSiftIterations; iter++ {
		maxIdx, minIdx := findExtrema(h)
		if len(maxIdx) < 2 || len(minIdx) < 2 {
			if iter == 0 {
				return nil, false
			}

			break
		}

		upper, err := splineEnvelope(h, maxIdx)
		if err != nil {
			return nil, false
		}

		lower, err := splineEnvelope(h, minIdx)
		if err != nil {
			return nil, false
		}

		copy(prev, h)

		for i := range h {
			h[i] -= (upper[i] + lower[i]) / 2
		}

		if siftDeviation(prev, h) < cfg.SDThreshold {
			break
		}
	}

	return h, true
}

// siftDeviation is the normalized squared difference between consecutive
// sifting iterations.
func siftDeviation(prev, cur []float64) float64 {
	var num, den float64

	for i := range prev {
		d := prev[i] - cur[i]
		num += d * d
		den += prev[i] * prev[i]
	}

	if den == 0 {
		return 0
	}

	return num / den
}

// findExtrema returns the indices of interior local maxima and minima.
func findExtrema(signal []float64) (maxIdx, minIdx []int) {
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] > signal[i-1] && signal[i] >= signal[i+1] {
			maxIdx = append(maxIdx, i)
		}

		if signal[i] < signal[i-1] && signal[i] <= signal[i+1] {
			minIdx = append(minIdx, i)
		}
	}

	return maxIdx, minIdx
}

// splineEnvelope fits a natural cubic spline through the extrema, anchored at
// the signal endpoints to limit edge swing.
func splineEnvelope(signal []float64, idx []int) ([]float64, error) {
	xs := make([]float64, 0, len(idx)+2)
	ys := make([]float64, 0, len(idx)+2)

	if len(idx) == 0 || idx[0] != 0 {
		xs = append(xs, 0)
		ys = append(ys, signal[0])
	}

	for _, i := range idx {
		xs = append(xs, float64(i))
		ys = append(ys, signal[i])
	}

	last := len(signal) - 1
	if idx[len(idx)-1] != last {
		xs = append(xs, float64(last))
		ys = append(ys, signal[last])
	}

	var spline interp.NaturalCubic

	err := spline.Fit(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("emd: spline fit failed: %w", err)
	}

	out := make([]float64, len(signal))
	for i := range out {
		out[i] = spline.Predict(float64(i))
	}

	return out, nil
}
