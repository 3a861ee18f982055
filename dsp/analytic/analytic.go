// Package analytic computes the analytic signal of a real-valued input via
// the frequency-domain Hilbert transform, exposing per-sample instantaneous
// phase and envelope.
//
// The input is zero-padded to a power of two for the FFT and truncated back
// afterwards, so phase estimates very close to the signal edges carry a small
// padding artifact.
package analytic

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrEmptyInput is returned when the input signal has no samples.
var ErrEmptyInput = errors.New("analytic: empty input")

// Transform returns the analytic signal z[n] = x[n] + i*H{x}[n].
func Transform(signal []float64) ([]complex128, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(signal)
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("analytic: failed to create FFT plan: %w", err)
	}

	buf := make([]complex128, fftSize)
	for i, x := range signal {
		buf[i] = complex(x, 0)
	}

	spec := make([]complex128, fftSize)

	err = plan.Forward(spec, buf)
	if err != nil {
		return nil, fmt.Errorf("analytic: forward FFT failed: %w", err)
	}

	// Zero the negative frequencies and double the positive ones. DC and
	// Nyquist keep unit weight.
	half := fftSize / 2
	for i := 1; i < half; i++ {
		spec[i] *= 2
	}

	for i := half + 1; i < fftSize; i++ {
		spec[i] = 0
	}

	err = plan.Inverse(buf, spec)
	if err != nil {
		return nil, fmt.Errorf("analytic: inverse FFT failed: %w", err)
	}

	return buf[:n], nil
}

// Phase returns the per-sample instantaneous phase in (-pi, pi].
func Phase(signal []float64) ([]float64, error) {
	z, err := Transform(signal)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(z))
	for i, c := range z {
		out[i] = cmplx.Phase(c)
	}

	return out, nil
}

// Envelope returns the per-sample analytic magnitude |z[n]|.
func Envelope(signal []float64) ([]float64, error) {
	z, err := Transform(signal)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(z))
	for i, c := range z {
		out[i] = cmplx.Abs(c)
	}

	return out, nil
}

// ZScore returns the signal normalized to zero mean and unit variance.
// A constant signal maps to all zeros.
func ZScore(signal []float64) []float64 {
	out := make([]float64, len(signal))
	if len(signal) == 0 {
		return out
	}

	var mean float64
	for _, x := range signal {
		mean += x
	}

	mean /= float64(len(signal))

	var sumSq float64

	for _, x := range signal {
		d := x - mean
		sumSq += d * d
	}

	std := math.Sqrt(sumSq / float64(len(signal)))
	if std == 0 {
		return out
	}

	for i, x := range signal {
		out[i] = (x - mean) / std
	}

	return out
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities removed.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}

	out := make([]float64, len(phase))
	out[0] = phase[0]
	offset := 0.0

	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		switch {
		case d > math.Pi:
			offset -= 2 * math.Pi
		case d < -math.Pi:
			offset += 2 * math.Pi
		}

		out[i] = phase[i] + offset
	}

	return out
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
