// Package cwt computes the continuous wavelet transform of a real-valued
// signal with a complex Morlet wavelet, using FFT convolution per scale.
package cwt

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// DefaultOmega0 is the Morlet center frequency parameter.
const DefaultOmega0 = 6.0

// Errors returned by the transform.
var (
	ErrEmptyInput = errors.New("cwt: empty input")
	ErrNoScales   = errors.New("cwt: no scales")
)

// FrequencyGrid returns the analysis frequencies minHz..maxHz spaced by
// precisionHz, inclusive of the lower edge.
func FrequencyGrid(minHz, maxHz, precisionHz float64) ([]float64, error) {
	if precisionHz <= 0 {
		return nil, fmt.Errorf("cwt: precision must be > 0: %f", precisionHz)
	}

	if minHz <= 0 || maxHz < minHz {
		return nil, fmt.Errorf("cwt: invalid frequency range [%f, %f]", minHz, maxHz)
	}

	n := int(math.Floor((maxHz-minHz)/precisionHz)) + 1

	out := make([]float64, n)
	for i := range out {
		out[i] = minHz + float64(i)*precisionHz
	}

	return out, nil
}

// NearestIndex returns the index of the grid frequency closest to freqHz,
// clamped to the grid bounds.
func NearestIndex(grid []float64, freqHz float64) int {
	if len(grid) == 0 {
		return 0
	}

	best := 0
	bestDist := math.Abs(grid[0] - freqHz)

	for i := 1; i < len(grid); i++ {
		d := math.Abs(grid[i] - freqHz)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	return best
}

// ScalesForFrequencies maps analysis frequencies to Morlet scales so that the
// wavelet's center frequency at each scale matches the grid frequency.
func ScalesForFrequencies(freqs []float64, omega0, sampleRate float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = omega0 * sampleRate / (2 * math.Pi * f)
	}

	return out
}

// Transform computes the complex wavelet coefficients, shaped
// [scale][sample].
func Transform(signal, scales []float64, omega0, sampleRate float64) ([][]complex128, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if len(scales) == 0 {
		return nil, ErrNoScales
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("cwt: sample rate must be > 0: %f", sampleRate)
	}

	if omega0 <= 0 {
		omega0 = DefaultOmega0
	}

	n := len(signal)
	maxKernel := kernelLength(scales, n)
	fftSize := nextPowerOf2(n + maxKernel - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("cwt: failed to create FFT plan: %w", err)
	}

	sigPadded := make([]complex128, fftSize)
	for i, x := range signal {
		sigPadded[i] = complex(x, 0)
	}

	sigFreq := make([]complex128, fftSize)

	err = plan.Forward(sigFreq, sigPadded)
	if err != nil {
		return nil, fmt.Errorf("cwt: forward FFT failed: %w", err)
	}

	out := make([][]complex128, len(scales))
	kernPadded := make([]complex128, fftSize)
	kernFreq := make([]complex128, fftSize)
	prod := make([]complex128, fftSize)
	conv := make([]complex128, fftSize)

	for si, s := range scales {
		kern := morletKernel(s, omega0, n)

		for i := range kernPadded {
			kernPadded[i] = 0
		}

		copy(kernPadded, kern)

		err = plan.Forward(kernFreq, kernPadded)
		if err != nil {
			return nil, fmt.Errorf("cwt: forward FFT failed: %w", err)
		}

		for i := range prod {
			prod[i] = sigFreq[i] * kernFreq[i]
		}

		err = plan.Inverse(conv, prod)
		if err != nil {
			return nil, fmt.Errorf("cwt: inverse FFT failed: %w", err)
		}

		// Center the kernel: drop the group delay of half its length.
		offset := len(kern) / 2
		row := make([]complex128, n)

		for i := range row {
			row[i] = conv[i+offset]
		}

		out[si] = row
	}

	return out, nil
}

// morletKernel samples the complex Morlet wavelet at integer lags for the
// given scale, truncated to +/- 4 standard deviations and capped at the
// signal length.
func morletKernel(scale, omega0 float64, maxLen int) []complex128 {
	half := int(math.Ceil(4 * scale))
	if half < 1 {
		half = 1
	}

	if 2*half+1 > maxLen {
		half = (maxLen - 1) / 2
	}

	norm := math.Pow(math.Pi, -0.25) / math.Sqrt(scale)
	out := make([]complex128, 2*half+1)

	for i := range out {
		t := float64(i - half)
		gauss := math.Exp(-t * t / (2 * scale * scale))
		arg := omega0 * t / scale
		out[i] = complex(norm*gauss*math.Cos(arg), norm*gauss*math.Sin(arg))
	}

	return out
}

func kernelLength(scales []float64, maxLen int) int {
	maxScale := scales[0]
	for _, s := range scales[1:] {
		if s > maxScale {
			maxScale = s
		}
	}

	half := int(math.Ceil(4 * maxScale))
	if half < 1 {
		half = 1
	}

	if 2*half+1 > maxLen {
		half = (maxLen - 1) / 2
	}

	return 2*half + 1
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
