// Package peaks extracts the dominant oscillatory frequencies of a signal.
//
// Two extraction methods are provided: spectral peak picking on an FFT power
// spectrum, and the amplitude-weighted dominant frequency of each oscillatory
// mode from an empirical mode decomposition.
package peaks

import (
	"errors"
	"fmt"
	"math"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-harmony/dsp/emd"
)

// Method selects the peak extraction algorithm.
type Method int

const (
	// MethodFFT picks local maxima of the windowed FFT power spectrum.
	MethodFFT Method = iota

	// MethodEMD derives one peak per oscillatory mode of an empirical mode
	// decomposition, weighted by instantaneous amplitude.
	MethodEMD
)

const (
	defaultMinFreq   = 2.0
	defaultMaxFreq   = 80.0
	defaultNPeaks    = 5
	defaultPrecision = 0.1
)

// ErrEmptyInput is returned when the input signal has no samples.
var ErrEmptyInput = errors.New("peaks: empty input")

// Config holds extraction parameters. Zero values select defaults.
type Config struct {
	SampleRate  float64
	MinFreq     float64
	MaxFreq     float64
	NPeaks      int
	PrecisionHz float64
	Method      Method
}

func normalizeConfig(cfg Config) Config {
	if cfg.MinFreq <= 0 {
		cfg.MinFreq = defaultMinFreq
	}

	if cfg.MaxFreq <= 0 {
		cfg.MaxFreq = defaultMaxFreq
	}

	if cfg.NPeaks <= 0 {
		cfg.NPeaks = defaultNPeaks
	}

	if cfg.PrecisionHz <= 0 {
		cfg.PrecisionHz = defaultPrecision
	}

	return cfg
}

// Extractor extracts peak frequencies under a fixed configuration.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor for the given configuration.
func NewExtractor(cfg Config) (*Extractor, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("peaks: sample rate must be > 0: %f", cfg.SampleRate)
	}

	cfg = normalizeConfig(cfg)
	if cfg.MaxFreq <= cfg.MinFreq {
		return nil, fmt.Errorf("peaks: frequency range is empty: [%f, %f]", cfg.MinFreq, cfg.MaxFreq)
	}

	return &Extractor{cfg: cfg}, nil
}

// Extract is a one-shot peak extraction.
func Extract(signal []float64, cfg Config) ([]float64, error) {
	e, err := NewExtractor(cfg)
	if err != nil {
		return nil, err
	}

	return e.Extract(signal)
}

// Extract returns up to NPeaks peak frequencies in Hz, ascending. Fewer
// peaks (possibly none) are returned when the spectrum does not support
// more.
func (e *Extractor) Extract(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	switch e.cfg.Method {
	case MethodFFT:
		return e.extractFFT(signal)
	case MethodEMD:
		return e.extractEMD(signal)
	default:
		return nil, fmt.Errorf("peaks: unknown extraction method: %d", e.cfg.Method)
	}
}

func (e *Extractor) extractFFT(signal []float64) ([]float64, error) {
	cfg := e.cfg

	// Resolve at least the configured precision.
	minSize := int(math.Ceil(cfg.SampleRate / cfg.PrecisionHz))
	fftSize := nextPowerOf2(len(signal))

	for fftSize < minSize {
		fftSize <<= 1
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("peaks: failed to create FFT plan: %w", err)
	}

	buf := make([]complex128, fftSize)
	for i, x := range signal {
		buf[i] = complex(x*hann(i, len(signal)), 0)
	}

	spec := make([]complex128, fftSize)

	err = plan.Forward(spec, buf)
	if err != nil {
		return nil, fmt.Errorf("peaks: forward FFT failed: %w", err)
	}

	binCount := fftSize/2 + 1
	re := make([]float64, binCount)
	im := make([]float64, binCount)

	for i := 0; i < binCount; i++ {
		re[i] = real(spec[i])
		im[i] = imag(spec[i])
	}

	power := make([]float64, binCount)
	vecmath.Power(power, re, im)

	binHz := cfg.SampleRate / float64(fftSize)

	type candidate struct {
		freq  float64
		power float64
	}

	var cands []candidate

	for i := 1; i < binCount-1; i++ {
		f := float64(i) * binHz
		if f < cfg.MinFreq || f > cfg.MaxFreq {
			continue
		}

		if power[i] > power[i-1] && power[i] >= power[i+1] {
			cands = append(cands, candidate{freq: f, power: power[i]})
		}
	}

	sort.Slice(cands, func(a, b int) bool { return cands[a].power > cands[b].power })

	if len(cands) > cfg.NPeaks {
		cands = cands[:cfg.NPeaks]
	}

	out := make([]float64, len(cands))
	for i, c := range cands {
		out[i] = c.freq
	}

	sort.Float64s(out)

	return out, nil
}

func (e *Extractor) extractEMD(signal []float64) ([]float64, error) {
	cfg := e.cfg

	spec, err := emd.HilbertSpectrum(signal, cfg.SampleRate, cfg.NPeaks)
	if err != nil {
		return nil, fmt.Errorf("peaks: decomposition failed: %w", err)
	}

	var out []float64

	for m := range spec.Frequency {
		var wsum, fsum float64

		for i, f := range spec.Frequency[m] {
			a := spec.Amplitude[m][i]
			wsum += a
			fsum += a * f
		}

		if wsum == 0 {
			continue
		}

		f := fsum / wsum
		if f >= cfg.MinFreq && f <= cfg.MaxFreq {
			out = append(out, f)
		}
	}

	sort.Float64s(out)

	return out, nil
}

func hann(i, n int) float64 {
	if n <= 1 {
		return 1
	}

	return 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
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
