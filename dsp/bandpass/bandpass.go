// Package bandpass provides Butterworth band-pass filtering of real-valued
// signals, including a zero-phase forward-backward variant for phase-sensitive
// analysis.
//
// The band-pass is realized as a highpass cascade at the lower edge followed
// by a lowpass cascade at the upper edge, each a Butterworth design of the
// configured order.
package bandpass

import (
	"errors"
	"fmt"
)

// DefaultOrder is the Butterworth order used when none is configured.
const DefaultOrder = 4

// Errors returned by filter construction.
var (
	ErrEmptyInput  = errors.New("bandpass: empty input")
	ErrInvalidBand = errors.New("bandpass: band edges must satisfy 0 < low < high < Nyquist")
)

// Filter is a reusable Butterworth band-pass filter.
type Filter struct {
	lowHz      float64
	highHz     float64
	sampleRate float64
	order      int
	sections   cascade
}

// Option configures a Filter.
type Option func(*Filter) error

// WithOrder sets the Butterworth order for each edge cascade (default 4).
func WithOrder(order int) Option {
	return func(f *Filter) error {
		if order < 1 {
			return fmt.Errorf("bandpass: order must be >= 1: %d", order)
		}

		f.order = order

		return nil
	}
}

// New creates a band-pass filter with edges lowHz and highHz.
func New(lowHz, highHz, sampleRate float64, opts ...Option) (*Filter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("bandpass: sample rate must be > 0: %f", sampleRate)
	}

	if lowHz <= 0 || highHz <= lowHz || highHz >= sampleRate/2 {
		return nil, fmt.Errorf("%w: low=%f high=%f rate=%f", ErrInvalidBand, lowHz, highHz, sampleRate)
	}

	f := &Filter{
		lowHz:      lowHz,
		highHz:     highHz,
		sampleRate: sampleRate,
		order:      DefaultOrder,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		err := opt(f)
		if err != nil {
			return nil, err
		}
	}

	coeffs := butterworthHP(lowHz, f.order, sampleRate)
	coeffs = append(coeffs, butterworthLP(highHz, f.order, sampleRate)...)
	f.sections = newCascade(coeffs)

	return f, nil
}

// Low returns the lower band edge in Hz.
func (f *Filter) Low() float64 { return f.lowHz }

// High returns the upper band edge in Hz.
func (f *Filter) High() float64 { return f.highHz }

// Order returns the Butterworth order of each edge cascade.
func (f *Filter) Order() int { return f.order }

// Process filters the signal causally and returns a new slice.
func (f *Filter) Process(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]float64, len(signal))
	copy(out, signal)

	f.sections.reset()
	f.sections.processBlock(out)

	return out, nil
}

// ProcessZeroPhase filters the signal forward and then backward, cancelling
// the cascade's phase response. The effective attenuation is doubled.
func (f *Filter) ProcessZeroPhase(signal []float64) ([]float64, error) {
	out, err := f.Process(signal)
	if err != nil {
		return nil, err
	}

	reverse(out)

	f.sections.reset()
	f.sections.processBlock(out)

	reverse(out)

	return out, nil
}

// Apply is a one-shot zero-phase band-pass between lowHz and highHz.
func Apply(signal []float64, lowHz, highHz, sampleRate float64) ([]float64, error) {
	f, err := New(lowHz, highHz, sampleRate)
	if err != nil {
		return nil, err
	}

	return f.ProcessZeroPhase(signal)
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
