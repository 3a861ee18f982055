// Package signal generates deterministic synthetic oscillations for demos
// and tests: single tones, tone mixtures and multichannel recordings with a
// controlled harmonic structure.
package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Generator creates deterministic signals at a fixed sampling rate.
type Generator struct {
	sampleRate float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator for the given sampling rate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("signal: sample rate must be > 0: %f", sampleRate)
	}

	g := &Generator{
		sampleRate: sampleRate,
		seed:       1,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g, nil
}

// SampleRate returns the generator's sampling rate in Hz.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sine samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// Tones generates a sum of sine waves, one per frequency, with descending
// amplitudes so the first tone dominates.
func (g *Generator) Tones(samples int, freqsHz ...float64) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: tone samples must be > 0: %d", samples)
	}

	if len(freqsHz) == 0 {
		return nil, fmt.Errorf("signal: at least one tone frequency required")
	}

	out := make([]float64, samples)

	for k, f := range freqsHz {
		amp := 1 / float64(k+1)
		step := 2 * math.Pi * f / g.sampleRate

		for i := range out {
			out[i] += amp * math.Sin(step * float64(i))
		}
	}

	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))

	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// HarmonicChannels generates a multichannel recording whose channels carry
// integer multiples of a fundamental frequency plus a little noise. Channel
// i oscillates at (i+1) times the fundamental, so adjacent channels form
// simple harmonic ratios.
func (g *Generator) HarmonicChannels(channels, samples int, fundamentalHz, noiseAmplitude float64) ([][]float64, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("signal: channel count must be > 0: %d", channels)
	}

	if fundamentalHz <= 0 {
		return nil, fmt.Errorf("signal: fundamental must be > 0: %f", fundamentalHz)
	}

	out := make([][]float64, channels)

	for ch := range out {
		tone, err := g.Sine(fundamentalHz*float64(ch+1), 1, samples)
		if err != nil {
			return nil, err
		}

		if noiseAmplitude > 0 {
			rng := rand.New(rand.NewSource(g.seed + int64(ch)))
			for i := range tone {
				tone[i] += (rng.Float64()*2 - 1) * noiseAmplitude
			}
		}

		out[ch] = tone
	}

	return out, nil
}

// Normalize scales data to the target peak amplitude and returns a new
// slice. A silent input stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("signal: normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
