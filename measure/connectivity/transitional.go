package connectivity

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-harmony/measure/harmony"
	"github.com/cwbudde/algo-harmony/stats/correl"
)

// TransitionalHarmonizer reduces one channel to a time-resolved harmonicity
// series with matching sample times.
type TransitionalHarmonizer interface {
	Compute(signal []float64, sampleRate float64) (series, times []float64, err error)
}

// TransitionalResult holds the correlation analysis of per-channel
// harmonicity series.
type TransitionalResult struct {
	// R is the channel-by-channel Pearson correlation matrix of the series.
	R [][]float64

	// P holds the raw two-sided p-values and PCorrected the
	// Benjamini-Hochberg adjusted ones.
	P          [][]float64
	PCorrected [][]float64

	// Series are the per-channel harmonicity series, truncated to a common
	// length, and Times the sample times of that common length.
	Series [][]float64
	Times  []float64
}

// ComputeTransitional is a one-shot convenience around
// (*Computer).ComputeTransitional.
func ComputeTransitional(signals [][]float64, sampleRate float64,
	h TransitionalHarmonizer, cfg Config,
) (TransitionalResult, error) {
	cfg.SampleRate = sampleRate

	c, err := NewComputer(cfg)
	if err != nil {
		return TransitionalResult{}, err
	}

	return c.ComputeTransitional(signals, h)
}

// ComputeTransitional reduces every channel to a harmonicity series and
// correlates the series across channels, with false-discovery-rate
// correction over all pairs.
func (c *Computer) ComputeTransitional(signals [][]float64, h TransitionalHarmonizer) (TransitionalResult, error) {
	if h == nil {
		return TransitionalResult{}, errors.New("connectivity: nil transitional harmonizer")
	}

	if err := checkSignals(signals); err != nil {
		return TransitionalResult{}, err
	}

	series := make([][]float64, len(signals))
	times := make([][]float64, len(signals))

	for i, sig := range signals {
		s, t, err := h.Compute(sig, c.cfg.SampleRate)
		if err != nil {
			return TransitionalResult{}, err
		}

		series[i], times[i] = s, t
	}

	// Harmonizers may emit slightly different series lengths; align on the
	// shortest.
	minLen := len(series[0])
	for _, s := range series[1:] {
		if len(s) < minLen {
			minLen = len(s)
		}
	}

	for i := range series {
		series[i] = series[i][:minLen]
	}

	result, err := correl.Compute(series)
	if err != nil {
		return TransitionalResult{}, err
	}

	commonTimes := times[0]
	if len(commonTimes) > minLen {
		commonTimes = commonTimes[:minLen]
	}

	return TransitionalResult{
		R:          result.R,
		P:          result.P,
		PCorrected: result.PCorrected,
		Series:     series,
		Times:      commonTimes,
	}, nil
}

// SlidingHarmonizer is the default TransitionalHarmonizer. It slides an
// analysis window over the channel, extracts peaks per window and rates the
// harmonic similarity between the peak sets of successive windows.
type SlidingHarmonizer struct {
	// Extractor yields the peak set of one window.
	Extractor PeakExtractor

	// WindowSamples is the analysis window length. Required.
	WindowSamples int

	// StepSamples is the hop between successive windows. Defaults to half
	// the window.
	StepSamples int

	// SampleRate overrides the rate passed to Compute when positive.
	SampleRate float64
}

// Compute returns the window-to-window harmonic similarity series and the
// midpoint times (seconds) of the compared window pairs.
func (h *SlidingHarmonizer) Compute(signal []float64, sampleRate float64) ([]float64, []float64, error) {
	if h.Extractor == nil {
		return nil, nil, errors.New("connectivity: sliding harmonizer needs a peak extractor")
	}

	if h.WindowSamples <= 0 {
		return nil, nil, fmt.Errorf("connectivity: window length must be positive, got %d", h.WindowSamples)
	}

	if h.SampleRate > 0 {
		sampleRate = h.SampleRate
	}

	if sampleRate <= 0 {
		return nil, nil, fmt.Errorf("connectivity: sample rate must be positive, got %v", sampleRate)
	}

	step := h.StepSamples
	if step <= 0 {
		step = h.WindowSamples / 2
		if step == 0 {
			step = 1
		}
	}

	var (
		windowPeaks [][]float64
		starts      []int
	)

	for start := 0; start+h.WindowSamples <= len(signal); start += step {
		peaks, err := h.Extractor.Extract(signal[start : start+h.WindowSamples])
		if err != nil {
			return nil, nil, err
		}

		windowPeaks = append(windowPeaks, peaks)
		starts = append(starts, start)
	}

	if len(windowPeaks) < 2 {
		return nil, nil, nil
	}

	series := make([]float64, len(windowPeaks)-1)
	times := make([]float64, len(windowPeaks)-1)

	for w := 0; w < len(windowPeaks)-1; w++ {
		series[w] = windowSimilarity(windowPeaks[w], windowPeaks[w+1])

		// Midpoint of the two compared windows.
		center := float64(starts[w]+starts[w+1]+h.WindowSamples) / 2
		times[w] = center / sampleRate
	}

	return series, times, nil
}

func windowSimilarity(peaks1, peaks2 []float64) float64 {
	var ratios []float64

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			switch {
			case p1 > p2 && p2 > 0:
				ratios = append(ratios, harmony.Rebound(p1/p2))
			case p2 > p1 && p1 > 0:
				ratios = append(ratios, harmony.Rebound(p2/p1))
			}
		}
	}

	return meanOrNaN(harmony.RatiosToSimilarity(ratios))
}
