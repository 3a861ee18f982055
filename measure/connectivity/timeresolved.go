package connectivity

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/cwbudde/algo-harmony/dsp/emd"
	"github.com/cwbudde/algo-harmony/measure/harmony"
)

// TimeResolvedMethod selects the per-sample harmonicity measure.
type TimeResolvedMethod int

const (
	// TimeResolvedHarmSim scores each sample with the dyadic similarity of
	// the instantaneous frequency ratio.
	TimeResolvedHarmSim TimeResolvedMethod = iota

	// TimeResolvedSubharmTension scores each sample with the subharmonic
	// tension of the instantaneous frequency pair.
	TimeResolvedSubharmTension
)

type pairKey struct {
	lo, hi int
}

// canonicalPair orders a channel pair so that both directions share one
// decomposition.
func canonicalPair(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}

	return pairKey{lo: i, hi: j}
}

// ComputeTimeResolved is a one-shot convenience around
// (*Computer).ComputeTimeResolved.
func ComputeTimeResolved(signals [][]float64, sampleRate float64, nModes int,
	method TimeResolvedMethod, cfg Config,
) ([][][][]float64, error) {
	cfg.SampleRate = sampleRate

	c, err := NewComputer(cfg)
	if err != nil {
		return nil, err
	}

	return c.ComputeTimeResolved(signals, nModes, method)
}

// ComputeTimeResolved tracks pairwise harmonicity over time. Each channel is
// decomposed into nModes oscillatory modes, with the decompositions shared
// across pairs through an LRU memo; the harmonicity of the instantaneous
// frequencies is evaluated per mode and sample. The result is indexed
// [mode][sample][row][col] and symmetric in the channel axes. Samples whose
// tension is undefined hold NaN.
func (c *Computer) ComputeTimeResolved(signals [][]float64, nModes int, method TimeResolvedMethod) ([][][][]float64, error) {
	if nModes < 1 {
		return nil, ErrInvalidModes
	}

	if method != TimeResolvedHarmSim && method != TimeResolvedSubharmTension {
		return nil, ErrInvalidTimeMode
	}

	if err := checkSignals(signals); err != nil {
		return nil, err
	}

	n := len(signals)
	samples := len(signals[0])

	tensor := make([][][][]float64, nModes)
	for m := range tensor {
		tensor[m] = make([][][]float64, samples)
		for t := range tensor[m] {
			tensor[m][t] = newMatrix(n, n)
		}
	}

	if n < 2 {
		return tensor, nil
	}

	cache, err := lru.New[int, emd.Spectrum](n)
	if err != nil {
		return nil, err
	}

	var pairs []pairKey
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, canonicalPair(i, j))
		}
	}

	err = c.forEachPair(len(pairs), func(k int) error {
		pair := pairs[k]

		harmonicity, err := c.pairHarmonicity(cache, pair, signals[pair.lo], signals[pair.hi], nModes, method)
		if err != nil {
			return err
		}

		for m := 0; m < nModes; m++ {
			for t := 0; t < samples; t++ {
				tensor[m][t][pair.lo][pair.hi] = harmonicity[m][t]
				tensor[m][t][pair.hi][pair.lo] = harmonicity[m][t]
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return tensor, nil
}

// pairHarmonicity scores the instantaneous frequency pair per mode and
// sample, indexed [mode][sample]. Both channel decompositions come through
// the memo, so a channel shared by several pairs is decomposed once.
func (c *Computer) pairHarmonicity(cache *lru.Cache[int, emd.Spectrum], pair pairKey,
	sig1, sig2 []float64, nModes int, method TimeResolvedMethod,
) ([][]float64, error) {
	spec1, err := c.channelSpectrum(cache, pair.lo, sig1, nModes)
	if err != nil {
		return nil, err
	}

	spec2, err := c.channelSpectrum(cache, pair.hi, sig2, nModes)
	if err != nil {
		return nil, err
	}

	samples := len(sig1)

	harmonicity := make([][]float64, nModes)
	for m := range harmonicity {
		harmonicity[m] = make([]float64, samples)

		for t := 0; t < samples; t++ {
			f1 := modeFrequency(spec1.Frequency, m, t)
			f2 := modeFrequency(spec2.Frequency, m, t)

			harmonicity[m][t] = c.sampleHarmonicity(f1, f2, method)
		}
	}

	return harmonicity, nil
}

// channelSpectrum memoizes per-channel Hilbert spectra. Concurrent misses on
// the same channel may decompose it twice; the results are identical, the
// memo keeps the last one.
func (c *Computer) channelSpectrum(cache *lru.Cache[int, emd.Spectrum], channel int,
	signal []float64, nModes int,
) (emd.Spectrum, error) {
	if spec, ok := cache.Get(channel); ok {
		return spec, nil
	}

	spec, err := c.decomposer.HilbertSpectrum(signal, c.cfg.SampleRate, nModes)
	if err != nil {
		return emd.Spectrum{}, err
	}

	cache.Add(channel, spec)

	return spec, nil
}

func modeFrequency(frequency [][]float64, mode, t int) float64 {
	if mode >= len(frequency) || t >= len(frequency[mode]) {
		return 0
	}

	return frequency[mode][t]
}

func (c *Computer) sampleHarmonicity(f1, f2 float64, method TimeResolvedMethod) float64 {
	switch method {
	case TimeResolvedSubharmTension:
		tension, ok := harmony.ChordTension([]float64{f1, f2}, c.cfg.NHarm,
			c.cfg.TimeResolvedDeltaLimMs, c.cfg.TensionExponent)
		if !ok {
			return math.NaN()
		}

		return tension
	default:
		// Equal or vanishing frequencies carry no ratio information.
		switch {
		case f1 > f2 && f2 > 0:
			return harmony.DyadSimilarity(f1 / f2)
		case f2 > f1 && f1 > 0:
			return harmony.DyadSimilarity(f2 / f1)
		default:
			return 0
		}
	}
}
