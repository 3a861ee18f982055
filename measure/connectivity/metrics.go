package connectivity

import (
	"math"
	"math/cmplx"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-harmony/dsp/analytic"
	"github.com/cwbudde/algo-harmony/dsp/bandpass"
	"github.com/cwbudde/algo-harmony/dsp/cwt"
	"github.com/cwbudde/algo-harmony/measure/harmony"
)

func (c *Computer) metricValue(metric Metric, peaks1, peaks2, sig1, sig2 []float64) (float64, error) {
	if metric.UsesPeaks() && (len(peaks1) == 0 || len(peaks2) == 0) {
		return math.NaN(), nil
	}

	switch metric {
	case MetricHarmSim:
		return c.harmSim(peaks1, peaks2), nil
	case MetricEuler:
		return c.euler(peaks1, peaks2), nil
	case MetricHarmFit:
		return c.harmFit(peaks1, peaks2), nil
	case MetricSubharmTension:
		return c.subharmTension(peaks1, peaks2), nil
	case MetricRRCi:
		return c.rrci(peaks1, peaks2, sig1, sig2)
	case MetricWPLICrossFreq:
		return c.wpliCrossFreq(peaks1, peaks2, sig1, sig2)
	case MetricMI:
		return c.phaseMI(peaks1, peaks2, sig1, sig2)
	case MetricMISpectral:
		return c.spectralMI(peaks1, peaks2, sig1, sig2)
	default:
		return 0, ErrInvalidMetric
	}
}

// harmSim averages the dyadic similarity of every octave-reduced cross-pair
// ratio. Ratios are formed larger over smaller; equal peaks contribute
// nothing. No usable ratio yields NaN.
func (c *Computer) harmSim(peaks1, peaks2 []float64) float64 {
	var ratios []float64

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			switch {
			case p1 > p2 && p2 > 0:
				ratios = append(ratios, p1/p2)
			case p2 > p1 && p1 > 0:
				ratios = append(ratios, p2/p1)
			}
		}
	}

	return meanOrNaN(harmony.RatiosToSimilarity(rebounded(ratios)))
}

func rebounded(ratios []float64) []float64 {
	out := make([]float64, 0, len(ratios))
	for _, r := range ratios {
		out = append(out, harmony.Rebound(r))
	}

	return out
}

// euler scores the joint harmonic complexity of both peak sets through
// Euler's gradus suavitatis over the integer-scaled frequencies. Scaled
// peaks are truncated, not rounded.
func (c *Computer) euler(peaks1, peaks2 []float64) float64 {
	values := make([]int, 0, len(peaks1)+len(peaks2))

	for _, p := range peaks1 {
		values = append(values, int(math.Trunc(p*c.cfg.EulerScale)))
	}

	for _, p := range peaks2 {
		values = append(values, int(math.Trunc(p*c.cfg.EulerScale)))
	}

	gradus, err := harmony.Gradus(values...)
	if err != nil {
		return math.NaN()
	}

	return float64(gradus)
}

// harmFit counts the shared harmonics across all cross-pairs.
func (c *Computer) harmFit(peaks1, peaks2 []float64) float64 {
	total := 0

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			total += harmony.CommonHarmonics(p1, p2, c.cfg.NHarm, c.cfg.HarmFitToleranceHz)
		}
	}

	return float64(total)
}

func (c *Computer) subharmTension(peaks1, peaks2 []float64) float64 {
	tension, ok := harmony.PeakSetTension(peaks1, peaks2, c.cfg.NHarm, c.cfg.DeltaLimMs, c.cfg.TensionExponent)
	if !ok {
		return math.NaN()
	}

	return tension
}

// rrci averages the rhythmic-ratio coupling index over all cross-pairs. Each
// pair locks the n:m ratio of its peaks through a bounded rational
// approximation and measures coupling as the imaginary part of the mean
// generalized phase difference vector.
func (c *Computer) rrci(peaks1, peaks2, sig1, sig2 []float64) (float64, error) {
	var values []float64

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			if p1 <= 0 || p2 <= 0 {
				continue
			}

			num, den, err := harmony.LimitDenominator(p1/p2, c.cfg.RRCiMaxDenominator)
			if err != nil {
				return 0, err
			}

			if num == 0 {
				continue
			}

			phase1, err := c.bandPhase(sig1, p1, c.cfg.RRCiBandwidthHz, false)
			if err != nil {
				return 0, err
			}

			phase2, err := c.bandPhase(sig2, p2, c.cfg.RRCiBandwidthHz, false)
			if err != nil {
				return 0, err
			}

			if phase1 == nil || phase2 == nil {
				continue
			}

			// Generalized phase difference n*phi1 - m*phi2, with n:m the
			// rational approximation of the peak ratio.
			var sum complex128
			for t := range phase1 {
				sum += cmplx.Exp(complex(0, float64(num)*phase1[t]-float64(den)*phase2[t]))
			}

			sum /= complex(float64(len(phase1)), 0)
			values = append(values, math.Abs(imag(sum)))
		}
	}

	return meanOrNaN(values), nil
}

// wpliCrossFreq averages the phase-locking strength of the band-limited
// signals around every cross-pair of peaks.
func (c *Computer) wpliCrossFreq(peaks1, peaks2, sig1, sig2 []float64) (float64, error) {
	var values []float64

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			value, err := c.phaseLocking(sig1, sig2, p1, p2)
			if err != nil {
				return 0, err
			}

			if !math.IsNaN(value) {
				values = append(values, value)
			}
		}
	}

	return meanOrNaN(values), nil
}

func (c *Computer) pairBandValues(sig1, sig2 []float64) ([]float64, error) {
	values := make([]float64, len(c.cfg.Bands))

	for b, band := range c.cfg.Bands {
		center := (band[0] + band[1]) / 2
		width := band[1] - band[0]

		value, err := c.bandPhaseLocking(sig1, sig2, center, width, center, width)
		if err != nil {
			return nil, err
		}

		values[b] = value
	}

	return values, nil
}

func (c *Computer) phaseLocking(sig1, sig2 []float64, f1, f2 float64) (float64, error) {
	bw := c.cfg.CouplingBandwidthHz
	return c.bandPhaseLocking(sig1, sig2, f1, bw, f2, bw)
}

// bandPhaseLocking is the modulus of the mean phase-difference vector of the
// two band-limited, standardized analytic signals.
func (c *Computer) bandPhaseLocking(sig1, sig2 []float64, f1, bw1, f2, bw2 float64) (float64, error) {
	phase1, err := c.bandPhase(sig1, f1, bw1, true)
	if err != nil {
		return 0, err
	}

	phase2, err := c.bandPhase(sig2, f2, bw2, true)
	if err != nil {
		return 0, err
	}

	if phase1 == nil || phase2 == nil {
		return math.NaN(), nil
	}

	var sum complex128
	for t := range phase1 {
		sum += cmplx.Exp(complex(0, phase1[t]-phase2[t]))
	}

	sum /= complex(float64(len(phase1)), 0)

	return cmplx.Abs(sum), nil
}

// bandPhase band-limits the signal around center and returns its
// instantaneous phase. A nil slice and nil error mark a band that collapses
// after clamping to the valid range.
func (c *Computer) bandPhase(signal []float64, center, width float64, standardize bool) ([]float64, error) {
	low, high, ok := c.clampBand(center-width/2, center+width/2)
	if !ok {
		return nil, nil
	}

	filtered, err := bandpass.Apply(signal, low, high, c.cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	if standardize {
		filtered = analytic.ZScore(filtered)
	}

	return analytic.Phase(filtered)
}

// clampBand forces the band edges into (0, Nyquist). A band that collapses
// under clamping is reported as unusable.
func (c *Computer) clampBand(low, high float64) (float64, float64, bool) {
	nyquist := c.cfg.SampleRate / 2

	if low <= 0 {
		low = c.cfg.PrecisionHz
	}

	if high >= nyquist {
		high = nyquist * (1 - 1e-6)
	}

	if low >= high {
		return 0, 0, false
	}

	return low, high, true
}

// phaseMI averages the mutual information between discretized instantaneous
// phases over all cross-pairs of peaks.
func (c *Computer) phaseMI(peaks1, peaks2, sig1, sig2 []float64) (float64, error) {
	var values []float64

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			phase1, err := c.bandPhase(sig1, p1, c.cfg.CouplingBandwidthHz, true)
			if err != nil {
				return 0, err
			}

			phase2, err := c.bandPhase(sig2, p2, c.cfg.CouplingBandwidthHz, true)
			if err != nil {
				return 0, err
			}

			if phase1 == nil || phase2 == nil {
				continue
			}

			values = append(values, mutualInformation(discretizePhase(phase1, c.cfg.PhaseBins),
				discretizePhase(phase2, c.cfg.PhaseBins), c.cfg.PhaseBins))
		}
	}

	return meanOrNaN(values), nil
}

// spectralMI builds the wavelet scale-by-scale phase mutual-information
// matrix once and looks every cross-pair of peaks up at their nearest grid
// frequencies.
func (c *Computer) spectralMI(peaks1, peaks2, sig1, sig2 []float64) (float64, error) {
	grid, err := cwt.FrequencyGrid(c.cfg.MinFreq, c.cfg.MaxFreq, c.cfg.PrecisionHz)
	if err != nil {
		return 0, err
	}

	scales := cwt.ScalesForFrequencies(grid, c.cfg.Omega0, c.cfg.SampleRate)

	coeffs1, err := cwt.Transform(sig1, scales, c.cfg.Omega0, c.cfg.SampleRate)
	if err != nil {
		return 0, err
	}

	coeffs2, err := cwt.Transform(sig2, scales, c.cfg.Omega0, c.cfg.SampleRate)
	if err != nil {
		return 0, err
	}

	bins1 := discretizeCoeffPhases(coeffs1, c.cfg.PhaseBins)
	bins2 := discretizeCoeffPhases(coeffs2, c.cfg.PhaseBins)

	// MI cells are filled lazily; only the scale pairs the peaks select are
	// ever touched.
	miMatrix := make([][]float64, len(scales))
	for i := range miMatrix {
		miMatrix[i] = make([]float64, len(scales))
		for j := range miMatrix[i] {
			miMatrix[i][j] = math.NaN()
		}
	}

	var values []float64

	for _, p1 := range peaks1 {
		for _, p2 := range peaks2 {
			i1 := cwt.NearestIndex(grid, p1)
			i2 := cwt.NearestIndex(grid, p2)

			if math.IsNaN(miMatrix[i1][i2]) {
				miMatrix[i1][i2] = mutualInformation(bins1[i1], bins2[i2], c.cfg.PhaseBins)
			}

			values = append(values, miMatrix[i1][i2])
		}
	}

	return meanOrNaN(values), nil
}

func discretizeCoeffPhases(coeffs [][]complex128, bins int) [][]int {
	out := make([][]int, len(coeffs))

	for s, row := range coeffs {
		phases := make([]float64, len(row))
		for t, v := range row {
			phases[t] = cmplx.Phase(v)
		}

		out[s] = discretizePhase(phases, bins)
	}

	return out
}

// discretizePhase maps phases in (-pi, pi] onto bin indices in [0, bins).
func discretizePhase(phases []float64, bins int) []int {
	out := make([]int, len(phases))

	for t, p := range phases {
		idx := int((p + math.Pi) / (2 * math.Pi) * float64(bins))
		if idx >= bins {
			idx = bins - 1
		}

		if idx < 0 {
			idx = 0
		}

		out[t] = idx
	}

	return out
}

// mutualInformation estimates MI in nats from a joint histogram of two
// equally long discretized sequences.
func mutualInformation(x, y []int, bins int) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	if n == 0 {
		return 0
	}

	joint := make([]float64, bins*bins)
	px := make([]float64, bins)
	py := make([]float64, bins)

	for t := 0; t < n; t++ {
		joint[x[t]*bins+y[t]]++
		px[x[t]]++
		py[y[t]]++
	}

	total := float64(n)
	mi := 0.0

	for i := 0; i < bins; i++ {
		for j := 0; j < bins; j++ {
			pxy := joint[i*bins+j] / total
			if pxy == 0 {
				continue
			}

			mi += pxy * math.Log(pxy*total*total/(px[i]*py[j]))
		}
	}

	if mi < 0 {
		mi = 0
	}

	return mi
}

func meanOrNaN(values []float64) float64 {
	mean, err := stats.Mean(stats.Float64Data(values))
	if err != nil {
		return math.NaN()
	}

	return mean
}
