package connectivity

import "fmt"

// Metric identifies a pairwise harmonicity/coupling measure.
type Metric int

// Supported metrics. MetricWPLIMultiband is the only banded metric: it
// produces one value per frequency band instead of a scalar.
const (
	// MetricHarmSim averages the dyadic similarity of every octave-reduced
	// cross-pair frequency ratio.
	MetricHarmSim Metric = iota

	// MetricEuler evaluates Euler's gradus suavitatis over the concatenated
	// integer-scaled peak sets, a joint harmonic complexity measure.
	MetricEuler

	// MetricHarmFit sums the common-harmonic counts of every cross-pair.
	MetricHarmFit

	// MetricSubharmTension scores the misalignment of the shared subharmonic
	// lattice of the two peak sets.
	MetricSubharmTension

	// MetricRRCi measures rhythmic-ratio phase coupling through the imaginary
	// part of the generalized phase difference statistic.
	MetricRRCi

	// MetricWPLICrossFreq measures 1:1 phase-locking strength around each
	// cross-pair of peaks.
	MetricWPLICrossFreq

	// MetricWPLIMultiband measures phase-locking per fixed frequency band;
	// peak extraction is not involved.
	MetricWPLIMultiband

	// MetricMI computes mutual information between discretized instantaneous
	// phases around each cross-pair of peaks.
	MetricMI

	// MetricMISpectral looks cross-pair mutual information up in a wavelet
	// scale-by-scale phase MI matrix.
	MetricMISpectral
)

var metricNames = map[Metric]string{
	MetricHarmSim:        "harmsim",
	MetricEuler:          "euler",
	MetricHarmFit:        "harm_fit",
	MetricSubharmTension: "subharm_tension",
	MetricRRCi:           "RRCi",
	MetricWPLICrossFreq:  "wPLI_crossfreq",
	MetricWPLIMultiband:  "wPLI_multiband",
	MetricMI:             "MI",
	MetricMISpectral:     "MI_spectral",
}

// String returns the canonical metric name.
func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Metric(%d)", int(m))
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	_, ok := metricNames[m]
	return ok
}

// Banded reports whether the metric produces one value per frequency band.
func (m Metric) Banded() bool {
	return m == MetricWPLIMultiband
}

// UsesPeaks reports whether the metric consumes extracted peak sets.
func (m Metric) UsesPeaks() bool {
	return m != MetricWPLIMultiband
}

// ParseMetric resolves a canonical metric name. Unknown names are a
// configuration error.
func ParseMetric(name string) (Metric, error) {
	for m, n := range metricNames {
		if n == name {
			return m, nil
		}
	}

	return 0, fmt.Errorf("connectivity: unknown metric %q", name)
}
