package connectivity

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-harmony/dsp/cwt"
	"github.com/cwbudde/algo-harmony/dsp/emd"
	"github.com/cwbudde/algo-harmony/dsp/peaks"
)

// Errors returned by the connectivity computer.
var (
	ErrNoSignals       = errors.New("connectivity: no input signals")
	ErrLengthMismatch  = errors.New("connectivity: signals have different lengths")
	ErrInvalidMetric   = errors.New("connectivity: invalid metric")
	ErrBandedMetric    = errors.New("connectivity: banded metric requires ComputeMultiband")
	ErrScalarMetric    = errors.New("connectivity: ComputeMultiband requires a banded metric")
	ErrNoBands         = errors.New("connectivity: no frequency bands configured")
	ErrInvalidModes    = errors.New("connectivity: mode count must be positive")
	ErrInvalidTimeMode = errors.New("connectivity: unknown time-resolved method")
)

// PeakExtractor yields the characteristic frequencies of one channel.
// peaks.Extractor is the default implementation.
type PeakExtractor interface {
	Extract(signal []float64) ([]float64, error)
}

// Decomposer produces the time-frequency decomposition used by the
// time-resolved measures. The default is backed by empirical mode
// decomposition.
type Decomposer interface {
	HilbertSpectrum(signal []float64, sampleRate float64, nModes int) (emd.Spectrum, error)
}

// Config controls peak extraction, spectral resolution and the per-metric
// parameters of a Computer.
type Config struct {
	// SampleRate is the sampling rate of all input channels in Hz. Required.
	SampleRate float64

	// MinFreq and MaxFreq bound the peak search range in Hz.
	// Defaults: 2 and 80.
	MinFreq float64
	MaxFreq float64

	// NPeaks is the number of peaks extracted per channel. Default: 5.
	NPeaks int

	// PrecisionHz is the spectral resolution for peak extraction and the
	// wavelet frequency grid. Default: 0.1.
	PrecisionHz float64

	// PeakMethod selects the peak extraction strategy. Default: FFT spectrum
	// picking.
	PeakMethod peaks.Method

	// NHarm is the harmonic series length for harm_fit and the subharmonic
	// depth for subharm_tension. Default: 10.
	NHarm int

	// DeltaLimMs is the subharmonic alignment window in milliseconds.
	// Default: 20.
	DeltaLimMs float64

	// TimeResolvedDeltaLimMs is the alignment window for the time-resolved
	// tension method, where instantaneous frequencies wander more than
	// extracted peaks. Default: 50.
	TimeResolvedDeltaLimMs float64

	// TensionExponent weights subharmonic misalignment. Default: 2.1.
	TensionExponent float64

	// HarmFitToleranceHz is the matching tolerance for common harmonics.
	// Default: 0.5.
	HarmFitToleranceHz float64

	// EulerScale converts peak frequencies to integers before the gradus
	// evaluation. Default: 10.
	EulerScale float64

	// RRCiBandwidthHz is the filter bandwidth around each peak for RRCi.
	// Default: 2.
	RRCiBandwidthHz float64

	// RRCiMaxDenominator bounds the rational approximation of peak ratios.
	// Default: 16.
	RRCiMaxDenominator int

	// CouplingBandwidthHz is the filter bandwidth around each peak for the
	// wPLI and MI metrics. Default: 1.
	CouplingBandwidthHz float64

	// PhaseBins is the histogram resolution for the MI metrics. Default: 10.
	PhaseBins int

	// Omega0 is the Morlet wavelet center frequency for MI_spectral.
	// Default: cwt.DefaultOmega0.
	Omega0 float64

	// Bands are the [low, high) frequency bands in Hz for the multiband
	// metrics. Default: DefaultBands().
	Bands [][2]float64
}

// DefaultBands returns the standard five-band split covering delta through
// gamma.
func DefaultBands() [][2]float64 {
	return [][2]float64{
		{2, 3.55},
		{3.55, 7.15},
		{7.15, 14.3},
		{14.3, 28.55},
		{28.55, 49.4},
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.MinFreq <= 0 {
		cfg.MinFreq = 2
	}

	if cfg.MaxFreq <= 0 {
		cfg.MaxFreq = 80
	}

	if cfg.NPeaks <= 0 {
		cfg.NPeaks = 5
	}

	if cfg.PrecisionHz <= 0 {
		cfg.PrecisionHz = 0.1
	}

	if cfg.NHarm <= 0 {
		cfg.NHarm = 10
	}

	if cfg.DeltaLimMs <= 0 {
		cfg.DeltaLimMs = 20
	}

	if cfg.TimeResolvedDeltaLimMs <= 0 {
		cfg.TimeResolvedDeltaLimMs = 50
	}

	if cfg.TensionExponent <= 0 {
		cfg.TensionExponent = 2.1
	}

	if cfg.HarmFitToleranceHz <= 0 {
		cfg.HarmFitToleranceHz = 0.5
	}

	if cfg.EulerScale <= 0 {
		cfg.EulerScale = 10
	}

	if cfg.RRCiBandwidthHz <= 0 {
		cfg.RRCiBandwidthHz = 2
	}

	if cfg.RRCiMaxDenominator == 0 {
		cfg.RRCiMaxDenominator = 16
	}

	if cfg.CouplingBandwidthHz <= 0 {
		cfg.CouplingBandwidthHz = 1
	}

	if cfg.PhaseBins <= 0 {
		cfg.PhaseBins = 10
	}

	if cfg.Omega0 <= 0 {
		cfg.Omega0 = cwt.DefaultOmega0
	}

	if len(cfg.Bands) == 0 {
		cfg.Bands = DefaultBands()
	}

	return cfg
}

func validateConfig(cfg Config) error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("connectivity: sample rate must be positive, got %v", cfg.SampleRate)
	}

	if cfg.MinFreq >= cfg.MaxFreq {
		return fmt.Errorf("connectivity: invalid frequency range [%v, %v]", cfg.MinFreq, cfg.MaxFreq)
	}

	if cfg.RRCiMaxDenominator < 1 {
		return fmt.Errorf("connectivity: ratio denominator bound must be at least 1, got %d", cfg.RRCiMaxDenominator)
	}

	for _, band := range cfg.Bands {
		if band[0] <= 0 || band[0] >= band[1] {
			return fmt.Errorf("connectivity: invalid frequency band [%v, %v]", band[0], band[1])
		}
	}

	return nil
}

// ProgressFunc reports completed pair computations out of the total.
type ProgressFunc func(done, total int)

// Option configures a Computer.
type Option func(*Computer) error

// WithOnProgress installs a progress callback. The callback is serialized;
// it never runs concurrently with itself.
func WithOnProgress(fn ProgressFunc) Option {
	return func(c *Computer) error {
		c.onProgress = fn
		return nil
	}
}

// WithWorkers bounds the number of concurrent pair computations.
// The default is the number of usable CPUs.
func WithWorkers(n int) Option {
	return func(c *Computer) error {
		if n < 1 {
			return fmt.Errorf("connectivity: worker count must be positive, got %d", n)
		}

		c.workers = n

		return nil
	}
}

// WithPeakExtractor replaces the default peak extractor.
func WithPeakExtractor(pe PeakExtractor) Option {
	return func(c *Computer) error {
		if pe == nil {
			return errors.New("connectivity: nil peak extractor")
		}

		c.extractor = pe

		return nil
	}
}

// WithDecomposer replaces the default time-frequency decomposer used by the
// time-resolved measures.
func WithDecomposer(d Decomposer) Option {
	return func(c *Computer) error {
		if d == nil {
			return errors.New("connectivity: nil decomposer")
		}

		c.decomposer = d

		return nil
	}
}
