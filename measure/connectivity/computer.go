// Package connectivity computes harmonic connectivity matrices between
// multichannel time-series. A Computer extracts spectral peaks per channel
// pair and scores their harmonic relationship with one of several metrics,
// producing a channel-by-channel matrix. Time-resolved and transitional
// variants track harmonicity over time.
package connectivity

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-harmony/dsp/emd"
	"github.com/cwbudde/algo-harmony/dsp/peaks"
)

// Computer calculates pairwise harmonic connectivity over a fixed
// configuration. It is safe for concurrent use once constructed.
type Computer struct {
	cfg        Config
	extractor  PeakExtractor
	decomposer Decomposer
	workers    int
	onProgress ProgressFunc
}

// NewComputer validates the configuration, fills in defaults and returns a
// ready Computer.
func NewComputer(cfg Config, opts ...Option) (*Computer, error) {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	c := &Computer{
		cfg:        cfg,
		decomposer: emdDecomposer{},
		workers:    runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.extractor == nil {
		ex, err := peaks.NewExtractor(peaks.Config{
			SampleRate:  cfg.SampleRate,
			MinFreq:     cfg.MinFreq,
			MaxFreq:     cfg.MaxFreq,
			NPeaks:      cfg.NPeaks,
			PrecisionHz: cfg.PrecisionHz,
			Method:      cfg.PeakMethod,
		})
		if err != nil {
			return nil, err
		}

		c.extractor = ex
	}

	return c, nil
}

// Config returns the normalized configuration.
func (c *Computer) Config() Config {
	return c.cfg
}

type pairTask struct {
	row, col int
}

// Compute evaluates the metric for every ordered channel pair, including the
// diagonal, and returns the resulting matrix. Peaks are extracted per pair so
// that custom extractors may adapt to the paired channel. Degenerate pairs
// yield NaN entries rather than failing the computation.
func Compute(signals [][]float64, sampleRate float64, metric Metric, cfg Config) ([][]float64, error) {
	cfg.SampleRate = sampleRate

	c, err := NewComputer(cfg)
	if err != nil {
		return nil, err
	}

	return c.Compute(signals, metric)
}

// Compute evaluates the metric for every ordered channel pair, including the
// diagonal. The result is an n-by-n matrix in channel order.
func (c *Computer) Compute(signals [][]float64, metric Metric) ([][]float64, error) {
	if !metric.Valid() {
		return nil, ErrInvalidMetric
	}

	if metric.Banded() {
		return nil, ErrBandedMetric
	}

	if err := checkSignals(signals); err != nil {
		return nil, err
	}

	n := len(signals)
	matrix := newMatrix(n, n)

	err := c.forEachPair(n*n, func(k int) error {
		row, col := k/n, k%n

		value, err := c.pairValue(metric, signals[row], signals[col])
		if err != nil {
			return err
		}

		matrix[row][col] = value

		return nil
	})
	if err != nil {
		return nil, err
	}

	return matrix, nil
}

// ComputeMultiband evaluates a banded metric for every ordered channel pair
// and returns one matrix per configured band, in band order.
func (c *Computer) ComputeMultiband(signals [][]float64, metric Metric) ([][][]float64, error) {
	if !metric.Valid() {
		return nil, ErrInvalidMetric
	}

	if !metric.Banded() {
		return nil, ErrScalarMetric
	}

	if err := checkSignals(signals); err != nil {
		return nil, err
	}

	if len(c.cfg.Bands) == 0 {
		return nil, ErrNoBands
	}

	n := len(signals)

	result := make([][][]float64, len(c.cfg.Bands))
	for b := range result {
		result[b] = newMatrix(n, n)
	}

	err := c.forEachPair(n*n, func(k int) error {
		row, col := k/n, k%n

		values, err := c.pairBandValues(signals[row], signals[col])
		if err != nil {
			return err
		}

		for b, v := range values {
			result[b][row][col] = v
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (c *Computer) pairValue(metric Metric, sig1, sig2 []float64) (float64, error) {
	peaks1, err := c.extractor.Extract(sig1)
	if err != nil {
		return 0, err
	}

	peaks2, err := c.extractor.Extract(sig2)
	if err != nil {
		return 0, err
	}

	return c.metricValue(metric, peaks1, peaks2, sig1, sig2)
}

// forEachPair runs fn for every index in [0, total) on a bounded worker
// pool and reports progress after each completed call.
func (c *Computer) forEachPair(total int, fn func(k int) error) error {
	var (
		group    errgroup.Group
		mu       sync.Mutex
		done     int
		progress = c.onProgress
	)

	group.SetLimit(c.workers)

	for k := 0; k < total; k++ {
		group.Go(func() error {
			if err := fn(k); err != nil {
				return err
			}

			if progress != nil {
				mu.Lock()
				done++
				progress(done, total)
				mu.Unlock()
			}

			return nil
		})
	}

	return group.Wait()
}

func checkSignals(signals [][]float64) error {
	if len(signals) == 0 {
		return ErrNoSignals
	}

	length := len(signals[0])
	for _, sig := range signals[1:] {
		if len(sig) != length {
			return ErrLengthMismatch
		}
	}

	if length == 0 {
		return ErrNoSignals
	}

	return nil
}

func newMatrix(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)

	matrix := make([][]float64, rows)
	for i := range matrix {
		matrix[i] = backing[i*cols : (i+1)*cols]
	}

	return matrix
}

type emdDecomposer struct{}

func (emdDecomposer) HilbertSpectrum(signal []float64, sampleRate float64, nModes int) (emd.Spectrum, error) {
	return emd.HilbertSpectrum(signal, sampleRate, nModes)
}
