package connectivity

import (
	"math"
	"sync"
	"testing"
)

// stubExtractor maps a channel tag, stored in the first sample of each
// signal, to a fixed peak set.
type stubExtractor struct {
	peaks map[float64][]float64
}

func (s *stubExtractor) Extract(signal []float64) ([]float64, error) {
	return s.peaks[signal[0]], nil
}

func taggedSignals(n, samples int) [][]float64 {
	signals := make([][]float64, n)
	for i := range signals {
		signals[i] = make([]float64, samples)
		signals[i][0] = float64(i)
	}
	return signals
}

func sineSignal(freq, sampleRate float64, samples int) []float64 {
	out := make([]float64, samples)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func newTestComputer(t *testing.T, cfg Config, opts ...Option) *Computer {
	t.Helper()

	c, err := NewComputer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewComputer failed: %v", err)
	}
	return c
}

func TestComputeHarmSimOctaveBeatsIrrational(t *testing.T) {
	signals := taggedSignals(2, 16)

	octave := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}, 1: {20}},
	}))

	irrational := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}, 1: {10 * math.Sqrt2}},
	}))

	octaveMatrix, err := octave.Compute(signals, MetricHarmSim)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	irrationalMatrix, err := irrational.Compute(signals, MetricHarmSim)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if math.Abs(octaveMatrix[0][1]-100) > 1e-9 {
		t.Fatalf("octave similarity mismatch: got %v want 100", octaveMatrix[0][1])
	}
	if octaveMatrix[0][1] <= irrationalMatrix[0][1] {
		t.Fatalf("similarity ordering mismatch: octave %v should exceed irrational %v",
			octaveMatrix[0][1], irrationalMatrix[0][1])
	}
}

func TestComputeHarmSimRatioSymmetry(t *testing.T) {
	signals := taggedSignals(2, 16)

	c := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10, 13}, 1: {20, 31}},
	}))

	matrix, err := c.Compute(signals, MetricHarmSim)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if math.Abs(matrix[0][1]-matrix[1][0]) > 1e-12 {
		t.Fatalf("symmetry mismatch: got %v and %v", matrix[0][1], matrix[1][0])
	}
}

func TestComputeEmptyPeaksYieldNaN(t *testing.T) {
	signals := taggedSignals(2, 16)

	c := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {}, 1: {10}},
	}))

	for _, metric := range []Metric{
		MetricHarmSim, MetricEuler, MetricHarmFit, MetricSubharmTension,
		MetricRRCi, MetricWPLICrossFreq, MetricMI,
	} {
		matrix, err := c.Compute(signals, metric)
		if err != nil {
			t.Fatalf("Compute(%v) failed: %v", metric, err)
		}
		if !math.IsNaN(matrix[0][1]) {
			t.Fatalf("%v with empty peaks mismatch: got %v want NaN", metric, matrix[0][1])
		}
	}
}

func TestComputeWPLISelfCoupling(t *testing.T) {
	sig := sineSignal(10, 250, 1000)
	signals := [][]float64{sig, append([]float64(nil), sig...)}

	// Both channels start at 0, so one stub entry covers them.
	c := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}},
	}))

	matrix, err := c.Compute(signals, MetricWPLICrossFreq)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Identical signals are perfectly phase-locked with themselves.
	if matrix[0][1] < 0.99 {
		t.Fatalf("self coupling mismatch: got %v want ~1", matrix[0][1])
	}
	if matrix[0][0] < 0.99 {
		t.Fatalf("diagonal coupling mismatch: got %v want ~1", matrix[0][0])
	}
}

func TestComputeMetricDispatchErrors(t *testing.T) {
	signals := taggedSignals(2, 16)
	c := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}, 1: {20}},
	}))

	if _, err := c.Compute(signals, Metric(99)); err != ErrInvalidMetric {
		t.Fatalf("invalid metric error mismatch: got %v", err)
	}
	if _, err := c.Compute(signals, MetricWPLIMultiband); err != ErrBandedMetric {
		t.Fatalf("banded metric error mismatch: got %v", err)
	}
	if _, err := c.ComputeMultiband(signals, MetricHarmSim); err != ErrScalarMetric {
		t.Fatalf("scalar metric error mismatch: got %v", err)
	}
}

func TestComputeInputValidation(t *testing.T) {
	c := newTestComputer(t, Config{SampleRate: 250})

	if _, err := c.Compute(nil, MetricHarmSim); err != ErrNoSignals {
		t.Fatalf("empty input error mismatch: got %v", err)
	}
	if _, err := c.Compute([][]float64{{1, 2, 3}, {1, 2}}, MetricHarmSim); err != ErrLengthMismatch {
		t.Fatalf("length mismatch error mismatch: got %v", err)
	}
}

func TestNewComputerValidation(t *testing.T) {
	if _, err := NewComputer(Config{}); err == nil {
		t.Fatal("expected error for missing sample rate")
	}
	if _, err := NewComputer(Config{SampleRate: 250, RRCiMaxDenominator: -1}); err == nil {
		t.Fatal("expected error for negative denominator bound")
	}
	if _, err := NewComputer(Config{SampleRate: 250}, WithWorkers(0)); err == nil {
		t.Fatal("expected error for zero workers")
	}
	if _, err := NewComputer(Config{SampleRate: 250, Bands: [][2]float64{{5, 3}}}); err == nil {
		t.Fatal("expected error for inverted band")
	}
}

func TestComputeMultibandShapeAndRange(t *testing.T) {
	signals := [][]float64{
		sineSignal(10, 250, 1000),
		sineSignal(20, 250, 1000),
	}

	c := newTestComputer(t, Config{SampleRate: 250})

	matrices, err := c.ComputeMultiband(signals, MetricWPLIMultiband)
	if err != nil {
		t.Fatalf("ComputeMultiband failed: %v", err)
	}

	if len(matrices) != len(DefaultBands()) {
		t.Fatalf("band count mismatch: got %d want %d", len(matrices), len(DefaultBands()))
	}

	for b, matrix := range matrices {
		if len(matrix) != 2 || len(matrix[0]) != 2 {
			t.Fatalf("band %d shape mismatch: got %dx%d", b, len(matrix), len(matrix[0]))
		}
		for i := range matrix {
			for j := range matrix[i] {
				v := matrix[i][j]
				if math.IsNaN(v) {
					continue
				}
				if v < 0 || v > 1+1e-12 {
					t.Fatalf("band %d value out of range at (%d,%d): got %v", b, i, j, v)
				}
			}
		}
	}
}

func TestComputeProgressReporting(t *testing.T) {
	signals := taggedSignals(3, 16)

	var (
		mu    sync.Mutex
		calls int
		last  int
	)

	c := newTestComputer(t, Config{SampleRate: 250},
		WithPeakExtractor(&stubExtractor{peaks: map[float64][]float64{
			0: {10}, 1: {20}, 2: {30},
		}}),
		WithOnProgress(func(done, total int) {
			mu.Lock()
			calls++
			last = done
			if total != 9 {
				t.Errorf("total mismatch: got %d want 9", total)
			}
			mu.Unlock()
		}),
	)

	if _, err := c.Compute(signals, MetricHarmSim); err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if calls != 9 || last != 9 {
		t.Fatalf("progress mismatch: got %d calls, final %d, want 9 and 9", calls, last)
	}
}

func BenchmarkComputeHarmSim(b *testing.B) {
	signals := taggedSignals(8, 256)

	peaks := make(map[float64][]float64, len(signals))
	for i := range signals {
		peaks[float64(i)] = []float64{10, 13.5, 20, 27, 40}
	}

	c, err := NewComputer(Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{peaks: peaks}))
	if err != nil {
		b.Fatalf("NewComputer failed: %v", err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := c.Compute(signals, MetricHarmSim); err != nil {
			b.Fatalf("Compute failed: %v", err)
		}
	}
}

func TestComputeOneShot(t *testing.T) {
	signals := [][]float64{
		sineSignal(10, 250, 1000),
		sineSignal(20, 250, 1000),
	}

	matrix, err := Compute(signals, 250, MetricHarmSim, Config{})
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(matrix) != 2 || len(matrix[0]) != 2 {
		t.Fatalf("shape mismatch: got %dx%d", len(matrix), len(matrix[0]))
	}
}
