package connectivity

import (
	"math"
	"testing"
)

func TestEulerMetricKnownValue(t *testing.T) {
	signals := taggedSignals(2, 16)

	// Peaks 0.2 and 0.3 scale to 2 and 3; lcm 6 gives gradus 4.
	c := newTestComputer(t, Config{SampleRate: 250, MinFreq: 0.1, MaxFreq: 80},
		WithPeakExtractor(&stubExtractor{peaks: map[float64][]float64{
			0: {0.2}, 1: {0.3},
		}}))

	matrix, err := c.Compute(signals, MetricEuler)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if matrix[0][1] != 4 {
		t.Fatalf("gradus mismatch: got %v want 4", matrix[0][1])
	}
}

func TestEulerMetricTruncatesScaledPeaks(t *testing.T) {
	signals := taggedSignals(2, 16)

	// 10.38 scales to 103 (a prime, gradus 103); rounding up to 104 would
	// give gradus 16 instead.
	c := newTestComputer(t, Config{SampleRate: 250},
		WithPeakExtractor(&fixedExtractor{peaks: []float64{10.38}}))

	matrix, err := c.Compute(signals, MetricEuler)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if matrix[0][1] != 103 {
		t.Fatalf("gradus mismatch: got %v want 103", matrix[0][1])
	}
}

func TestHarmFitMetricOctaveBeatsIrrational(t *testing.T) {
	signals := taggedSignals(2, 16)

	octave := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}, 1: {20}},
	}))

	irrational := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}, 1: {10 * math.Sqrt2}},
	}))

	octaveMatrix, err := octave.Compute(signals, MetricHarmFit)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	irrationalMatrix, err := irrational.Compute(signals, MetricHarmFit)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if octaveMatrix[0][1] <= irrationalMatrix[0][1] {
		t.Fatalf("harmonic count ordering mismatch: octave %v should exceed irrational %v",
			octaveMatrix[0][1], irrationalMatrix[0][1])
	}
}

func TestSubharmTensionMetricAlignedOctave(t *testing.T) {
	signals := taggedSignals(2, 16)

	c := newTestComputer(t, Config{SampleRate: 250}, WithPeakExtractor(&stubExtractor{
		peaks: map[float64][]float64{0: {10}, 1: {20}},
	}))

	matrix, err := c.Compute(signals, MetricSubharmTension)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if matrix[0][1] != 0 {
		t.Fatalf("aligned tension mismatch: got %v want 0", matrix[0][1])
	}
}

func TestRRCiLockedRhythmsCoupleStronger(t *testing.T) {
	const (
		rate    = 250.0
		samples = 2000
	)

	base := sineSignal(10, rate, samples)
	locked := sineShifted(10, rate, samples, math.Pi/3)
	noise := pseudoNoise(samples)

	signals := [][]float64{base, locked, noise}

	c := newTestComputer(t, Config{SampleRate: rate},
		WithPeakExtractor(&fixedExtractor{peaks: []float64{10}}))

	matrix, err := c.Compute(signals, MetricRRCi)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if math.IsNaN(matrix[0][1]) {
		t.Fatal("locked pair coupling should be defined")
	}
	if matrix[0][1] <= matrix[0][2] {
		t.Fatalf("coupling ordering mismatch: locked %v should exceed noise %v", matrix[0][1], matrix[0][2])
	}
}

func TestRRCiPhaseDifferenceCoefficients(t *testing.T) {
	const (
		rate    = 250.0
		samples = 2000
	)

	c := newTestComputer(t, Config{SampleRate: rate})

	// A 1:1 pair with a constant offset has a stationary phase difference;
	// the index is the imaginary part of its mean vector.
	locked, err := c.rrci([]float64{10}, []float64{10},
		sineSignal(10, rate, samples), sineShifted(10, rate, samples, math.Pi/3))
	if err != nil {
		t.Fatalf("rrci failed: %v", err)
	}
	if math.Abs(locked-math.Sin(math.Pi/3)) > 0.05 {
		t.Fatalf("locked coupling mismatch: got %v want %v", locked, math.Sin(math.Pi/3))
	}

	// For a 2:1 pair the difference 2*phi1 - phi2 keeps rotating, so the
	// mean vector collapses toward zero.
	harmonic, err := c.rrci([]float64{20}, []float64{10},
		sineSignal(20, rate, samples), sineSignal(10, rate, samples))
	if err != nil {
		t.Fatalf("rrci failed: %v", err)
	}
	if harmonic > 0.05 {
		t.Fatalf("harmonic coupling mismatch: got %v want near 0", harmonic)
	}
}

func TestPhaseMICoupledBeatsNoise(t *testing.T) {
	const (
		rate    = 250.0
		samples = 2000
	)

	base := sineSignal(10, rate, samples)
	twin := sineShifted(10, rate, samples, math.Pi/4)
	noise := pseudoNoise(samples)

	signals := [][]float64{base, twin, noise}

	c := newTestComputer(t, Config{SampleRate: rate},
		WithPeakExtractor(&fixedExtractor{peaks: []float64{10}}))

	matrix, err := c.Compute(signals, MetricMI)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if matrix[0][1] <= matrix[0][2] {
		t.Fatalf("MI ordering mismatch: coupled %v should exceed noise %v", matrix[0][1], matrix[0][2])
	}
}

func TestSpectralMISelfIsDefined(t *testing.T) {
	const (
		rate    = 125.0
		samples = 512
	)

	sig := sineSignal(10, rate, samples)
	signals := [][]float64{sig, append([]float64(nil), sig...)}

	// Coarse grid keeps the wavelet sweep small.
	c := newTestComputer(t, Config{SampleRate: rate, MinFreq: 5, MaxFreq: 20, PrecisionHz: 1},
		WithPeakExtractor(&stubExtractor{peaks: map[float64][]float64{0: {10}}}))

	matrix, err := c.Compute(signals, MetricMISpectral)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if math.IsNaN(matrix[0][1]) || matrix[0][1] < 0 {
		t.Fatalf("spectral MI mismatch: got %v want non-negative", matrix[0][1])
	}
}

func TestMutualInformationDegenerateHistogram(t *testing.T) {
	if got := mutualInformation(nil, nil, 10); got != 0 {
		t.Fatalf("empty histogram MI mismatch: got %v want 0", got)
	}

	// Constant sequences carry no information about each other.
	x := make([]int, 64)
	y := make([]int, 64)
	if got := mutualInformation(x, y, 10); got != 0 {
		t.Fatalf("constant MI mismatch: got %v want 0", got)
	}
}

func TestDiscretizePhaseBinRange(t *testing.T) {
	phases := []float64{-math.Pi, -1, 0, 1, math.Pi}

	for _, bin := range discretizePhase(phases, 10) {
		if bin < 0 || bin >= 10 {
			t.Fatalf("bin out of range: got %d", bin)
		}
	}
}

// fixedExtractor returns the same peak set for every channel.
type fixedExtractor struct {
	peaks []float64
}

func (f *fixedExtractor) Extract([]float64) ([]float64, error) {
	return f.peaks, nil
}

func sineShifted(freq, sampleRate float64, samples int, phase float64) []float64 {
	out := make([]float64, samples)
	for i := range out {
		out[i] = math.Sin(2*math.Pi*freq*float64(i)/sampleRate + phase)
	}
	return out
}

func pseudoNoise(samples int) []float64 {
	out := make([]float64, samples)
	for i := range out {
		out[i] = math.Mod(float64(i)*12.9898+78.233, 1) - 0.5
	}
	return out
}
