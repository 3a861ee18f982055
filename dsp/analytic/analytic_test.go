package analytic

import (
	"math"
	"testing"
)

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func TestEnvelopeOfUnitSine(t *testing.T) {
	env, err := Envelope(sine(10, 250, 1024))
	if err != nil {
		t.Fatalf("Envelope failed: %v", err)
	}

	// Edge effects aside, the envelope of a unit sine is 1.
	for i := len(env) / 4; i < 3*len(env)/4; i++ {
		if math.Abs(env[i]-1) > 0.05 {
			t.Fatalf("envelope mismatch at %d: got %v want ~1", i, env[i])
		}
	}
}

func TestPhaseAdvancesAtSignalFrequency(t *testing.T) {
	const (
		rate = 250.0
		freq = 10.0
	)

	phase, err := Phase(sine(freq, rate, 1024))
	if err != nil {
		t.Fatalf("Phase failed: %v", err)
	}

	unwrapped := UnwrapPhase(phase)
	wantStep := 2 * math.Pi * freq / rate

	for i := len(unwrapped)/4 + 1; i < 3*len(unwrapped)/4; i++ {
		step := unwrapped[i] - unwrapped[i-1]
		if math.Abs(step-wantStep) > 0.05 {
			t.Fatalf("phase step mismatch at %d: got %v want %v", i, step, wantStep)
		}
	}
}

func TestPhaseRange(t *testing.T) {
	phase, err := Phase(sine(10, 250, 512))
	if err != nil {
		t.Fatalf("Phase failed: %v", err)
	}

	for i, p := range phase {
		if p < -math.Pi || p > math.Pi {
			t.Fatalf("phase out of range at %d: got %v", i, p)
		}
	}
}

func TestTransformEmptyInput(t *testing.T) {
	if _, err := Transform(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestZScoreNormalizes(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	out := ZScore(in)

	var mean float64
	for _, v := range out {
		mean += v
	}
	mean /= float64(len(out))

	var variance float64
	for _, v := range out {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(out))

	if math.Abs(mean) > 1e-12 {
		t.Fatalf("mean mismatch: got %v want 0", mean)
	}
	if math.Abs(variance-1) > 1e-12 {
		t.Fatalf("variance mismatch: got %v want 1", variance)
	}
}

func TestZScoreConstantInput(t *testing.T) {
	out := ZScore([]float64{3, 3, 3, 3})
	for i, v := range out {
		if v != 0 {
			t.Fatalf("constant z-score mismatch at %d: got %v want 0", i, v)
		}
	}
}

func TestUnwrapPhaseContinuity(t *testing.T) {
	// A wrapped linear ramp unwraps back to a line.
	const step = 0.7

	wrapped := make([]float64, 64)
	for i := range wrapped {
		raw := float64(i) * step
		wrapped[i] = math.Mod(raw+math.Pi, 2*math.Pi) - math.Pi
	}

	unwrapped := UnwrapPhase(wrapped)
	for i := 1; i < len(unwrapped); i++ {
		if math.Abs(unwrapped[i]-unwrapped[i-1]-step) > 1e-9 {
			t.Fatalf("unwrap step mismatch at %d: got %v want %v", i, unwrapped[i]-unwrapped[i-1], step)
		}
	}
}
