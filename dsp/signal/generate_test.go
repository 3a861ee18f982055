package signal

import (
	"math"
	"testing"
)

func TestNewGeneratorValidation(t *testing.T) {
	if _, err := NewGenerator(0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestSineKnownSamples(t *testing.T) {
	g, err := NewGenerator(8)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	// 1 Hz at 8 samples per second hits the eighth points exactly.
	out, err := g.Sine(1, 1, 8)
	if err != nil {
		t.Fatalf("Sine failed: %v", err)
	}

	want := []float64{0, math.Sqrt2 / 2, 1, math.Sqrt2 / 2, 0, -math.Sqrt2 / 2, -1, -math.Sqrt2 / 2}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d mismatch: got %v want %v", i, out[i], want[i])
		}
	}
}

func TestSineValidation(t *testing.T) {
	g, _ := NewGenerator(250)

	if _, err := g.Sine(10, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestTonesSuperposition(t *testing.T) {
	g, _ := NewGenerator(250)

	mix, err := g.Tones(512, 10, 20)
	if err != nil {
		t.Fatalf("Tones failed: %v", err)
	}

	s10, _ := g.Sine(10, 1, 512)
	s20, _ := g.Sine(20, 0.5, 512)

	for i := range mix {
		if math.Abs(mix[i]-s10[i]-s20[i]) > 1e-12 {
			t.Fatalf("superposition mismatch at %d: got %v want %v", i, mix[i], s10[i]+s20[i])
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	a, _ := NewGenerator(250, WithSeed(7))
	b, _ := NewGenerator(250, WithSeed(7))

	na, err := a.WhiteNoise(0.5, 256)
	if err != nil {
		t.Fatalf("WhiteNoise failed: %v", err)
	}
	nb, _ := b.WhiteNoise(0.5, 256)

	for i := range na {
		if na[i] != nb[i] {
			t.Fatalf("seeded noise mismatch at %d: got %v and %v", i, na[i], nb[i])
		}
		if na[i] < -0.5 || na[i] > 0.5 {
			t.Fatalf("noise out of range at %d: got %v", i, na[i])
		}
	}
}

func TestHarmonicChannelsShape(t *testing.T) {
	g, _ := NewGenerator(250)

	channels, err := g.HarmonicChannels(3, 512, 10, 0)
	if err != nil {
		t.Fatalf("HarmonicChannels failed: %v", err)
	}

	if len(channels) != 3 {
		t.Fatalf("channel count mismatch: got %d want 3", len(channels))
	}

	want20, _ := g.Sine(20, 1, 512)
	for i := range want20 {
		if math.Abs(channels[1][i]-want20[i]) > 1e-12 {
			t.Fatalf("second channel mismatch at %d: got %v want %v", i, channels[1][i], want20[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.5, -0.25, 0.1}, 1)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if math.Abs(out[0]-1) > 1e-12 || math.Abs(out[1]+0.5) > 1e-12 {
		t.Fatalf("normalize mismatch: got %v", out)
	}

	silent, err := Normalize([]float64{0, 0}, 1)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if silent[0] != 0 || silent[1] != 0 {
		t.Fatalf("silent normalize mismatch: got %v", silent)
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
}
