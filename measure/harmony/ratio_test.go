package harmony

import (
	"math"
	"testing"
)

func TestReboundOctaveRange(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1, 1},
		{1.5, 1.5},
		{2, 1},
		{3, 1.5},
		{4, 1},
		{0.75, 1.5},
		{0.5, 1},
		{10, 1.25},
	}

	for _, tc := range cases {
		got := Rebound(tc.in)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("Rebound(%v) mismatch: got %v want %v", tc.in, got, tc.want)
		}
	}
}

func TestReboundInvalidInput(t *testing.T) {
	for _, in := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := Rebound(in); !math.IsNaN(got) {
			t.Fatalf("Rebound(%v) mismatch: got %v want NaN", in, got)
		}
	}
}

func TestLimitDenominatorKnownFractions(t *testing.T) {
	cases := []struct {
		x        float64
		maxDen   int
		num, den int
	}{
		{math.Pi, 10, 22, 7},
		{0.5, 10, 1, 2},
		{1.5, 1000, 3, 2},
		{3, 16, 3, 1},
		{2.0 / 3.0, 1000, 2, 3},
		{0.1, 10, 1, 10},
	}

	for _, tc := range cases {
		num, den, err := LimitDenominator(tc.x, tc.maxDen)
		if err != nil {
			t.Fatalf("LimitDenominator(%v, %d) unexpected error: %v", tc.x, tc.maxDen, err)
		}
		if num != tc.num || den != tc.den {
			t.Fatalf("LimitDenominator(%v, %d) mismatch: got %d/%d want %d/%d",
				tc.x, tc.maxDen, num, den, tc.num, tc.den)
		}
	}
}

func TestLimitDenominatorBoundError(t *testing.T) {
	if _, _, err := LimitDenominator(1.5, 0); err == nil {
		t.Fatal("expected error for denominator bound below 1")
	}
}

func TestLimitDenominatorApproximationQuality(t *testing.T) {
	num, den, err := LimitDenominator(math.Pi, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if den > 1000 {
		t.Fatalf("denominator exceeds bound: got %d", den)
	}
	if math.Abs(float64(num)/float64(den)-math.Pi) > 1e-6 {
		t.Fatalf("approximation too coarse: got %d/%d", num, den)
	}
}
