package connectivity_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-harmony/measure/connectivity"
)

func ExampleCompute() {
	const (
		sampleRate = 250.0
		samples    = 1000
	)

	// Two channels an exact octave apart.
	ch1 := make([]float64, samples)
	ch2 := make([]float64, samples)
	for i := range ch1 {
		t := float64(i) / sampleRate
		ch1[i] = math.Sin(2 * math.Pi * 10 * t)
		ch2[i] = math.Sin(2 * math.Pi * 20 * t)
	}

	matrix, err := connectivity.Compute([][]float64{ch1, ch2}, sampleRate,
		connectivity.MetricHarmSim, connectivity.Config{NPeaks: 1})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("10 vs 20 Hz: %.1f\n", matrix[0][1])
	// Output:
	// 10 vs 20 Hz: 100.0
}

func ExampleParseMetric() {
	metric, err := connectivity.ParseMetric("wPLI_multiband")
	fmt.Println(metric, metric.Banded(), err)

	_, err = connectivity.ParseMetric("nope")
	fmt.Println(err != nil)
	// Output:
	// wPLI_multiband true <nil>
	// true
}
