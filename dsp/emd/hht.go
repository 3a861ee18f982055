package emd

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-harmony/dsp/analytic"
)

// Spectrum holds per-mode instantaneous traces, each shaped
// [mode][sample]. Frequency is in Hz, power is amplitude squared.
type Spectrum struct {
	Frequency [][]float64
	Power     [][]float64
	Amplitude [][]float64
}

// HilbertSpectrum decomposes the signal and derives instantaneous frequency,
// power, and amplitude for nModes oscillatory modes via the analytic signal.
//
// The fastest extracted mode is skipped: it mostly carries sampling noise, so
// modes 1..nModes of the decomposition are used. When the decomposition
// yields fewer modes than requested, the remaining traces stay zero so the
// output shape is fixed at nModes regardless of signal content.
func HilbertSpectrum(signal []float64, sampleRate float64, nModes int) (Spectrum, error) {
	if sampleRate <= 0 {
		return Spectrum{}, fmt.Errorf("emd: sample rate must be > 0: %f", sampleRate)
	}

	if nModes < 1 {
		return Spectrum{}, fmt.Errorf("emd: mode count must be >= 1: %d", nModes)
	}

	modes, _, err := Decompose(signal, Config{MaxModes: nModes + 1})
	if err != nil {
		return Spectrum{}, err
	}

	spec := Spectrum{
		Frequency: make([][]float64, nModes),
		Power:     make([][]float64, nModes),
		Amplitude: make([][]float64, nModes),
	}

	for m := 0; m < nModes; m++ {
		spec.Frequency[m] = make([]float64, len(signal))
		spec.Power[m] = make([]float64, len(signal))
		spec.Amplitude[m] = make([]float64, len(signal))

		src := m + 1
		if src >= len(modes) {
			continue
		}

		err = fillInstantaneous(&spec, m, modes[src], sampleRate)
		if err != nil {
			return Spectrum{}, err
		}
	}

	return spec, nil
}

func fillInstantaneous(spec *Spectrum, m int, mode []float64, sampleRate float64) error {
	z, err := analytic.Transform(mode)
	if err != nil {
		return err
	}

	phase := make([]float64, len(z))
	for i, c := range z {
		a := math.Hypot(real(c), imag(c))
		spec.Amplitude[m][i] = a
		spec.Power[m][i] = a * a
		phase[i] = math.Atan2(imag(c), real(c))
	}

	if len(phase) < 2 {
		return nil
	}

	unwrapped := analytic.UnwrapPhase(phase)
	scale := sampleRate / (2 * math.Pi)

	for i := range unwrapped {
		var dphi float64

		switch i {
		case 0:
			dphi = unwrapped[1] - unwrapped[0]
		case len(unwrapped) - 1:
			dphi = unwrapped[i] - unwrapped[i-1]
		default:
			dphi = (unwrapped[i+1] - unwrapped[i-1]) / 2
		}

		f := dphi * scale
		if f < 0 {
			f = 0
		}

		spec.Frequency[m][i] = f
	}

	return nil
}
