package bandpass

// coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// section is a single biquad with coefficients and internal state.
type section struct {
	coefficients

	d0, d1 float64
}

func (s *section) processSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

func (s *section) reset() {
	s.d0 = 0
	s.d1 = 0
}

// cascade is an ordered chain of biquad sections applied in sequence.
type cascade []section

func newCascade(coeffs []coefficients) cascade {
	sections := make(cascade, len(coeffs))
	for i, c := range coeffs {
		sections[i].coefficients = c
	}

	return sections
}

func (c cascade) processBlock(buf []float64) {
	for i := range c {
		s := &c[i]
		for j, x := range buf {
			buf[j] = s.processSample(x)
		}
	}
}

func (c cascade) reset() {
	for i := range c {
		c[i].reset()
	}
}
