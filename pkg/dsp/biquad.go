package dsp

import "math"

// Biquad is a second-order IIR filter in direct form I. Coefficients follow
// the Audio EQ Cookbook designs, matching the biquad filters the synthesis
// stack's reference pipeline uses. State is per-utterance; a fresh filter
// starts from silence.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	x1, x2     float64
	y1, y2     float64
}

// NewHighpass designs a high-pass biquad with the given cutoff frequency
// and quality factor.
func NewHighpass(rate int, freq, q float64) *Biquad {
	w0 := 2 * math.Pi * freq / float64(rate)
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cosW) / 2
	b1 := -(1 + cosW)
	b2 := (1 + cosW) / 2
	a0 := 1 + alpha
	a1 := -2 * cosW
	a2 := 1 - alpha
	return normalized(b0, b1, b2, a0, a1, a2)
}

// NewBandpass designs a band-pass biquad (constant 0 dB peak gain) centered
// at freq with the given quality factor.
func NewBandpass(rate int, freq, q float64) *Biquad {
	w0 := 2 * math.Pi * freq / float64(rate)
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosW
	a2 := 1 - alpha
	return normalized(b0, b1, b2, a0, a1, a2)
}

func normalized(b0, b1, b2, a0, a1, a2 float64) *Biquad {
	return &Biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// Reset clears the filter state.
func (f *Biquad) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

// Tick filters a single sample.
func (f *Biquad) Tick(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

// Apply filters samples in place.
func (f *Biquad) Apply(samples []float64) {
	for i, x := range samples {
		samples[i] = f.Tick(x)
	}
}
