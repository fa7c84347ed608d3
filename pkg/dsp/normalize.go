package dsp

import "math"

// rmsFloor guards the division for near-silent input.
const rmsFloor = 1e-8

// RMS returns the root-mean-square level of samples, 0 for empty input.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// NormalizeRMS scales samples in place toward the target RMS level. Input
// at or below the RMS floor is left untouched. The scale factor is capped
// at 1/(peak+1e-8) so no sample ever exceeds an absolute value of 1.0;
// clip prevention takes priority over reaching the exact target.
func NormalizeRMS(samples []float64, target float64) {
	rms := RMS(samples)
	if rms <= rmsFloor {
		return
	}
	scale := target / rms
	if maxScale := 1.0 / (Peak(samples) + rmsFloor); scale > maxScale {
		scale = maxScale
	}
	for i := range samples {
		samples[i] *= scale
	}
}
