package dsp

import "math"

// DeEss attenuates the sibilant band in place. It isolates the band with a
// band-pass biquad centered at centerHz, then reconstitutes the signal as
//
//	out = original - band + band * 10^(gainDB/20)
//
// which damps only the isolated band and leaves all other frequencies
// untouched. The subtractive recipe is exact; substituting a generic
// equalizer changes the output.
func DeEss(samples []float64, rate int, centerHz, q, gainDB float64) {
	if len(samples) == 0 {
		return
	}
	band := make([]float64, len(samples))
	copy(band, samples)
	NewBandpass(rate, centerHz, q).Apply(band)

	gain := math.Pow(10, gainDB/20)
	for i := range samples {
		samples[i] = samples[i] - band[i] + band[i]*gain
	}
}
