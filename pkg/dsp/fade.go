package dsp

// ApplyFades shapes the buffer edges in place with a linear 0→1 ramp over
// the fade-in window and a 1→0 ramp over the fade-out window. Ramps are
// endpoint-inclusive: the first sample scales by exactly 0 and the last
// faded sample reaches the far endpoint. Each window is clamped to at most
// half the buffer length so the ramps of very short utterances never
// collide. Runs last in the chain so no gain stage undoes the shaping.
func ApplyFades(samples []float64, rate int, fadeInMS, fadeOutMS float64) {
	n := len(samples)
	if n == 0 {
		return
	}

	fadeIn := clampWindow(int(float64(rate)*fadeInMS/1000), n)
	fadeOut := clampWindow(int(float64(rate)*fadeOutMS/1000), n)

	for i := 0; i < fadeIn; i++ {
		samples[i] *= ramp(i, fadeIn)
	}
	for i := 0; i < fadeOut; i++ {
		samples[n-fadeOut+i] *= 1 - ramp(i, fadeOut)
	}
}

// ramp returns the i-th of w evenly spaced points from 0 to 1 inclusive.
// A single-point ramp is 0.
func ramp(i, w int) float64 {
	if w <= 1 {
		return 0
	}
	return float64(i) / float64(w-1)
}

func clampWindow(w, n int) int {
	if w < 0 {
		w = 0
	}
	if half := n / 2; w > half {
		w = half
	}
	return w
}
