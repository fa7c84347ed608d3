package dsp

import (
	"math"
	"testing"
)

const testRate = 24000

// sine returns n samples of a sine wave at freq Hz and the given amplitude.
func sine(n int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/testRate)
	}
	return out
}

// tailRMS measures RMS over the last part of the signal, past the filter
// transient.
func tailRMS(samples []float64) float64 {
	return RMS(samples[len(samples)/3:])
}

func TestHighpassPreservesLength(t *testing.T) {
	for _, n := range []int{0, 1, 7, 12000} {
		s := sine(n, 440, 0.5)
		NewHighpass(testRate, 80, 0.707).Apply(s)
		if len(s) != n {
			t.Errorf("length changed: %d -> %d", n, len(s))
		}
	}
}

func TestHighpassRemovesDC(t *testing.T) {
	s := make([]float64, 12000)
	for i := range s {
		s[i] = 1.0
	}
	NewHighpass(testRate, 80, 0.707).Apply(s)
	if r := tailRMS(s); r > 0.01 {
		t.Errorf("DC tail RMS = %f, want ~0", r)
	}
}

func TestHighpassPassesHighBand(t *testing.T) {
	s := sine(12000, 1000, 0.5)
	want := tailRMS(s)
	NewHighpass(testRate, 80, 0.707).Apply(s)
	got := tailRMS(s)
	if math.Abs(got-want) > 0.01 {
		t.Errorf("1 kHz tail RMS = %f, want ~%f", got, want)
	}
}

func TestHighpassConvergent(t *testing.T) {
	// Beyond the first application the response has converged: filtering
	// twice barely differs from filtering once for in-band content.
	once := sine(12000, 1000, 0.5)
	NewHighpass(testRate, 80, 0.707).Apply(once)

	twice := make([]float64, len(once))
	copy(twice, once)
	NewHighpass(testRate, 80, 0.707).Apply(twice)

	diff := make([]float64, len(once))
	for i := range diff {
		diff[i] = twice[i] - once[i]
	}
	if r := tailRMS(diff); r > 0.02 {
		t.Errorf("double-filter tail deviation RMS = %f, want ~0", r)
	}
}

func TestBiquadReset(t *testing.T) {
	f := NewHighpass(testRate, 80, 0.707)
	first := f.Tick(1.0)
	f.Tick(0.5)
	f.Reset()
	if got := f.Tick(1.0); got != first {
		t.Errorf("after reset Tick(1) = %f, want %f", got, first)
	}
}

func TestDeEssAttenuatesSibilantBand(t *testing.T) {
	s := sine(12000, 6500, 0.5)
	before := tailRMS(s)
	DeEss(s, testRate, 6500, 0.7, -6)
	after := tailRMS(s)

	// At band center the output settles to 10^(-6/20) ~ 0.501 of input.
	ratio := after / before
	if math.Abs(ratio-0.501) > 0.05 {
		t.Errorf("center band ratio = %f, want ~0.501", ratio)
	}
}

func TestDeEssLeavesLowBandAlone(t *testing.T) {
	s := sine(12000, 200, 0.5)
	before := tailRMS(s)
	DeEss(s, testRate, 6500, 0.7, -6)
	after := tailRMS(s)

	ratio := after / before
	if math.Abs(ratio-1.0) > 0.05 {
		t.Errorf("200 Hz ratio = %f, want ~1.0", ratio)
	}
}

func TestDeEssZeroGainIsIdentity(t *testing.T) {
	s := sine(1000, 3000, 0.4)
	want := make([]float64, len(s))
	copy(want, s)
	DeEss(s, testRate, 6500, 0.7, 0)
	for i := range s {
		if math.Abs(s[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d changed with 0 dB gain: %f != %f", i, s[i], want[i])
		}
	}
}

func TestNormalizeRMSReachesTarget(t *testing.T) {
	s := sine(12000, 440, 0.02)
	NormalizeRMS(s, 0.1)
	if got := RMS(s); math.Abs(got-0.1) > 0.001 {
		t.Errorf("RMS = %f, want 0.1", got)
	}
}

func TestNormalizeRMSNeverClips(t *testing.T) {
	// One dominant peak forces the clip cap to win over the target.
	s := sine(12000, 440, 0.001)
	s[6000] = 0.9
	NormalizeRMS(s, 0.5)
	for i, v := range s {
		if math.Abs(v) > 1.0 {
			t.Fatalf("sample %d = %f exceeds 1.0", i, v)
		}
	}
}

func TestNormalizeRMSSilentInputUntouched(t *testing.T) {
	s := make([]float64, 1000)
	NormalizeRMS(s, 0.1)
	for i, v := range s {
		if v != 0 {
			t.Fatalf("sample %d = %f, want 0", i, v)
		}
	}
}

func TestNormalizeRMSEmpty(t *testing.T) {
	NormalizeRMS(nil, 0.1) // must not panic
}

func TestApplyFadesEndpoints(t *testing.T) {
	s := make([]float64, 12000)
	for i := range s {
		s[i] = 1.0
	}
	ApplyFades(s, testRate, 10, 50)

	if s[0] != 0 {
		t.Errorf("first sample = %f, want 0", s[0])
	}
	if s[len(s)-1] != 0 {
		t.Errorf("last sample = %f, want 0", s[len(s)-1])
	}
	// 10 ms at 24 kHz = 240 samples; past the ramp the signal is intact.
	if s[240] != 1.0 {
		t.Errorf("sample past fade-in = %f, want 1.0", s[240])
	}
	for i, v := range s {
		if v < 0 || v > 1.0 {
			t.Fatalf("sample %d = %f outside [0, 1]", i, v)
		}
	}
}

func TestApplyFadesClampsToHalfBuffer(t *testing.T) {
	s := []float64{1, 1, 1, 1}
	ApplyFades(s, testRate, 1000, 1000) // windows far larger than buffer
	// Each window clamps to len/2 = 2 samples.
	if s[0] != 0 {
		t.Errorf("s[0] = %f, want 0", s[0])
	}
	if s[1] != 1 {
		t.Errorf("s[1] = %f, want 1 (fade-in endpoint)", s[1])
	}
	if s[2] != 1 {
		t.Errorf("s[2] = %f, want 1 (fade-out start)", s[2])
	}
	if s[3] != 0 {
		t.Errorf("s[3] = %f, want 0", s[3])
	}
}

func TestApplyFadesTinyBuffers(t *testing.T) {
	ApplyFades(nil, testRate, 10, 50)
	one := []float64{1}
	ApplyFades(one, testRate, 10, 50)
	if one[0] != 1 {
		t.Errorf("single sample = %f, want 1 (windows clamp to 0)", one[0])
	}
}

func TestProcessorPreservesLengthAndInput(t *testing.T) {
	in := sine(12000, 440, 0.3)
	orig := make([]float64, len(in))
	copy(orig, in)

	out := New(DefaultConfig()).Process(in, testRate)
	if len(out) != len(in) {
		t.Fatalf("length changed: %d -> %d", len(in), len(out))
	}
	for i := range in {
		if in[i] != orig[i] {
			t.Fatal("Process mutated its input")
		}
	}
}

func TestProcessorAllStagesDisabled(t *testing.T) {
	in := sine(1000, 440, 0.3)
	out := New(Config{}).Process(in, testRate)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("sample %d changed with all stages off", i)
		}
	}
}

func TestProcessorOutputNeverClips(t *testing.T) {
	in := sine(12000, 440, 0.9)
	in[100] = 3.0 // absurd spike survives no stage above 1.0
	out := New(DefaultConfig()).Process(in, testRate)
	for i, v := range out {
		if math.Abs(v) > 1.0 {
			t.Fatalf("sample %d = %f exceeds 1.0", i, v)
		}
	}
}

func TestProcessorEmptyInput(t *testing.T) {
	if out := New(DefaultConfig()).Process(nil, testRate); len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}

func BenchmarkProcess(b *testing.B) {
	p := New(DefaultConfig())
	in := sine(testRate, 440, 0.5) // one second
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Process(in, testRate)
	}
}
