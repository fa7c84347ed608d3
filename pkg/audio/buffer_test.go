package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSilence(t *testing.T) {
	b := Silence(24000, 500)
	if len(b.Samples) != 12000 {
		t.Fatalf("expected 12000 samples, got %d", len(b.Samples))
	}
	if b.Rate != 24000 {
		t.Errorf("rate = %d, want 24000", b.Rate)
	}
	for i, s := range b.Samples {
		if s != 0 {
			t.Fatalf("sample %d = %f, want 0", i, s)
		}
	}
	if math.Abs(b.Duration()-0.5) > 1e-9 {
		t.Errorf("duration = %f, want 0.5", b.Duration())
	}
}

func TestSilenceZeroAndNegative(t *testing.T) {
	if n := len(Silence(24000, 0).Samples); n != 0 {
		t.Errorf("0 ms silence has %d samples", n)
	}
	if n := len(Silence(24000, -10).Samples); n != 0 {
		t.Errorf("negative silence has %d samples", n)
	}
}

func TestConcatPreservesOrder(t *testing.T) {
	a := New([]float64{1, 2}, 100)
	b := New([]float64{3}, 100)
	c := New([]float64{4, 5, 6}, 100)

	out, err := Concat(a, b, c)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	want := []float64{1, 2, 3, 4, 5, 6}
	if len(out.Samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(out.Samples))
	}
	for i, s := range out.Samples {
		if s != want[i] {
			t.Errorf("sample %d = %f, want %f", i, s, want[i])
		}
	}
}

func TestConcatRateMismatch(t *testing.T) {
	_, err := Concat(New([]float64{1}, 24000), New([]float64{2}, 16000))
	if err == nil {
		t.Fatal("expected rate mismatch error")
	}
}

func TestConcatCopiesSamples(t *testing.T) {
	a := New([]float64{1, 2}, 100)
	out, err := Concat(a)
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	out.Samples[0] = 99
	if a.Samples[0] != 1 {
		t.Error("concat shares storage with its input")
	}
}

func TestDurationZeroRate(t *testing.T) {
	if d := (Buffer{}).Duration(); d != 0 {
		t.Errorf("duration of zero buffer = %f", d)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	rate := 24000
	samples := make([]float64, rate/10)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := WriteWAV(path, New(samples, rate)); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Rate != rate {
		t.Errorf("rate = %d, want %d", got.Rate, rate)
	}
	if len(got.Samples) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got.Samples))
	}
	// 16-bit quantization bounds the round-trip error.
	for i := range samples {
		if math.Abs(got.Samples[i]-samples[i]) > 1.0/32000 {
			t.Fatalf("sample %d = %f, want %f", i, got.Samples[i], samples[i])
		}
	}
}

func TestWriteWAVClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := WriteWAV(path, New([]float64{2.0, -3.0, 0.25}, 8000)); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i, s := range got.Samples {
		if s > 1.0 || s < -1.0 {
			t.Errorf("sample %d = %f outside [-1, 1]", i, s)
		}
	}
}

func TestDecodeWAVBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := WriteWAV(path, Silence(16000, 100)); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	got, err := DecodeWAVBytes(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Rate != 16000 {
		t.Errorf("rate = %d, want 16000", got.Rate)
	}
	if len(got.Samples) != 1600 {
		t.Errorf("expected 1600 samples, got %d", len(got.Samples))
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAVBytes([]byte("definitely not riff data")); err == nil {
		t.Fatal("expected error for non-WAV input")
	}
}
