// Package audio provides the mono sample buffer shared by the synthesis
// pipeline, plus 16-bit PCM WAV encoding and decoding built on go-audio.
//
// A Buffer is a single-channel sequence of float64 samples in [-1, 1] with
// an associated sample rate. The rate is fixed by the synthesis backend and
// stays constant for an entire pipeline run; Concat enforces that.
package audio

import (
	"fmt"
)

// Buffer holds mono audio samples at a fixed sample rate.
type Buffer struct {
	Samples []float64
	Rate    int // sample rate in Hz
}

// New wraps samples and a sample rate in a Buffer.
func New(samples []float64, rate int) Buffer {
	return Buffer{Samples: samples, Rate: rate}
}

// Silence returns a newly allocated zero-filled buffer of ms milliseconds
// at the given sample rate, computed as rate*ms/1000 samples.
func Silence(rate, ms int) Buffer {
	n := rate * ms / 1000
	if n < 0 {
		n = 0
	}
	return Buffer{Samples: make([]float64, n), Rate: rate}
}

// Duration returns the buffer length in seconds.
func (b Buffer) Duration() float64 {
	if b.Rate == 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.Rate)
}

// Empty reports whether the buffer holds no samples.
func (b Buffer) Empty() bool {
	return len(b.Samples) == 0
}

// Clone returns a deep copy of the buffer.
func (b Buffer) Clone() Buffer {
	out := make([]float64, len(b.Samples))
	copy(out, b.Samples)
	return Buffer{Samples: out, Rate: b.Rate}
}

// Concat joins buffers in order into one buffer. The join is deterministic
// and order-preserving; samples are copied, not shared. All buffers must
// agree on sample rate.
func Concat(bufs ...Buffer) (Buffer, error) {
	if len(bufs) == 0 {
		return Buffer{}, nil
	}
	rate := bufs[0].Rate
	total := 0
	for i, b := range bufs {
		if b.Rate != rate {
			return Buffer{}, fmt.Errorf("audio: sample rate mismatch at segment %d: %d != %d", i, b.Rate, rate)
		}
		total += len(b.Samples)
	}
	out := make([]float64, 0, total)
	for _, b := range bufs {
		out = append(out, b.Samples...)
	}
	return Buffer{Samples: out, Rate: rate}, nil
}
