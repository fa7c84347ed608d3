package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV persists a buffer to path as 16-bit PCM mono WAV. Samples are
// clamped to [-1, 1] before conversion so out-of-range values cannot wrap.
func WriteWAV(path string, b Buffer) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}
	defer file.Close()

	intData := make([]int, len(b.Samples))
	for i, sample := range b.Samples {
		clamped := math.Max(-1.0, math.Min(1.0, sample))
		intData[i] = int(clamped * 32767)
	}

	encoder := wav.NewEncoder(file, b.Rate, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Data:           intData,
		Format:         &gaudio.Format{SampleRate: b.Rate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	return encoder.Close()
}

// ReadWAV loads a WAV file into a mono float64 buffer.
func ReadWAV(path string) (Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, fmt.Errorf("open wav file: %w", err)
	}
	defer file.Close()
	return DecodeWAV(file)
}

// DecodeWAVBytes decodes an in-memory WAV payload, typically a synthesis
// backend response body.
func DecodeWAVBytes(data []byte) (Buffer, error) {
	return DecodeWAV(bytes.NewReader(data))
}

// DecodeWAV decodes WAV data into a mono float64 buffer. Multi-channel
// input is averaged down to one channel.
func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Buffer{}, fmt.Errorf("decode wav: not a valid WAV file")
	}
	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("decode wav: %w", err)
	}
	channels := pcm.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int(1) << (bitDepth - 1))

	frames := len(pcm.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(pcm.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}
	return Buffer{Samples: samples, Rate: pcm.Format.SampleRate}, nil
}
