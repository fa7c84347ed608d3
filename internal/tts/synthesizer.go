// Package tts provides the speech synthesis backends behind the dialogue
// pipeline. A backend turns one line of text plus a voice reference into a
// mono sample buffer at the backend's fixed sample rate.
package tts

import (
	"context"

	"github.com/castwave/castwave/pkg/audio"
)

// Request holds the parameters for synthesizing one utterance.
type Request struct {
	Text         string
	VoiceRef     string  // reference WAV used to condition output timbre
	Language     string  // ISO-639-1 code, e.g. "en"
	Exaggeration float64 // expressive intensity, 1.0-3.0
	CFGWeight    float64 // generation fidelity weight, 0.0-1.0
}

// Synthesizer is the interface for text-to-speech backends. The sample
// rate is fixed by the backend's model and uniform for an entire run.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (audio.Buffer, error)
	SampleRate() int
	Name() string
}

// SupportedLanguages lists the language codes the voice-cloning backend
// accepts.
var SupportedLanguages = []string{"en", "it", "es", "fr", "de", "zh", "ja", "ko"}

// LanguageSupported reports whether code is a known language id.
func LanguageSupported(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
