package tts

import (
	"fmt"
	"time"

	"github.com/castwave/castwave/internal/config"
)

// NewFromConfig builds the synthesizer selected by cfg.Backend. An empty
// backend means chatterbox.
func NewFromConfig(cfg config.TTSConfig) (Synthesizer, error) {
	switch cfg.Backend {
	case "", "chatterbox":
		return NewChatterbox(ChatterboxConfig{
			BaseURL:    cfg.ChatterboxURL,
			APIKey:     cfg.ChatterboxKey,
			SampleRate: cfg.SampleRate,
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		}), nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai TTS backend requires OPENAI_API_KEY")
		}
		return NewOpenAISpeech(OpenAIConfig{
			APIKey:     cfg.OpenAIKey,
			Model:      cfg.OpenAIModel,
			Voice:      cfg.OpenAIVoice,
			SampleRate: cfg.SampleRate,
		}), nil
	default:
		return nil, fmt.Errorf("unknown TTS backend %q", cfg.Backend)
	}
}
