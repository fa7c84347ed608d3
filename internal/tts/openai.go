package tts

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/castwave/castwave/pkg/audio"
)

// OpenAIConfig holds configuration for the OpenAI speech backend.
type OpenAIConfig struct {
	APIKey     string
	Model      string // default: "tts-1"
	Voice      string // fallback voice, default: "alloy"
	SampleRate int    // WAV output rate, default 24000
}

// OpenAISpeech synthesizes speech with the OpenAI speech API. It exists so
// the service can run without a local model server. There is no voice
// cloning: the turn's reference filename selects a stock voice when its
// basename matches one, otherwise the configured fallback is used.
// Exaggeration and CFG weight have no equivalent and are ignored.
type OpenAISpeech struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAISpeech creates an OpenAI speech backend with defaults applied.
func NewOpenAISpeech(cfg OpenAIConfig) *OpenAISpeech {
	if cfg.Model == "" {
		cfg.Model = "tts-1"
	}
	if cfg.Voice == "" {
		cfg.Voice = "alloy"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	return &OpenAISpeech{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

func (o *OpenAISpeech) Name() string { return "openai" }

// SampleRate returns the WAV output rate of the speech API.
func (o *OpenAISpeech) SampleRate() int { return o.cfg.SampleRate }

// Synthesize converts one line of text to audio via the speech endpoint.
func (o *OpenAISpeech) Synthesize(ctx context.Context, req Request) (audio.Buffer, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.cfg.Model),
		Input:          req.Text,
		Voice:          o.voiceFor(req.VoiceRef),
		ResponseFormat: openai.SpeechResponseFormatWav,
	})
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	wavData, err := io.ReadAll(resp)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("read audio: %w", err)
	}
	buf, err := audio.DecodeWAVBytes(wavData)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decode audio: %w", err)
	}
	return buf, nil
}

var stockVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// voiceFor maps a reference like "voices/nova.wav" to the stock voice
// "nova", falling back to the configured default.
func (o *OpenAISpeech) voiceFor(ref string) openai.SpeechVoice {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)))
	if v, ok := stockVoices[base]; ok {
		return v
	}
	return openai.SpeechVoice(o.cfg.Voice)
}
