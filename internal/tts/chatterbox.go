package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/castwave/castwave/pkg/audio"
)

// ChatterboxConfig holds configuration for a Chatterbox TTS server backend.
// Everything the backend needs is fixed at construction; nothing is mutated
// afterward.
type ChatterboxConfig struct {
	BaseURL    string        // default: "http://localhost:8000"
	APIKey     string        // optional bearer token
	SampleRate int           // model output rate in Hz, default 24000
	Timeout    time.Duration // per-request timeout, default 5 minutes
}

// Chatterbox synthesizes speech through a Chatterbox multilingual TTS
// server. The server loads the voice-cloning model once and resolves voice
// reference paths against its own filesystem.
type Chatterbox struct {
	cfg        ChatterboxConfig
	httpClient *http.Client
}

// NewChatterbox creates a Chatterbox backend with defaults applied.
func NewChatterbox(cfg ChatterboxConfig) *Chatterbox {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 24000
	}
	if cfg.Timeout == 0 {
		// Model inference on CPU can take minutes for long lines.
		cfg.Timeout = 5 * time.Minute
	}
	return &Chatterbox{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Chatterbox) Name() string { return "chatterbox" }

// SampleRate returns the model's fixed output rate.
func (c *Chatterbox) SampleRate() int { return c.cfg.SampleRate }

// Synthesize requests one utterance from the server and decodes the WAV
// response into a sample buffer.
func (c *Chatterbox) Synthesize(ctx context.Context, req Request) (audio.Buffer, error) {
	body := map[string]any{
		"text":              req.Text,
		"audio_prompt_path": req.VoiceRef,
		"language_id":       req.Language,
		"exaggeration":      req.Exaggeration,
		"cfg_weight":        req.CFGWeight,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/synthesize", bytes.NewReader(data))
	if err != nil {
		return audio.Buffer{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/wav")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("synthesis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return audio.Buffer{}, fmt.Errorf("synthesis failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	wavData, err := io.ReadAll(resp.Body)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("read audio: %w", err)
	}
	buf, err := audio.DecodeWAVBytes(wavData)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("decode audio: %w", err)
	}
	return buf, nil
}
