// Package pipeline turns an ordered dialogue into one merged audio buffer.
//
// The pipeline is strictly sequential: turns synthesize one at a time, in
// input order, because the synthesis backend is a single shared model that
// does not service concurrent requests. Each buffer is owned by whichever
// stage last produced it; the only accumulated state is the assembler's
// segment list, which lives for one run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/internal/tts"
	"github.com/castwave/castwave/pkg/audio"
	"github.com/castwave/castwave/pkg/dsp"
	"github.com/castwave/castwave/pkg/textnorm"
)

// Style holds the expressiveness knobs applied uniformly to every turn in
// a run. There is no per-turn override.
type Style struct {
	Exaggeration float64 `json:"exaggeration"` // valid range 1.0-3.0
	CFGWeight    float64 `json:"cfg_weight"`   // valid range 0.0-1.0
}

// DefaultStyle returns the natural-sounding defaults.
func DefaultStyle() Style {
	return Style{Exaggeration: 1.5, CFGWeight: 0.5}
}

// Options are the per-run toggles and parameters.
type Options struct {
	Style          Style  `json:"style"`
	Language       string `json:"language"`
	SilenceMS      int    `json:"silence_ms"`
	NormalizeText  bool   `json:"normalize_text"`
	ProcessAudio   bool   `json:"process_audio"`
	SaveIndividual bool   `json:"save_individual"`
}

// DefaultOptions returns the standard run settings.
func DefaultOptions() Options {
	return Options{
		Style:          DefaultStyle(),
		Language:       "en",
		SilenceMS:      500,
		NormalizeText:  true,
		ProcessAudio:   true,
		SaveIndividual: true,
	}
}

// Validate checks parameter ranges. Out-of-range values are rejected, not
// clamped.
func (o Options) Validate() error {
	if o.Style.Exaggeration < 1.0 || o.Style.Exaggeration > 3.0 {
		return fmt.Errorf("exaggeration must be between 1.0 and 3.0, got %g", o.Style.Exaggeration)
	}
	if o.Style.CFGWeight < 0.0 || o.Style.CFGWeight > 1.0 {
		return fmt.Errorf("cfg_weight must be between 0.0 and 1.0, got %g", o.Style.CFGWeight)
	}
	if o.SilenceMS < 0 || o.SilenceMS > 5000 {
		return fmt.Errorf("silence_ms must be between 0 and 5000, got %d", o.SilenceMS)
	}
	if !tts.LanguageSupported(o.Language) {
		return fmt.Errorf("unsupported language %q (supported: %s)", o.Language, strings.Join(tts.SupportedLanguages, ", "))
	}
	return nil
}

// Request is one pipeline run: the ordered turns plus run options. It is
// constructed at invocation and discarded after the merged file is
// written.
type Request struct {
	Turns []dialogue.Turn `json:"turns"`
	Options
}

// LineSynthesizer produces one processed utterance per dialogue turn. It
// normalizes the text, enforces the minimum length, invokes the backend,
// and runs the signal chain.
type LineSynthesizer struct {
	backend  tts.Synthesizer
	proc     *dsp.Processor
	textOpts textnorm.Options
	logger   *slog.Logger
}

// NewLineSynthesizer wires a backend and signal processor. A nil proc gets
// the default chain; textOpts selects which text rewrites run when a
// request enables normalization.
func NewLineSynthesizer(backend tts.Synthesizer, proc *dsp.Processor, textOpts textnorm.Options, logger *slog.Logger) *LineSynthesizer {
	if proc == nil {
		proc = dsp.New(dsp.DefaultConfig())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LineSynthesizer{backend: backend, proc: proc, textOpts: textOpts, logger: logger}
}

// SynthesizeLine generates audio for a single turn. Text normalization
// runs before the length check so a rewrite can rescue borderline input.
func (ls *LineSynthesizer) SynthesizeLine(ctx context.Context, turn dialogue.Turn, opts Options) (audio.Buffer, error) {
	text := turn.Text
	if opts.NormalizeText {
		normalized := textnorm.Normalize(text, ls.textOpts)
		if normalized != text {
			ls.logger.Info("text normalized for pronunciation",
				"speaker", turn.Speaker,
				"original", text,
				"normalized", normalized)
		}
		text = normalized
	}

	if len(strings.TrimSpace(text)) < MinTextLen {
		return audio.Buffer{}, &ShortTextError{Text: text}
	}

	ls.logger.Debug("generating line", "speaker", turn.Speaker, "text", preview(text))

	buf, err := ls.backend.Synthesize(ctx, tts.Request{
		Text:         text,
		VoiceRef:     turn.VoiceRef,
		Language:     opts.Language,
		Exaggeration: opts.Style.Exaggeration,
		CFGWeight:    opts.Style.CFGWeight,
	})
	if err != nil {
		return audio.Buffer{}, err
	}

	if opts.ProcessAudio {
		buf = audio.New(ls.proc.Process(buf.Samples, buf.Rate), buf.Rate)
	}
	return buf, nil
}

// preview truncates text for log lines.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= 50 {
		return text
	}
	return string(runes[:50]) + "..."
}
