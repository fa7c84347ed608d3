// Package dsp post-processes synthesized speech with a fixed four-stage
// chain: high-pass filtering, de-essing, RMS normalization, and fade
// shaping.
//
// Stage order is load-bearing. The high-pass runs first because later
// stages assume a cleaned signal; fades run last so no gain stage can undo
// them. Every stage preserves buffer length and sample rate.
//
// Default parameters:
//
//	HighpassHz:  80
//	HighpassQ:   0.707
//	DeEssHz:     6500
//	DeEssQ:      0.7
//	DeEssGainDB: -6
//	TargetRMS:   0.1
//	FadeInMS:    10
//	FadeOutMS:   50
package dsp

// Config controls the processing chain. Each stage can be toggled
// independently; disabled stages pass samples through untouched.
type Config struct {
	Highpass    bool    // remove low-frequency rumble first
	HighpassHz  float64 // cutoff frequency in Hz (default 80)
	HighpassQ   float64 // filter quality factor (default 0.707)
	DeEss       bool    // attenuate the sibilant band
	DeEssHz     float64 // band center in Hz (default 6500)
	DeEssQ      float64 // band quality factor (default 0.7)
	DeEssGainDB float64 // band gain in dB, negative attenuates (default -6)
	Normalize   bool    // scale toward a target RMS level
	TargetRMS   float64 // target RMS (default 0.1)
	Fades       bool    // linear fade-in/out at the edges
	FadeInMS    float64 // fade-in window in ms (default 10)
	FadeOutMS   float64 // fade-out window in ms (default 50)
}

// DefaultConfig returns the standard chain with all four stages enabled.
func DefaultConfig() Config {
	return Config{
		Highpass:    true,
		HighpassHz:  80,
		HighpassQ:   0.707,
		DeEss:       true,
		DeEssHz:     6500,
		DeEssQ:      0.7,
		DeEssGainDB: -6,
		Normalize:   true,
		TargetRMS:   0.1,
		Fades:       true,
		FadeInMS:    10,
		FadeOutMS:   50,
	}
}

// Processor applies the configured chain to one utterance at a time.
type Processor struct {
	cfg Config
}

// New creates a Processor with the given config.
func New(cfg Config) *Processor {
	return &Processor{cfg: cfg}
}

// Config returns the processor's configuration.
func (p *Processor) Config() Config {
	return p.cfg
}

// Process runs the enabled stages in fixed order and returns the processed
// samples. The input slice is not modified; the output has identical
// length. Zero-length input is returned unchanged.
func (p *Processor) Process(samples []float64, rate int) []float64 {
	if len(samples) == 0 {
		return samples
	}
	out := make([]float64, len(samples))
	copy(out, samples)

	if p.cfg.Highpass {
		NewHighpass(rate, p.cfg.HighpassHz, p.cfg.HighpassQ).Apply(out)
	}
	if p.cfg.DeEss {
		DeEss(out, rate, p.cfg.DeEssHz, p.cfg.DeEssQ, p.cfg.DeEssGainDB)
	}
	if p.cfg.Normalize {
		NormalizeRMS(out, p.cfg.TargetRMS)
	}
	if p.cfg.Fades {
		ApplyFades(out, rate, p.cfg.FadeInMS, p.cfg.FadeOutMS)
	}
	return out
}
