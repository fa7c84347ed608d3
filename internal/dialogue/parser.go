// Package dialogue parses the dialogue script format.
//
// A script defines voice references and speaker turns:
//
//	voice1_wav="voices/anna.wav"
//	voice2_wav="voices/ben.wav"
//
//	voice1="Hello, how are you?"
//	voice2='Fine, thanks. And you?'
//
// Turn order is the order speaker lines appear in the script. A speaker
// line whose voice has no _wav definition is skipped.
package dialogue

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrNoLines reports a script with no usable dialogue lines.
var ErrNoLines = errors.New(`no dialogue lines found: a script needs voice definitions (voice1_wav="path/to/voice.wav") and dialogue lines (voice1="Text to speak")`)

// Turn is one speaker line, ready for synthesis.
type Turn struct {
	Speaker  string `json:"speaker"`   // voice identifier, e.g. "voice1"
	VoiceRef string `json:"voice_ref"` // path to the reference WAV for this voice
	Text     string `json:"text"`
}

// Script is a parsed dialogue: the voice map plus ordered turns.
type Script struct {
	Voices map[string]string
	Turns  []Turn
}

var (
	voicePattern = regexp.MustCompile(`(voice\d+)_wav\s*=\s*["']([^"']+)["']`)
	// Two branches so double-quoted text may contain apostrophes and
	// single-quoted text may contain double quotes.
	linePattern = regexp.MustCompile(`(voice\d+)\s*=\s*"([^"]+)"|(voice\d+)\s*=\s*'([^']+)'`)
)

// Parse extracts voice definitions and dialogue turns from script content.
// It fails only when no turn references a defined voice.
func Parse(content string) (*Script, error) {
	voices := map[string]string{}
	for _, m := range voicePattern.FindAllStringSubmatch(content, -1) {
		voices[m[1]] = m[2]
	}

	var turns []Turn
	for _, m := range linePattern.FindAllStringSubmatch(content, -1) {
		speaker, text := m[1], m[2]
		if speaker == "" {
			speaker, text = m[3], m[4]
		}
		ref, ok := voices[speaker]
		if !ok {
			continue
		}
		turns = append(turns, Turn{Speaker: speaker, VoiceRef: ref, Text: text})
	}

	if len(turns) == 0 {
		return nil, ErrNoLines
	}
	return &Script{Voices: voices, Turns: turns}, nil
}

// ParseFile reads and parses a dialogue script file.
func ParseFile(path string) (*Script, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialogue file: %w", err)
	}
	return Parse(string(content))
}

// FromTurns builds a Script from pre-resolved turns, for callers that
// supply structured input instead of script text. Every turn must carry a
// speaker and a voice reference.
func FromTurns(turns []Turn) (*Script, error) {
	if len(turns) == 0 {
		return nil, ErrNoLines
	}
	voices := map[string]string{}
	for i, t := range turns {
		if t.Speaker == "" {
			return nil, fmt.Errorf("turn %d: missing speaker", i+1)
		}
		if t.VoiceRef == "" {
			return nil, fmt.Errorf("turn %d (%s): missing voice reference", i+1, t.Speaker)
		}
		voices[t.Speaker] = t.VoiceRef
	}
	return &Script{Voices: voices, Turns: turns}, nil
}

// ShortTurns returns the 1-based ordinals of turns whose trimmed text is
// under three characters. Such lines tend to trip synthesis backends;
// callers should warn before running them.
func (s *Script) ShortTurns() []int {
	var short []int
	for i, t := range s.Turns {
		if len(strings.TrimSpace(t.Text)) < 3 {
			short = append(short, i+1)
		}
	}
	return short
}
