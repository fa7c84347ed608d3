// Package store persists generated audio under the outputs directory and
// guards download paths against traversal outside it.
//
// Layout for a run with output name "conversation":
//
//	outputs/conversation.wav            merged dialogue
//	outputs/conversation_lines/         individual lines, when requested
//	    001_voice1_Hello_there.wav
//	    002_voice2_Nice_to_meet_you.wav
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/pkg/audio"
)

// ErrOutsideOutputs rejects download paths that resolve outside the
// outputs directory.
var ErrOutsideOutputs = errors.New("path is outside the outputs directory")

// Store writes WAV files under a single outputs directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir, defaulting to "outputs".
func New(dir string) *Store {
	if dir == "" {
		dir = "outputs"
	}
	return &Store{dir: dir}
}

// Dir returns the outputs directory.
func (s *Store) Dir() string { return s.dir }

// SaveMerged writes the merged dialogue as <name>.wav in the outputs
// directory and returns the written path.
func (s *Store) SaveMerged(name string, buf audio.Buffer) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create outputs dir: %w", err)
	}
	path := filepath.Join(s.dir, name+".wav")
	if err := audio.WriteWAV(path, buf); err != nil {
		return "", err
	}
	return path, nil
}

// LineWriter persists the individual lines of one run under
// <name>_lines/. It satisfies the assembler's sink contract.
type LineWriter struct {
	dir string
}

// Lines creates the per-line directory for a run and returns its writer.
func (s *Store) Lines(name string) (*LineWriter, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.dir, name+"_lines")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lines dir: %w", err)
	}
	return &LineWriter{dir: dir}, nil
}

// Dir returns the per-line directory.
func (w *LineWriter) Dir() string { return w.dir }

// SaveLine writes one utterance as NNN_speaker_slug.wav and returns the
// written path.
func (w *LineWriter) SaveLine(index int, turn dialogue.Turn, buf audio.Buffer) (string, error) {
	filename := fmt.Sprintf("%03d_%s_%s.wav", index, turn.Speaker, slugify(turn.Text))
	path := filepath.Join(w.dir, filename)
	if err := audio.WriteWAV(path, buf); err != nil {
		return "", err
	}
	return path, nil
}

// Resolve validates a requested download path and returns it cleaned.
// Only paths inside the outputs directory are servable; anything that
// escapes it after resolution is rejected.
func (s *Store) Resolve(p string) (string, error) {
	clean := filepath.Clean(p)
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return "", fmt.Errorf("resolve outputs dir: %w", err)
	}
	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", ErrOutsideOutputs
	}
	rel, err := filepath.Rel(absDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrOutsideOutputs
	}
	return clean, nil
}

var (
	slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// slugify turns line text into a filename fragment: first 30 characters,
// punctuation stripped, whitespace collapsed to underscores.
func slugify(text string) string {
	runes := []rune(text)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	s := slugStrip.ReplaceAllString(string(runes), "")
	return slugSpace.ReplaceAllString(s, "_")
}

// CleanName validates an output name, defaulting to "conversation". Names
// that could escape the outputs directory are rejected.
func CleanName(name string) (string, error) {
	if name == "" {
		return "conversation", nil
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid output name %q", name)
	}
	return name, nil
}
