// Package voice discovers the reference WAVs available for cloning.
package voice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/castwave/castwave/pkg/audio"
)

// Voice describes one reference recording in the library.
type Voice struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	Duration   float64 `json:"duration_seconds"`
	SampleRate int     `json:"sample_rate"`
}

// Library lists reference WAVs from a single directory.
type Library struct {
	dir string
}

// NewLibrary creates a library rooted at dir, defaulting to "voices".
func NewLibrary(dir string) *Library {
	if dir == "" {
		dir = "voices"
	}
	return &Library{dir: dir}
}

// Dir returns the library directory.
func (l *Library) Dir() string { return l.dir }

// List returns the usable reference WAVs sorted by filename. Files that
// are not WAVs or fail to decode are skipped.
func (l *Library) List() ([]Voice, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read voices dir: %w", err)
	}

	voices := make([]Voice, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		buf, err := audio.ReadWAV(path)
		if err != nil {
			continue
		}
		voices = append(voices, Voice{
			Name:       strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path:       path,
			Duration:   buf.Duration(),
			SampleRate: buf.Rate,
		})
	}
	return voices, nil
}
