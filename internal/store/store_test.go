package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/pkg/audio"
)

func testBuffer() audio.Buffer {
	buf := audio.New(make([]float64, 2400), 24000)
	for i := range buf.Samples {
		buf.Samples[i] = 0.25
	}
	return buf
}

func TestSaveMerged(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "outputs"))

	path, err := s.SaveMerged("conversation", testBuffer())
	if err != nil {
		t.Fatalf("SaveMerged: %v", err)
	}
	if filepath.Base(path) != "conversation.wav" {
		t.Errorf("path = %q, want basename conversation.wav", path)
	}

	got, err := audio.ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if len(got.Samples) != 2400 || got.Rate != 24000 {
		t.Errorf("read back %d samples at %d Hz, want 2400 at 24000", len(got.Samples), got.Rate)
	}
}

func TestSaveMergedDefaultName(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "outputs"))

	path, err := s.SaveMerged("", testBuffer())
	if err != nil {
		t.Fatalf("SaveMerged: %v", err)
	}
	if filepath.Base(path) != "conversation.wav" {
		t.Errorf("path = %q, want default name conversation.wav", path)
	}
}

func TestSaveMergedRejectsBadNames(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "outputs"))

	for _, name := range []string{"../escape", "a/b", `a\b`, "x..y"} {
		if _, err := s.SaveMerged(name, testBuffer()); err == nil {
			t.Errorf("SaveMerged(%q) accepted, want error", name)
		}
	}
}

func TestLineWriterNaming(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "outputs"))

	w, err := s.Lines("demo")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if filepath.Base(w.Dir()) != "demo_lines" {
		t.Errorf("line dir = %q, want basename demo_lines", w.Dir())
	}

	turn := dialogue.Turn{Speaker: "voice1", Text: "Hello there, friend! How's it going today?"}
	path, err := w.SaveLine(1, turn, testBuffer())
	if err != nil {
		t.Fatalf("SaveLine: %v", err)
	}
	want := "001_voice1_Hello_there_friend_Hows_it_.wav"
	if filepath.Base(path) != want {
		t.Errorf("line file = %q, want %q", filepath.Base(path), want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat line file: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Hello there!", "Hello_there"},
		{"What's up?", "Whats_up"},
		{"multi   space\ttext", "multi_space_text"},
		{"keep-dash_and_digits 123", "keep-dash_and_digits_123"},
		{strings.Repeat("a", 40), strings.Repeat("a", 30)},
		{"", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.text); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs")
	s := New(dir)

	path, err := s.SaveMerged("conversation", testBuffer())
	if err != nil {
		t.Fatalf("SaveMerged: %v", err)
	}

	got, err := s.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", path, err)
	}
	if got != filepath.Clean(path) {
		t.Errorf("Resolve = %q, want %q", got, path)
	}

	rejected := []string{
		filepath.Join(dir, "..", "secret.txt"),
		filepath.Join(dir, "..", "outputs2", "x.wav"),
		"/etc/passwd",
	}
	for _, p := range rejected {
		if _, err := s.Resolve(p); !errors.Is(err, ErrOutsideOutputs) {
			t.Errorf("Resolve(%q) err = %v, want ErrOutsideOutputs", p, err)
		}
	}
}

func TestResolveRelativePaths(t *testing.T) {
	s := New("outputs")

	if _, err := s.Resolve("outputs/conversation.wav"); err != nil {
		t.Errorf("Resolve inside dir: %v", err)
	}
	if _, err := s.Resolve("outputs/../etc/passwd"); !errors.Is(err, ErrOutsideOutputs) {
		t.Errorf("Resolve traversal err = %v, want ErrOutsideOutputs", err)
	}
	if _, err := s.Resolve("other/conversation.wav"); !errors.Is(err, ErrOutsideOutputs) {
		t.Errorf("Resolve sibling dir err = %v, want ErrOutsideOutputs", err)
	}
}
