package generation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/castwave/castwave/internal/pipeline"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/store"
	"github.com/castwave/castwave/internal/tts"
	"github.com/castwave/castwave/pkg/audio"
	"github.com/castwave/castwave/pkg/textnorm"
)

const sampleScript = `
voice1_wav="voices/anna.wav"
voice2_wav="voices/ben.wav"

voice1="Hello there, how are you?"
voice2="Doing great, thanks for asking."
voice1="Glad to hear it."
`

type stubSynth struct {
	calls int
	fail  bool
}

func (s *stubSynth) Synthesize(ctx context.Context, req tts.Request) (audio.Buffer, error) {
	s.calls++
	if s.fail {
		return audio.Buffer{}, errors.New("backend down")
	}
	buf := audio.New(make([]float64, 2400), 24000)
	for i := range buf.Samples {
		buf.Samples[i] = 0.4
	}
	return buf, nil
}

func (s *stubSynth) SampleRate() int { return 24000 }
func (s *stubSynth) Name() string    { return "stub" }

func newTestService(t *testing.T, synth tts.Synthesizer) (*Service, *progress.MemoryStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "outputs")
	lines := pipeline.NewLineSynthesizer(synth, nil, textnorm.Options{}, nil)
	asm := pipeline.NewAssembler(lines, nil)
	snaps := progress.NewMemoryStore()
	svc := NewService(asm, store.New(dir), snaps, nil, nil)
	return svc, snaps, dir
}

func plainParams() Params {
	opts := pipeline.DefaultOptions()
	opts.ProcessAudio = false
	opts.NormalizeText = false
	return Params{Script: sampleScript, OutputPrefix: "demo", Options: opts}
}

func TestRunNewProducesOutputs(t *testing.T) {
	svc, snaps, dir := newTestService(t, &stubSynth{})

	res, err := svc.RunNew(context.Background(), plainParams())
	if err != nil {
		t.Fatalf("RunNew: %v", err)
	}

	if res.NumLines != 3 {
		t.Errorf("NumLines = %d, want 3", res.NumLines)
	}
	if res.OutputFile != filepath.Join(dir, "demo.wav") {
		t.Errorf("OutputFile = %q", res.OutputFile)
	}
	if _, err := os.Stat(res.OutputFile); err != nil {
		t.Errorf("stat merged file: %v", err)
	}

	// 3 lines of 0.1s plus two 500ms gaps.
	if math.Abs(res.Duration-1.3) > 1e-9 {
		t.Errorf("Duration = %f, want 1.3", res.Duration)
	}

	entries, err := os.ReadDir(res.LinesDir)
	if err != nil {
		t.Fatalf("read lines dir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("lines dir holds %d files, want 3", len(entries))
	}

	snap, ok, err := snaps.Get(context.Background(), res.RunID.String())
	if err != nil || !ok {
		t.Fatalf("Get snapshot: ok=%v err=%v", ok, err)
	}
	if snap.Status != pipeline.StatusCompleted {
		t.Errorf("final status = %q, want completed", snap.Status)
	}
	if snap.CurrentLine != 3 || snap.TotalLines != 3 {
		t.Errorf("final counters = %d/%d, want 3/3", snap.CurrentLine, snap.TotalLines)
	}
}

func TestRunNewWithoutIndividualLines(t *testing.T) {
	svc, _, dir := newTestService(t, &stubSynth{})

	p := plainParams()
	p.Options.SaveIndividual = false
	res, err := svc.RunNew(context.Background(), p)
	if err != nil {
		t.Fatalf("RunNew: %v", err)
	}
	if res.LinesDir != "" {
		t.Errorf("LinesDir = %q, want empty", res.LinesDir)
	}
	if _, err := os.Stat(filepath.Join(dir, "demo_lines")); !os.IsNotExist(err) {
		t.Errorf("lines dir exists, want absent (err=%v)", err)
	}
}

func TestRunSynthesisFailure(t *testing.T) {
	svc, snaps, dir := newTestService(t, &stubSynth{fail: true})

	runID := uuid.New()
	_, err := svc.Run(context.Background(), runID, plainParams())
	var synthErr *pipeline.SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("err = %v, want SynthesisError", err)
	}

	snap, ok, _ := snaps.Get(context.Background(), runID.String())
	if !ok || snap.Status != pipeline.StatusError {
		t.Errorf("snapshot = %+v, want error status", snap)
	}
	if _, err := os.Stat(filepath.Join(dir, "demo.wav")); !os.IsNotExist(err) {
		t.Errorf("merged file exists after failure (err=%v)", err)
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	svc, snaps, _ := newTestService(t, &stubSynth{})

	p := plainParams()
	p.Options.Style.Exaggeration = 9.0
	runID := uuid.New()
	if _, err := svc.Run(context.Background(), runID, p); err == nil {
		t.Fatal("Run accepted out-of-range exaggeration")
	}

	snap, ok, _ := snaps.Get(context.Background(), runID.String())
	if !ok || snap.Status != pipeline.StatusError {
		t.Errorf("snapshot = %+v, want error status", snap)
	}
}

func TestCreateRunRejectsEmptyScript(t *testing.T) {
	svc, _, _ := newTestService(t, &stubSynth{})

	p := plainParams()
	p.Script = "just prose, no dialogue lines"
	if _, err := svc.CreateRun(context.Background(), p); err == nil {
		t.Error("CreateRun accepted script without dialogue lines")
	}
}

func TestValidateRejectsBadPrefix(t *testing.T) {
	svc, _, _ := newTestService(t, &stubSynth{})

	p := plainParams()
	p.OutputPrefix = "../escape"
	if _, err := svc.Validate(p); err == nil {
		t.Error("Validate accepted traversal prefix")
	}
}
