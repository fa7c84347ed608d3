package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/pkg/audio"
)

// Progress statuses emitted during a run.
const (
	StatusIdle           = "idle"
	StatusGeneratingLine = "generating_line"
	StatusMerging        = "merging"
	StatusCompleted      = "completed"
	StatusError          = "error"
)

// Event is a structured progress update. Delivery is the caller's concern;
// the assembler only emits.
type Event struct {
	CurrentLine int    `json:"current_line"`
	TotalLines  int    `json:"total_lines"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// ProgressFunc receives progress events after each phase change.
type ProgressFunc func(Event)

// LineSink persists one per-line buffer with its originating turn. Naming
// and format are the sink's concern; the assembler only hands off an
// indexed buffer.
type LineSink interface {
	SaveLine(index int, turn dialogue.Turn, buf audio.Buffer) (string, error)
}

// Result is the outcome of one assembled run.
type Result struct {
	Merged    audio.Buffer
	LineFiles []string // paths of individually persisted lines, in order
	Duration  float64  // seconds, total_samples / sample_rate
	Lines     int
}

// Assembler drives the full dialogue run: synthesize each turn in order,
// interleave silence, concatenate.
type Assembler struct {
	lines  *LineSynthesizer
	logger *slog.Logger
}

// NewAssembler creates an Assembler over a line synthesizer.
func NewAssembler(lines *LineSynthesizer, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{lines: lines, logger: logger}
}

// Assemble synthesizes every turn and joins the utterances with silence
// between consecutive turns, never after the last. Any turn failure aborts
// the run immediately. sink receives per-line buffers when the request
// enables individual saving; onProgress, when non-nil, receives an event
// per line and one when merging starts. The caller reports completion.
func (a *Assembler) Assemble(ctx context.Context, req Request, sink LineSink, onProgress ProgressFunc) (*Result, error) {
	if len(req.Turns) == 0 {
		return nil, ErrEmptyDialogue
	}
	emit := onProgress
	if emit == nil {
		emit = func(Event) {}
	}

	total := len(req.Turns)
	a.logger.Info("generating dialogue audio", "lines", total, "language", req.Language, "silence_ms", req.SilenceMS)

	segments := make([]audio.Buffer, 0, 2*total-1)
	var lineFiles []string

	for i, turn := range req.Turns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := i + 1
		emit(Event{
			CurrentLine: line,
			TotalLines:  total,
			Status:      StatusGeneratingLine,
			Message:     fmt.Sprintf("Generating line %d/%d (%s)", line, total, turn.Speaker),
		})

		buf, err := a.lines.SynthesizeLine(ctx, turn, req.Options)
		if err != nil {
			var short *ShortTextError
			if errors.As(err, &short) {
				return nil, fmt.Errorf("line %d (%s): %w", line, turn.Speaker, err)
			}
			return nil, &SynthesisError{Line: line, Speaker: turn.Speaker, Err: err}
		}

		if req.SaveIndividual && sink != nil {
			path, err := sink.SaveLine(line, turn, buf)
			if err != nil {
				return nil, fmt.Errorf("save line %d: %w", line, err)
			}
			lineFiles = append(lineFiles, path)
			a.logger.Debug("saved individual line", "line", line, "path", path)
		}

		segments = append(segments, buf)
		if i < total-1 {
			segments = append(segments, audio.Silence(buf.Rate, req.SilenceMS))
		}
	}

	emit(Event{
		CurrentLine: total,
		TotalLines:  total,
		Status:      StatusMerging,
		Message:     "Merging audio segments...",
	})

	merged, err := audio.Concat(segments...)
	if err != nil {
		return nil, fmt.Errorf("merge segments: %w", err)
	}

	result := &Result{
		Merged:    merged,
		LineFiles: lineFiles,
		Duration:  merged.Duration(),
		Lines:     total,
	}
	a.logger.Info("dialogue assembled", "lines", total, "duration_seconds", result.Duration)
	return result, nil
}
