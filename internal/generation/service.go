// Package generation orchestrates full dialogue runs: parse the script,
// synthesize and assemble the audio, persist the outputs, and record the
// run. The synchronous API path, the queue worker, and the CLI all drive
// the same service.
package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/models"
	"github.com/castwave/castwave/internal/pipeline"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/store"
)

// Params describes one requested run. Either Script holds raw script text
// or Turns holds pre-resolved turns; Script wins when both are set.
type Params struct {
	Script       string
	Turns        []dialogue.Turn
	OutputPrefix string
	Options      pipeline.Options
}

// Result is the outcome of one completed run.
type Result struct {
	RunID       uuid.UUID `json:"run_id"`
	OutputFile  string    `json:"output_file"`
	LinesDir    string    `json:"lines_dir,omitempty"`
	Duration    float64   `json:"duration_seconds"`
	NumLines    int       `json:"num_lines"`
	CompletedAt time.Time `json:"completed_at"`
}

// Service runs dialogue generation end to end. The history service is
// optional; without it runs simply are not recorded.
type Service struct {
	assembler *pipeline.Assembler
	outputs   *store.Store
	progress  progress.Store
	history   *history.Service
	logger    *slog.Logger
}

func NewService(assembler *pipeline.Assembler, outputs *store.Store, progressStore progress.Store, hist *history.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		assembler: assembler,
		outputs:   outputs,
		progress:  progressStore,
		history:   hist,
		logger:    logger,
	}
}

// Validate checks the params without running anything: option ranges, the
// output name, and that the input yields at least one usable turn.
func (s *Service) Validate(p Params) (*dialogue.Script, error) {
	if err := p.Options.Validate(); err != nil {
		return nil, err
	}
	if _, err := store.CleanName(p.OutputPrefix); err != nil {
		return nil, err
	}
	if p.Script != "" {
		return dialogue.Parse(p.Script)
	}
	return dialogue.FromTurns(p.Turns)
}

// CreateRun validates params and records a pending run, returning its id.
// Used by the async path so the run is queryable before the worker picks
// it up.
func (s *Service) CreateRun(ctx context.Context, p Params) (uuid.UUID, error) {
	script, err := s.Validate(p)
	if err != nil {
		return uuid.Nil, err
	}

	runID := uuid.New()
	if s.history != nil {
		err := s.history.CreateRun(ctx, models.DialogueRun{
			ID:           runID,
			ScriptSHA256: hashParams(p),
			OutputPrefix: prefixOrDefault(p.OutputPrefix),
			Language:     p.Options.Language,
			NumLines:     len(script.Turns),
			Status:       models.RunStatusPending,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("recording run failed", "run_id", runID, "error", err)
		}
	}
	return runID, nil
}

// Run executes a generation run under an already assigned id.
func (s *Service) Run(ctx context.Context, runID uuid.UUID, p Params) (*Result, error) {
	tracker := progress.NewTracker(s.progress, runID.String(), s.logger)

	script, err := s.Validate(p)
	if err != nil {
		tracker.Fail(err.Error())
		s.recordFailure(ctx, runID, err)
		return nil, err
	}

	for _, line := range script.ShortTurns() {
		s.logger.Warn("very short line may cause synthesis errors",
			"run_id", runID, "line", line, "text", script.Turns[line-1].Text)
	}

	tracker.Start(len(script.Turns))
	if s.history != nil {
		if err := s.history.MarkRunning(ctx, runID); err != nil {
			s.logger.Warn("marking run running failed", "run_id", runID, "error", err)
		}
	}

	var sink pipeline.LineSink
	var linesDir string
	if p.Options.SaveIndividual {
		w, err := s.outputs.Lines(p.OutputPrefix)
		if err != nil {
			tracker.Fail(err.Error())
			s.recordFailure(ctx, runID, err)
			return nil, err
		}
		sink = w
		linesDir = w.Dir()
	}

	req := pipeline.Request{Turns: script.Turns, Options: p.Options}
	res, err := s.assembler.Assemble(ctx, req, sink, tracker.Handle)
	if err != nil {
		tracker.Fail(err.Error())
		s.recordFailure(ctx, runID, err)
		return nil, err
	}

	outputFile, err := s.outputs.SaveMerged(p.OutputPrefix, res.Merged)
	if err != nil {
		tracker.Fail(err.Error())
		s.recordFailure(ctx, runID, err)
		return nil, err
	}

	tracker.Complete(res.Lines)
	if s.history != nil {
		if err := s.history.CompleteRun(ctx, runID, outputFile, linesDir, res.Duration, res.Lines); err != nil {
			s.logger.Warn("completing run record failed", "run_id", runID, "error", err)
		}
	}

	s.logger.Info("dialogue generation finished",
		"run_id", runID,
		"output", outputFile,
		"lines", res.Lines,
		"duration_seconds", res.Duration)

	return &Result{
		RunID:       runID,
		OutputFile:  outputFile,
		LinesDir:    linesDir,
		Duration:    res.Duration,
		NumLines:    res.Lines,
		CompletedAt: time.Now().UTC(),
	}, nil
}

// RunNew assigns a fresh run id, records it, and executes immediately.
// This is the synchronous path.
func (s *Service) RunNew(ctx context.Context, p Params) (*Result, error) {
	runID, err := s.CreateRun(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, runID, p)
}

func (s *Service) recordFailure(ctx context.Context, runID uuid.UUID, cause error) {
	if s.history == nil {
		return
	}
	if err := s.history.FailRun(ctx, runID, cause.Error()); err != nil {
		s.logger.Warn("recording run failure failed", "run_id", runID, "error", err)
	}
}

func hashParams(p Params) string {
	data := []byte(p.Script)
	if p.Script == "" {
		data, _ = json.Marshal(p.Turns)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func prefixOrDefault(prefix string) string {
	if prefix == "" {
		return "conversation"
	}
	return prefix
}
