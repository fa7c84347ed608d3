package generation

import (
	"log/slog"

	"github.com/castwave/castwave/internal/config"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/pipeline"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/store"
	"github.com/castwave/castwave/internal/tts"
	"github.com/castwave/castwave/pkg/dsp"
	"github.com/castwave/castwave/pkg/textnorm"
)

// NewFromConfig wires the full generation stack from service config: the
// configured TTS backend, the default signal chain, the outputs store, and
// the supplied progress/history services. The API server, the queue
// worker, and the CLI all bootstrap through here.
func NewFromConfig(cfg *config.Config, progressStore progress.Store, hist *history.Service, logger *slog.Logger) (*Service, error) {
	backend, err := tts.NewFromConfig(cfg.TTS)
	if err != nil {
		return nil, err
	}

	lines := pipeline.NewLineSynthesizer(backend, dsp.New(dsp.DefaultConfig()), textnorm.DefaultOptions(), logger)
	assembler := pipeline.NewAssembler(lines, logger)
	outputs := store.New(cfg.Paths.OutputsDir)

	return NewService(assembler, outputs, progressStore, hist, logger), nil
}
