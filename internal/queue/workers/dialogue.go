// Package workers holds the asynq task handlers.
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/queue"
)

type DialogueWorker struct {
	svc *generation.Service
}

func NewDialogueWorker(svc *generation.Service) *DialogueWorker {
	return &DialogueWorker{svc: svc}
}

func (w *DialogueWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DialogueGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	runID, err := uuid.Parse(payload.RunID)
	if err != nil {
		return fmt.Errorf("parse run ID: %w", err)
	}

	slog.Info("generating dialogue", "run_id", runID)

	res, err := w.svc.Run(ctx, runID, generation.Params{
		Script:       payload.Script,
		Turns:        payload.Turns,
		OutputPrefix: payload.OutputPrefix,
		Options:      payload.Options,
	})
	if err != nil {
		return fmt.Errorf("generate dialogue: %w", err)
	}

	slog.Info("dialogue generated",
		"run_id", runID,
		"output", res.OutputFile,
		"duration_seconds", res.Duration)
	return nil
}
