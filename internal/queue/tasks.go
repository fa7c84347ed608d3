package queue

import (
	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/internal/pipeline"
)

const TypeDialogueGenerate = "dialogue:generate"

type DialogueGeneratePayload struct {
	RunID        string           `json:"run_id"`
	Script       string           `json:"script,omitempty"`
	Turns        []dialogue.Turn  `json:"turns,omitempty"`
	OutputPrefix string           `json:"output_prefix"`
	Options      pipeline.Options `json:"options"`
}
