package models

import (
	"time"

	"github.com/google/uuid"
)

type DialogueRun struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	ScriptSHA256    string     `json:"script_sha256" db:"script_sha256"`
	OutputPrefix    string     `json:"output_prefix" db:"output_prefix"`
	Language        string     `json:"language" db:"language"`
	NumLines        int        `json:"num_lines" db:"num_lines"`
	OutputFile      string     `json:"output_file,omitempty" db:"output_file"`
	LinesDir        string     `json:"lines_dir,omitempty" db:"lines_dir"`
	DurationSeconds float64    `json:"duration_seconds" db:"duration_seconds"`
	Status          string     `json:"status" db:"status"`
	Error           string     `json:"error,omitempty" db:"error"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)
