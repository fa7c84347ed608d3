package pipeline

import (
	"errors"
	"fmt"
)

// MinTextLen is the minimum trimmed text length the synthesis backend
// handles reliably. Shorter lines are rejected before the backend is ever
// called.
const MinTextLen = 3

// ErrEmptyDialogue reports a run with zero turns. It fails fast, before
// any synthesis work begins.
var ErrEmptyDialogue = errors.New("dialogue is empty: nothing to synthesize")

// ShortTextError reports a line below the minimum synthesizable length.
// It carries the offending text and is never retried.
type ShortTextError struct {
	Text string
}

func (e *ShortTextError) Error() string {
	return fmt.Sprintf("text too short for synthesis: %q (minimum %d characters)", e.Text, MinTextLen)
}

// SynthesisError reports a backend failure on one turn. It aborts the
// whole run; partial output is never valid.
type SynthesisError struct {
	Line    int // 1-based turn ordinal
	Speaker string
	Err     error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed on line %d (%s): %v", e.Line, e.Speaker, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
