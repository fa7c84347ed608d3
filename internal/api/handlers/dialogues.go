package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/castwave/castwave/internal/dialogue"
	"github.com/castwave/castwave/internal/generation"
	"github.com/castwave/castwave/internal/history"
	"github.com/castwave/castwave/internal/pipeline"
	"github.com/castwave/castwave/internal/progress"
	"github.com/castwave/castwave/internal/queue"
)

// GenerateRequest is the request body for both the synchronous and the
// queued generation endpoints. Script text may arrive as "script" or under
// the legacy "dialogue_text" field; structured turns are the alternate
// input form. Omitted knobs take the pipeline defaults.
type GenerateRequest struct {
	Script       string          `json:"script"`
	DialogueText string          `json:"dialogue_text"`
	Turns        []dialogue.Turn `json:"turns"`
	OutputPrefix string          `json:"output_prefix"`

	Exaggeration   *float64 `json:"exaggeration"`
	CFGWeight      *float64 `json:"cfg_weight"`
	SilenceMS      *int     `json:"silence_ms"`
	Language       string   `json:"language"`
	NormalizeText  *bool    `json:"normalize_text"`
	ProcessAudio   *bool    `json:"process_audio"`
	SaveIndividual *bool    `json:"save_individual"`
}

func (req GenerateRequest) params() generation.Params {
	opts := pipeline.DefaultOptions()
	if req.Exaggeration != nil {
		opts.Style.Exaggeration = *req.Exaggeration
	}
	if req.CFGWeight != nil {
		opts.Style.CFGWeight = *req.CFGWeight
	}
	if req.SilenceMS != nil {
		opts.SilenceMS = *req.SilenceMS
	}
	if req.Language != "" {
		opts.Language = req.Language
	}
	if req.NormalizeText != nil {
		opts.NormalizeText = *req.NormalizeText
	}
	if req.ProcessAudio != nil {
		opts.ProcessAudio = *req.ProcessAudio
	}
	if req.SaveIndividual != nil {
		opts.SaveIndividual = *req.SaveIndividual
	}

	script := req.Script
	if script == "" {
		script = req.DialogueText
	}
	return generation.Params{
		Script:       script,
		Turns:        req.Turns,
		OutputPrefix: req.OutputPrefix,
		Options:      opts,
	}
}

// DialogueHandler serves generation, run lookup, and progress streaming.
// The queue client and history service are optional; endpoints depending
// on them answer 503 when the backing service is not configured.
type DialogueHandler struct {
	gen      *generation.Service
	queue    *queue.Client
	progress progress.Store
	history  *history.Service

	// mu serializes synchronous generation: the synthesis backend is one
	// shared model instance.
	mu sync.Mutex
}

func NewDialogueHandler(gen *generation.Service, qc *queue.Client, prog progress.Store, hist *history.Service) *DialogueHandler {
	return &DialogueHandler{gen: gen, queue: qc, progress: prog, history: hist}
}

// Generate runs a dialogue synchronously and returns the finished result.
func (h *DialogueHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params := req.params()
	if _, err := h.gen.Validate(params); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.mu.Lock()
	res, err := h.gen.RunNew(r.Context(), params)
	h.mu.Unlock()
	if err != nil {
		writeJSON(w, generateStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "success",
		"run_id":           res.RunID,
		"output_file":      res.OutputFile,
		"lines_dir":        res.LinesDir,
		"duration_seconds": res.Duration,
		"num_lines":        res.NumLines,
		"timestamp":        res.CompletedAt.Format(time.RFC3339),
	})
}

// Enqueue validates the request, records a pending run, and hands it to
// the worker queue. The run id is immediately pollable.
func (h *DialogueHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "async generation requires redis"})
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	params := req.params()
	runID, err := h.gen.CreateRun(r.Context(), params)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	err = h.queue.EnqueueDialogueGenerate(queue.DialogueGeneratePayload{
		RunID:        runID.String(),
		Script:       params.Script,
		Turns:        params.Turns,
		OutputPrefix: params.OutputPrefix,
		Options:      params.Options,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to enqueue run"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id": runID.String(),
		"status": "pending",
	})
}

// List returns recorded runs, newest first, with optional status and date
// filters.
func (h *DialogueHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history requires a database"})
		return
	}

	q := history.RunQuery{Status: r.URL.Query().Get("status")}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	q.StartDate = parseDate(r.URL.Query().Get("start_date"))
	q.EndDate = parseDate(r.URL.Query().Get("end_date"))

	runs, err := h.history.ListRuns(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs, "count": len(runs)})
}

// Summary aggregates run counts, audio seconds, and lines by status.
func (h *DialogueHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history requires a database"})
		return
	}

	summary, err := h.history.GetRunSummary(r.Context(),
		parseDate(r.URL.Query().Get("start_date")),
		parseDate(r.URL.Query().Get("end_date")))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}

// Get returns one run's record, falling back to the progress store for
// runs that are in flight but not yet (or never) recorded in history.
func (h *DialogueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return
	}

	if h.history != nil {
		run, err := h.history.GetRun(r.Context(), id)
		if err == nil {
			writeJSON(w, http.StatusOK, run)
			return
		}
		if !errors.Is(err, history.ErrNotFound) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	snap, ok, err := h.progress.Get(r.Context(), id.String())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// pollInterval is how often the SSE stream re-reads the progress store.
const pollInterval = 100 * time.Millisecond

// Events streams a run's progress as server-sent events until the run
// reaches a terminal status or the client disconnects.
func (h *DialogueHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid run id"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		snap, ok, err := h.progress.Get(r.Context(), id.String())
		if err != nil {
			fmt.Fprintf(w, "data: {\"error\":%q}\n\n", err.Error())
			flusher.Flush()
			return
		}
		if !ok {
			snap = progress.Snapshot{RunID: id.String(), Status: pipeline.StatusIdle}
		}

		data, _ := json.Marshal(snap)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()

		if snap.Status == pipeline.StatusCompleted || snap.Status == pipeline.StatusError {
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// generateStatus maps a generation failure to an HTTP status: input faults
// are 400, backend synthesis failures are 502, everything else 500.
func generateStatus(err error) int {
	var short *pipeline.ShortTextError
	var synth *pipeline.SynthesisError
	switch {
	case errors.As(err, &synth):
		return http.StatusBadGateway
	case errors.As(err, &short),
		errors.Is(err, pipeline.ErrEmptyDialogue),
		errors.Is(err, dialogue.ErrNoLines):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
