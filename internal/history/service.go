// Package history records dialogue generation runs in Postgres.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/castwave/castwave/internal/models"
)

// ErrNotFound reports a run id with no history row.
var ErrNotFound = errors.New("run not found")

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) CreateRun(ctx context.Context, run models.DialogueRun) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO dialogue_runs (id, script_sha256, output_prefix, language, num_lines, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		run.ID, run.ScriptSHA256, run.OutputPrefix, run.Language, run.NumLines, run.Status, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dialogue run: %w", err)
	}
	return nil
}

func (s *Service) MarkRunning(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE dialogue_runs SET status = $2 WHERE id = $1`,
		id, models.RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("mark run running: %w", err)
	}
	return nil
}

func (s *Service) CompleteRun(ctx context.Context, id uuid.UUID, outputFile, linesDir string, durationSeconds float64, numLines int) error {
	_, err := s.db.Exec(ctx,
		`UPDATE dialogue_runs
		 SET status = $2, output_file = $3, lines_dir = $4, duration_seconds = $5, num_lines = $6, completed_at = now()
		 WHERE id = $1`,
		id, models.RunStatusCompleted, outputFile, linesDir, durationSeconds, numLines,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

func (s *Service) FailRun(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE dialogue_runs SET status = $2, error = $3, completed_at = now() WHERE id = $1`,
		id, models.RunStatusFailed, cause,
	)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return nil
}

func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (models.DialogueRun, error) {
	var run models.DialogueRun
	err := s.db.QueryRow(ctx,
		`SELECT id, script_sha256, output_prefix, language, num_lines, output_file, lines_dir,
		        duration_seconds, status, error, created_at, completed_at
		 FROM dialogue_runs WHERE id = $1`,
		id,
	).Scan(
		&run.ID, &run.ScriptSHA256, &run.OutputPrefix, &run.Language, &run.NumLines,
		&run.OutputFile, &run.LinesDir, &run.DurationSeconds, &run.Status, &run.Error,
		&run.CreatedAt, &run.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DialogueRun{}, ErrNotFound
	}
	if err != nil {
		return models.DialogueRun{}, fmt.Errorf("query run: %w", err)
	}
	return run, nil
}

type RunQuery struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func (s *Service) ListRuns(ctx context.Context, q RunQuery) ([]models.DialogueRun, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	query := `SELECT id, script_sha256, output_prefix, language, num_lines, output_file, lines_dir,
	                 duration_seconds, status, error, created_at, completed_at
	          FROM dialogue_runs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if q.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, q.Status)
		argIdx++
	}
	if q.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *q.StartDate)
		argIdx++
	}
	if q.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *q.EndDate)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.DialogueRun
	for rows.Next() {
		var run models.DialogueRun
		if err := rows.Scan(
			&run.ID, &run.ScriptSHA256, &run.OutputPrefix, &run.Language, &run.NumLines,
			&run.OutputFile, &run.LinesDir, &run.DurationSeconds, &run.Status, &run.Error,
			&run.CreatedAt, &run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

type RunSummary struct {
	Status       string  `json:"status"`
	TotalRuns    int     `json:"total_runs"`
	TotalSeconds float64 `json:"total_audio_seconds"`
	TotalLines   int     `json:"total_lines"`
}

func (s *Service) GetRunSummary(ctx context.Context, startDate, endDate *time.Time) ([]RunSummary, error) {
	query := `SELECT status, COUNT(*) as total_runs,
	                 COALESCE(SUM(duration_seconds), 0) as total_audio_seconds,
	                 COALESCE(SUM(num_lines), 0) as total_lines
	          FROM dialogue_runs WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if startDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *startDate)
		argIdx++
	}
	if endDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *endDate)
		argIdx++
	}

	query += " GROUP BY status ORDER BY total_runs DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query run summary: %w", err)
	}
	defer rows.Close()

	var summaries []RunSummary
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.Status, &rs.TotalRuns, &rs.TotalSeconds, &rs.TotalLines); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		summaries = append(summaries, rs)
	}
	return summaries, nil
}
