package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/pocketledger/pkg/db"
)

// Job statuses.
const (
	JobPending   = "pending"
	JobCompleted = "completed"
	JobFailed    = "failed"
)

// Job is the audit record for one statement import.
type Job struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Filename      string     `json:"filename"`
	Status        string     `json:"status"`
	TotalRows     int        `json:"total_rows"`
	ImportedRows  int        `json:"imported_rows"`
	SkippedIncome int        `json:"skipped_income"`
	ErrorRows     int        `json:"error_rows"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// JobRepository persists import job records.
type JobRepository struct {
	db db.Querier
}

func NewJobRepository(q db.Querier) *JobRepository {
	return &JobRepository{db: q}
}

// Create opens a pending job before the commit runs.
func (r *JobRepository) Create(ctx context.Context, j *Job) error {
	query := `
		INSERT INTO import_jobs (user_id, filename, status, total_rows, skipped_income, error_rows)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		j.UserID, j.Filename, JobPending, j.TotalRows, j.SkippedIncome, j.ErrorRows,
	).Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create import job: %w", err)
	}
	j.Status = JobPending
	return nil
}

// Finish records the outcome of a commit.
func (r *JobRepository) Finish(ctx context.Context, id uuid.UUID, status string, importedRows int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE import_jobs
		SET status = $2, imported_rows = $3, completed_at = now()
		WHERE id = $1
	`, id, status, importedRows)
	if err != nil {
		return fmt.Errorf("failed to finish import job: %w", err)
	}
	return nil
}

// History lists the user's imports, newest first.
func (r *JobRepository) History(ctx context.Context, userID uuid.UUID, limit int) ([]Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, user_id, filename, status, total_rows, imported_rows,
			skipped_income, error_rows, created_at, completed_at
		FROM import_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(
			&j.ID, &j.UserID, &j.Filename, &j.Status, &j.TotalRows,
			&j.ImportedRows, &j.SkippedIncome, &j.ErrorRows, &j.CreatedAt, &j.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
