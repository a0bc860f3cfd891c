package repository

import (
	"context"
	"database/sql"

	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
)

// jobRepo is the concrete implementation of JobRepository
type jobRepo struct {
	db database.Executor
}

// NewJobRepo creates a new job repository
func NewJobRepo(db database.Executor) JobRepository {
	return &jobRepo{db: db}
}

// Create inserts a new job
func (r *jobRepo) Create(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (id, type, status, total_records, processed_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Type, job.Status, job.TotalRecords, job.ProcessedCount, job.CreatedAt,
	)
	return err
}

// Update updates job status and counters
func (r *jobRepo) Update(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE jobs SET
			status = $1, total_records = $2, processed_count = $3, duration_ms = $4,
			error = $5, started_at = $6, completed_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		job.Status, job.TotalRecords, job.ProcessedCount, job.DurationMs,
		nullString(job.Error), job.StartedAt, job.CompletedAt, job.ID,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `
		SELECT id, type, status, total_records, processed_count, duration_ms, error,
			created_at, started_at, completed_at
		FROM jobs WHERE id = $1
	`

	var job models.Job
	var jobErr sql.NullString
	var startedAt, completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Type, &job.Status, &job.TotalRecords, &job.ProcessedCount,
		&job.DurationMs, &jobErr, &job.CreatedAt, &startedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.Error = jobErr.String
	job.StartedAt = timePtr(startedAt)
	job.CompletedAt = timePtr(completedAt)

	return &job, nil
}
