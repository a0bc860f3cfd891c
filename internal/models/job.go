package models

import (
	"time"
)

// JobStatus represents the status of a maintenance job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobType represents the type of job
type JobType string

const (
	JobTypeLegacyCommentBackfill JobType = "legacy_comment_backfill"
)

// Job records one run of a maintenance job such as the legacy comment backfill
type Job struct {
	ID             string     `json:"job_id" db:"id"`
	Type           JobType    `json:"type" db:"type"`
	Status         JobStatus  `json:"status" db:"status"`
	TotalRecords   int        `json:"total_records" db:"total_records"`
	ProcessedCount int        `json:"processed" db:"processed_count"`
	DurationMs     int64      `json:"duration_ms,omitempty" db:"duration_ms"`
	Error          string     `json:"error,omitempty" db:"error"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// MigrationResult is the outcome of migrateLegacyComments
type MigrationResult struct {
	JobID         string `json:"job_id,omitempty"`
	MigratedCount int    `json:"migrated_count"`
	TotalComments int    `json:"total_comments"`
}
