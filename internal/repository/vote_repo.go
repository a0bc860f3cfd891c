package repository

import (
	"context"
	"database/sql"

	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
)

// voteRepo is the concrete implementation of VoteRepository
type voteRepo struct {
	db database.Executor
}

// NewVoteRepo creates a new vote ledger repository
func NewVoteRepo(db database.Executor) VoteRepository {
	return &voteRepo{db: db}
}

// GetForUpdate returns the voter's current vote on a subject, locking the ledger row
func (r *voteRepo) GetForUpdate(ctx context.Context, voterID, subjectID string, subjectType models.SubjectType) (*models.Vote, error) {
	query := `
		SELECT voter_id, subject_id, subject_type, direction, created_at, updated_at
		FROM votes
		WHERE voter_id = $1 AND subject_id = $2 AND subject_type = $3
		FOR UPDATE
	`
	var vote models.Vote
	var subject, direction string
	err := r.db.QueryRowContext(ctx, query, voterID, subjectID, string(subjectType)).Scan(
		&vote.VoterID, &vote.SubjectID, &subject, &direction, &vote.CreatedAt, &vote.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	vote.SubjectType = models.SubjectType(subject)
	vote.Direction = models.Direction(direction)
	return &vote, nil
}

// Insert adds a new ledger row
func (r *voteRepo) Insert(ctx context.Context, vote *models.Vote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (voter_id, subject_id, subject_type, direction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, vote.VoterID, vote.SubjectID, string(vote.SubjectType), string(vote.Direction), vote.CreatedAt, vote.UpdatedAt)
	return err
}

// UpdateDirection flips an existing ledger row
func (r *voteRepo) UpdateDirection(ctx context.Context, vote *models.Vote) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE votes SET direction = $4, updated_at = $5
		WHERE voter_id = $1 AND subject_id = $2 AND subject_type = $3
	`, vote.VoterID, vote.SubjectID, string(vote.SubjectType), string(vote.Direction), vote.UpdatedAt)
	return requireAffected(res, err)
}

// DeleteBySubject removes every ledger row of a subject and returns how many were removed
func (r *voteRepo) DeleteBySubject(ctx context.Context, subjectID string, subjectType models.SubjectType) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM votes WHERE subject_id = $1 AND subject_type = $2`,
		subjectID, string(subjectType),
	)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

// CountBySubject recomputes the counters of a subject from the ledger
func (r *voteRepo) CountBySubject(ctx context.Context, subjectID string, subjectType models.SubjectType) (int, int, error) {
	var up, down int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE direction = 'up'),
			COUNT(*) FILTER (WHERE direction = 'down')
		FROM votes
		WHERE subject_id = $1 AND subject_type = $2
	`, subjectID, string(subjectType)).Scan(&up, &down)
	return up, down, err
}
