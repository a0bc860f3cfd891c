package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
	"github.com/lib/pq"
)

const reviewColumns = `id, target_id, author_id, title, content, rating, upvotes, downvotes, created_at, edited_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations
const uniqueViolation = "23505"

// reviewRepo is the concrete implementation of ReviewRepository
type reviewRepo struct {
	db database.Executor
}

// NewReviewRepo creates a new review repository
func NewReviewRepo(db database.Executor) ReviewRepository {
	return &reviewRepo{db: db}
}

func scanReview(row rowScanner) (*models.Review, error) {
	var review models.Review
	var editedAt sql.NullTime
	err := row.Scan(
		&review.ID, &review.TargetID, &review.AuthorID, &review.Title, &review.Content,
		&review.Rating, &review.Upvotes, &review.Downvotes, &review.CreatedAt, &editedAt,
	)
	if err != nil {
		return nil, err
	}
	review.EditedAt = timePtr(editedAt)
	return &review, nil
}

// Create inserts a new review. A second review by the same author on the same
// item trips the unique constraint and is reported as ErrDuplicateReview.
func (r *reviewRepo) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, target_id, author_id, title, content, rating, upvotes, downvotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.TargetID, review.AuthorID, review.Title, review.Content,
		review.Rating, review.Upvotes, review.Downvotes, review.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.ErrDuplicateReview
	}
	return err
}

// GetByID retrieves a review by ID
func (r *reviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	return r.get(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a review and locks its row until the transaction ends
func (r *reviewRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Review, error) {
	return r.get(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1 FOR UPDATE`, id)
}

// GetByAuthorAndTarget retrieves the review an author wrote for an item, if any
func (r *reviewRepo) GetByAuthorAndTarget(ctx context.Context, authorID, targetID string) (*models.Review, error) {
	return r.get(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE author_id = $1 AND target_id = $2`,
		authorID, targetID,
	)
}

func (r *reviewRepo) get(ctx context.Context, query string, args ...interface{}) (*models.Review, error) {
	review, err := scanReview(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// Update writes the editable fields of a review
func (r *reviewRepo) Update(ctx context.Context, review *models.Review) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reviews SET title = $2, content = $3, rating = $4, edited_at = $5
		WHERE id = $1
	`, review.ID, review.Title, review.Content, review.Rating, review.EditedAt)
	return requireAffected(res, err)
}

// Delete removes a review
func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return requireAffected(res, err)
}

// AdjustVotes applies counter deltas and returns the new counters
func (r *reviewRepo) AdjustVotes(ctx context.Context, id string, upDelta, downDelta int) (int, int, error) {
	var up, down int
	err := r.db.QueryRowContext(ctx, `
		UPDATE reviews SET upvotes = upvotes + $2, downvotes = downvotes + $3
		WHERE id = $1
		RETURNING upvotes, downvotes
	`, id, upDelta, downDelta).Scan(&up, &down)
	if err == sql.ErrNoRows {
		return 0, 0, models.ErrNotFound
	}
	return up, down, err
}

// ListByTarget returns one page of an item's reviews, newest first
func (r *reviewRepo) ListByTarget(ctx context.Context, targetID string, offset, limit int) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE target_id = $1
		ORDER BY created_at DESC, id DESC
		OFFSET $2 LIMIT $3
	`, targetID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// CountByTarget counts the reviews of an item
func (r *reviewRepo) CountByTarget(ctx context.Context, targetID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reviews WHERE target_id = $1", targetID).Scan(&count)
	return count, err
}

// RatingDistribution returns the number of reviews per rating value for an item
func (r *reviewRepo) RatingDistribution(ctx context.Context, targetID string) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rating, COUNT(*) FROM reviews
		WHERE target_id = $1
		GROUP BY rating
	`, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		dist[rating] = count
	}
	return dist, rows.Err()
}
