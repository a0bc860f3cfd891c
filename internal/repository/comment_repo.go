package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
	"github.com/lib/pq"
)

// Legacy rows have no target_id yet; they read as item comments.
const commentColumns = `
	id, COALESCE(target_id, item_id), COALESCE(target_type, 'item'), author_id, content,
	parent_comment_id, quoted_comment_id, quoted_text, quoted_author_id,
	upvotes, downvotes, created_at, edited_at, deleted_at`

const targetFilter = `COALESCE(target_id, item_id) = $1 AND COALESCE(target_type, 'item') = $2`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db database.Executor
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db database.Executor) CommentRepository {
	return &commentRepo{db: db}
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var targetID sql.NullString
	var targetType string
	var parentID, quotedID, quotedText, quotedAuthor sql.NullString
	var editedAt, deletedAt sql.NullTime

	err := row.Scan(
		&comment.ID, &targetID, &targetType, &comment.AuthorID, &comment.Content,
		&parentID, &quotedID, &quotedText, &quotedAuthor,
		&comment.Upvotes, &comment.Downvotes, &comment.CreatedAt, &editedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	comment.TargetID = targetID.String
	comment.TargetType = models.TargetType(targetType)
	comment.ParentCommentID = stringPtr(parentID)
	comment.QuotedCommentID = stringPtr(quotedID)
	comment.QuotedText = stringPtr(quotedText)
	comment.QuotedAuthorID = stringPtr(quotedAuthor)
	comment.EditedAt = timePtr(editedAt)
	comment.DeletedAt = timePtr(deletedAt)
	return &comment, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, target_id, target_type, author_id, content, parent_comment_id,
			quoted_comment_id, quoted_text, quoted_author_id, upvotes, downvotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.TargetID, string(comment.TargetType), comment.AuthorID, comment.Content,
		nullStringPtr(comment.ParentCommentID), nullStringPtr(comment.QuotedCommentID),
		nullStringPtr(comment.QuotedText), nullStringPtr(comment.QuotedAuthorID),
		comment.Upvotes, comment.Downvotes, comment.CreatedAt,
	)
	return err
}

// GetByID retrieves a comment by ID, tombstones included
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return r.get(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a comment and locks its row until the transaction ends
func (r *commentRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Comment, error) {
	return r.get(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1 FOR UPDATE`, id)
}

func (r *commentRepo) get(ctx context.Context, query, id string) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateContent replaces the body of a comment. The quote snapshot is never touched.
func (r *commentRepo) UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $2, edited_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		id, content, editedAt,
	)
	return requireAffected(res, err)
}

// Tombstone blanks a comment that still has replies
func (r *commentRepo) Tombstone(ctx context.Context, id string, deletedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = '', upvotes = 0, downvotes = 0, deleted_at = $2 WHERE id = $1`,
		id, deletedAt,
	)
	return requireAffected(res, err)
}

// Delete removes a comment row
func (r *commentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return requireAffected(res, err)
}

// AdjustVotes applies counter deltas to a live comment and returns the new counters
func (r *commentRepo) AdjustVotes(ctx context.Context, id string, upDelta, downDelta int) (int, int, error) {
	var up, down int
	err := r.db.QueryRowContext(ctx, `
		UPDATE comments SET upvotes = upvotes + $2, downvotes = downvotes + $3
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING upvotes, downvotes
	`, id, upDelta, downDelta).Scan(&up, &down)
	if err == sql.ErrNoRows {
		return 0, 0, models.ErrNotFound
	}
	return up, down, err
}

// ListByTarget returns one page of top-level comments, newest first
func (r *commentRepo) ListByTarget(ctx context.Context, target models.Target, offset, limit int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE ` + targetFilter + ` AND parent_comment_id IS NULL
		ORDER BY created_at DESC, id DESC
		OFFSET $3 LIMIT $4`
	return r.list(ctx, query, target.ID, string(target.Type), offset, limit)
}

// CountByTarget counts top-level comments of a target
func (r *commentRepo) CountByTarget(ctx context.Context, target models.Target) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE `+targetFilter+` AND parent_comment_id IS NULL`,
		target.ID, string(target.Type),
	).Scan(&count)
	return count, err
}

// ListReplies returns the direct replies of a comment, newest first
func (r *commentRepo) ListReplies(ctx context.Context, parentID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		WHERE parent_comment_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, parentID)
}

// CountReplies counts direct replies for each of the given comment IDs
func (r *commentRepo) CountReplies(ctx context.Context, parentIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT parent_comment_id, COUNT(*) FROM comments
		WHERE parent_comment_id = ANY($1)
		GROUP BY parent_comment_id
	`, pq.Array(parentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

// ListLegacy returns up to limit rows that still lack a target but carry an item id
func (r *commentRepo) ListLegacy(ctx context.Context, limit int) ([]*models.LegacyComment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, target_id, target_type FROM comments
		WHERE (target_id IS NULL OR target_id = '') AND item_id IS NOT NULL AND item_id <> ''
		ORDER BY id
		LIMIT $1
		FOR UPDATE
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var legacy []*models.LegacyComment
	for rows.Next() {
		var id string
		var itemID, targetID, targetType sql.NullString
		if err := rows.Scan(&id, &itemID, &targetID, &targetType); err != nil {
			return nil, err
		}
		legacy = append(legacy, &models.LegacyComment{
			ID:         id,
			ItemID:     stringPtr(itemID),
			TargetID:   stringPtr(targetID),
			TargetType: stringPtr(targetType),
		})
	}
	return legacy, rows.Err()
}

// SetTarget writes the polymorphic target of a row that does not have one yet.
// It reports false when the row was already migrated.
func (r *commentRepo) SetTarget(ctx context.Context, id string, target models.Target) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE comments SET target_id = $2, target_type = $3
		WHERE id = $1 AND (target_id IS NULL OR target_id = '')
	`, id, target.ID, string(target.Type))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *commentRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// requireAffected turns a statement that touched no rows into ErrNotFound
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
