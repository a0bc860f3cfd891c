package repository

import (
	"context"

	"github.com/discussion-engine-api/internal/database"
)

// bannedWordRepo is the concrete implementation of BannedWordRepository
type bannedWordRepo struct {
	db database.Executor
}

// NewBannedWordRepo creates a new banned word repository
func NewBannedWordRepo(db database.Executor) BannedWordRepository {
	return &bannedWordRepo{db: db}
}

// List returns the banned words in alphabetical order
func (r *bannedWordRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT word FROM banned_words ORDER BY word`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	return words, rows.Err()
}

// Add inserts a word and reports whether it was new
func (r *bannedWordRepo) Add(ctx context.Context, word string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO banned_words (word) VALUES ($1) ON CONFLICT (word) DO NOTHING`, word)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// Remove deletes a word and reports whether it existed
func (r *bannedWordRepo) Remove(ctx context.Context, word string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM banned_words WHERE word = $1`, word)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
