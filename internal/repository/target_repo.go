package repository

import (
	"context"

	"github.com/discussion-engine-api/internal/database"
)

// itemRepo is the concrete implementation of ItemRepository
type itemRepo struct {
	db database.Executor
}

// NewItemRepo creates a new item repository
func NewItemRepo(db database.Executor) ItemRepository {
	return &itemRepo{db: db}
}

// Exists checks if an item with the given ID exists
func (r *itemRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// pageRepo is the concrete implementation of PageRepository
type pageRepo struct {
	db database.Executor
}

// NewPageRepo creates a new page repository
func NewPageRepo(db database.Executor) PageRepository {
	return &pageRepo{db: db}
}

// Exists checks if a page with the given ID exists
func (r *pageRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM pages WHERE id = $1)", id).Scan(&exists)
	return exists, err
}
