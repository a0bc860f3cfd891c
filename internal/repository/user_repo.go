package repository

import (
	"context"

	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
	"github.com/lib/pq"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db database.Executor
}

// NewUserRepo creates a new user repository
func NewUserRepo(db database.Executor) UserRepository {
	return &userRepo{db: db}
}

// DisplayNames resolves author display names for a set of user IDs
func (r *userRepo) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	return names, rows.Err()
}

// IsAdmin reports whether the user holds the admin role. Inactive users never do.
func (r *userRepo) IsAdmin(ctx context.Context, id string) (bool, error) {
	var isAdmin bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = $2 AND active)",
		id, models.RoleAdmin,
	).Scan(&isAdmin)
	return isAdmin, err
}
