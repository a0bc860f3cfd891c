package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/mocks"
	"github.com/discussion-engine-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	store := mocks.NewStore()
	store.AddItem("item-1")
	store.AddPage("page-1")
	repos := store.Repositories()
	ctx := context.Background()

	tests := []struct {
		name   string
		target models.Target
		want   error
	}{
		{name: "existing item", target: models.Target{ID: "item-1", Type: models.TargetItem}},
		{name: "existing page", target: models.Target{ID: "page-1", Type: models.TargetPage}},
		{name: "missing item", target: models.Target{ID: "item-2", Type: models.TargetItem}, want: models.ErrNotFound},
		{name: "page id used as item", target: models.Target{ID: "page-1", Type: models.TargetItem}, want: models.ErrNotFound},
		{name: "empty id", target: models.Target{Type: models.TargetPage}, want: models.ErrNotFound},
		{name: "unknown type", target: models.Target{ID: "item-1", Type: "post"}, want: models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ResolveTarget(ctx, repos, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolveTarget_StorageError(t *testing.T) {
	store := mocks.NewStore()
	boom := errors.New("connection reset")
	store.Fail("Item.Exists", boom)

	err := ResolveTarget(context.Background(), store.Repositories(), models.Target{ID: "i", Type: models.TargetItem})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "INTERNAL_ERROR", models.ErrorCode(err))
}

func TestRequireAuthenticated(t *testing.T) {
	_, err := RequireAuthenticated(context.Background())
	require.ErrorIs(t, err, models.ErrUnauthenticated)

	var de *models.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "please sign in", de.Message)

	id, err := RequireAuthenticated(auth.WithIdentity(context.Background(), auth.Identity{UserID: "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
}

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner("u1", "u1"))
	assert.ErrorIs(t, RequireOwner("u1", "u2"), models.ErrForbidden)
	assert.ErrorIs(t, RequireOwner("", ""), models.ErrForbidden)
}

func TestRequireAdmin(t *testing.T) {
	store := mocks.NewStore()
	store.AddUser("admin-1", "Ada", models.RoleAdmin)
	store.AddUser("user-1", "Bob", "viewer")
	users := store.Repositories().User
	ctx := context.Background()

	assert.NoError(t, RequireAdmin(ctx, users, "admin-1"))
	assert.ErrorIs(t, RequireAdmin(ctx, users, "user-1"), models.ErrForbidden)
	assert.ErrorIs(t, RequireAdmin(ctx, users, "ghost"), models.ErrForbidden)
}

func TestRequireAdminCaller(t *testing.T) {
	store := mocks.NewStore()
	store.AddUser("admin-1", "Ada", models.RoleAdmin)
	store.AddUser("user-1", "Bob", "viewer")
	users := store.Repositories().User

	assert.ErrorIs(t, RequireAdminCaller(context.Background(), users), models.ErrUnauthenticated)
	assert.NoError(t, RequireAdminCaller(auth.AsSystem(context.Background()), users))

	asUser := auth.WithIdentity(context.Background(), auth.Identity{UserID: "user-1"})
	assert.ErrorIs(t, RequireAdminCaller(asUser, users), models.ErrForbidden)

	asAdmin := auth.WithIdentity(context.Background(), auth.Identity{UserID: "admin-1"})
	assert.NoError(t, RequireAdminCaller(asAdmin, users))
}
