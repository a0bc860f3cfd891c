package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/mocks"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/moderation"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fakeClock advances one second per reading so creation order is strict
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store *mocks.Store
	repos *repository.Repositories
	svc   *service.Services
	clock *fakeClock
}

func testConfig() *config.Config {
	return &config.Config{
		Discussion: config.DiscussionConfig{
			DefaultPageLimit:   20,
			MaxPageLimit:       100,
			MigrationBatchSize: 500,
		},
	}
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()

	store := mocks.NewStore()
	store.AddUser("alice", "Alice", "viewer")
	store.AddUser("bob", "Bob", "editor")
	store.AddUser("admin", "Ada Admin", models.RoleAdmin)
	store.AddItem("item-1")
	store.AddItem("item-2")
	store.AddPage("page-1")

	repos := store.Repositories()
	_, err := repos.BannedWord.Add(context.Background(), "spoiler")
	require.NoError(t, err)

	filter := moderation.NewFilter(moderation.ListerSource{Lister: repos.BannedWord}, zerolog.Nop(), service.RecordMaskedWords)
	clock := newFakeClock()
	opts = append([]service.Option{service.WithClock(clock.Now)}, opts...)

	return &fixture{
		store: store,
		repos: repos,
		svc:   service.NewServices(repos, filter, testConfig(), zerolog.Nop(), opts...),
		clock: clock,
	}
}

func as(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID})
}

func strPtr(s string) *string { return &s }

func itemTarget(id string) models.Target {
	return models.Target{ID: id, Type: models.TargetItem}
}

func (f *fixture) comment(t *testing.T, user string, target models.Target, content string) *models.Comment {
	t.Helper()
	c, err := f.svc.Comments.AddComment(as(user), &models.CreateCommentInput{Target: target, Content: content})
	require.NoError(t, err)
	return c
}

func (f *fixture) reply(t *testing.T, user string, parent *models.Comment, content string) *models.Comment {
	t.Helper()
	c, err := f.svc.Comments.AddComment(as(user), &models.CreateCommentInput{
		Target:          parent.Target(),
		Content:         content,
		ParentCommentID: strPtr(parent.ID),
	})
	require.NoError(t, err)
	return c
}
