package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/discussion-engine-api/internal/mocks"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
)

// These tests pin the repository contract that the services rely on, using the
// in-memory store. The Postgres repositories follow the same conventions.

func newComment(id string, target models.Target, createdAt time.Time) *models.Comment {
	return &models.Comment{
		ID:         id,
		TargetID:   target.ID,
		TargetType: target.Type,
		AuthorID:   "alice",
		Content:    "content of " + id,
		CreatedAt:  createdAt,
	}
}

func TestCommentRepository_MissingRows(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	c, err := repos.Comment.GetByID(ctx, "missing")
	if err != nil || c != nil {
		t.Errorf("GetByID should return nil, nil for a missing row, got %v, %v", c, err)
	}

	if err := repos.Comment.UpdateContent(ctx, "missing", "x", time.Now()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("UpdateContent: expected ErrNotFound, got %v", err)
	}
	if err := repos.Comment.Tombstone(ctx, "missing", time.Now()); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Tombstone: expected ErrNotFound, got %v", err)
	}
	if err := repos.Comment.Delete(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
	if _, _, err := repos.Comment.AdjustVotes(ctx, "missing", 1, 0); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("AdjustVotes: expected ErrNotFound, got %v", err)
	}
}

func TestCommentRepository_ListByTarget(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()
	item := models.Target{ID: "item-1", Type: models.TargetItem}
	page := models.Target{ID: "item-1", Type: models.TargetPage}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c1", "c2", "c3"} {
		if err := repos.Comment.Create(ctx, newComment(id, item, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// same id, different target type
	if err := repos.Comment.Create(ctx, newComment("p1", page, base)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	reply := newComment("r1", item, base.Add(time.Hour))
	parent := "c1"
	reply.ParentCommentID = &parent
	if err := repos.Comment.Create(ctx, reply); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	count, err := repos.Comment.CountByTarget(ctx, item)
	if err != nil {
		t.Fatalf("CountByTarget failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 top-level comments, got %d", count)
	}

	list, err := repos.Comment.ListByTarget(ctx, item, 0, 2)
	if err != nil {
		t.Fatalf("ListByTarget failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c3" || list[1].ID != "c2" {
		t.Errorf("Expected newest first [c3 c2], got %v", ids(list))
	}

	replies, err := repos.Comment.CountReplies(ctx, []string{"c1", "c2"})
	if err != nil {
		t.Fatalf("CountReplies failed: %v", err)
	}
	if replies["c1"] != 1 || replies["c2"] != 0 {
		t.Errorf("Unexpected reply counts %v", replies)
	}
}

func TestCommentRepository_LegacyRows(t *testing.T) {
	store := mocks.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	store.AddLegacyComment("old-1", "item-9", "bob", "before targets", time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC))

	// legacy rows read as item comments before they are migrated
	c, err := repos.Comment.GetByID(ctx, "old-1")
	if err != nil || c == nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if c.TargetID != "item-9" || c.TargetType != models.TargetItem {
		t.Errorf("Expected fallback target item-9/item, got %s/%s", c.TargetID, c.TargetType)
	}

	legacy, err := repos.Comment.ListLegacy(ctx, 10)
	if err != nil {
		t.Fatalf("ListLegacy failed: %v", err)
	}
	if len(legacy) != 1 || !legacy[0].NeedsMigration() {
		t.Fatalf("Expected one row needing migration, got %d", len(legacy))
	}

	ok, err := repos.Comment.SetTarget(ctx, "old-1", models.Target{ID: "item-9", Type: models.TargetItem})
	if err != nil || !ok {
		t.Fatalf("SetTarget failed: %v, %v", ok, err)
	}
	ok, err = repos.Comment.SetTarget(ctx, "old-1", models.Target{ID: "item-9", Type: models.TargetItem})
	if err != nil || ok {
		t.Errorf("Second SetTarget should be a no-op, got %v, %v", ok, err)
	}

	targetID, targetType, found := store.RawTarget("old-1")
	if !found || targetID != "item-9" || targetType != models.TargetItem {
		t.Errorf("Unexpected stored target %s/%s", targetID, targetType)
	}
}

func TestReviewRepository_Duplicate(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	r := &models.Review{ID: "r1", TargetID: "item-1", AuthorID: "alice", Content: "ok", Rating: 5}
	if err := repos.Review.Create(ctx, r); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	dup := &models.Review{ID: "r2", TargetID: "item-1", AuthorID: "alice", Content: "again", Rating: 6}
	if err := repos.Review.Create(ctx, dup); !errors.Is(err, models.ErrDuplicateReview) {
		t.Errorf("Expected ErrDuplicateReview, got %v", err)
	}

	found, err := repos.Review.GetByAuthorAndTarget(ctx, "alice", "item-1")
	if err != nil || found == nil || found.ID != "r1" {
		t.Errorf("Unexpected lookup result %v, %v", found, err)
	}
}

func TestVoteRepository_Ledger(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	for _, v := range []*models.Vote{
		{VoterID: "alice", SubjectID: "c1", SubjectType: models.SubjectComment, Direction: models.DirectionUp},
		{VoterID: "bob", SubjectID: "c1", SubjectType: models.SubjectComment, Direction: models.DirectionDown},
		{VoterID: "alice", SubjectID: "c1", SubjectType: models.SubjectReview, Direction: models.DirectionUp},
	} {
		if err := repos.Vote.Insert(ctx, v); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	up, down, err := repos.Vote.CountBySubject(ctx, "c1", models.SubjectComment)
	if err != nil {
		t.Fatalf("CountBySubject failed: %v", err)
	}
	if up != 1 || down != 1 {
		t.Errorf("Expected 1 up 1 down, got %d up %d down", up, down)
	}

	deleted, err := repos.Vote.DeleteBySubject(ctx, "c1", models.SubjectComment)
	if err != nil {
		t.Fatalf("DeleteBySubject failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}

	// the review vote with the same subject id is untouched
	up, _, _ = repos.Vote.CountBySubject(ctx, "c1", models.SubjectReview)
	if up != 1 {
		t.Errorf("Expected review vote to survive, got %d", up)
	}
}

func TestBannedWordRepository_ListIsAlphabetical(t *testing.T) {
	repos := mocks.NewStore().Repositories()
	ctx := context.Background()

	for _, w := range []string{"zounds", "heck", "darn"} {
		if _, err := repos.BannedWord.Add(ctx, w); err != nil {
			t.Fatalf("Add(%q): %v", w, err)
		}
	}

	words, err := repos.BannedWord.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"darn", "heck", "zounds"}
	if len(words) != len(want) {
		t.Fatalf("List = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("List = %v, want %v", words, want)
			break
		}
	}
}

func TestTransact_RollbackRestoresState(t *testing.T) {
	store := mocks.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	target := models.Target{ID: "item-1", Type: models.TargetItem}

	boom := errors.New("boom")
	err := repos.Transact(ctx, func(tx *repository.Repositories) error {
		if err := tx.Comment.Create(ctx, newComment("c1", target, time.Now())); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if store.HasComment("c1") {
		t.Error("Rolled back comment should not exist")
	}

	err = repos.Transact(ctx, func(tx *repository.Repositories) error {
		return tx.Comment.Create(ctx, newComment("c2", target, time.Now()))
	})
	if err != nil {
		t.Fatalf("Transact failed: %v", err)
	}
	if !store.HasComment("c2") {
		t.Error("Committed comment should exist")
	}
	if store.Commits != 1 || store.Rollbacks != 1 {
		t.Errorf("Expected 1 commit and 1 rollback, got %d and %d", store.Commits, store.Rollbacks)
	}
}

func ids(comments []*models.Comment) []string {
	out := make([]string, len(comments))
	for i, c := range comments {
		out[i] = c.ID
	}
	return out
}
