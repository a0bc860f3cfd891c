package service_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/discussion-engine-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment_RequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Comments.AddComment(context.Background(), &models.CreateCommentInput{
		Target:  itemTarget("item-1"),
		Content: "hello",
	})

	require.ErrorIs(t, err, models.ErrUnauthenticated)
	assert.Equal(t, "please sign in", err.(*models.DomainError).Message)
	assert.Zero(t, f.store.CallCount("Comment.Create"))
}

func TestAddComment_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input *models.CreateCommentInput
	}{
		{name: "empty", input: &models.CreateCommentInput{Target: itemTarget("item-1"), Content: ""}},
		{name: "whitespace", input: &models.CreateCommentInput{Target: itemTarget("item-1"), Content: "   "}},
		{name: "too long", input: &models.CreateCommentInput{Target: itemTarget("item-1"), Content: strings.Repeat("x", 2001)}},
		{name: "bad target type", input: &models.CreateCommentInput{Target: models.Target{ID: "item-1", Type: "post"}, Content: "hi"}},
		{name: "quote text without quoted comment", input: &models.CreateCommentInput{
			Target: itemTarget("item-1"), Content: "hi", QuotedText: strPtr("orphan quote"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Comments.AddComment(as("alice"), tt.input)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
	assert.Zero(t, f.store.CallCount("Comment.Create"))
}

func TestAddComment_TargetNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Comments.AddComment(as("alice"), &models.CreateCommentInput{
		Target:  models.Target{ID: "missing", Type: models.TargetPage},
		Content: "hello",
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAddComment_SanitizesContent(t *testing.T) {
	f := newFixture(t)

	c := f.comment(t, "alice", itemTarget("item-1"), "no spoiler here")

	assert.Equal(t, "no ******* here", c.Content)
	assert.Zero(t, c.Upvotes)
	assert.Zero(t, c.Downvotes)

	stored, err := f.repos.Comment.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "no ******* here", stored.Content)
	assert.Equal(t, "alice", stored.AuthorID)
}

func TestAddComment_ReplyRules(t *testing.T) {
	f := newFixture(t)
	parent := f.comment(t, "alice", itemTarget("item-1"), "parent")

	t.Run("same target", func(t *testing.T) {
		r := f.reply(t, "bob", parent, "child")
		require.NotNil(t, r.ParentCommentID)
		assert.Equal(t, parent.ID, *r.ParentCommentID)
	})

	t.Run("different item", func(t *testing.T) {
		_, err := f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
			Target:          itemTarget("item-2"),
			Content:         "child",
			ParentCommentID: strPtr(parent.ID),
		})
		assert.ErrorIs(t, err, models.ErrInvalidReference)
	})

	t.Run("same id different type", func(t *testing.T) {
		f.store.AddPage("item-1")
		_, err := f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
			Target:          models.Target{ID: "item-1", Type: models.TargetPage},
			Content:         "child",
			ParentCommentID: strPtr(parent.ID),
		})
		assert.ErrorIs(t, err, models.ErrInvalidReference)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
			Target:          itemTarget("item-1"),
			Content:         "child",
			ParentCommentID: strPtr("nope"),
		})
		assert.ErrorIs(t, err, models.ErrInvalidReference)
	})
}

func TestAddComment_QuoteSnapshotIsImmutable(t *testing.T) {
	f := newFixture(t)
	original := f.comment(t, "alice", itemTarget("item-1"), "the original words")

	quoting, err := f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
		Target:          itemTarget("item-1"),
		Content:         "I disagree",
		QuotedCommentID: strPtr(original.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, quoting.QuotedText)
	assert.Equal(t, "the original words", *quoting.QuotedText)
	require.NotNil(t, quoting.QuotedAuthorID)
	assert.Equal(t, "alice", *quoting.QuotedAuthorID)

	_, err = f.svc.Comments.EditComment(as("alice"), original.ID, "completely rewritten")
	require.NoError(t, err)
	require.NoError(t, f.svc.Comments.DeleteComment(as("alice"), original.ID))

	stored, err := f.repos.Comment.GetByID(context.Background(), quoting.ID)
	require.NoError(t, err)
	assert.Equal(t, "the original words", *stored.QuotedText)
	assert.Equal(t, "alice", *stored.QuotedAuthorID)
}

func TestAddComment_ExplicitQuotedTextIsSanitized(t *testing.T) {
	f := newFixture(t)
	original := f.comment(t, "alice", itemTarget("item-1"), "a long post with a spoiler inside")

	quoting, err := f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
		Target:          itemTarget("item-1"),
		Content:         "this part",
		QuotedCommentID: strPtr(original.ID),
		QuotedText:      strPtr("a spoiler inside"),
	})
	require.NoError(t, err)
	assert.Equal(t, "a ******* inside", *quoting.QuotedText)
}

func TestAddComment_QuoteMissingComment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
		Target:          itemTarget("item-1"),
		Content:         "quoting nothing",
		QuotedCommentID: strPtr("ghost"),
	})
	assert.ErrorIs(t, err, models.ErrInvalidReference)
}

func TestAddComment_StorageFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("disk full")
	f.store.Fail("Comment.Create", boom)

	_, err := f.svc.Comments.AddComment(as("alice"), &models.CreateCommentInput{Target: itemTarget("item-1"), Content: "hi"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, f.store.Rollbacks)
}

func TestEditComment(t *testing.T) {
	f := newFixture(t)
	c := f.comment(t, "alice", itemTarget("item-1"), "first draft")

	_, err := f.svc.Comments.EditComment(as("bob"), c.ID, "hijacked")
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.Comments.EditComment(as("alice"), "missing", "text")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = f.svc.Comments.EditComment(as("alice"), c.ID, "  ")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = f.svc.Comments.EditComment(context.Background(), c.ID, "anon")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	edited, err := f.svc.Comments.EditComment(as("alice"), c.ID, "final spoiler")
	require.NoError(t, err)
	assert.Equal(t, "final *******", edited.Content)
	require.NotNil(t, edited.EditedAt)
	assert.True(t, edited.EditedAt.After(c.CreatedAt))

	stored, err := f.repos.Comment.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "final *******", stored.Content)
}

func TestDeleteComment_Leaf(t *testing.T) {
	f := newFixture(t)
	c := f.comment(t, "alice", itemTarget("item-1"), "bye")
	_, err := f.svc.Votes.VoteComment(as("bob"), c.ID, models.DirectionUp)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Comments.DeleteComment(as("bob"), c.ID), models.ErrForbidden)
	require.NoError(t, f.svc.Comments.DeleteComment(as("alice"), c.ID))

	assert.False(t, f.store.HasComment(c.ID))
	up, down := f.store.VoteRows(c.ID, models.SubjectComment)
	assert.Zero(t, up+down)

	assert.ErrorIs(t, f.svc.Comments.DeleteComment(as("alice"), c.ID), models.ErrNotFound)
}

func TestDeleteComment_TombstoneKeepsThread(t *testing.T) {
	f := newFixture(t)
	parent := f.comment(t, "alice", itemTarget("item-1"), "parent")
	child := f.reply(t, "bob", parent, "child")
	_, err := f.svc.Votes.VoteComment(as("bob"), parent.ID, models.DirectionDown)
	require.NoError(t, err)

	require.NoError(t, f.svc.Comments.DeleteComment(as("alice"), parent.ID))
	require.True(t, f.store.HasComment(parent.ID))

	page, err := f.svc.Comments.GetComments(context.Background(), "item-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	view := page.Comments[0]
	assert.True(t, view.Deleted)
	assert.Equal(t, models.DeletedPlaceholder, view.Content)
	assert.Empty(t, view.AuthorID)
	assert.Equal(t, 1, view.RepliesCount)
	assert.Zero(t, view.Downvotes)

	replies, err := f.svc.Comments.GetReplies(context.Background(), parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, child.ID, replies[0].ID)

	// tombstones are closed for interaction
	_, err = f.svc.Comments.AddComment(as("bob"), &models.CreateCommentInput{
		Target: parent.Target(), Content: "late reply", ParentCommentID: strPtr(parent.ID),
	})
	assert.ErrorIs(t, err, models.ErrInvalidReference)
	_, err = f.svc.Votes.VoteComment(as("bob"), parent.ID, models.DirectionUp)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = f.svc.Comments.EditComment(as("alice"), parent.ID, "resurrect")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// the last reply going away purges the tombstone
	require.NoError(t, f.svc.Comments.DeleteComment(as("bob"), child.ID))
	assert.False(t, f.store.HasComment(child.ID))
	assert.False(t, f.store.HasComment(parent.ID))
}

func TestGetComments_OrderingAndHydration(t *testing.T) {
	f := newFixture(t)
	first := f.comment(t, "alice", itemTarget("item-1"), "first")
	second := f.comment(t, "bob", itemTarget("item-1"), "second")
	f.reply(t, "alice", first, "reply one")
	f.reply(t, "bob", first, "reply two")
	f.comment(t, "alice", models.Target{ID: "page-1", Type: models.TargetPage}, "on a page")
	f.store.PutComment(models.Comment{
		ID: "ghost-comment", TargetID: "item-1", TargetType: models.TargetItem,
		AuthorID: "deleted-user", Content: "from the past",
		CreatedAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	page, err := f.svc.Comments.GetComments(context.Background(), "item-1", 1, 10)
	require.NoError(t, err)

	require.Len(t, page.Comments, 3)
	assert.Equal(t, second.ID, page.Comments[0].ID)
	assert.Equal(t, first.ID, page.Comments[1].ID)
	assert.Equal(t, "ghost-comment", page.Comments[2].ID)

	assert.Equal(t, "Bob", page.Comments[0].AuthorName)
	assert.Equal(t, 0, page.Comments[0].RepliesCount)
	assert.Equal(t, "Alice", page.Comments[1].AuthorName)
	assert.Equal(t, 2, page.Comments[1].RepliesCount)
	assert.Equal(t, models.UnknownAuthorName, page.Comments[2].AuthorName)

	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasMore)

	pageComments, err := f.svc.Comments.GetPageComments(context.Background(), "page-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, pageComments.Comments, 1)
	assert.Equal(t, "on a page", pageComments.Comments[0].Content)
}

func TestGetComments_SanitizesWordsBannedLater(t *testing.T) {
	f := newFixture(t)
	f.comment(t, "alice", itemTarget("item-1"), "what the darn plot")

	_, err := f.svc.BannedWords.Add(as("admin"), "Darn")
	require.NoError(t, err)

	page, err := f.svc.Comments.GetComments(context.Background(), "item-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "what the **** plot", page.Comments[0].Content)
}

func TestGetComments_MasksWholeWordsOnly(t *testing.T) {
	f := newFixture(t)
	f.comment(t, "alice", itemTarget("item-1"), "no spoilers here")

	page, err := f.svc.Comments.GetComments(context.Background(), "item-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "no spoilers here", page.Comments[0].Content)
}

func TestGetComments_Pagination(t *testing.T) {
	f := newFixture(t)
	var ids []string
	for i := 0; i < 7; i++ {
		ids = append([]string{f.comment(t, "alice", itemTarget("item-1"), "comment").ID}, ids...)
	}

	first, err := f.svc.Comments.GetComments(context.Background(), "item-1", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 7, first.TotalCount)
	assert.True(t, first.HasMore)

	var seen []string
	for p := 1; p <= first.TotalPages; p++ {
		page, err := f.svc.Comments.GetComments(context.Background(), "item-1", p, 3)
		require.NoError(t, err)
		assert.Equal(t, p, page.CurrentPage)
		for _, c := range page.Comments {
			seen = append(seen, c.ID)
		}
	}
	assert.Equal(t, ids, seen)

	beyond, err := f.svc.Comments.GetComments(context.Background(), "item-1", 9, 3)
	require.NoError(t, err)
	assert.Empty(t, beyond.Comments)
	assert.NotNil(t, beyond.Comments)
	assert.False(t, beyond.HasMore)
	assert.Equal(t, 7, beyond.TotalCount)
}

func TestGetComments_HugePageIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.comment(t, "alice", itemTarget("item-1"), "only one")

	page, err := f.svc.Comments.GetComments(context.Background(), "item-1", math.MaxInt64/2, 4)
	require.NoError(t, err)
	assert.Empty(t, page.Comments)
	assert.False(t, page.HasMore)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.TotalCount)
}

func TestGetComments_ReadsLegacyRows(t *testing.T) {
	f := newFixture(t)
	f.store.AddLegacyComment("legacy-1", "item-1", "alice", "old spoiler talk", time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC))

	page, err := f.svc.Comments.GetComments(context.Background(), "item-1", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "item-1", page.Comments[0].TargetID)
	assert.Equal(t, models.TargetItem, page.Comments[0].TargetType)
	assert.Equal(t, "old ******* talk", page.Comments[0].Content)

	// a legacy comment can be replied to as an item comment
	legacy := &models.Comment{ID: "legacy-1", TargetID: "item-1", TargetType: models.TargetItem}
	f.reply(t, "bob", legacy, "answering an old thread")
}

func TestGetReplies(t *testing.T) {
	f := newFixture(t)
	parent := f.comment(t, "alice", itemTarget("item-1"), "parent")
	older := f.reply(t, "bob", parent, "older")
	newer := f.reply(t, "alice", parent, "newer")
	f.reply(t, "bob", older, "nested")

	replies, err := f.svc.Comments.GetReplies(context.Background(), parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, newer.ID, replies[0].ID)
	assert.Equal(t, older.ID, replies[1].ID)
	assert.Equal(t, 1, replies[1].RepliesCount)

	_, err = f.svc.Comments.GetReplies(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
