package service

import (
	"context"
	"fmt"
	"time"

	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/moderation"
	"github.com/discussion-engine-api/internal/pagination"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/resolver"
	"github.com/discussion-engine-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos  *repository.Repositories
	filter *moderation.Filter
	cfg    config.DiscussionConfig
	log    zerolog.Logger
	now    func() time.Time
}

func newCommentService(repos *repository.Repositories, filter *moderation.Filter, cfg config.DiscussionConfig, log zerolog.Logger, now func() time.Time) *commentService {
	return &commentService{
		repos:  repos,
		filter: filter,
		cfg:    cfg,
		log:    log.With().Str("service", "comment").Logger(),
		now:    now,
	}
}

// AddComment creates a top-level comment or a reply, optionally quoting another comment
func (s *commentService) AddComment(ctx context.Context, in *models.CreateCommentInput) (*models.Comment, error) {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateCommentInput(in); len(errs) > 0 {
		return nil, models.NewValidationError(errs)
	}

	words, err := s.filter.WordSet(ctx)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:              uuid.New().String(),
		TargetID:        in.Target.ID,
		TargetType:      in.Target.Type,
		AuthorID:        caller.UserID,
		Content:         s.filter.Apply(words, in.Content),
		ParentCommentID: in.ParentCommentID,
		QuotedCommentID: in.QuotedCommentID,
		CreatedAt:       s.now().UTC(),
	}

	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		if err := resolver.ResolveTarget(ctx, tx, in.Target); err != nil {
			return err
		}

		if in.ParentCommentID != nil {
			parent, err := tx.Comment.GetByID(ctx, *in.ParentCommentID)
			if err != nil {
				return fmt.Errorf("failed to load parent comment: %w", err)
			}
			if parent == nil || parent.IsDeleted() {
				return models.NewDomainError(models.ErrInvalidReference,
					fmt.Sprintf("parent comment %s does not exist", *in.ParentCommentID))
			}
			if parent.Target() != in.Target {
				return models.NewDomainError(models.ErrInvalidReference,
					"parent comment belongs to a different target")
			}
		}

		if in.QuotedCommentID != nil {
			quoted, err := tx.Comment.GetByID(ctx, *in.QuotedCommentID)
			if err != nil {
				return fmt.Errorf("failed to load quoted comment: %w", err)
			}
			if quoted == nil || quoted.IsDeleted() {
				return models.NewDomainError(models.ErrInvalidReference,
					fmt.Sprintf("quoted comment %s does not exist", *in.QuotedCommentID))
			}

			text := quoted.Content
			if in.QuotedText != nil {
				text = *in.QuotedText
			}
			text = s.filter.Apply(words, text)
			authorID := quoted.AuthorID
			comment.QuotedText = &text
			comment.QuotedAuthorID = &authorID
		}

		if err := tx.Comment.Create(ctx, comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	commentsCreated.WithLabelValues(string(comment.TargetType)).Inc()
	s.log.Info().
		Str("comment_id", comment.ID).
		Str("target_id", comment.TargetID).
		Str("target_type", string(comment.TargetType)).
		Bool("reply", comment.ParentCommentID != nil).
		Msg("Comment created")

	return comment, nil
}

// EditComment replaces the content of a comment owned by the caller
func (s *commentService) EditComment(ctx context.Context, id, content string) (*models.Comment, error) {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateContent("content", content); len(errs) > 0 {
		return nil, models.NewValidationError(errs)
	}

	sanitized, err := s.filter.Sanitize(ctx, content)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		comment, err = s.loadLive(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := resolver.RequireOwner(comment.AuthorID, caller.UserID); err != nil {
			return err
		}

		editedAt := s.now().UTC()
		if err := tx.Comment.UpdateContent(ctx, id, sanitized, editedAt); err != nil {
			return fmt.Errorf("failed to update comment: %w", err)
		}
		comment.Content = sanitized
		comment.EditedAt = &editedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("comment_id", id).Msg("Comment edited")
	return comment, nil
}

// DeleteComment removes a comment owned by the caller. A comment that still
// has replies becomes a tombstone so the thread stays intact.
func (s *commentService) DeleteComment(ctx context.Context, id string) error {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return err
	}

	mode := ""
	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		comment, err := s.loadLive(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := resolver.RequireOwner(comment.AuthorID, caller.UserID); err != nil {
			return err
		}
		mode, err = s.remove(ctx, tx, comment)
		return err
	})
	if err != nil {
		return err
	}

	commentsDeleted.WithLabelValues(mode).Inc()
	s.log.Info().Str("comment_id", id).Str("mode", mode).Msg("Comment deleted")
	return nil
}

// loadLive locks a comment for update. Missing comments and tombstones are NotFound.
func (s *commentService) loadLive(ctx context.Context, tx *repository.Repositories, id string) (*models.Comment, error) {
	comment, err := tx.Comment.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil || comment.IsDeleted() {
		return nil, models.NewDomainError(models.ErrNotFound, fmt.Sprintf("comment %s not found", id))
	}
	return comment, nil
}

func (s *commentService) remove(ctx context.Context, tx *repository.Repositories, comment *models.Comment) (string, error) {
	if _, err := tx.Vote.DeleteBySubject(ctx, comment.ID, models.SubjectComment); err != nil {
		return "", fmt.Errorf("failed to delete comment votes: %w", err)
	}

	replies, err := tx.Comment.CountReplies(ctx, []string{comment.ID})
	if err != nil {
		return "", fmt.Errorf("failed to count replies: %w", err)
	}
	if replies[comment.ID] > 0 {
		if err := tx.Comment.Tombstone(ctx, comment.ID, s.now().UTC()); err != nil {
			return "", fmt.Errorf("failed to tombstone comment: %w", err)
		}
		return "tombstone", nil
	}

	if err := tx.Comment.Delete(ctx, comment.ID); err != nil {
		return "", fmt.Errorf("failed to delete comment: %w", err)
	}

	// Purge tombstones left without replies.
	parentID := comment.ParentCommentID
	for parentID != nil {
		parent, err := tx.Comment.GetByIDForUpdate(ctx, *parentID)
		if err != nil {
			return "", fmt.Errorf("failed to load parent comment: %w", err)
		}
		if parent == nil || !parent.IsDeleted() {
			break
		}
		counts, err := tx.Comment.CountReplies(ctx, []string{parent.ID})
		if err != nil {
			return "", fmt.Errorf("failed to count replies: %w", err)
		}
		if counts[parent.ID] > 0 {
			break
		}
		if err := tx.Comment.Delete(ctx, parent.ID); err != nil {
			return "", fmt.Errorf("failed to purge tombstone: %w", err)
		}
		s.log.Debug().Str("comment_id", parent.ID).Msg("Purged empty tombstone")
		parentID = parent.ParentCommentID
	}

	return "hard", nil
}

// GetComments lists the top-level comments of an item
func (s *commentService) GetComments(ctx context.Context, itemID string, page, limit int) (*models.CommentPage, error) {
	return s.list(ctx, models.Target{ID: itemID, Type: models.TargetItem}, page, limit)
}

// GetPageComments lists the top-level comments of a page
func (s *commentService) GetPageComments(ctx context.Context, pageID string, page, limit int) (*models.CommentPage, error) {
	return s.list(ctx, models.Target{ID: pageID, Type: models.TargetPage}, page, limit)
}

func (s *commentService) list(ctx context.Context, target models.Target, page, limit int) (*models.CommentPage, error) {
	p := pagination.Normalize(page, limit, s.cfg.DefaultPageLimit, s.cfg.MaxPageLimit)

	total, err := s.repos.Comment.CountByTarget(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []*models.Comment
	if !p.Beyond(total) {
		comments, err = s.repos.Comment.ListByTarget(ctx, target, p.Offset(), p.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
	}

	views, err := s.hydrate(ctx, comments)
	if err != nil {
		return nil, err
	}

	res := pagination.NewResult(views, p, total)
	return &models.CommentPage{
		Comments:    res.Items,
		CurrentPage: res.CurrentPage,
		TotalPages:  res.TotalPages,
		TotalCount:  res.TotalCount,
		HasMore:     res.HasMore,
	}, nil
}

// GetReplies lists the direct replies of a comment, newest first
func (s *commentService) GetReplies(ctx context.Context, parentID string) ([]models.CommentView, error) {
	parent, err := s.repos.Comment.GetByID(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}
	if parent == nil {
		return nil, models.NewDomainError(models.ErrNotFound, fmt.Sprintf("comment %s not found", parentID))
	}

	replies, err := s.repos.Comment.ListReplies(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return s.hydrate(ctx, replies)
}

// hydrate turns stored comments into reader views: author names, reply counts
// and content sanitized against the current banned word list.
func (s *commentService) hydrate(ctx context.Context, comments []*models.Comment) ([]models.CommentView, error) {
	views := make([]models.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	words, err := s.filter.WordSet(ctx)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(comments))
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.AuthorID)
		ids = append(ids, c.ID)
	}

	names, replies, err := loadThreadContext(ctx, s.repos, authorIDs, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		view := models.CommentView{Comment: *c, RepliesCount: replies[c.ID]}
		if c.IsDeleted() {
			view.Deleted = true
			view.Content = models.DeletedPlaceholder
			view.AuthorID = ""
			view.QuotedText = nil
			view.QuotedAuthorID = nil
			view.QuotedCommentID = nil
		} else {
			view.AuthorName = displayName(names, c.AuthorID)
			view.Content = s.filter.Apply(words, c.Content)
			if c.QuotedText != nil {
				quoted := s.filter.Apply(words, *c.QuotedText)
				view.QuotedText = &quoted
			}
		}
		views = append(views, view)
	}
	return views, nil
}
