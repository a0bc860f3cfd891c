package service

import (
	"context"
	"fmt"
	"time"

	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/discussion-engine-api/internal/resolver"
	"github.com/discussion-engine-api/internal/validation"
	"github.com/rs/zerolog"
)

// voteService is the concrete implementation of VoteService
type voteService struct {
	repos *repository.Repositories
	log   zerolog.Logger
	now   func() time.Time
}

func newVoteService(repos *repository.Repositories, log zerolog.Logger, now func() time.Time) *voteService {
	return &voteService{
		repos: repos,
		log:   log.With().Str("service", "vote").Logger(),
		now:   now,
	}
}

// VoteComment casts or flips the caller's vote on a comment
func (s *voteService) VoteComment(ctx context.Context, commentID string, direction models.Direction) (*models.VoteResult, error) {
	return s.vote(ctx, commentID, models.SubjectComment, direction)
}

// VoteReview casts or flips the caller's vote on a review
func (s *voteService) VoteReview(ctx context.Context, reviewID string, direction models.Direction) (*models.VoteResult, error) {
	return s.vote(ctx, reviewID, models.SubjectReview, direction)
}

// vote applies one vote call. The ledger row and the subject counters change in
// the same transaction: a new vote increments one counter, a flip moves one
// count between counters, and repeating the current direction changes nothing.
func (s *voteService) vote(ctx context.Context, subjectID string, subjectType models.SubjectType, direction models.Direction) (*models.VoteResult, error) {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.ValidateDirection(direction); len(errs) > 0 {
		return nil, models.NewValidationError(errs)
	}

	result := &models.VoteResult{SubjectID: subjectID, SubjectType: subjectType, Direction: direction}
	outcome := ""

	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		up, down, err := s.lockSubject(ctx, tx, subjectID, subjectType)
		if err != nil {
			return err
		}

		existing, err := tx.Vote.GetForUpdate(ctx, caller.UserID, subjectID, subjectType)
		if err != nil {
			return fmt.Errorf("failed to load vote: %w", err)
		}

		now := s.now().UTC()
		var prev models.Direction
		switch {
		case existing == nil:
			outcome = "new"
			err = tx.Vote.Insert(ctx, &models.Vote{
				VoterID:     caller.UserID,
				SubjectID:   subjectID,
				SubjectType: subjectType,
				Direction:   direction,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		case existing.Direction == direction:
			outcome = "noop"
			result.Upvotes, result.Downvotes = up, down
			return nil
		default:
			outcome = "flip"
			prev = existing.Direction
			existing.Direction = direction
			existing.UpdatedAt = now
			err = tx.Vote.UpdateDirection(ctx, existing)
		}
		if err != nil {
			return fmt.Errorf("failed to record vote: %w", err)
		}

		upDelta, downDelta := models.CounterDelta(prev, direction)
		result.Upvotes, result.Downvotes, err = s.adjust(ctx, tx, subjectID, subjectType, upDelta, downDelta)
		if err != nil {
			return err
		}
		result.Changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	votesCast.WithLabelValues(string(subjectType), outcome).Inc()
	s.log.Debug().
		Str("subject_id", subjectID).
		Str("subject_type", string(subjectType)).
		Str("direction", string(direction)).
		Str("outcome", outcome).
		Msg("Vote recorded")

	return result, nil
}

// lockSubject locks the voted comment or review and returns its counters.
// Missing subjects and comment tombstones are NotFound.
func (s *voteService) lockSubject(ctx context.Context, tx *repository.Repositories, id string, subjectType models.SubjectType) (int, int, error) {
	switch subjectType {
	case models.SubjectComment:
		comment, err := tx.Comment.GetByIDForUpdate(ctx, id)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to load comment: %w", err)
		}
		if comment == nil || comment.IsDeleted() {
			return 0, 0, models.NewDomainError(models.ErrNotFound, fmt.Sprintf("comment %s not found", id))
		}
		return comment.Upvotes, comment.Downvotes, nil
	case models.SubjectReview:
		review, err := tx.Review.GetByIDForUpdate(ctx, id)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to load review: %w", err)
		}
		if review == nil {
			return 0, 0, reviewNotFound(id)
		}
		return review.Upvotes, review.Downvotes, nil
	}
	return 0, 0, fmt.Errorf("unknown subject type %q", subjectType)
}

func (s *voteService) adjust(ctx context.Context, tx *repository.Repositories, id string, subjectType models.SubjectType, upDelta, downDelta int) (int, int, error) {
	var up, down int
	var err error
	if subjectType == models.SubjectComment {
		up, down, err = tx.Comment.AdjustVotes(ctx, id, upDelta, downDelta)
	} else {
		up, down, err = tx.Review.AdjustVotes(ctx, id, upDelta, downDelta)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update vote counters: %w", err)
	}
	return up, down, nil
}

// AuditCounters recounts a subject's votes from the ledger and compares them
// with its stored counters. With repair set, drifted counters are reset to the
// ledger counts in the same transaction. Admin only.
func (s *voteService) AuditCounters(ctx context.Context, subjectID string, subjectType models.SubjectType, repair bool) (*models.VoteAudit, error) {
	if err := resolver.RequireAdminCaller(ctx, s.repos.User); err != nil {
		return nil, err
	}
	if subjectType != models.SubjectComment && subjectType != models.SubjectReview {
		return nil, models.NewValidationError([]models.FieldError{{
			Field:   "subject_type",
			Message: "must be comment or review",
			Value:   string(subjectType),
		}})
	}

	audit := &models.VoteAudit{SubjectID: subjectID, SubjectType: subjectType}
	err := s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		var err error
		audit.Upvotes, audit.Downvotes, err = s.lockSubject(ctx, tx, subjectID, subjectType)
		if err != nil {
			return err
		}
		audit.LedgerUpvotes, audit.LedgerDownvotes, err = tx.Vote.CountBySubject(ctx, subjectID, subjectType)
		if err != nil {
			return fmt.Errorf("failed to count votes: %w", err)
		}
		if !repair || audit.Consistent() {
			return nil
		}

		audit.Upvotes, audit.Downvotes, err = s.adjust(ctx, tx, subjectID, subjectType,
			audit.LedgerUpvotes-audit.Upvotes, audit.LedgerDownvotes-audit.Downvotes)
		if err != nil {
			return err
		}
		audit.Repaired = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !audit.Consistent() || audit.Repaired {
		s.log.Warn().
			Str("subject_id", subjectID).
			Str("subject_type", string(subjectType)).
			Int("ledger_upvotes", audit.LedgerUpvotes).
			Int("ledger_downvotes", audit.LedgerDownvotes).
			Bool("repaired", audit.Repaired).
			Msg("Vote counters drifted from ledger")
	}
	return audit, nil
}
