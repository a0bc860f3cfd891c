package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
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

// reviewService is the concrete implementation of ReviewService
type reviewService struct {
	repos  *repository.Repositories
	filter *moderation.Filter
	cfg    config.DiscussionConfig
	log    zerolog.Logger
	now    func() time.Time
}

func newReviewService(repos *repository.Repositories, filter *moderation.Filter, cfg config.DiscussionConfig, log zerolog.Logger, now func() time.Time) *reviewService {
	return &reviewService{
		repos:  repos,
		filter: filter,
		cfg:    cfg,
		log:    log.With().Str("service", "review").Logger(),
		now:    now,
	}
}

func invalidRating(rating int) error {
	return &models.DomainError{
		Kind:    models.ErrInvalidRating,
		Message: fmt.Sprintf("rating must be an integer between %d and %d", models.MinRating, models.MaxRating),
		Fields:  []models.FieldError{{Field: "rating", Message: "out of range", Value: rating}},
	}
}

// checkReviewInput rejects invalid input before any storage access
func checkReviewInput(in *models.ReviewInput) error {
	if errs := validation.ValidateReviewInput(in); len(errs) > 0 {
		return models.NewValidationError(errs)
	}
	if !validation.ValidateRating(in.Rating) {
		return invalidRating(in.Rating)
	}
	return nil
}

func reviewNotFound(id string) error {
	return models.NewDomainError(models.ErrNotFound, fmt.Sprintf("review %s not found", id))
}

// AddReview creates the caller's review of an item. One review per author per item.
func (s *reviewService) AddReview(ctx context.Context, itemID string, in *models.ReviewInput) (*models.Review, error) {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkReviewInput(in); err != nil {
		return nil, err
	}

	words, err := s.filter.WordSet(ctx)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New().String(),
		TargetID:  itemID,
		AuthorID:  caller.UserID,
		Title:     s.filter.Apply(words, in.Title),
		Content:   s.filter.Apply(words, in.Content),
		Rating:    in.Rating,
		CreatedAt: s.now().UTC(),
	}

	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		if err := resolver.ResolveTarget(ctx, tx, models.Target{ID: itemID, Type: models.TargetItem}); err != nil {
			return err
		}

		existing, err := tx.Review.GetByAuthorAndTarget(ctx, caller.UserID, itemID)
		if err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if existing != nil {
			return models.NewDomainError(models.ErrDuplicateReview, "you have already reviewed this item")
		}

		if err := tx.Review.Create(ctx, review); err != nil {
			if errors.Is(err, models.ErrDuplicateReview) {
				return models.NewDomainError(models.ErrDuplicateReview, "you have already reviewed this item")
			}
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reviewsCreated.Inc()
	s.log.Info().
		Str("review_id", review.ID).
		Str("item_id", itemID).
		Int("rating", review.Rating).
		Msg("Review created")

	return review, nil
}

// EditReview replaces title, content and rating of a review owned by the caller
func (s *reviewService) EditReview(ctx context.Context, id string, in *models.ReviewInput) (*models.Review, error) {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkReviewInput(in); err != nil {
		return nil, err
	}

	words, err := s.filter.WordSet(ctx)
	if err != nil {
		return nil, err
	}

	var review *models.Review
	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		review, err = tx.Review.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load review: %w", err)
		}
		if review == nil {
			return reviewNotFound(id)
		}
		if err := resolver.RequireOwner(review.AuthorID, caller.UserID); err != nil {
			return err
		}

		editedAt := s.now().UTC()
		review.Title = s.filter.Apply(words, in.Title)
		review.Content = s.filter.Apply(words, in.Content)
		review.Rating = in.Rating
		review.EditedAt = &editedAt

		if err := tx.Review.Update(ctx, review); err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("review_id", id).Msg("Review edited")
	return review, nil
}

// DeleteReview removes a review owned by the caller
func (s *reviewService) DeleteReview(ctx context.Context, id string) error {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return err
	}

	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		review, err := tx.Review.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load review: %w", err)
		}
		if review == nil {
			return reviewNotFound(id)
		}
		if err := resolver.RequireOwner(review.AuthorID, caller.UserID); err != nil {
			return err
		}
		return s.remove(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	reviewsDeleted.WithLabelValues("author").Inc()
	s.log.Info().Str("review_id", id).Msg("Review deleted by author")
	return nil
}

// AdminDeleteReview removes any review. The role oracle must report the caller as admin.
func (s *reviewService) AdminDeleteReview(ctx context.Context, id string) error {
	caller, err := resolver.RequireAuthenticated(ctx)
	if err != nil {
		return err
	}

	err = s.repos.Transact(ctx, func(tx *repository.Repositories) error {
		if err := resolver.RequireAdmin(ctx, tx.User, caller.UserID); err != nil {
			return err
		}
		review, err := tx.Review.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load review: %w", err)
		}
		if review == nil {
			return reviewNotFound(id)
		}
		return s.remove(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	reviewsDeleted.WithLabelValues("admin").Inc()
	s.log.Warn().Str("review_id", id).Str("admin_id", caller.UserID).Msg("Review deleted by admin")
	return nil
}

func (s *reviewService) remove(ctx context.Context, tx *repository.Repositories, id string) error {
	if _, err := tx.Vote.DeleteBySubject(ctx, id, models.SubjectReview); err != nil {
		return fmt.Errorf("failed to delete review votes: %w", err)
	}
	if err := tx.Review.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// GetReviews lists the reviews of an item, newest first
func (s *reviewService) GetReviews(ctx context.Context, itemID string, page, limit int) (*models.ReviewPage, error) {
	p := pagination.Normalize(page, limit, s.cfg.DefaultPageLimit, s.cfg.MaxPageLimit)

	total, err := s.repos.Review.CountByTarget(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []*models.Review
	if !p.Beyond(total) {
		reviews, err = s.repos.Review.ListByTarget(ctx, itemID, p.Offset(), p.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews: %w", err)
		}
	}

	views := make([]models.ReviewView, 0, len(reviews))
	if len(reviews) > 0 {
		words, err := s.filter.WordSet(ctx)
		if err != nil {
			return nil, err
		}
		authorIDs := make([]string, 0, len(reviews))
		for _, r := range reviews {
			authorIDs = append(authorIDs, r.AuthorID)
		}
		names, _, err := loadThreadContext(ctx, s.repos, authorIDs, nil)
		if err != nil {
			return nil, err
		}
		for _, r := range reviews {
			view := models.ReviewView{Review: *r, AuthorName: displayName(names, r.AuthorID)}
			view.Title = s.filter.Apply(words, r.Title)
			view.Content = s.filter.Apply(words, r.Content)
			views = append(views, view)
		}
	}

	res := pagination.NewResult(views, p, total)
	return &models.ReviewPage{
		Reviews:     res.Items,
		CurrentPage: res.CurrentPage,
		TotalPages:  res.TotalPages,
		TotalCount:  res.TotalCount,
		HasMore:     res.HasMore,
	}, nil
}

// RatingSummary aggregates the ratings of an item
func (s *reviewService) RatingSummary(ctx context.Context, itemID string) (*models.RatingSummary, error) {
	dist, err := s.repos.Review.RatingDistribution(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating distribution: %w", err)
	}

	summary := &models.RatingSummary{
		ItemID:       itemID,
		Distribution: make(map[string]int, models.MaxRating),
	}

	sum := 0
	for rating := models.MinRating; rating <= models.MaxRating; rating++ {
		n := dist[rating]
		summary.Distribution[strconv.Itoa(rating)] = n
		summary.TotalReviews += n
		sum += rating * n
	}
	if summary.TotalReviews > 0 {
		avg := float64(sum) / float64(summary.TotalReviews)
		summary.AverageRating = math.Round(avg*100) / 100
	}

	return summary, nil
}
