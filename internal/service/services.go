package service

import (
	"context"
	"time"

	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/moderation"
	"github.com/discussion-engine-api/internal/repository"
	"github.com/rs/zerolog"
)

// CommentService defines the interface for comment threads on items and pages
type CommentService interface {
	AddComment(ctx context.Context, in *models.CreateCommentInput) (*models.Comment, error)
	EditComment(ctx context.Context, id, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
	GetComments(ctx context.Context, itemID string, page, limit int) (*models.CommentPage, error)
	GetPageComments(ctx context.Context, pageID string, page, limit int) (*models.CommentPage, error)
	GetReplies(ctx context.Context, parentID string) ([]models.CommentView, error)
}

// ReviewService defines the interface for item reviews
type ReviewService interface {
	AddReview(ctx context.Context, itemID string, in *models.ReviewInput) (*models.Review, error)
	EditReview(ctx context.Context, id string, in *models.ReviewInput) (*models.Review, error)
	DeleteReview(ctx context.Context, id string) error
	AdminDeleteReview(ctx context.Context, id string) error
	GetReviews(ctx context.Context, itemID string, page, limit int) (*models.ReviewPage, error)
	RatingSummary(ctx context.Context, itemID string) (*models.RatingSummary, error)
}

// VoteService defines the interface for the vote ledger
type VoteService interface {
	VoteComment(ctx context.Context, commentID string, direction models.Direction) (*models.VoteResult, error)
	VoteReview(ctx context.Context, reviewID string, direction models.Direction) (*models.VoteResult, error)
	AuditCounters(ctx context.Context, subjectID string, subjectType models.SubjectType, repair bool) (*models.VoteAudit, error)
}

// MigrationService defines the interface for the legacy comment backfill
type MigrationService interface {
	MigrateLegacyComments(ctx context.Context) (*models.MigrationResult, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	StartBackfill(ctx context.Context)
	StopBackfill()
}

// BannedWordService defines the interface for banned word administration
type BannedWordService interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, word string) (bool, error)
	Remove(ctx context.Context, word string) (bool, error)
	SyncMirror(ctx context.Context) (int, error)
}

// WordMirror is a secondary copy of the banned word list, such as a Redis set
type WordMirror interface {
	Add(ctx context.Context, word string) error
	Remove(ctx context.Context, word string) error
	Replace(ctx context.Context, words []string) error
}

// WordCache is invalidated whenever the banned word list changes
type WordCache interface {
	Invalidate()
}

// Services holds all service interfaces
type Services struct {
	Comments    CommentService
	Reviews     ReviewService
	Votes       VoteService
	Migration   MigrationService
	BannedWords BannedWordService
}

type options struct {
	now    func() time.Time
	mirror WordMirror
	cache  WordCache
}

// Option customizes NewServices
type Option func(*options)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithWordMirror keeps a mirror of the banned word list in sync with the database
func WithWordMirror(m WordMirror) Option {
	return func(o *options) { o.mirror = m }
}

// WithWordCache invalidates c after every banned word change
func WithWordCache(c WordCache) Option {
	return func(o *options) { o.cache = c }
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, filter *moderation.Filter, cfg *config.Config, log zerolog.Logger, opts ...Option) *Services {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Services{
		Comments:    newCommentService(repos, filter, cfg.Discussion, log, o.now),
		Reviews:     newReviewService(repos, filter, cfg.Discussion, log, o.now),
		Votes:       newVoteService(repos, log, o.now),
		Migration:   newMigrationService(repos, cfg.Discussion, log, o.now),
		BannedWords: newBannedWordService(repos, o.mirror, o.cache, log),
	}
}
