package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/discussion-engine-api/internal/database"
	"github.com/discussion-engine-api/internal/models"
)

// UserRepository defines the interface for user lookups (display names and the role oracle)
type UserRepository interface {
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
	IsAdmin(ctx context.Context, id string) (bool, error)
}

// ItemRepository defines existence checks for catalog items
type ItemRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// PageRepository defines existence checks for authored pages
type PageRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Comment, error)
	UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error
	Tombstone(ctx context.Context, id string, deletedAt time.Time) error
	Delete(ctx context.Context, id string) error
	AdjustVotes(ctx context.Context, id string, upDelta, downDelta int) (up, down int, err error)
	ListByTarget(ctx context.Context, target models.Target, offset, limit int) ([]*models.Comment, error)
	CountByTarget(ctx context.Context, target models.Target) (int, error)
	ListReplies(ctx context.Context, parentID string) ([]*models.Comment, error)
	CountReplies(ctx context.Context, parentIDs []string) (map[string]int, error)
	Count(ctx context.Context) (int, error)
	ListLegacy(ctx context.Context, limit int) ([]*models.LegacyComment, error)
	SetTarget(ctx context.Context, id string, target models.Target) (bool, error)
}

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Review, error)
	GetByAuthorAndTarget(ctx context.Context, authorID, targetID string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	AdjustVotes(ctx context.Context, id string, upDelta, downDelta int) (up, down int, err error)
	ListByTarget(ctx context.Context, targetID string, offset, limit int) ([]*models.Review, error)
	CountByTarget(ctx context.Context, targetID string) (int, error)
	RatingDistribution(ctx context.Context, targetID string) (map[int]int, error)
}

// VoteRepository defines the interface for the vote ledger
type VoteRepository interface {
	GetForUpdate(ctx context.Context, voterID, subjectID string, subjectType models.SubjectType) (*models.Vote, error)
	Insert(ctx context.Context, vote *models.Vote) error
	UpdateDirection(ctx context.Context, vote *models.Vote) error
	DeleteBySubject(ctx context.Context, subjectID string, subjectType models.SubjectType) (int, error)
	CountBySubject(ctx context.Context, subjectID string, subjectType models.SubjectType) (up, down int, err error)
}

// BannedWordRepository defines the interface for the banned word list
type BannedWordRepository interface {
	// List returns every banned word in alphabetical order
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, word string) (bool, error)
	Remove(ctx context.Context, word string) (bool, error)
}

// JobRepository defines the interface for maintenance job records
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
}

// Transactor runs a unit of work against repositories bound to one transaction
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User       UserRepository
	Item       ItemRepository
	Page       PageRepository
	Comment    CommentRepository
	Review     ReviewRepository
	Vote       VoteRepository
	BannedWord BannedWordRepository
	Job        JobRepository

	Tx Transactor
}

// Transact runs fn atomically. Every invariant check made through the repositories
// passed to fn observes the same transaction as the writes that follow it.
func (r *Repositories) Transact(ctx context.Context, fn func(repos *Repositories) error) error {
	return r.Tx.WithinTx(ctx, fn)
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	repos := newWithExecutor(db)
	repos.Tx = &pgTransactor{db: db}
	return repos
}

func newWithExecutor(exec database.Executor) *Repositories {
	return &Repositories{
		User:       NewUserRepo(exec),
		Item:       NewItemRepo(exec),
		Page:       NewPageRepo(exec),
		Comment:    NewCommentRepo(exec),
		Review:     NewReviewRepo(exec),
		Vote:       NewVoteRepo(exec),
		BannedWord: NewBannedWordRepo(exec),
		Job:        NewJobRepo(exec),
	}
}

// pgTransactor opens a SERIALIZABLE transaction per unit of work
type pgTransactor struct {
	db *database.DB
}

func (t *pgTransactor) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return t.db.WithTx(ctx, func(tx *sql.Tx) error {
		txRepos := newWithExecutor(tx)
		txRepos.Tx = nestedTransactor{repos: txRepos}
		return fn(txRepos)
	})
}

// nestedTransactor reuses the enclosing transaction
type nestedTransactor struct {
	repos *Repositories
}

func (t nestedTransactor) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return fn(t.repos)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
