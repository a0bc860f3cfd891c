package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/repository"
)

// Store is an in-memory backing store shared by all mock repositories.
// Transactions are serialized and roll back to a snapshot on error.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users       map[string]*models.User
	items       map[string]bool
	pages       map[string]bool
	comments    map[string]*commentRow
	reviews     map[string]*models.Review
	votes       map[voteKey]*models.Vote
	bannedWords map[string]time.Time
	jobs        map[string]*models.Job

	// Errors injects a failure for an operation, keyed "Repo.Method" (for example "Vote.Insert")
	Errors map[string]error
	// Calls counts invocations per "Repo.Method"
	Calls map[string]int
	// Commits and Rollbacks count finished transactions
	Commits   int
	Rollbacks int
}

// commentRow keeps the legacy item_id column next to the comment
type commentRow struct {
	comment models.Comment
	itemID  string
}

type voteKey struct {
	voter       string
	subject     string
	subjectType models.SubjectType
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:       make(map[string]*models.User),
		items:       make(map[string]bool),
		pages:       make(map[string]bool),
		comments:    make(map[string]*commentRow),
		reviews:     make(map[string]*models.Review),
		votes:       make(map[voteKey]*models.Vote),
		bannedWords: make(map[string]time.Time),
		jobs:        make(map[string]*models.Job),
		Errors:      make(map[string]error),
		Calls:       make(map[string]int),
	}
}

// Repositories returns repository implementations backed by the store
func (s *Store) Repositories() *repository.Repositories {
	repos := s.bind()
	repos.Tx = &MockTransactor{store: s}
	return repos
}

func (s *Store) bind() *repository.Repositories {
	return &repository.Repositories{
		User:       &MockUserRepository{s: s},
		Item:       &MockItemRepository{s: s},
		Page:       &MockPageRepository{s: s},
		Comment:    &MockCommentRepository{s: s},
		Review:     &MockReviewRepository{s: s},
		Vote:       &MockVoteRepository{s: s},
		BannedWord: &MockBannedWordRepository{s: s},
		Job:        &MockJobRepository{s: s},
	}
}

// call records an invocation and returns the injected error, if any.
// The caller must hold s.mu.
func (s *Store) call(op string) error {
	s.Calls[op]++
	return s.Errors[op]
}

// Fail makes every later call of op return err
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors[op] = err
}

// CallCount returns how many times op ran
func (s *Store) CallCount(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls[op]
}

// Seeding helpers

// AddUser registers a user with a display name and role
func (s *Store) AddUser(id, name, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.users[id] = &models.User{
		ID: id, Email: id + "@example.com", Name: name, Role: role,
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
}

// AddItem registers a catalog item
func (s *Store) AddItem(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = true
}

// AddPage registers an authored page
func (s *Store) AddPage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[id] = true
}

// AddLegacyComment inserts a comment written before targets were polymorphic
func (s *Store) AddLegacyComment(id, itemID, authorID, content string, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[id] = &commentRow{
		comment: models.Comment{ID: id, AuthorID: authorID, Content: content, CreatedAt: createdAt},
		itemID:  itemID,
	}
}

// PutComment stores a comment as is
func (s *Store) PutComment(c models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.ID] = &commentRow{comment: c}
}

// RawTarget returns the stored target columns of a comment, without the legacy fallback
func (s *Store) RawTarget(id string) (targetID string, targetType models.TargetType, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.comments[id]
	if !ok {
		return "", "", false
	}
	return row.comment.TargetID, row.comment.TargetType, true
}

// HasComment reports whether a comment row exists, tombstones included
func (s *Store) HasComment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.comments[id]
	return ok
}

// VoteRows counts ledger rows of a subject by direction
func (s *Store) VoteRows(subjectID string, subjectType models.SubjectType) (up, down int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countVotes(subjectID, subjectType)
}

func (s *Store) countVotes(subjectID string, subjectType models.SubjectType) (up, down int) {
	for k, v := range s.votes {
		if k.subject != subjectID || k.subjectType != subjectType {
			continue
		}
		if v.Direction == models.DirectionUp {
			up++
		} else {
			down++
		}
	}
	return up, down
}

// Transactions

type snapshot struct {
	comments    map[string]*commentRow
	reviews     map[string]*models.Review
	votes       map[voteKey]*models.Vote
	bannedWords map[string]time.Time
	jobs        map[string]*models.Job
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		comments:    make(map[string]*commentRow, len(s.comments)),
		reviews:     make(map[string]*models.Review, len(s.reviews)),
		votes:       make(map[voteKey]*models.Vote, len(s.votes)),
		bannedWords: make(map[string]time.Time, len(s.bannedWords)),
		jobs:        make(map[string]*models.Job, len(s.jobs)),
	}
	for k, v := range s.comments {
		row := *v
		snap.comments[k] = &row
	}
	for k, v := range s.reviews {
		r := *v
		snap.reviews[k] = &r
	}
	for k, v := range s.votes {
		vote := *v
		snap.votes[k] = &vote
	}
	for k, v := range s.bannedWords {
		snap.bannedWords[k] = v
	}
	for k, v := range s.jobs {
		j := *v
		snap.jobs[k] = &j
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.comments = snap.comments
	s.reviews = snap.reviews
	s.votes = snap.votes
	s.bannedWords = snap.bannedWords
	s.jobs = snap.jobs
}

// MockTransactor serializes units of work and restores the snapshot on error
type MockTransactor struct {
	store *Store
}

func (t *MockTransactor) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	s := t.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	txRepos := s.bind()
	txRepos.Tx = nestedTransactor{repos: txRepos}

	if err := fn(txRepos); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

type nestedTransactor struct {
	repos *repository.Repositories
}

func (t nestedTransactor) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(t.repos)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	s *Store
}

func (m *MockUserRepository) DisplayNames(ctx context.Context, ids []string) (map[string]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("User.DisplayNames"); err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if u, ok := m.s.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

func (m *MockUserRepository) IsAdmin(ctx context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("User.IsAdmin"); err != nil {
		return false, err
	}
	u, ok := m.s.users[id]
	return ok && u.Active && u.Role == models.RoleAdmin, nil
}

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	s *Store
}

func (m *MockItemRepository) Exists(ctx context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Item.Exists"); err != nil {
		return false, err
	}
	return m.s.items[id], nil
}

// MockPageRepository is a mock implementation of PageRepository
type MockPageRepository struct {
	s *Store
}

func (m *MockPageRepository) Exists(ctx context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Page.Exists"); err != nil {
		return false, err
	}
	return m.s.pages[id], nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	s *Store
}

// read returns a copy of the row as the SQL repository would scan it
func (row *commentRow) read() *models.Comment {
	c := row.comment
	if c.TargetID == "" {
		c.TargetID = row.itemID
		c.TargetType = models.TargetItem
	}
	return &c
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.Create"); err != nil {
		return err
	}
	m.s.comments[comment.ID] = &commentRow{comment: *comment}
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.GetByID"); err != nil {
		return nil, err
	}
	row, ok := m.s.comments[id]
	if !ok {
		return nil, nil
	}
	return row.read(), nil
}

func (m *MockCommentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Comment, error) {
	return m.GetByID(ctx, id)
}

func (m *MockCommentRepository) UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.UpdateContent"); err != nil {
		return err
	}
	row, ok := m.s.comments[id]
	if !ok || row.comment.DeletedAt != nil {
		return models.ErrNotFound
	}
	row.comment.Content = content
	row.comment.EditedAt = &editedAt
	return nil
}

func (m *MockCommentRepository) Tombstone(ctx context.Context, id string, deletedAt time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.Tombstone"); err != nil {
		return err
	}
	row, ok := m.s.comments[id]
	if !ok {
		return models.ErrNotFound
	}
	row.comment.Content = ""
	row.comment.Upvotes = 0
	row.comment.Downvotes = 0
	row.comment.DeletedAt = &deletedAt
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.Delete"); err != nil {
		return err
	}
	if _, ok := m.s.comments[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.s.comments, id)
	return nil
}

func (m *MockCommentRepository) AdjustVotes(ctx context.Context, id string, upDelta, downDelta int) (int, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.AdjustVotes"); err != nil {
		return 0, 0, err
	}
	row, ok := m.s.comments[id]
	if !ok || row.comment.DeletedAt != nil {
		return 0, 0, models.ErrNotFound
	}
	row.comment.Upvotes += upDelta
	row.comment.Downvotes += downDelta
	return row.comment.Upvotes, row.comment.Downvotes, nil
}

func (m *MockCommentRepository) ListByTarget(ctx context.Context, target models.Target, offset, limit int) ([]*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.ListByTarget"); err != nil {
		return nil, err
	}
	all := m.s.topLevel(target)
	return window(all, offset, limit), nil
}

func (m *MockCommentRepository) CountByTarget(ctx context.Context, target models.Target) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.CountByTarget"); err != nil {
		return 0, err
	}
	return len(m.s.topLevel(target)), nil
}

func (s *Store) topLevel(target models.Target) []*models.Comment {
	var out []*models.Comment
	for _, row := range s.comments {
		c := row.read()
		if c.ParentCommentID == nil && c.TargetID == target.ID && c.TargetType == target.Type {
			out = append(out, c)
		}
	}
	sortNewestFirst(out)
	return out
}

func (m *MockCommentRepository) ListReplies(ctx context.Context, parentID string) ([]*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.ListReplies"); err != nil {
		return nil, err
	}
	var out []*models.Comment
	for _, row := range m.s.comments {
		if p := row.comment.ParentCommentID; p != nil && *p == parentID {
			out = append(out, row.read())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MockCommentRepository) CountReplies(ctx context.Context, parentIDs []string) (map[string]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.CountReplies"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}
	counts := make(map[string]int, len(parentIDs))
	for _, row := range m.s.comments {
		if p := row.comment.ParentCommentID; p != nil && wanted[*p] {
			counts[*p]++
		}
	}
	return counts, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.Count"); err != nil {
		return 0, err
	}
	return len(m.s.comments), nil
}

func (m *MockCommentRepository) ListLegacy(ctx context.Context, limit int) ([]*models.LegacyComment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.ListLegacy"); err != nil {
		return nil, err
	}
	var out []*models.LegacyComment
	for id, row := range m.s.comments {
		if row.comment.TargetID != "" || row.itemID == "" {
			continue
		}
		itemID := row.itemID
		out = append(out, &models.LegacyComment{ID: id, ItemID: &itemID})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCommentRepository) SetTarget(ctx context.Context, id string, target models.Target) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Comment.SetTarget"); err != nil {
		return false, err
	}
	row, ok := m.s.comments[id]
	if !ok || row.comment.TargetID != "" {
		return false, nil
	}
	row.comment.TargetID = target.ID
	row.comment.TargetType = target.Type
	return true, nil
}

func sortNewestFirst(comments []*models.Comment) {
	sort.Slice(comments, func(i, j int) bool {
		a, b := comments[i], comments[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

func window[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

// MockReviewRepository is a mock implementation of ReviewRepository
type MockReviewRepository struct {
	s *Store
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.Create"); err != nil {
		return err
	}
	for _, r := range m.s.reviews {
		if r.AuthorID == review.AuthorID && r.TargetID == review.TargetID {
			return models.ErrDuplicateReview
		}
	}
	r := *review
	m.s.reviews[review.ID] = &r
	return nil
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.GetByID"); err != nil {
		return nil, err
	}
	r, ok := m.s.reviews[id]
	if !ok {
		return nil, nil
	}
	review := *r
	return &review, nil
}

func (m *MockReviewRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Review, error) {
	return m.GetByID(ctx, id)
}

func (m *MockReviewRepository) GetByAuthorAndTarget(ctx context.Context, authorID, targetID string) (*models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.GetByAuthorAndTarget"); err != nil {
		return nil, err
	}
	for _, r := range m.s.reviews {
		if r.AuthorID == authorID && r.TargetID == targetID {
			review := *r
			return &review, nil
		}
	}
	return nil, nil
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.Update"); err != nil {
		return err
	}
	r, ok := m.s.reviews[review.ID]
	if !ok {
		return models.ErrNotFound
	}
	r.Title = review.Title
	r.Content = review.Content
	r.Rating = review.Rating
	r.EditedAt = review.EditedAt
	return nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.Delete"); err != nil {
		return err
	}
	if _, ok := m.s.reviews[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.s.reviews, id)
	return nil
}

func (m *MockReviewRepository) AdjustVotes(ctx context.Context, id string, upDelta, downDelta int) (int, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.AdjustVotes"); err != nil {
		return 0, 0, err
	}
	r, ok := m.s.reviews[id]
	if !ok {
		return 0, 0, models.ErrNotFound
	}
	r.Upvotes += upDelta
	r.Downvotes += downDelta
	return r.Upvotes, r.Downvotes, nil
}

func (m *MockReviewRepository) ListByTarget(ctx context.Context, targetID string, offset, limit int) ([]*models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.ListByTarget"); err != nil {
		return nil, err
	}
	return window(m.s.reviewsOf(targetID), offset, limit), nil
}

func (m *MockReviewRepository) CountByTarget(ctx context.Context, targetID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.CountByTarget"); err != nil {
		return 0, err
	}
	return len(m.s.reviewsOf(targetID)), nil
}

func (m *MockReviewRepository) RatingDistribution(ctx context.Context, targetID string) (map[int]int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Review.RatingDistribution"); err != nil {
		return nil, err
	}
	dist := make(map[int]int)
	for _, r := range m.s.reviewsOf(targetID) {
		dist[r.Rating]++
	}
	return dist, nil
}

func (s *Store) reviewsOf(targetID string) []*models.Review {
	var out []*models.Review
	for _, r := range s.reviews {
		if r.TargetID == targetID {
			review := *r
			out = append(out, &review)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out
}

// MockVoteRepository is a mock implementation of VoteRepository
type MockVoteRepository struct {
	s *Store
}

func (m *MockVoteRepository) GetForUpdate(ctx context.Context, voterID, subjectID string, subjectType models.SubjectType) (*models.Vote, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Vote.GetForUpdate"); err != nil {
		return nil, err
	}
	v, ok := m.s.votes[voteKey{voterID, subjectID, subjectType}]
	if !ok {
		return nil, nil
	}
	vote := *v
	return &vote, nil
}

func (m *MockVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Vote.Insert"); err != nil {
		return err
	}
	v := *vote
	m.s.votes[voteKey{vote.VoterID, vote.SubjectID, vote.SubjectType}] = &v
	return nil
}

func (m *MockVoteRepository) UpdateDirection(ctx context.Context, vote *models.Vote) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Vote.UpdateDirection"); err != nil {
		return err
	}
	v, ok := m.s.votes[voteKey{vote.VoterID, vote.SubjectID, vote.SubjectType}]
	if !ok {
		return models.ErrNotFound
	}
	v.Direction = vote.Direction
	v.UpdatedAt = vote.UpdatedAt
	return nil
}

func (m *MockVoteRepository) DeleteBySubject(ctx context.Context, subjectID string, subjectType models.SubjectType) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Vote.DeleteBySubject"); err != nil {
		return 0, err
	}
	removed := 0
	for k := range m.s.votes {
		if k.subject == subjectID && k.subjectType == subjectType {
			delete(m.s.votes, k)
			removed++
		}
	}
	return removed, nil
}

func (m *MockVoteRepository) CountBySubject(ctx context.Context, subjectID string, subjectType models.SubjectType) (int, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Vote.CountBySubject"); err != nil {
		return 0, 0, err
	}
	up, down := m.s.countVotes(subjectID, subjectType)
	return up, down, nil
}

// MockBannedWordRepository is a mock implementation of BannedWordRepository
type MockBannedWordRepository struct {
	s *Store
}

func (m *MockBannedWordRepository) List(ctx context.Context) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("BannedWord.List"); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(m.s.bannedWords))
	for w := range m.s.bannedWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words, nil
}

func (m *MockBannedWordRepository) Add(ctx context.Context, word string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("BannedWord.Add"); err != nil {
		return false, err
	}
	word = strings.ToLower(word)
	if _, ok := m.s.bannedWords[word]; ok {
		return false, nil
	}
	m.s.bannedWords[word] = time.Now()
	return true, nil
}

func (m *MockBannedWordRepository) Remove(ctx context.Context, word string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("BannedWord.Remove"); err != nil {
		return false, err
	}
	word = strings.ToLower(word)
	if _, ok := m.s.bannedWords[word]; !ok {
		return false, nil
	}
	delete(m.s.bannedWords, word)
	return true, nil
}

// MockJobRepository is a mock implementation of JobRepository
type MockJobRepository struct {
	s *Store
}

func (m *MockJobRepository) Create(ctx context.Context, job *models.Job) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Job.Create"); err != nil {
		return err
	}
	j := *job
	m.s.jobs[job.ID] = &j
	return nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *models.Job) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Job.Update"); err != nil {
		return err
	}
	if _, ok := m.s.jobs[job.ID]; !ok {
		return models.ErrNotFound
	}
	j := *job
	m.s.jobs[job.ID] = &j
	return nil
}

func (m *MockJobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.call("Job.GetByID"); err != nil {
		return nil, err
	}
	j, ok := m.s.jobs[id]
	if !ok {
		return nil, nil
	}
	job := *j
	return &job, nil
}

// Verify interface compliance
var (
	_ repository.UserRepository       = (*MockUserRepository)(nil)
	_ repository.ItemRepository       = (*MockItemRepository)(nil)
	_ repository.PageRepository       = (*MockPageRepository)(nil)
	_ repository.CommentRepository    = (*MockCommentRepository)(nil)
	_ repository.ReviewRepository     = (*MockReviewRepository)(nil)
	_ repository.VoteRepository       = (*MockVoteRepository)(nil)
	_ repository.BannedWordRepository = (*MockBannedWordRepository)(nil)
	_ repository.JobRepository        = (*MockJobRepository)(nil)
	_ repository.Transactor           = (*MockTransactor)(nil)
)
