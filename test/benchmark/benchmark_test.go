package benchmark

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/discussion-engine-api/internal/auth"
	"github.com/discussion-engine-api/internal/config"
	"github.com/discussion-engine-api/internal/mocks"
	"github.com/discussion-engine-api/internal/models"
	"github.com/discussion-engine-api/internal/moderation"
	"github.com/discussion-engine-api/internal/pagination"
	"github.com/discussion-engine-api/internal/service"
	"github.com/discussion-engine-api/internal/validation"
	"github.com/rs/zerolog"
)

func bannedWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("banned%d", i)
	}
	return words
}

func commentBody() string {
	return strings.Repeat("a perfectly ordinary sentence with banned7 and banned42 inside ", 25)
}

func setupServices(b *testing.B) *service.Services {
	b.Helper()
	store := mocks.NewStore()
	store.AddUser("author", "Author", "viewer")
	store.AddItem("item-1")

	cfg := &config.Config{Discussion: config.DiscussionConfig{
		DefaultPageLimit:   20,
		MaxPageLimit:       100,
		MigrationBatchSize: 500,
	}}
	filter := moderation.NewFilter(moderation.StaticSource(bannedWords(200)), zerolog.Nop(), nil)
	return service.NewServices(store.Repositories(), filter, cfg, zerolog.Nop())
}

func as(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID})
}

// BenchmarkSanitize benchmarks masking a comment-sized text against 200 banned words
func BenchmarkSanitize(b *testing.B) {
	set := moderation.NewWordSet(bannedWords(200))
	text := commentBody()

	b.ResetTimer()
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))

	for i := 0; i < b.N; i++ {
		set.Sanitize(text)
	}
}

// BenchmarkValidation benchmarks comment input validation
func BenchmarkValidation(b *testing.B) {
	parent := "550e8400-e29b-41d4-a716-446655440000"
	in := &models.CreateCommentInput{
		Target:          models.Target{ID: "item-1", Type: models.TargetItem},
		Content:         commentBody(),
		ParentCommentID: &parent,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validation.ValidateCommentInput(in)
	}
}

// BenchmarkPaginate benchmarks slicing one page out of 10k entries
func BenchmarkPaginate(b *testing.B) {
	all := make([]int, 10000)
	for i := range all {
		all[i] = i
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		pagination.Paginate(all, pagination.Normalize(i%500+1, 20, 20, 100))
	}
}

// BenchmarkAddComment benchmarks the full create path over the in-memory store
func BenchmarkAddComment(b *testing.B) {
	svc := setupServices(b)
	ctx := as("author")
	in := &models.CreateCommentInput{
		Target:  models.Target{ID: "item-1", Type: models.TargetItem},
		Content: "short comment mentioning banned3",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := svc.Comments.AddComment(ctx, in); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkVoteParallel benchmarks concurrent voters flipping votes on one comment
func BenchmarkVoteParallel(b *testing.B) {
	svc := setupServices(b)
	comment, err := svc.Comments.AddComment(as("author"), &models.CreateCommentInput{
		Target:  models.Target{ID: "item-1", Type: models.TargetItem},
		Content: "vote target",
	})
	if err != nil {
		b.Fatal(err)
	}

	var voter int64
	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		ctx := as(fmt.Sprintf("voter-%d", nextVoter(&voter)))
		dirs := []models.Direction{models.DirectionUp, models.DirectionDown}
		i := 0
		for pb.Next() {
			if _, err := svc.Votes.VoteComment(ctx, comment.ID, dirs[i%2]); err != nil {
				b.Error(err)
				return
			}
			i++
		}
	})
}

func nextVoter(n *int64) int64 {
	return atomic.AddInt64(n, 1)
}
