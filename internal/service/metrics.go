package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var commentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "discussion_comments_created_total",
	Help: "Number of comments created",
}, []string{"target_type"})

var commentsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "discussion_comments_deleted_total",
	Help: "Number of comments deleted",
}, []string{"mode"})

var reviewsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "discussion_reviews_created_total",
	Help: "Number of reviews created",
})

var reviewsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "discussion_reviews_deleted_total",
	Help: "Number of reviews deleted",
}, []string{"by"})

var votesCast = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "discussion_votes_cast_total",
	Help: "Number of vote calls by subject type and outcome",
}, []string{"subject_type", "outcome"})

var wordsMasked = promauto.NewCounter(prometheus.CounterOpts{
	Name: "discussion_moderation_words_masked_total",
	Help: "Number of banned words masked in stored or returned text",
})

var legacyCommentsMigrated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "discussion_legacy_comments_migrated_total",
	Help: "Number of legacy comments given a polymorphic target",
})

// RecordMaskedWords is passed to moderation.NewFilter to count masked words
func RecordMaskedWords(n int) {
	wordsMasked.Add(float64(n))
}
