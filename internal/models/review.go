package models

import (
	"time"
)

const (
	// MaxTitleLength is the maximum number of characters in a review title
	MaxTitleLength = 200

	MinRating = 1
	MaxRating = 10
)

// Review is a rated review of an item. One per author per item.
type Review struct {
	ID        string     `json:"id" db:"id"`
	TargetID  string     `json:"target_id" db:"target_id"`
	AuthorID  string     `json:"author_id" db:"author_id"`
	Title     string     `json:"title" db:"title"`
	Content   string     `json:"content" db:"content"`
	Rating    int        `json:"rating" db:"rating"`
	Upvotes   int        `json:"upvotes" db:"upvotes"`
	Downvotes int        `json:"downvotes" db:"downvotes"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty" db:"edited_at"`
}

// ReviewView is a review as returned to readers
type ReviewView struct {
	Review
	AuthorName string `json:"author_name"`
}

// ReviewInput holds the fields accepted by addReview and editReview
type ReviewInput struct {
	Title   string
	Content string
	Rating  int
}

// ReviewPage is a paginated list of reviews
type ReviewPage struct {
	Reviews     []ReviewView `json:"reviews"`
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
	TotalCount  int          `json:"total_count"`
	HasMore     bool         `json:"has_more"`
}

// RatingSummary aggregates the ratings of one item
type RatingSummary struct {
	ItemID        string         `json:"item_id"`
	AverageRating float64        `json:"average_rating"`
	TotalReviews  int            `json:"total_reviews"`
	Distribution  map[string]int `json:"rating_distribution"`
}
