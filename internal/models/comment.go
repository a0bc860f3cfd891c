package models

import (
	"time"
)

const (
	// MaxContentLength is the maximum number of characters in a comment or review body
	MaxContentLength = 2000

	// DeletedPlaceholder replaces the content of a tombstoned comment on read
	DeletedPlaceholder = "[deleted]"
)

// Comment represents a comment on an item or a page
type Comment struct {
	ID              string     `json:"id" db:"id"`
	TargetID        string     `json:"target_id" db:"target_id"`
	TargetType      TargetType `json:"target_type" db:"target_type"`
	AuthorID        string     `json:"author_id" db:"author_id"`
	Content         string     `json:"content" db:"content"`
	ParentCommentID *string    `json:"parent_comment_id,omitempty" db:"parent_comment_id"`
	QuotedCommentID *string    `json:"quoted_comment_id,omitempty" db:"quoted_comment_id"`
	QuotedText      *string    `json:"quoted_text,omitempty" db:"quoted_text"`
	QuotedAuthorID  *string    `json:"quoted_author_id,omitempty" db:"quoted_author_id"`
	Upvotes         int        `json:"upvotes" db:"upvotes"`
	Downvotes       int        `json:"downvotes" db:"downvotes"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	EditedAt        *time.Time `json:"edited_at,omitempty" db:"edited_at"`
	DeletedAt       *time.Time `json:"-" db:"deleted_at"`
}

// Target returns the polymorphic target of the comment
func (c *Comment) Target() Target {
	return Target{ID: c.TargetID, Type: c.TargetType}
}

// IsDeleted reports whether the comment is a tombstone kept for its replies
func (c *Comment) IsDeleted() bool {
	return c.DeletedAt != nil
}

// LegacyComment is a comment row persisted before targets became polymorphic
type LegacyComment struct {
	ID         string  `db:"id"`
	ItemID     *string `db:"item_id"`
	TargetID   *string `db:"target_id"`
	TargetType *string `db:"target_type"`
}

// NeedsMigration reports whether the row is missing its target but carries an item id
func (l *LegacyComment) NeedsMigration() bool {
	return (l.TargetID == nil || *l.TargetID == "") && l.ItemID != nil && *l.ItemID != ""
}

// CommentView is a comment as returned to readers
type CommentView struct {
	Comment
	AuthorName   string `json:"author_name"`
	RepliesCount int    `json:"replies_count"`
	Deleted      bool   `json:"deleted,omitempty"`
}

// CreateCommentInput holds the fields accepted by addComment
type CreateCommentInput struct {
	Target          Target
	Content         string
	ParentCommentID *string
	QuotedCommentID *string
	QuotedText      *string
}

// CommentPage is a paginated list of top-level comments
type CommentPage struct {
	Comments    []CommentView `json:"comments"`
	CurrentPage int           `json:"current_page"`
	TotalPages  int           `json:"total_pages"`
	TotalCount  int           `json:"total_count"`
	HasMore     bool          `json:"has_more"`
}
