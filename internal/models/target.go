package models

// TargetType discriminates the content kind a thread or review is attached to
type TargetType string

const (
	TargetItem TargetType = "item"
	TargetPage TargetType = "page"
)

// ValidTargetTypes defines allowed target kinds
var ValidTargetTypes = map[TargetType]bool{
	TargetItem: true,
	TargetPage: true,
}

// Target is a polymorphic reference to an item or a page
type Target struct {
	ID   string     `json:"target_id"`
	Type TargetType `json:"target_type"`
}

// Item is a catalog entry. Only its existence matters to the discussion engine.
type Item struct {
	ID    string `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// Page is an authored page. Only its existence matters to the discussion engine.
type Page struct {
	ID    string `json:"id" db:"id"`
	Slug  string `json:"slug" db:"slug"`
	Title string `json:"title" db:"title"`
}
