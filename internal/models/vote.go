package models

import (
	"time"
)

// SubjectType is the kind of content a vote is cast on
type SubjectType string

const (
	SubjectComment SubjectType = "comment"
	SubjectReview  SubjectType = "review"
)

// Direction is the direction of a vote
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ValidDirections defines allowed vote directions
var ValidDirections = map[Direction]bool{
	DirectionUp:   true,
	DirectionDown: true,
}

// Vote is one ledger row: the current direction of a voter on a subject
type Vote struct {
	VoterID     string      `json:"voter_id" db:"voter_id"`
	SubjectID   string      `json:"subject_id" db:"subject_id"`
	SubjectType SubjectType `json:"subject_type" db:"subject_type"`
	Direction   Direction   `json:"direction" db:"direction"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// VoteResult is returned after a vote call
type VoteResult struct {
	SubjectID   string      `json:"subject_id"`
	SubjectType SubjectType `json:"subject_type"`
	Upvotes     int         `json:"upvotes"`
	Downvotes   int         `json:"downvotes"`
	Direction   Direction   `json:"direction"`
	Changed     bool        `json:"changed"`
}

// VoteAudit compares the stored counters of a subject with its vote ledger
type VoteAudit struct {
	SubjectID       string      `json:"subject_id"`
	SubjectType     SubjectType `json:"subject_type"`
	Upvotes         int         `json:"upvotes"`
	Downvotes       int         `json:"downvotes"`
	LedgerUpvotes   int         `json:"ledger_upvotes"`
	LedgerDownvotes int         `json:"ledger_downvotes"`
	Repaired        bool        `json:"repaired"`
}

// Consistent reports whether the stored counters match the ledger
func (a *VoteAudit) Consistent() bool {
	return a.Upvotes == a.LedgerUpvotes && a.Downvotes == a.LedgerDownvotes
}

// CounterDelta returns the upvote and downvote adjustments for moving from prev to next.
// prev is empty when the voter had no vote yet.
func CounterDelta(prev, next Direction) (up, down int) {
	if prev == next {
		return 0, 0
	}
	switch prev {
	case DirectionUp:
		up--
	case DirectionDown:
		down--
	}
	switch next {
	case DirectionUp:
		up++
	case DirectionDown:
		down++
	}
	return up, down
}
