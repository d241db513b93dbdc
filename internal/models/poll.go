package models

import "time"

// PollRecord accumulates safe/unsafe votes for one location
type PollRecord struct {
	ID          string    `json:"id"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	CellToken   string    `json:"-"`
	IsSafe      bool      `json:"is_safe"` // latest submission
	Comment     string    `json:"comment"`
	UnsafeVotes int       `json:"unsafe_votes"`
	SafeVotes   int       `json:"safe_votes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TotalVotes returns unsafe + safe votes
func (p *PollRecord) TotalVotes() int {
	return p.UnsafeVotes + p.SafeVotes
}

// PollSubmission is the request body of POST /api/safety-poll.
// Pointer fields distinguish "absent" from zero values.
type PollSubmission struct {
	Location  *string  `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	IsSafe    *bool    `json:"is_safe"`
	Comment   string   `json:"comment"`
}
