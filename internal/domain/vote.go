package domain

import "time"

// Vote represents one cast vote. At most one vote exists per voter,
// enforced by a unique constraint on voter_id at the storage layer.
type Vote struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"voter_id"`
	CountryCode string    `json:"country_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoteRequest represents a vote submission request
type VoteRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CountryCode string `json:"country_code"`
}

// VoteResponse represents the response after a successful vote
type VoteResponse struct {
	Vote  *Vote  `json:"vote"`
	Voter *Voter `json:"voter"`
}

// CountryVoteCount is one row of the per-country vote aggregation.
// Ordering is the caller's responsibility.
type CountryVoteCount struct {
	CountryCode string `json:"country_code"`
	VoteCount   int    `json:"vote_count"`
}
