package domain

import "time"

// Voter represents a unique participant, identified by normalized email.
// A voter is created on their first vote and never updated afterwards.
type Voter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
