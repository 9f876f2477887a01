package repository

import (
	"context"

	"countryvote/internal/domain"
)

// VoteLedger defines the durable store of vote facts. Its uniqueness
// constraints are the sole source of truth for "has this voter already
// voted" and "is this country new"; both are evaluated under the same
// transaction boundary as the insert.
type VoteLedger interface {
	// RecordVote finds or creates the voter by normalized email and
	// inserts their vote in a single atomic transaction. The returned
	// bool reports whether this vote is the first for its country,
	// decided inside the same transaction. A duplicate voter surfaces
	// as domain.ErrAlreadyVoted.
	RecordVote(ctx context.Context, name, email, countryCode string) (*domain.Vote, *domain.Voter, bool, error)

	// CountByCountry returns the vote count per country, unordered.
	CountByCountry(ctx context.Context) ([]domain.CountryVoteCount, error)

	// DistinctCountryCodes returns every country code with at least one vote.
	DistinctCountryCodes(ctx context.Context) ([]string, error)
}
