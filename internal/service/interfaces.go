package service

import (
	"context"

	"countryvote/internal/domain"
)

// CountryGateway defines the cached country metadata operations
type CountryGateway interface {
	// Get returns cached metadata for a code, fetching from the
	// reference source on a miss. Fetch failure surfaces as
	// domain.ErrUpstreamUnavailable.
	Get(ctx context.Context, code string) (*domain.CountryMetadata, error)

	// Refresh fetches and stores metadata for a code, bypassing a
	// still-valid cache entry.
	Refresh(ctx context.Context, code string) (*domain.CountryMetadata, error)

	// GetAll returns the full reference list, cached under its own key.
	GetAll(ctx context.Context) ([]domain.CountryMetadata, error)

	// ReadMany is a pure cache read for a set of codes. Codes without a
	// cached entry are omitted from the result, never an error.
	ReadMany(ctx context.Context, codes []string) (map[string]*domain.CountryMetadata, error)
}

// VoteCaster defines the single entry point for casting a vote
type VoteCaster interface {
	CastVote(ctx context.Context, req *domain.VoteRequest) (*domain.VoteResponse, error)
}

// LeaderboardQuerier defines the ranked leaderboard query
type LeaderboardQuerier interface {
	TopCountries(ctx context.Context, limit int, search string) ([]domain.LeaderboardEntry, error)
}

// RefreshEnqueuer accepts country codes for asynchronous metadata
// refresh, decoupled from the submitting request.
type RefreshEnqueuer interface {
	Enqueue(codes []string)
}
