package service

import (
	"context"
	"sort"
	"strings"

	"countryvote/internal/domain"
	"countryvote/internal/repository"
	apperrors "countryvote/pkg/errors"
	"countryvote/pkg/logger"

	"go.uber.org/zap"
)

// DefaultLeaderboardLimit is used when the caller passes a non-positive limit
const DefaultLeaderboardLimit = 10

// LeaderboardService aggregates vote counts and joins them against the
// metadata cache. Metadata is optional decoration on the unfiltered
// path; on the search path it is the filter itself, read in one batch
// from the cache only.
type LeaderboardService struct {
	ledger  repository.VoteLedger
	gateway CountryGateway
	logger  *logger.Logger
}

// NewLeaderboardService creates a new leaderboard query service
func NewLeaderboardService(ledger repository.VoteLedger, gateway CountryGateway, logger *logger.Logger) *LeaderboardService {
	return &LeaderboardService{
		ledger:  ledger,
		gateway: gateway,
		logger:  logger,
	}
}

// TopCountries returns up to limit countries ranked by vote count
// descending. An empty or whitespace-only search term means no filter.
func (s *LeaderboardService) TopCountries(ctx context.Context, limit int, search string) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	counts, err := s.ledger.CountByCountry(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to aggregate votes", err)
	}

	// Stable sort: ties keep the ledger's iteration order within this
	// invocation.
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].VoteCount > counts[j].VoteCount
	})

	if term := strings.TrimSpace(search); term != "" {
		return s.topWithSearch(ctx, counts, term, limit)
	}
	return s.topWithoutSearch(ctx, counts, limit)
}

// topWithoutSearch truncates first, then decorates each row with
// metadata. A miss or upstream failure leaves the row in place with
// absent metadata; it is never dropped.
func (s *LeaderboardService) topWithoutSearch(ctx context.Context, counts []domain.CountryVoteCount, limit int) ([]domain.LeaderboardEntry, error) {
	if len(counts) > limit {
		counts = counts[:limit]
	}

	entries := make([]domain.LeaderboardEntry, 0, len(counts))
	for _, c := range counts {
		meta, err := s.gateway.Get(ctx, c.CountryCode)
		if err != nil {
			s.logger.Logger.Debug("Metadata unavailable for leaderboard row",
				zap.String("country_code", c.CountryCode),
				zap.Error(err))
			meta = nil
		}
		entries = append(entries, domain.LeaderboardEntry{
			CountryCode: c.CountryCode,
			VoteCount:   c.VoteCount,
			Metadata:    meta,
		})
	}

	return entries, nil
}

// topWithSearch examines every candidate before truncating: the filter
// depends on metadata, so cutting to limit first could exclude matches
// that rank in the top N. Metadata comes from one batch cache read;
// a country without a cached entry can never match.
func (s *LeaderboardService) topWithSearch(ctx context.Context, counts []domain.CountryVoteCount, term string, limit int) ([]domain.LeaderboardEntry, error) {
	codes := make([]string, len(counts))
	for i, c := range counts {
		codes[i] = c.CountryCode
	}

	metadata, err := s.gateway.ReadMany(ctx, codes)
	if err != nil {
		s.logger.Logger.Warn("Batch metadata read failed, search will match nothing",
			zap.Error(err))
		metadata = map[string]*domain.CountryMetadata{}
	}

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for _, c := range counts {
		meta := metadata[c.CountryCode]
		if !matchesSearch(meta, term) {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			CountryCode: c.CountryCode,
			VoteCount:   c.VoteCount,
			Metadata:    meta,
		})
		if len(entries) == limit {
			break
		}
	}

	return entries, nil
}

// matchesSearch reports whether the term occurs, case-insensitively, in
// any of the metadata's name, capital, region or subregion.
func matchesSearch(meta *domain.CountryMetadata, term string) bool {
	if meta == nil {
		return false
	}

	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(meta.Name), term) {
		return true
	}
	for _, field := range []*string{meta.Capital, meta.Region, meta.Subregion} {
		if field != nil && strings.Contains(strings.ToLower(*field), term) {
			return true
		}
	}
	return false
}
