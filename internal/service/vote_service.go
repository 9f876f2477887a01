package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"countryvote/internal/domain"
	"countryvote/internal/repository"
	apperrors "countryvote/pkg/errors"
	"countryvote/pkg/logger"
	"countryvote/pkg/redis"

	"go.uber.org/zap"
)

// VoteService is the single entry point for casting a vote. It owns the
// translation boundary of the write path: every failure leaving CastVote
// is a validation, conflict or internal AppError, never a raw storage or
// network error.
type VoteService struct {
	ledger    repository.VoteLedger
	gateway   CountryGateway
	refresher RefreshEnqueuer
	redis     *redis.Client
	logger    *logger.Logger
}

// NewVoteService creates a new vote recording service
func NewVoteService(ledger repository.VoteLedger, gateway CountryGateway, refresher RefreshEnqueuer, redisClient *redis.Client, logger *logger.Logger) *VoteService {
	return &VoteService{
		ledger:    ledger,
		gateway:   gateway,
		refresher: refresher,
		redis:     redisClient,
		logger:    logger,
	}
}

// CastVote validates the submission, records the vote atomically and,
// when the country is new, triggers an asynchronous metadata refresh.
// A resubmission with the same email always yields a conflict, never a
// second vote, so callers may resubmit idempotently.
func (s *VoteService) CastVote(ctx context.Context, req *domain.VoteRequest) (*domain.VoteResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("email is invalid", nil)
	}

	code := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	if code == "" {
		return nil, apperrors.NewValidationError("country code is required", nil)
	}

	// Pre-check against the reference source, outside the write
	// transaction. A single failed attempt rejects the vote; validation
	// is never retried against a flaky upstream.
	if _, err := s.gateway.Get(ctx, code); err != nil {
		s.logger.Logger.Warn("Country code validation failed",
			zap.String("country_code", code),
			zap.Error(err))
		return nil, apperrors.NewValidationError("invalid country code: "+code, nil)
	}

	vote, voter, isNewCountry, err := s.ledger.RecordVote(ctx, name, email, code)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			return nil, apperrors.NewConflictError("voter has already voted")
		}
		s.logger.Logger.Error("Failed to record vote",
			zap.String("country_code", code),
			zap.Error(err))
		return nil, apperrors.NewInternalError("failed to record vote", err)
	}

	// Post-commit side effects. Neither is required for correctness of
	// the write, so failures here never fail the vote.
	if isNewCountry {
		s.refresher.Enqueue([]string{code})
		s.markCountryHasVotes(ctx, code)
	}

	s.logger.Logger.Info("Vote recorded",
		zap.String("vote_id", vote.ID),
		zap.String("country_code", code),
		zap.Bool("new_country", isNewCountry))

	return &domain.VoteResponse{Vote: vote, Voter: voter}, nil
}

// markCountryHasVotes sets the short-lived advisory has-votes flag.
func (s *VoteService) markCountryHasVotes(ctx context.Context, code string) {
	if s.redis == nil {
		return
	}
	key := s.redis.KeyBuilder.KeyHasVotes(code)
	if err := s.redis.Set(ctx, key, "1", redis.TTLHasVotes); err != nil {
		s.logger.Logger.Warn("Failed to set has-votes flag",
			zap.String("country_code", code),
			zap.Error(err))
	}
}
