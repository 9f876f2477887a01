package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"countryvote/internal/domain"
	"countryvote/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

type VoteRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *VoteRepository {
	return &VoteRepository{db: db}
}

// RecordVote performs the whole write path in one transaction: voter
// find-or-create, vote insert, and the new-country check. Running the
// check inside the transaction prevents two concurrent first-votes for
// the same country from both deciding they were first.
func (r *VoteRepository) RecordVote(ctx context.Context, name, email, countryCode string) (*domain.Vote, *domain.Voter, bool, error) {
	var (
		vote         *domain.Vote
		voter        *domain.Voter
		isNewCountry bool
	)

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		var err error

		voter, err = r.findOrCreateVoter(ctx, tx, name, email)
		if err != nil {
			return err
		}

		vote, err = r.insertVote(ctx, tx, voter.ID, countryCode)
		if err != nil {
			return err
		}

		others, err := r.countOtherVotes(ctx, tx, countryCode, vote.ID)
		if err != nil {
			return err
		}
		isNewCountry = others == 0

		return nil
	})
	if err != nil {
		return nil, nil, false, err
	}

	return vote, voter, isNewCountry, nil
}

// findOrCreateVoter inserts the voter, falling back to a select when the
// email already exists. The insert-first order keeps the operation safe
// under concurrent submissions for the same email; an existing voter's
// name is never overwritten.
func (r *VoteRepository) findOrCreateVoter(ctx context.Context, tx pgx.Tx, name, email string) (*domain.Voter, error) {
	var voter domain.Voter

	insert := `
		INSERT INTO voters (name, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, name, email, created_at
	`
	err := tx.QueryRow(ctx, insert, name, email).Scan(
		&voter.ID,
		&voter.Name,
		&voter.Email,
		&voter.CreatedAt,
	)
	if err == nil {
		return &voter, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to create voter: %w", err)
	}

	// Conflict: the voter already exists, possibly committed by a
	// concurrent transaction an instant ago.
	query := `SELECT id, name, email, created_at FROM voters WHERE email = $1`
	err = tx.QueryRow(ctx, query, email).Scan(
		&voter.ID,
		&voter.Name,
		&voter.Email,
		&voter.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get voter: %w", err)
	}

	return &voter, nil
}

// insertVote inserts the vote record. The unique constraint on voter_id
// is what enforces one vote per voter; a prior read could not close the
// race window.
func (r *VoteRepository) insertVote(ctx context.Context, tx pgx.Tx, voterID, countryCode string) (*domain.Vote, error) {
	vote := domain.Vote{
		VoterID:     voterID,
		CountryCode: countryCode,
	}

	query := `
		INSERT INTO votes (voter_id, country_code)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := tx.QueryRow(ctx, query, voterID, countryCode).Scan(&vote.ID, &vote.CreatedAt)
	if err != nil {
		if classified := classifyUniqueViolation(err); classified != nil {
			return nil, classified
		}
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	return &vote, nil
}

// countOtherVotes counts votes for the country excluding the given vote,
// inside the caller's transaction.
func (r *VoteRepository) countOtherVotes(ctx context.Context, tx pgx.Tx, countryCode, excludeVoteID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM votes WHERE country_code = $1 AND id <> $2`
	if err := tx.QueryRow(ctx, query, countryCode, excludeVoteID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count votes for country: %w", err)
	}
	return count, nil
}

// CountByCountry returns the full per-country aggregation, unordered.
func (r *VoteRepository) CountByCountry(ctx context.Context) ([]domain.CountryVoteCount, error) {
	query := `
		SELECT country_code, COUNT(*) AS vote_count
		FROM votes
		GROUP BY country_code
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes by country: %w", err)
	}
	defer rows.Close()

	var counts []domain.CountryVoteCount
	for rows.Next() {
		var c domain.CountryVoteCount
		if err := rows.Scan(&c.CountryCode, &c.VoteCount); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vote counts: %w", err)
	}

	return counts, nil
}

// DistinctCountryCodes returns every country code with at least one vote.
func (r *VoteRepository) DistinctCountryCodes(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT country_code FROM votes`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list voted countries: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan country code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read country codes: %w", err)
	}

	return codes, nil
}

// classifyUniqueViolation maps a Postgres unique violation on the
// votes.voter_id constraint to domain.ErrAlreadyVoted. Other storage
// errors stay unclassified and surface generically.
func classifyUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "voter_id") {
			return domain.ErrAlreadyVoted
		}
	}
	return nil
}
