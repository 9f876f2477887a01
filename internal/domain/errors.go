package domain

import "errors"

var (
	// ErrAlreadyVoted is returned when a voter already has a recorded vote.
	ErrAlreadyVoted = errors.New("voter has already voted")

	// ErrUpstreamUnavailable is returned when the country reference source
	// cannot be reached or answers with a non-success status. Callers must
	// treat it as "country code could not be validated"; "not found" and
	// network failures are deliberately not distinguished.
	ErrUpstreamUnavailable = errors.New("country reference source unavailable")
)
