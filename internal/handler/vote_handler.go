package handler

import (
	"encoding/json"
	"net/http"

	"countryvote/internal/domain"
	"countryvote/internal/service"
	apperrors "countryvote/pkg/errors"
	"countryvote/pkg/logger"
)

type VoteHandler struct {
	votes  service.VoteCaster
	logger *logger.Logger
}

func NewVoteHandler(votes service.VoteCaster, logger *logger.Logger) *VoteHandler {
	return &VoteHandler{
		votes:  votes,
		logger: logger,
	}
}

// Create handles POST /api/v1/votes
func (h *VoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	response, err := h.votes.CastVote(ctx, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}
