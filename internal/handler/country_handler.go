package handler

import (
	"net/http"
	"strconv"

	"countryvote/internal/domain"
	"countryvote/internal/service"
	apperrors "countryvote/pkg/errors"
	"countryvote/pkg/logger"
)

type CountryHandler struct {
	gateway     service.CountryGateway
	leaderboard service.LeaderboardQuerier
	logger      *logger.Logger
}

func NewCountryHandler(gateway service.CountryGateway, leaderboard service.LeaderboardQuerier, logger *logger.Logger) *CountryHandler {
	return &CountryHandler{
		gateway:     gateway,
		leaderboard: leaderboard,
		logger:      logger,
	}
}

// topCountryRow flattens a leaderboard entry for the response. Metadata
// fields render as null when the cache had no entry; the row itself is
// always present.
type topCountryRow struct {
	CountryCode string  `json:"country_code"`
	VoteCount   int     `json:"vote_count"`
	Name        *string `json:"name"`
	Official    *string `json:"official"`
	Capital     *string `json:"capital"`
	Region      *string `json:"region"`
	Subregion   *string `json:"subregion"`
}

type topCountriesResponse struct {
	Countries []topCountryRow `json:"countries"`
}

// Top handles GET /api/v1/countries/top
func (h *CountryHandler) Top(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Non-numeric or missing limit falls back to the service default.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	search := r.URL.Query().Get("search")

	entries, err := h.leaderboard.TopCountries(ctx, limit, search)
	if err != nil {
		respondError(w, r, err)
		return
	}

	rows := make([]topCountryRow, 0, len(entries))
	for _, e := range entries {
		row := topCountryRow{
			CountryCode: e.CountryCode,
			VoteCount:   e.VoteCount,
		}
		if e.Metadata != nil {
			name := e.Metadata.Name
			official := e.Metadata.OfficialName
			row.Name = &name
			row.Official = &official
			row.Capital = e.Metadata.Capital
			row.Region = e.Metadata.Region
			row.Subregion = e.Metadata.Subregion
		}
		rows = append(rows, row)
	}

	respondJSON(w, http.StatusOK, topCountriesResponse{Countries: rows})
}

type countryRow struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Official string `json:"official"`
}

type countriesResponse struct {
	Countries []countryRow `json:"countries"`
}

// Index handles GET /api/v1/countries: the full reference list
// passthrough from the gateway.
func (h *CountryHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	list, err := h.gateway.GetAll(ctx)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to fetch country list")
		respondError(w, r, apperrors.NewUpstreamError("country reference source unavailable", err))
		return
	}

	rows := make([]countryRow, 0, len(list))
	for _, meta := range list {
		rows = append(rows, countryRowFrom(meta))
	}

	respondJSON(w, http.StatusOK, countriesResponse{Countries: rows})
}

func countryRowFrom(meta domain.CountryMetadata) countryRow {
	return countryRow{
		Code:     meta.Code,
		Name:     meta.Name,
		Official: meta.OfficialName,
	}
}
