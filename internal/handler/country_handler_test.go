package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"countryvote/internal/domain"
	apperrors "countryvote/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaderboard struct {
	entries   []domain.LeaderboardEntry
	err       error
	gotLimit  int
	gotSearch string
}

func (f *fakeLeaderboard) TopCountries(ctx context.Context, limit int, search string) ([]domain.LeaderboardEntry, error) {
	f.gotLimit = limit
	f.gotSearch = search
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

type fakeCountryGateway struct {
	all    []domain.CountryMetadata
	allErr error
}

func (f *fakeCountryGateway) Get(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	return nil, domain.ErrUpstreamUnavailable
}

func (f *fakeCountryGateway) Refresh(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	return nil, domain.ErrUpstreamUnavailable
}

func (f *fakeCountryGateway) GetAll(ctx context.Context) ([]domain.CountryMetadata, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.all, nil
}

func (f *fakeCountryGateway) ReadMany(ctx context.Context, codes []string) (map[string]*domain.CountryMetadata, error) {
	return map[string]*domain.CountryMetadata{}, nil
}

func strptr(s string) *string { return &s }

func TestCountriesTop_RendersRows(t *testing.T) {
	leaderboard := &fakeLeaderboard{entries: []domain.LeaderboardEntry{
		{
			CountryCode: "MEX",
			VoteCount:   7,
			Metadata: &domain.CountryMetadata{
				Code:         "MEX",
				Name:         "Mexico",
				OfficialName: "United Mexican States",
				Capital:      strptr("Mexico City"),
				Region:       strptr("Americas"),
			},
		},
		{CountryCode: "XXX", VoteCount: 2, Metadata: nil},
	}}
	h := NewCountryHandler(&fakeCountryGateway{}, leaderboard, testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/top?limit=5&search=americas", nil)
	rec := httptest.NewRecorder()

	h.Top(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, leaderboard.gotLimit)
	assert.Equal(t, "americas", leaderboard.gotSearch)

	var resp struct {
		Countries []map[string]interface{} `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Countries, 2)

	first := resp.Countries[0]
	assert.Equal(t, "MEX", first["country_code"])
	assert.Equal(t, float64(7), first["vote_count"])
	assert.Equal(t, "Mexico", first["name"])
	assert.Equal(t, "Mexico City", first["capital"])
	assert.Nil(t, first["subregion"], "absent metadata fields render as null")

	second := resp.Countries[1]
	assert.Equal(t, "XXX", second["country_code"])
	assert.Nil(t, second["name"], "an undecorated row still appears with null fields")
}

func TestCountriesTop_LimitParsing(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLimit int
	}{
		{"missing limit passes zero through", "", 0},
		{"non-numeric limit passes zero through", "?limit=abc", 0},
		{"numeric limit", "?limit=25", 25},
		{"negative limit", "?limit=-3", -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaderboard := &fakeLeaderboard{}
			h := NewCountryHandler(&fakeCountryGateway{}, leaderboard, testLogger(t))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/top"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.Top(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantLimit, leaderboard.gotLimit,
				"defaulting is the service's decision, not the handler's")
		})
	}
}

func TestCountriesTop_EmptyLeaderboard(t *testing.T) {
	h := NewCountryHandler(&fakeCountryGateway{}, &fakeLeaderboard{}, testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/top", nil)
	rec := httptest.NewRecorder()

	h.Top(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"countries": []}`, rec.Body.String(), "empty result is an empty list, not null")
}

func TestCountriesTop_ServiceError(t *testing.T) {
	leaderboard := &fakeLeaderboard{err: apperrors.NewInternalError("failed to aggregate votes", errors.New("boom"))}
	h := NewCountryHandler(&fakeCountryGateway{}, leaderboard, testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries/top", nil)
	rec := httptest.NewRecorder()

	h.Top(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeErrorEnvelope(t, rec.Body.String())
	assert.Equal(t, apperrors.ErrorTypeInternal, envelope.Error.Type)
}

func TestCountriesIndex_Success(t *testing.T) {
	gateway := &fakeCountryGateway{all: []domain.CountryMetadata{
		{Code: "USA", Name: "United States", OfficialName: "United States of America"},
		{Code: "CAN", Name: "Canada", OfficialName: "Canada"},
	}}
	h := NewCountryHandler(gateway, &fakeLeaderboard{}, testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil)
	rec := httptest.NewRecorder()

	h.Index(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Countries []struct {
			Code     string `json:"code"`
			Name     string `json:"name"`
			Official string `json:"official"`
		} `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Countries, 2)
	assert.Equal(t, "USA", resp.Countries[0].Code)
	assert.Equal(t, "United States of America", resp.Countries[0].Official)
}

func TestCountriesIndex_UpstreamFailure(t *testing.T) {
	gateway := &fakeCountryGateway{allErr: domain.ErrUpstreamUnavailable}
	h := NewCountryHandler(gateway, &fakeLeaderboard{}, testLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/countries", nil)
	rec := httptest.NewRecorder()

	h.Index(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	envelope := decodeErrorEnvelope(t, rec.Body.String())
	assert.Equal(t, apperrors.ErrorTypeUpstream, envelope.Error.Type)
}
