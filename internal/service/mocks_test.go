package service

import (
	"context"
	"sync"

	"countryvote/internal/domain"
)

type recordedVote struct {
	name  string
	email string
	code  string
}

type fakeLedger struct {
	mu sync.Mutex

	vote     *domain.Vote
	voter    *domain.Voter
	isNew    bool
	err      error
	recorded []recordedVote

	counts   []domain.CountryVoteCount
	countErr error

	codes    []string
	codesErr error
}

func (f *fakeLedger) RecordVote(ctx context.Context, name, email, countryCode string) (*domain.Vote, *domain.Voter, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, recordedVote{name: name, email: email, code: countryCode})
	if f.err != nil {
		return nil, nil, false, f.err
	}
	return f.vote, f.voter, f.isNew, nil
}

func (f *fakeLedger) CountByCountry(ctx context.Context) ([]domain.CountryVoteCount, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts, nil
}

func (f *fakeLedger) DistinctCountryCodes(ctx context.Context) ([]string, error) {
	if f.codesErr != nil {
		return nil, f.codesErr
	}
	return f.codes, nil
}

type fakeGateway struct {
	mu sync.Mutex

	meta       map[string]*domain.CountryMetadata
	cached     map[string]*domain.CountryMetadata
	refreshErr map[string]error

	all    []domain.CountryMetadata
	allErr error

	readManyErr error

	getCalls      []string
	refreshCalls  []string
	readManyCalls [][]string
}

func (f *fakeGateway) Get(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls = append(f.getCalls, code)
	if m, ok := f.meta[code]; ok {
		return m, nil
	}
	return nil, domain.ErrUpstreamUnavailable
}

func (f *fakeGateway) Refresh(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls = append(f.refreshCalls, code)
	if err := f.refreshErr[code]; err != nil {
		return nil, err
	}
	if m, ok := f.meta[code]; ok {
		return m, nil
	}
	return nil, domain.ErrUpstreamUnavailable
}

func (f *fakeGateway) GetAll(ctx context.Context) ([]domain.CountryMetadata, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.all, nil
}

func (f *fakeGateway) ReadMany(ctx context.Context, codes []string) (map[string]*domain.CountryMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readManyCalls = append(f.readManyCalls, codes)
	if f.readManyErr != nil {
		return nil, f.readManyErr
	}
	result := make(map[string]*domain.CountryMetadata, len(codes))
	for _, code := range codes {
		if m, ok := f.cached[code]; ok {
			result[code] = m
		}
	}
	return result, nil
}

func (f *fakeGateway) refreshed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.refreshCalls...)
}

type fakeEnqueuer struct {
	mu      sync.Mutex
	batches [][]string
}

func (f *fakeEnqueuer) Enqueue(codes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, codes)
}

func strptr(s string) *string { return &s }

func metadata(code, name string, region string) *domain.CountryMetadata {
	return &domain.CountryMetadata{
		Code:         code,
		Name:         name,
		OfficialName: name,
		Region:       strptr(region),
	}
}
