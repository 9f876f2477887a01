package service

import (
	"context"
	"encoding/json"
	"fmt"

	"countryvote/internal/domain"
	"countryvote/pkg/logger"
	"countryvote/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// referenceClient is the upstream capability the gateway wraps
type referenceClient interface {
	FetchByCode(ctx context.Context, code string) (*domain.CountryMetadata, error)
	FetchAll(ctx context.Context) ([]domain.CountryMetadata, error)
}

// CountryService is the metadata cache gateway: a cache-aside layer over
// Redis in front of the country reference source. Entries are immutable
// once written until their TTL elapses; expiry is decided by the store
// at read time, so concurrent cache-population races are benign
// idempotent overwrites and no locking is needed.
type CountryService struct {
	client referenceClient
	redis  *redis.Client
	logger *logger.Logger
}

// NewCountryService creates a new country metadata gateway
func NewCountryService(client referenceClient, redisClient *redis.Client, logger *logger.Logger) *CountryService {
	return &CountryService{
		client: client,
		redis:  redisClient,
		logger: logger,
	}
}

// Get returns cached metadata for a code, fetching from the reference
// source on a miss or a corrupted entry.
func (s *CountryService) Get(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	cacheKey := s.redis.KeyBuilder.KeyCountry(code)

	cached, err := s.redis.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var meta domain.CountryMetadata
		if unmarshalErr := json.Unmarshal([]byte(cached), &meta); unmarshalErr == nil {
			s.logger.Logger.Debug("Country cache hit", zap.String("code", code))
			return &meta, nil
		}
		s.logger.Logger.Warn("Country cache corrupted, falling back to upstream",
			zap.String("code", code))
	} else if err != nil && err != goredis.Nil {
		s.logger.Logger.Warn("Country cache error, falling back to upstream",
			zap.String("code", code),
			zap.Error(err))
	}

	s.logger.Logger.Debug("Country cache miss", zap.String("code", code))
	return s.Refresh(ctx, code)
}

// Refresh fetches metadata from the reference source and stores it with
// a fresh TTL, bypassing any still-valid entry.
func (s *CountryService) Refresh(ctx context.Context, code string) (*domain.CountryMetadata, error) {
	meta, err := s.client.FetchByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch country %s: %w", code, err)
	}

	s.cacheCountry(ctx, code, meta)
	return meta, nil
}

// GetAll returns the full reference list, cached under its own key with
// the same TTL, independent of any per-code entries.
func (s *CountryService) GetAll(ctx context.Context) ([]domain.CountryMetadata, error) {
	cacheKey := s.redis.KeyBuilder.KeyCountriesAll()

	cached, err := s.redis.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var list []domain.CountryMetadata
		if unmarshalErr := json.Unmarshal([]byte(cached), &list); unmarshalErr == nil {
			s.logger.Logger.Debug("Country list cache hit", zap.Int("count", len(list)))
			return list, nil
		}
		s.logger.Logger.Warn("Country list cache corrupted, falling back to upstream")
	} else if err != nil && err != goredis.Nil {
		s.logger.Logger.Warn("Country list cache error, falling back to upstream",
			zap.Error(err))
	}

	list, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}

	if data, marshalErr := json.Marshal(list); marshalErr == nil {
		if setErr := s.redis.Set(ctx, cacheKey, string(data), redis.TTLCountriesAll); setErr != nil {
			s.logger.Logger.Warn("Failed to cache country list", zap.Error(setErr))
		}
	}

	return list, nil
}

// ReadMany reads cached metadata for a set of codes in one round trip.
// Codes that are absent, expired or corrupt are simply omitted; there is
// no upstream fallback on this path.
func (s *CountryService) ReadMany(ctx context.Context, codes []string) (map[string]*domain.CountryMetadata, error) {
	result := make(map[string]*domain.CountryMetadata, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = s.redis.KeyBuilder.KeyCountry(code)
	}

	vals, err := s.redis.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-read country cache: %w", err)
	}

	for i, val := range vals {
		raw, ok := val.(string)
		if !ok || raw == "" {
			continue
		}
		var meta domain.CountryMetadata
		if unmarshalErr := json.Unmarshal([]byte(raw), &meta); unmarshalErr != nil {
			s.logger.Logger.Warn("Skipping corrupted country cache entry",
				zap.String("code", codes[i]))
			continue
		}
		result[codes[i]] = &meta
	}

	return result, nil
}

// cacheCountry stores one metadata snapshot. Caching failure is logged
// and swallowed: the caller already has the data.
func (s *CountryService) cacheCountry(ctx context.Context, code string, meta *domain.CountryMetadata) {
	data, err := json.Marshal(meta)
	if err != nil {
		s.logger.Logger.Error("Failed to marshal country for caching",
			zap.String("code", code),
			zap.Error(err))
		return
	}

	cacheKey := s.redis.KeyBuilder.KeyCountry(code)
	if err := s.redis.Set(ctx, cacheKey, string(data), redis.TTLCountry); err != nil {
		s.logger.Logger.Warn("Failed to cache country",
			zap.String("code", code),
			zap.Error(err))
	}
}
