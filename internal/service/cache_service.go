package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/mentorhub/mentor-dash-api/pkg/errors"
)

// CacheRepository abstracts redis access for services.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService wraps the cache repository with metrics and logging. A nil
// repository disables caching entirely.
type CacheService struct {
	repo    CacheRepository
	metrics *MetricsService
	logger  *zap.Logger
}

func NewCacheService(repo CacheRepository, metrics *MetricsService, logger *zap.Logger) *CacheService {
	return &CacheService{repo: repo, metrics: metrics, logger: logger}
}

// Enabled reports whether a cache backend is configured.
func (s *CacheService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Get loads a cached value into dest. Returns false on a miss or error so
// callers can fall through to the source of truth.
func (s *CacheService) Get(ctx context.Context, key string, dest any) bool {
	if !s.Enabled() {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	hit := err == nil
	s.metrics.RecordCacheOperation(hit, time.Since(start))
	if err != nil && !errors.Is(err, apperrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return hit
}

// Set stores a value. Failures are logged and swallowed.
func (s *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.Set(ctx, key, value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate removes all keys matching pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) {
	if !s.Enabled() {
		return
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
