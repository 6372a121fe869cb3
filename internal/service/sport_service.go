package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matchpoint-id/sports-reg-api/internal/models"
	appErrors "github.com/matchpoint-id/sports-reg-api/pkg/errors"
)

const (
	cacheKeySports        = "reference:sports"
	cacheKeyAgeCategories = "reference:age_categories"
)

type sportLister interface {
	List(ctx context.Context) ([]models.SportDetail, error)
}

type ageCategoryLister interface {
	List(ctx context.Context) ([]models.AgeCategory, error)
}

// SportService serves the reference data that upload templates are built
// against. Listings are cached in Redis because they change rarely and every
// bulk upload reads them.
type SportService struct {
	sports     sportLister
	categories ageCategoryLister
	cache      *redis.Client
	cacheTTL   time.Duration
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewSportService constructs the sport service. cache may be nil, in which
// case every call hits the database.
func NewSportService(sports sportLister, categories ageCategoryLister, cache *redis.Client, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *SportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &SportService{
		sports:     sports,
		categories: categories,
		cache:      cache,
		cacheTTL:   cacheTTL,
		metrics:    metrics,
		logger:     logger,
	}
}

// ListSports returns visible sports with their distances and sub-types.
func (s *SportService) ListSports(ctx context.Context) ([]models.SportDetail, error) {
	var cached []models.SportDetail
	if ok := s.cacheGet(ctx, cacheKeySports, &cached); ok {
		return cached, nil
	}
	sports, err := s.sports.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sports")
	}
	s.cacheSet(ctx, cacheKeySports, sports)
	return sports, nil
}

// ListAgeCategories returns the configured age bands in selection order.
func (s *SportService) ListAgeCategories(ctx context.Context) ([]models.AgeCategory, error) {
	var cached []models.AgeCategory
	if ok := s.cacheGet(ctx, cacheKeyAgeCategories, &cached); ok {
		return cached, nil
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list age categories")
	}
	s.cacheSet(ctx, cacheKeyAgeCategories, categories)
	return categories, nil
}

func (s *SportService) cacheGet(ctx context.Context, key string, out any) bool {
	if s.cache == nil {
		return false
	}
	payload, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("reference cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.recordCache("miss")
		return false
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		s.logger.Warn("reference cache payload corrupt", zap.String("key", key), zap.Error(err))
		s.recordCache("miss")
		return false
	}
	s.recordCache("hit")
	return true
}

func (s *SportService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("reference cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *SportService) recordCache(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(outcome)
	}
}
