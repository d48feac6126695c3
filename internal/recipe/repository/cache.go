package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/pkg/logger"
)

// Cache keys for reference data
const (
	tagsCacheKey        = "foodgram:tags"
	ingredientsCacheKey = "foodgram:ingredients"
)

// CachedReferenceRepository serves tags and ingredients from Redis.
// Every other call goes straight to the wrapped repository.
type CachedReferenceRepository struct {
	domain.Repository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedReferenceRepository wraps next with a Redis cache. A nil client disables caching.
func NewCachedReferenceRepository(next domain.Repository, redisClient *redis.Client, ttl time.Duration) *CachedReferenceRepository {
	return &CachedReferenceRepository{
		Repository: next,
		redis:      redisClient,
		ttl:        ttl,
	}
}

// ListTags returns cached tags, loading them on a miss
func (r *CachedReferenceRepository) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if r.load(ctx, tagsCacheKey, &tags) {
		return tags, nil
	}

	tags, err := r.Repository.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, tagsCacheKey, tags)
	return tags, nil
}

// ListIngredients returns cached ingredients, loading them on a miss
func (r *CachedReferenceRepository) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	var ingredients []domain.Ingredient
	if r.load(ctx, ingredientsCacheKey, &ingredients) {
		return ingredients, nil
	}

	ingredients, err := r.Repository.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, ingredientsCacheKey, ingredients)
	return ingredients, nil
}

// Invalidate drops cached reference data, e.g. after a bulk import
func (r *CachedReferenceRepository) Invalidate(ctx context.Context) error {
	return InvalidateReferenceCache(ctx, r.redis)
}

// InvalidateReferenceCache removes the cached tags and ingredients
func InvalidateReferenceCache(ctx context.Context, redisClient *redis.Client) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Del(ctx, tagsCacheKey, ingredientsCacheKey).Err()
}

func (r *CachedReferenceRepository) load(ctx context.Context, key string, dest interface{}) bool {
	if r.redis == nil {
		return false
	}

	cached, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Cache entry is corrupted")
		return false
	}

	logger.Logger.Debug().Str("cache_key", key).Msg("Cache hit")
	return true
}

func (r *CachedReferenceRepository) store(ctx context.Context, key string, value interface{}) {
	if r.redis == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("cache_key", key).Msg("Failed to cache reference data")
		return
	}

	logger.Logger.Debug().
		Str("cache_key", key).
		Dur("ttl", r.ttl).
		Int("size", len(payload)).
		Msg("Reference data cached")
}
