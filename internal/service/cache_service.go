package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"promo-api/internal/domain"
	"promo-api/pkg/redis"
)

// CacheService fronts the Redis cache for the hot read paths. Every method
// degrades gracefully: a cache failure is logged and treated as a miss so the
// ledger remains the source of truth.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// ReceiptSeen reports whether the receipt number is cached as present in the
// ledger. A miss only means the cache doesn't know.
func (c *CacheService) ReceiptSeen(ctx context.Context, receiptNumber string) bool {
	key := c.redis.KeyBuilder.KeyReceiptSeen(receiptNumber)

	n, err := c.redis.Exists(ctx, key)
	if err != nil {
		c.logger.Warn("receipt cache check failed", zap.Error(err))
		return false
	}
	return n > 0
}

// MarkReceiptSeen records that the receipt number exists in the ledger
func (c *CacheService) MarkReceiptSeen(ctx context.Context, receiptNumber string) {
	key := c.redis.KeyBuilder.KeyReceiptSeen(receiptNumber)

	if err := c.redis.Set(ctx, key, "1", redis.TTLReceiptSeen); err != nil {
		c.logger.Warn("receipt cache write failed", zap.Error(err))
	}
}

// AcquireSubmitLock takes the short-lived in-flight guard for a receipt
// number. Returns false when another submission for the same receipt is
// already in flight. Cache failures allow the submission through; the ledger
// still enforces uniqueness.
func (c *CacheService) AcquireSubmitLock(ctx context.Context, receiptNumber string) bool {
	key := c.redis.KeyBuilder.KeyIdempotency(receiptNumber)

	ok, err := c.redis.SetNX(ctx, key, "1", redis.TTLIdempotency)
	if err != nil {
		c.logger.Warn("submit lock acquire failed", zap.Error(err))
		return true
	}
	return ok
}

// ReleaseSubmitLock frees the in-flight guard early so a failed submission
// can be retried without waiting out the TTL.
func (c *CacheService) ReleaseSubmitLock(ctx context.Context, receiptNumber string) {
	key := c.redis.KeyBuilder.KeyIdempotency(receiptNumber)

	if err := c.redis.Delete(ctx, key); err != nil {
		c.logger.Warn("submit lock release failed", zap.Error(err))
	}
}

// GetWinners returns the cached winners projection, or nil on a miss
func (c *CacheService) GetWinners(ctx context.Context) []*domain.Winner {
	key := c.redis.KeyBuilder.KeyWinnerList()

	raw, err := c.redis.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}

	var winners []*domain.Winner
	if err := json.Unmarshal([]byte(raw), &winners); err != nil {
		c.logger.Warn("winners cache corrupted, treating as miss", zap.Error(err))
		return nil
	}
	return winners
}

// SetWinners caches the winners projection
func (c *CacheService) SetWinners(ctx context.Context, winners []*domain.Winner) {
	data, err := json.Marshal(winners)
	if err != nil {
		return
	}

	key := c.redis.KeyBuilder.KeyWinnerList()
	if err := c.redis.Set(ctx, key, string(data), redis.TTLWinnerList); err != nil {
		c.logger.Warn("winners cache write failed", zap.Error(err))
	}
}

// InvalidateWinners drops the winners projection after an admin edit
func (c *CacheService) InvalidateWinners(ctx context.Context) {
	key := c.redis.KeyBuilder.KeyWinnerList()
	if err := c.redis.Delete(ctx, key); err != nil {
		c.logger.Warn("winners cache invalidation failed", zap.Error(err))
	}
}
