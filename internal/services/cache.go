package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hackquest/agent-api/internal/models"
)

// CacheService caches the latest completed run result per user and carries
// per-user pub/sub channels for agent progress and notifications. Redis being
// down degrades to cache misses; it never fails a request.
type CacheService interface {
	GetResult(ctx context.Context, userID string) (*models.AgentRunResult, bool)
	SetResult(ctx context.Context, userID string, result *models.AgentRunResult)
	InvalidateResult(ctx context.Context, userID string)
	PublishAgentUpdate(ctx context.Context, userID string, update any)
	PublishNotification(ctx context.Context, userID string, message any)
	SubscribeNotifications(ctx context.Context, userID string) *redis.PubSub
	Ping(ctx context.Context) error
}

type cacheService struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCacheService(addr, password string, db int, ttl time.Duration, logger *zap.Logger) CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &cacheService{rdb: rdb, ttl: ttl, logger: logger}
}

func resultKey(userID string) string {
	return fmt.Sprintf("agent:result:%s", userID)
}

func agentChannel(userID string) string {
	return fmt.Sprintf("agent:%s:updates", userID)
}

func notificationChannel(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

// GetResult implements CacheService.
func (c *cacheService) GetResult(ctx context.Context, userID string) (*models.AgentRunResult, bool) {
	data, err := c.rdb.Get(ctx, resultKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, false
	}

	var result models.AgentRunResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Warn("cache entry is malformed, dropping", zap.String("user_id", userID), zap.Error(err))
		c.InvalidateResult(ctx, userID)
		return nil, false
	}

	return &result, true
}

// SetResult implements CacheService.
func (c *cacheService) SetResult(ctx context.Context, userID string, result *models.AgentRunResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, resultKey(userID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// InvalidateResult implements CacheService.
func (c *cacheService) InvalidateResult(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, resultKey(userID)).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// PublishAgentUpdate implements CacheService.
func (c *cacheService) PublishAgentUpdate(ctx context.Context, userID string, update any) {
	c.publish(ctx, agentChannel(userID), update)
}

// PublishNotification implements CacheService.
func (c *cacheService) PublishNotification(ctx context.Context, userID string, message any) {
	c.publish(ctx, notificationChannel(userID), message)
}

// SubscribeNotifications implements CacheService. The caller owns the
// returned subscription and must close it.
func (c *cacheService) SubscribeNotifications(ctx context.Context, userID string) *redis.PubSub {
	return c.rdb.Subscribe(ctx, notificationChannel(userID))
}

// Ping implements CacheService.
func (c *cacheService) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *cacheService) publish(ctx context.Context, channel string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Warn("publish marshal failed", zap.String("channel", channel), zap.Error(err))
		return
	}
	if err := c.rdb.Publish(ctx, channel, data).Err(); err != nil {
		c.logger.Warn("publish failed", zap.String("channel", channel), zap.Error(err))
	}
}
