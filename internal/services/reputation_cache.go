package services

import (
  "context"
  "encoding/json"
  "time"

  "github.com/google/uuid"
  "github.com/redis/go-redis/v9"

  "github.com/devmatch/devmatch-backend/internal/logger"
  "github.com/devmatch/devmatch-backend/internal/types"
)

// ReputationCache fronts reputation reads. All implementations are best
// effort: a miss or a cache failure always falls through to the store.
type ReputationCache interface {
  Get(ctx context.Context, userID uuid.UUID) (*types.UserReputation, bool)
  Set(ctx context.Context, userID uuid.UUID, rep *types.UserReputation)
  Invalidate(ctx context.Context, userID uuid.UUID)
}

type redisReputationCache struct {
  client *redis.Client
  ttl    time.Duration
  log    *logger.Logger
}

// NewRedisReputationCache returns a redis-backed cache, or a no-op cache when
// client is nil so the engine runs without redis.
func NewRedisReputationCache(client *redis.Client, ttl time.Duration, baseLog *logger.Logger) ReputationCache {
  if client == nil {
    return noopReputationCache{}
  }
  return &redisReputationCache{
    client: client,
    ttl:    ttl,
    log:    baseLog.With("service", "ReputationCache"),
  }
}

func reputationKey(userID uuid.UUID) string {
  return "reputation:" + userID.String()
}

func (c *redisReputationCache) Get(ctx context.Context, userID uuid.UUID) (*types.UserReputation, bool) {
  raw, err := c.client.Get(ctx, reputationKey(userID)).Bytes()
  if err != nil {
    if err != redis.Nil {
      c.log.Debug("Cache get failed", "error", err, "user_id", userID)
    }
    return nil, false
  }
  var rep types.UserReputation
  if err := json.Unmarshal(raw, &rep); err != nil {
    c.log.Warn("Cache entry corrupt, dropping", "error", err, "user_id", userID)
    c.Invalidate(ctx, userID)
    return nil, false
  }
  return &rep, true
}

func (c *redisReputationCache) Set(ctx context.Context, userID uuid.UUID, rep *types.UserReputation) {
  raw, err := json.Marshal(rep)
  if err != nil {
    return
  }
  if err := c.client.Set(ctx, reputationKey(userID), raw, c.ttl).Err(); err != nil {
    c.log.Debug("Cache set failed", "error", err, "user_id", userID)
  }
}

func (c *redisReputationCache) Invalidate(ctx context.Context, userID uuid.UUID) {
  if err := c.client.Del(ctx, reputationKey(userID)).Err(); err != nil {
    c.log.Debug("Cache invalidate failed", "error", err, "user_id", userID)
  }
}

type noopReputationCache struct{}

func (noopReputationCache) Get(ctx context.Context, userID uuid.UUID) (*types.UserReputation, bool) {
  return nil, false
}
func (noopReputationCache) Set(ctx context.Context, userID uuid.UUID, rep *types.UserReputation) {}
func (noopReputationCache) Invalidate(ctx context.Context, userID uuid.UUID)                     {}
