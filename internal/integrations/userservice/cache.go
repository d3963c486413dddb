package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const cacheKeyPrefix = "appointment-service:user:"

// CachedClient кэширует ответы справочника в Redis.
// Ошибки Redis не прерывают запрос, данные берутся из справочника.
type CachedClient struct {
	next Directory
	rdb  *redis.Client
	ttl  time.Duration
	log  Logger
}

// NewCachedClient создает клиент с кэшем
func NewCachedClient(next Directory, rdb *redis.Client, ttl time.Duration, log Logger) *CachedClient {
	return &CachedClient{next: next, rdb: rdb, ttl: ttl, log: log}
}

// GetUser получает пользователя из кэша или справочника
func (c *CachedClient) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	key := cacheKeyPrefix + userID

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached User
		if err := json.Unmarshal(raw, &cached); err == nil {
			if user, err := cached.toDomain(); err == nil {
				return user, nil
			}
		}
		c.log.Warn("Broken cache entry for user_id=%s, refetching", userID)
	case errors.Is(err, redis.Nil):
		// промах кэша
	default:
		c.log.Warn("Redis get failed for user_id=%s: %v", userID, err)
	}

	user, err := c.next.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromDomain(user))
	if err != nil {
		c.log.Warn("Failed to encode user_id=%s for cache: %v", userID, err)
		return user, nil
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn("Redis set failed for user_id=%s: %v", userID, err)
	}

	return user, nil
}
