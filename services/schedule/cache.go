package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"viyarschedule/models"
	"viyarschedule/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// MonthCache stores month query results. Implementations must treat every
// failure as a miss.
//
// Get resolves key to a slot bound to the cache state it observed and returns
// it even on a miss; Set writes only to that slot, so a result read before an
// invalidation can never land where later readers look. An empty slot means
// the result must not be stored.
type MonthCache interface {
	Get(ctx context.Context, key string) (groups []models.EmployeeScheduleGroup, slot string, ok bool)
	Set(ctx context.Context, slot string, groups []models.EmployeeScheduleGroup)
}

// monthKey keeps the name verbatim since name lookup is exact; department
// matching ignores case.
func monthKey(q MonthQuery) string {
	return fmt.Sprintf("%04d-%02d|%q|%s|%s",
		q.Year, q.Month,
		q.Name,
		strings.ToLower(q.Department),
		q.Mode)
}

// RedisCache keys entries under a generation counter. Invalidate bumps the
// counter so every older entry stops being read and expires on its own.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache returns a RedisCache; a nil client yields nil.
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) generation(ctx context.Context) (string, error) {
	gen, err := c.client.Get(ctx, utils.CacheGenerationKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return gen, err
}

func slotKey(gen, key string) string {
	return utils.MonthCachePrefix + gen + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.EmployeeScheduleGroup, string, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		utils.CacheLookups.WithLabelValues("error").Inc()
		c.logger.Debug("cache generation unavailable", zap.Error(err))
		return nil, "", false
	}
	slot := slotKey(gen, key)
	raw, err := c.client.Get(ctx, slot).Bytes()
	if err != nil {
		if err == redis.Nil {
			utils.CacheLookups.WithLabelValues("miss").Inc()
		} else {
			utils.CacheLookups.WithLabelValues("error").Inc()
			c.logger.Debug("cache read failed", zap.Error(err))
		}
		return nil, slot, false
	}
	var groups []models.EmployeeScheduleGroup
	if err := json.Unmarshal(raw, &groups); err != nil {
		utils.CacheLookups.WithLabelValues("error").Inc()
		return nil, slot, false
	}
	utils.CacheLookups.WithLabelValues("hit").Inc()
	return groups, slot, true
}

// Set stores groups in the slot returned by Get. A slot from an older
// generation is written but never read again.
func (c *RedisCache) Set(ctx context.Context, slot string, groups []models.EmployeeScheduleGroup) {
	if slot == "" {
		return
	}
	raw, err := json.Marshal(groups)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, slot, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache write failed", zap.Error(err))
	}
}

// Invalidate retires every cached month result.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, utils.CacheGenerationKey).Err()
}
