// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"viyarschedule/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var (
	// CacheClient holds cached month query results.
	CacheClient *redis.Client
	// ImportClient holds the import lock.
	ImportClient *redis.Client
)

// InitRedis connects the cache and import clients when Redis is configured.
// A configured but unreachable Redis is fatal.
func InitRedis() {
	if !config.RedisEnabled() {
		GetLogger().Info("Redis not configured; cache and distributed import lock disabled")
		return
	}
	CacheClient = newRedisClient(config.AppConfig.RedisCacheDB, "cache")
	ImportClient = newRedisClient(config.AppConfig.RedisImportDB, "import")
}

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Fatal("Failed to connect to Redis", zap.String("client", name), zap.Error(err))
	}
	return client
}

// RedisClients returns the connected clients for health checks.
func RedisClients() []*redis.Client {
	var out []*redis.Client
	for _, c := range []*redis.Client{CacheClient, ImportClient} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// CloseRedis closes every connected client.
func CloseRedis() {
	for _, c := range RedisClients() {
		_ = c.Close()
	}
}
