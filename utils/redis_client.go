package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cppla/inkwell/config"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedis returns the shared Redis client, or nil when Redis is not
// configured or did not answer the startup ping. Callers fall back to
// process memory on nil.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		rc := config.Get().Redis
		if rc.Host == "" {
			return
		}
		client := redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(rc.Host, strconv.Itoa(rc.Port)),
			Password:     rc.Password,
			DB:           rc.DB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			Logger.Warn("redis unreachable, using in-memory fallback", zap.String("addr", client.Options().Addr), zap.Error(err))
			_ = client.Close()
			return
		}
		redisClient = client
	})
	return redisClient
}
