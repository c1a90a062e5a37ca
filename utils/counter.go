package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const counterKeyPrefix = "counter:"

var (
	counters   = map[string]int64{}
	countersMu sync.Mutex
)

// IncrCounter bumps a named counter and returns the new value. Counters live
// in Redis when it is available and in process memory otherwise.
func IncrCounter(name string) int64 {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := rc.Incr(ctx, counterKeyPrefix+name).Result()
		if err == nil {
			return n
		}
		Logger.Warn("redis incr failed", zap.String("counter", name), zap.Error(err))
	}
	countersMu.Lock()
	defer countersMu.Unlock()
	counters[name]++
	return counters[name]
}

// GetCounter returns the current value of a counter, zero if unknown.
func GetCounter(name string) int64 {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := rc.Get(ctx, counterKeyPrefix+name).Int64()
		if err == nil {
			return n
		}
	}
	countersMu.Lock()
	defer countersMu.Unlock()
	return counters[name]
}
