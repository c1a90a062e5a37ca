package utils

import (
	"context"
	"sync"
	"time"
)

const blacklistKeyPrefix = "session:blacklist:"

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex
)

// BlacklistToken revokes a session token id until its natural expiry so a
// logged out cookie cannot be replayed.
func BlacklistToken(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	if rc := GetRedis(); rc != nil {
		ttl := time.Until(expiresAt)
		if ttl <= 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, blacklistKeyPrefix+tokenID, "1", ttl).Err(); err == nil {
			return
		}
	}
	blacklistMu.Lock()
	blacklist[tokenID] = expiresAt
	blacklistMu.Unlock()
}

// IsTokenBlacklisted reports whether the token id was revoked before expiry.
func IsTokenBlacklisted(tokenID string) bool {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, blacklistKeyPrefix+tokenID).Result()
		if err == nil && n > 0 {
			return true
		}
		// fall through: the entry may have been stored locally while redis was down
	}

	blacklistMu.RLock()
	expiresAt, ok := blacklist[tokenID]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, tokenID)
		blacklistMu.Unlock()
		return false
	}
	return true
}
