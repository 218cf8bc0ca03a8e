package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/ovaphlow/pitchfork/service-animal-go/internal/account/entity"
)

// TokenCache keeps resolved bearer tokens in memory. Tokens never rotate and
// accounts are never deleted, so an entry cannot go stale before it expires.
// A nil *TokenCache is a valid, always-missing cache.
type TokenCache struct {
	cache *bigcache.BigCache
}

// NewTokenCache returns nil (caching disabled) when ttl is not positive.
func NewTokenCache(ctx context.Context, ttl time.Duration) (*TokenCache, error) {
	if ttl <= 0 {
		return nil, nil
	}
	cfg := bigcache.DefaultConfig(ttl)
	// entries are one small account record; the default window preallocates
	// hundreds of megabytes
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = 10_000
	cfg.MaxEntrySize = 512
	cfg.Verbose = false
	c, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &TokenCache{cache: c}, nil
}

// Get reports a cached account for token. Any cache error is a miss.
func (c *TokenCache) Get(token string) (entity.Account, bool) {
	if c == nil {
		return entity.Account{}, false
	}
	buf, err := c.cache.Get(token)
	if err != nil {
		return entity.Account{}, false
	}
	var a entity.Account
	if err := json.Unmarshal(buf, &a); err != nil {
		return entity.Account{}, false
	}
	return a, true
}

// Set caches a resolved account. The secret hash is not stored.
func (c *TokenCache) Set(token string, a entity.Account) {
	if c == nil {
		return
	}
	buf, err := json.Marshal(a)
	if err != nil {
		return
	}
	_ = c.cache.Set(token, buf)
}

func (c *TokenCache) Close() error {
	if c == nil {
		return nil
	}
	return c.cache.Close()
}
