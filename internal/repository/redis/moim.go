package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	moimdomain "moim-app-go/internal/domain/moim"
	"moim-app-go/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const inviteKeyPrefix = "moim:invite:"

type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// MoimCache shares invite-code lookups between API replicas. Failures are
// logged and treated as misses.
type MoimCache struct {
	store cmdable
	log   logger.Logger
}

func NewMoimCache(client *redis.Client, log logger.Logger) *MoimCache {
	return &MoimCache{store: client, log: log}
}

func inviteKey(code string) string {
	return inviteKeyPrefix + code
}

func (c *MoimCache) GetByInviteCode(ctx context.Context, code string) (*moimdomain.Moim, bool) {
	raw, err := c.store.Get(ctx, inviteKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("cache.moim: get failed", "invite_code", code, "error", err.Error())
		return nil, false
	}

	var moim moimdomain.Moim
	if err := json.Unmarshal(raw, &moim); err != nil {
		c.log.Warn("cache.moim: decode failed", "invite_code", code, "error", err.Error())
		return nil, false
	}
	return &moim, true
}

func (c *MoimCache) SetByInviteCode(ctx context.Context, code string, moim *moimdomain.Moim, ttl time.Duration) {
	if moim == nil || ttl <= 0 {
		c.DeleteByInviteCode(ctx, code)
		return
	}

	value := *moim
	value.Participants = nil
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache.moim: encode failed", "invite_code", code, "error", err.Error())
		return
	}
	if err := c.store.Set(ctx, inviteKey(code), raw, ttl).Err(); err != nil {
		c.log.Warn("cache.moim: set failed", "invite_code", code, "error", err.Error())
	}
}

func (c *MoimCache) DeleteByInviteCode(ctx context.Context, code string) {
	if err := c.store.Del(ctx, inviteKey(code)).Err(); err != nil {
		c.log.Warn("cache.moim: delete failed", "invite_code", code, "error", err.Error())
	}
}
