package inmemory

import (
	"context"
	"sync"
	"time"

	moimdomain "moim-app-go/internal/domain/moim"
)

// InMemoryMoimCache keeps moim rows keyed by invite code for a single
// process.
type InMemoryMoimCache struct {
	mu    sync.RWMutex
	items map[string]moimItem
	now   func() time.Time
}

type moimItem struct {
	value     moimdomain.Moim
	expiresAt time.Time
}

func NewInMemoryMoimCache() *InMemoryMoimCache {
	return &InMemoryMoimCache{
		items: make(map[string]moimItem),
		now:   time.Now,
	}
}

func (c *InMemoryMoimCache) GetByInviteCode(ctx context.Context, code string) (*moimdomain.Moim, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[code]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[code]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, code)
		}
		c.mu.Unlock()
		return nil, false
	}

	value := item.value
	value.Participants = nil
	return &value, true
}

func (c *InMemoryMoimCache) SetByInviteCode(ctx context.Context, code string, moim *moimdomain.Moim, ttl time.Duration) {
	if moim == nil || ttl <= 0 {
		c.DeleteByInviteCode(ctx, code)
		return
	}

	value := *moim
	value.Participants = nil

	c.mu.Lock()
	c.items[code] = moimItem{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryMoimCache) DeleteByInviteCode(ctx context.Context, code string) {
	c.mu.Lock()
	delete(c.items, code)
	c.mu.Unlock()
}
