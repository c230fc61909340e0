package moim

import (
	"context"
	"time"
)

// Cache holds moim rows keyed by invite code. Moim rows have no update path,
// so entries only expire.
type Cache interface {
	GetByInviteCode(ctx context.Context, code string) (*Moim, bool)
	SetByInviteCode(ctx context.Context, code string, moim *Moim, ttl time.Duration)
	DeleteByInviteCode(ctx context.Context, code string)
}

type noopCache struct{}

func (noopCache) GetByInviteCode(context.Context, string) (*Moim, bool) {
	return nil, false
}

func (noopCache) SetByInviteCode(context.Context, string, *Moim, time.Duration) {}

func (noopCache) DeleteByInviteCode(context.Context, string) {}
