package lock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/clans/internal/config"
	"go.uber.org/fx"
)

const (
	keyCreateOwner = "clans:create:owner:%d"
	keyCreateName  = "clans:create:name:%s"
	keyCreateTag   = "clans:create:tag:%s"
)

var Module = fx.Module("lock",
	fx.Provide(NewLocker),
	fx.Provide(NewCreateGuard),
)

// CreateGuard serializes concurrent creates that target the same owner,
// name or tag. Unique indexes remain the authoritative check.
type CreateGuard struct {
	locker *Locker
	ttl    time.Duration
}

func NewCreateGuard(locker *Locker, cfg config.Config) *CreateGuard {
	if locker == nil {
		return nil
	}
	ttl := time.Duration(cfg.Redis.CreateLockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &CreateGuard{locker: locker, ttl: ttl}
}

func (g *CreateGuard) Enabled() bool {
	return g != nil && g.locker != nil
}

// Acquire locks owner, name and tag together. ok is false when another
// create holds any of them.
func (g *CreateGuard) Acquire(ctx context.Context, owner int64, name, tag string) (release func(context.Context), ok bool, err error) {
	if !g.Enabled() {
		return func(context.Context) {}, true, nil
	}
	return g.locker.TryLockAll(ctx, CreateKeys(owner, name, tag), g.ttl)
}

// CreateKeys returns the lock keys in a fixed order so two creates never
// wait on each other's partial sets.
func CreateKeys(owner int64, name, tag string) []string {
	return []string{
		fmt.Sprintf(keyCreateOwner, owner),
		fmt.Sprintf(keyCreateName, strings.ToLower(strings.TrimSpace(name))),
		fmt.Sprintf(keyCreateTag, strings.ToLower(strings.TrimSpace(tag))),
	}
}
