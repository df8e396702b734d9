package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

var ErrNotConfigured = errors.New("lock client not configured")

// Locker is a single-key Redis mutex. Tokens make Release safe against a
// lock that expired and was re-acquired by someone else.
type Locker struct {
	client *redis.Client
	script *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client: client,
		script: redis.NewScript(lockReleaseScript),
	}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if l == nil || l.client == nil {
		return "", false, ErrNotConfigured
	}
	if key == "" {
		return "", false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *Locker) Release(ctx context.Context, key, token string) error {
	if l == nil || l.client == nil {
		return nil
	}
	if key == "" || token == "" {
		return nil
	}
	return l.script.Run(ctx, l.client, []string{key}, token).Err()
}

type held struct {
	key   string
	token string
}

// TryLockAll takes every key or none. Keys already taken are released in
// reverse order when a later key is held elsewhere or errors.
func (l *Locker) TryLockAll(ctx context.Context, keys []string, ttl time.Duration) (func(context.Context), bool, error) {
	acquired := make([]held, 0, len(keys))
	releaseAll := func(ctx context.Context) {
		for i := len(acquired) - 1; i >= 0; i-- {
			_ = l.Release(ctx, acquired[i].key, acquired[i].token)
		}
	}

	for _, key := range keys {
		token, ok, err := l.TryLock(ctx, key, ttl)
		if err != nil || !ok {
			releaseAll(context.WithoutCancel(ctx))
			return nil, false, err
		}
		acquired = append(acquired, held{key: key, token: token})
	}
	return releaseAll, true, nil
}
