package control

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

const (
	transitionLockKey = "corte:transition"
	transitionLockTTL = 5 * time.Second
	lockRetryInterval = 25 * time.Millisecond
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Locker serializes transitions on the active shift.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

type localLocker struct {
	sem chan struct{}
}

func NewLocalLocker() Locker {
	return &localLocker{sem: make(chan struct{}, 1)}
}

func (l *localLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// redisLocker extends the lock across processes sharing one database. The
// local semaphore keeps goroutines of this process from polling redis
// against each other.
type redisLocker struct {
	local  Locker
	client *redis.Client
	script *redis.Script
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client) Locker {
	if client == nil {
		return NewLocalLocker()
	}
	return &redisLocker{
		local:  NewLocalLocker(),
		client: client,
		script: redis.NewScript(lockReleaseScript),
		ttl:    transitionLockTTL,
	}
}

func (l *redisLocker) Lock(ctx context.Context) (func(), error) {
	unlockLocal, err := l.local.Lock(ctx)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, transitionLockKey, token, l.ttl).Result()
		if err != nil {
			unlockLocal()
			return nil, err
		}
		if ok {
			return func() {
				// release with a fresh context so a cancelled request still frees the key
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = l.script.Run(releaseCtx, l.client, []string{transitionLockKey}, token).Err()
				unlockLocal()
			}, nil
		}
		select {
		case <-ctx.Done():
			unlockLocal()
			return nil, errors.Join(errors.New("transition lock busy"), ctx.Err())
		case <-ticker.C:
		}
	}
}
