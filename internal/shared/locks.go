package shared

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld indicates another worker holds the transition lock.
var ErrLockHeld = errors.New("transition lock held by another worker")

// QuoteLockKey builds redis keys for quotation critical sections.
func QuoteLockKey(quoteID uuid.UUID) string {
	return fmt.Sprintf("quotes:%s:lock", quoteID)
}

// releaseScript deletes the lock only when the token still matches, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// TransitionLock serialises quotation lifecycle transitions across workers
// using a redis SET NX lease.
type TransitionLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTransitionLock constructs the lock helper. TTL bounds how long a crashed
// holder can block others.
func NewTransitionLock(client *redis.Client, ttl time.Duration) *TransitionLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TransitionLock{client: client, ttl: ttl}
}

// Acquire takes the per-quote lock, returning a release func. It does not
// block: a held lock surfaces ErrLockHeld immediately and the caller retries.
func (l *TransitionLock) Acquire(ctx context.Context, quoteID uuid.UUID) (func(), error) {
	if l == nil || l.client == nil {
		return func() {}, nil
	}
	key := QuoteLockKey(quoteID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}
	release := func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(rctx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
