package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newLock(t *testing.T, ttl time.Duration) (*TransitionLock, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTransitionLock(client, ttl), mr
}

func TestTransitionLockMutualExclusion(t *testing.T) {
	lock, _ := newLock(t, time.Minute)
	ctx := context.Background()
	quoteID := uuid.New()

	release, err := lock.Acquire(ctx, quoteID)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, quoteID)
	require.ErrorIs(t, err, ErrLockHeld)

	release()

	release2, err := lock.Acquire(ctx, quoteID)
	require.NoError(t, err)
	release2()
}

func TestTransitionLockIsPerQuote(t *testing.T) {
	lock, _ := newLock(t, time.Minute)
	ctx := context.Background()

	releaseA, err := lock.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := lock.Acquire(ctx, uuid.New())
	require.NoError(t, err)
	defer releaseB()
}

func TestTransitionLockStaleHolderCannotRelease(t *testing.T) {
	lock, mr := newLock(t, time.Second)
	ctx := context.Background()
	quoteID := uuid.New()

	staleRelease, err := lock.Acquire(ctx, quoteID)
	require.NoError(t, err)

	// The first holder's lease expires and another worker takes over.
	mr.FastForward(2 * time.Second)
	release, err := lock.Acquire(ctx, quoteID)
	require.NoError(t, err)
	defer release()

	// Releasing the expired lease must not drop the new holder's lock.
	staleRelease()
	_, err = lock.Acquire(ctx, quoteID)
	require.ErrorIs(t, err, ErrLockHeld)
}

func TestTransitionLockNilClientIsNoop(t *testing.T) {
	var lock *TransitionLock

	release, err := lock.Acquire(context.Background(), uuid.New())
	require.NoError(t, err)
	release()
}
