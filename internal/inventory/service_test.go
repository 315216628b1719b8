package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	holds map[uuid.UUID]*Hold
}

type memoryTx struct {
	repo *memoryRepo
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{holds: make(map[uuid.UUID]*Hold)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, &memoryTx{repo: r})
}

func (r *memoryRepo) GetByQuote(ctx context.Context, quoteID uuid.UUID) (Hold, error) {
	var latest *Hold
	for _, h := range r.holds {
		if h.QuoteID != quoteID {
			continue
		}
		if latest == nil || h.CreatedAt.After(latest.CreatedAt) {
			latest = h
		}
	}
	if latest == nil {
		return Hold{}, ErrHoldNotFound
	}
	return *latest, nil
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]Hold, error) {
	var holds []Hold
	for _, h := range r.holds {
		if filter.QuoteID != nil && h.QuoteID != *filter.QuoteID {
			continue
		}
		if filter.Status != nil && h.Status != *filter.Status {
			continue
		}
		holds = append(holds, *h)
	}
	return holds, nil
}

func (tx *memoryTx) GetActiveHoldForUpdate(ctx context.Context, quoteID uuid.UUID) (Hold, error) {
	for _, h := range tx.repo.holds {
		if h.QuoteID == quoteID && h.Status == HoldStatusHeld {
			return *h, nil
		}
	}
	return Hold{}, ErrHoldNotFound
}

func (tx *memoryTx) InsertHold(ctx context.Context, hold Hold) error {
	tx.repo.holds[hold.ID] = &hold
	return nil
}

func (tx *memoryTx) InsertHoldItems(ctx context.Context, items []HoldItem) error {
	if len(items) == 0 {
		return nil
	}
	if h, ok := tx.repo.holds[items[0].HoldID]; ok {
		h.Items = items
	}
	return nil
}

func (tx *memoryTx) MarkReleased(ctx context.Context, holdID uuid.UUID, at time.Time) error {
	if h, ok := tx.repo.holds[holdID]; ok {
		h.Status = HoldStatusReleased
		h.ReleasedAt = &at
	}
	return nil
}

func testItems() []HoldItemInput {
	return []HoldItemInput{
		{LineItemID: uuid.New(), OpeningRef: "W1", Description: "Aluminium Sliding Window 1200x1500mm", Quantity: 2},
		{LineItemID: uuid.New(), OpeningRef: "D1", Description: "uPVC Casement Door 900x2100mm", Quantity: 1},
	}
}

func TestHoldIsIdempotentPerQuote(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	quoteID := uuid.New()

	first, err := svc.Hold(ctx, quoteID, "alice", testItems())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first)

	second, err := svc.Hold(ctx, quoteID, "alice", testItems())
	require.NoError(t, err)
	require.Equal(t, first, second)

	holds, err := svc.List(ctx, ListFilter{QuoteID: &quoteID})
	require.NoError(t, err)
	require.Len(t, holds, 1)
}

func TestReleaseWithoutHoldIsNoop(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)

	require.NoError(t, svc.Release(context.Background(), uuid.New(), "alice"))
}

func TestHoldReleaseHoldCreatesFreshHold(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	quoteID := uuid.New()

	first, err := svc.Hold(ctx, quoteID, "alice", testItems())
	require.NoError(t, err)
	require.NoError(t, svc.Release(ctx, quoteID, "alice"))

	released, err := svc.GetByQuote(ctx, quoteID)
	require.NoError(t, err)
	require.Equal(t, HoldStatusReleased, released.Status)
	require.NotNil(t, released.ReleasedAt)

	second, err := svc.Hold(ctx, quoteID, "alice", testItems())
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestHoldValidation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	_, err := svc.Hold(ctx, uuid.New(), "alice", nil)
	require.ErrorIs(t, err, ErrNoItems)

	bad := testItems()
	bad[0].Quantity = 0
	_, err = svc.Hold(ctx, uuid.New(), "alice", bad)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestHoldSnapshotsItems(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()
	quoteID := uuid.New()
	items := testItems()

	_, err := svc.Hold(ctx, quoteID, "alice", items)
	require.NoError(t, err)

	hold, err := svc.GetByQuote(ctx, quoteID)
	require.NoError(t, err)
	require.Len(t, hold.Items, 2)
	require.Equal(t, items[0].Description, hold.Items[0].Description)
	require.Equal(t, items[0].Quantity, hold.Items[0].Quantity)
}
