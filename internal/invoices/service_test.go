package invoices

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	byQuote map[uuid.UUID]*Invoice
	byID    map[uuid.UUID]*Invoice
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		byQuote: make(map[uuid.UUID]*Invoice),
		byID:    make(map[uuid.UUID]*Invoice),
	}
}

func (r *memoryRepo) Insert(ctx context.Context, inv *Invoice) error {
	if _, exists := r.byQuote[inv.QuoteID]; exists {
		return ErrDuplicateQuote
	}
	cp := *inv
	r.byQuote[inv.QuoteID] = &cp
	r.byID[inv.ID] = &cp
	return nil
}

func (r *memoryRepo) GetByQuote(ctx context.Context, quoteID uuid.UUID) (*Invoice, error) {
	if inv, ok := r.byQuote[quoteID]; ok {
		return inv, nil
	}
	return nil, ErrInvoiceNotFound
}

func (r *memoryRepo) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	if inv, ok := r.byID[id]; ok {
		return inv, nil
	}
	return nil, ErrInvoiceNotFound
}

func (r *memoryRepo) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range r.byID {
		out = append(out, *inv)
	}
	return out, nil
}

func sampleInput(quoteID uuid.UUID) CreateInput {
	return CreateInput{
		QuoteID:      quoteID,
		QuoteNumber:  "QT-1756700000000",
		CustomerName: "Meera Constructions",
		Lines: []LineInput{
			{Description: "Aluminium Sliding Window 1200x1500mm", Quantity: 2, UnitAmount: 8930, TotalAmount: 17860},
		},
		Subtotal:           17860,
		InstallationCharge: 1786,
		TaxAmount:          3536,
		GrandTotal:         23182,
		Actor:              "alice",
	}
}

func TestCreateFromQuoteIsIdempotent(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	ctx := context.Background()
	quoteID := uuid.New()

	first, err := svc.CreateFromQuote(ctx, sampleInput(quoteID))
	require.NoError(t, err)
	require.Equal(t, StatusIssued, first.Status)
	require.Len(t, first.Lines, 1)

	second, err := svc.CreateFromQuote(ctx, sampleInput(quoteID))
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.InvoiceNumber, second.InvoiceNumber)
}

func TestCreateFromQuoteSnapshotsTotals(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)
	quoteID := uuid.New()

	inv, err := svc.CreateFromQuote(context.Background(), sampleInput(quoteID))
	require.NoError(t, err)
	require.Equal(t, quoteID, inv.QuoteID)
	require.InDelta(t, 23182.0, inv.GrandTotal, 0.001)
	require.InDelta(t, 3536.0, inv.TaxAmount, 0.001)
	require.NotEmpty(t, inv.InvoiceNumber)
}

func TestCreateFromQuoteRequiresQuoteID(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.CreateFromQuote(context.Background(), CreateInput{})
	require.Error(t, err)
}
