package quotes

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/inventory"
)

// LedgerAdapter adapts the inventory.Service to the HoldLedger interface
// required by the quote service.
type LedgerAdapter struct {
	service *inventory.Service
}

// NewLedgerAdapter creates a new hold ledger adapter.
func NewLedgerAdapter(service *inventory.Service) *LedgerAdapter {
	return &LedgerAdapter{service: service}
}

// Hold reserves materials for the quote's line items.
func (a *LedgerAdapter) Hold(ctx context.Context, quoteID uuid.UUID, items []HoldItem) (uuid.UUID, error) {
	if a.service == nil {
		return uuid.Nil, fmt.Errorf("inventory service not initialized")
	}

	inputs := make([]inventory.HoldItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, inventory.HoldItemInput{
			LineItemID:  item.LineItemID,
			OpeningRef:  item.OpeningRef,
			Description: item.Description,
			Quantity:    item.Quantity,
		})
	}

	holdID, err := a.service.Hold(ctx, quoteID, "quotes", inputs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hold inventory: %w", err)
	}
	return holdID, nil
}

// Release gives back any active hold for the quote.
func (a *LedgerAdapter) Release(ctx context.Context, quoteID uuid.UUID) error {
	if a.service == nil {
		return fmt.Errorf("inventory service not initialized")
	}
	if err := a.service.Release(ctx, quoteID, "quotes"); err != nil {
		return fmt.Errorf("release inventory: %w", err)
	}
	return nil
}
