package quotes

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/invoices"
)

// InvoiceAdapter adapts the invoices.Service to the InvoiceCreator interface
// required by the quote service.
type InvoiceAdapter struct {
	service *invoices.Service
}

// NewInvoiceAdapter creates a new invoice adapter.
func NewInvoiceAdapter(service *invoices.Service) *InvoiceAdapter {
	return &InvoiceAdapter{service: service}
}

// CreateFromQuote issues an invoice for the quote snapshot.
func (a *InvoiceAdapter) CreateFromQuote(ctx context.Context, snapshot Quotation) (uuid.UUID, error) {
	if a.service == nil {
		return uuid.Nil, fmt.Errorf("invoice service not initialized")
	}

	input := invoices.CreateInput{
		QuoteID:       snapshot.ID,
		QuoteNumber:   snapshot.QuoteNumber,
		CustomerName:  snapshot.Customer.Name,
		CustomerPhone: snapshot.Customer.Phone,
		CustomerEmail: snapshot.Customer.Email,
		SiteAddress:   snapshot.SiteAddress,

		Subtotal:           snapshot.Totals.Subtotal,
		InstallationCharge: snapshot.Totals.InstallationCharge,
		TaxAmount:          snapshot.Totals.TaxAmount,
		GrandTotal:         snapshot.Totals.GrandTotal,

		Actor: snapshot.StatusUpdatedBy,
	}
	for _, item := range snapshot.Items {
		unit := item.TotalAmount
		if item.Quantity > 0 {
			unit = item.TotalAmount / float64(item.Quantity)
		}
		input.Lines = append(input.Lines, invoices.LineInput{
			Description: fmt.Sprintf("%s %s %s %.0fx%.0fmm, %s glass, %s finish",
				item.Material, item.Category, item.Type,
				item.WidthMM, item.HeightMM, item.Glass, item.Finish),
			Quantity:    item.Quantity,
			UnitAmount:  unit,
			TotalAmount: item.TotalAmount,
		})
	}
	for _, acc := range snapshot.Accessories {
		input.Lines = append(input.Lines, invoices.LineInput{
			Description: acc.Name,
			Quantity:    acc.Quantity,
			UnitAmount:  acc.UnitPrice,
			TotalAmount: acc.UnitPrice * float64(acc.Quantity),
		})
	}

	inv, err := a.service.CreateFromQuote(ctx, input)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv.ID, nil
}
