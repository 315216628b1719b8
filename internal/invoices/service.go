package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/shared"
)

// RepositoryPort abstracts invoice persistence.
type RepositoryPort interface {
	Insert(ctx context.Context, inv *Invoice) error
	GetByQuote(ctx context.Context, quoteID uuid.UUID) (*Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	List(ctx context.Context, limit, offset int) ([]Invoice, error)
}

// AuditPort records audit-log entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// ErrDuplicateQuote is returned by repositories when a quote already has an
// invoice; the service resolves it to the existing invoice.
var ErrDuplicateQuote = errors.New("invoice already exists for quote")

// Service issues invoices from approved quotations.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
	now   func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit, now: time.Now}
}

// CreateFromQuote issues an invoice for the quote snapshot. Calling it again
// for the same quote returns the already-issued invoice instead of a second
// one, so quote conversion can be retried after a conflict.
func (s *Service) CreateFromQuote(ctx context.Context, input CreateInput) (*Invoice, error) {
	if input.QuoteID == uuid.Nil {
		return nil, errors.New("invoices: quote id required")
	}
	if existing, err := s.repo.GetByQuote(ctx, input.QuoteID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrInvoiceNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	inv := &Invoice{
		ID:            uuid.New(),
		InvoiceNumber: fmt.Sprintf("INV-%d", now.UnixMilli()),
		QuoteID:       input.QuoteID,
		QuoteNumber:   input.QuoteNumber,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		CustomerEmail: input.CustomerEmail,
		SiteAddress:   input.SiteAddress,

		Subtotal:           input.Subtotal,
		InstallationCharge: input.InstallationCharge,
		TaxAmount:          input.TaxAmount,
		GrandTotal:         input.GrandTotal,

		Status:    StatusIssued,
		CreatedBy: input.Actor,
		CreatedAt: now,
	}
	for i, line := range input.Lines {
		inv.Lines = append(inv.Lines, Line{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			TotalAmount: line.TotalAmount,
			LineOrder:   i + 1,
		})
	}

	if err := s.repo.Insert(ctx, inv); err != nil {
		if errors.Is(err, ErrDuplicateQuote) {
			// Lost a race with a concurrent conversion of the same quote.
			return s.repo.GetByQuote(ctx, input.QuoteID)
		}
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Actor:    input.Actor,
			Action:   "invoice:create",
			Entity:   "invoice",
			EntityID: inv.ID.String(),
			Meta: map[string]any{
				"quote_id":       input.QuoteID.String(),
				"invoice_number": inv.InvoiceNumber,
				"grand_total":    inv.GrandTotal,
			},
		})
	}
	return inv, nil
}

// Get loads an invoice with its lines.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// GetByQuote loads the invoice issued for a quote.
func (s *Service) GetByQuote(ctx context.Context, quoteID uuid.UUID) (*Invoice, error) {
	return s.repo.GetByQuote(ctx, quoteID)
}

// List returns invoices, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(ctx, limit, offset)
}
