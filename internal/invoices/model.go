// Package invoices turns approved quotations into invoices and serves them
// read-only. Creation is idempotent per source quote.
package invoices

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the invoice lifecycle state. Payment tracking lives elsewhere;
// here an invoice is issued and may later be marked paid or cancelled by the
// billing system.
type Status string

const (
	StatusIssued Status = "issued"
)

// Line is one billed position, snapshotted from the quote at conversion time.
type Line struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitAmount  float64   `json:"unit_amount"`
	TotalAmount float64   `json:"total_amount"`
	LineOrder   int       `json:"line_order"`
}

// Invoice is a billing document derived from an approved quotation.
type Invoice struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	QuoteID       uuid.UUID `json:"quote_id"`
	QuoteNumber   string    `json:"quote_number"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	SiteAddress   string `json:"site_address,omitempty"`

	Lines []Line `json:"lines"`

	Subtotal           float64 `json:"subtotal"`
	InstallationCharge float64 `json:"installation_charge"`
	TaxAmount          float64 `json:"tax_amount"`
	GrandTotal         float64 `json:"grand_total"`

	Status    Status    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// LineInput describes one position to bill.
type LineInput struct {
	Description string
	Quantity    int
	UnitAmount  float64
	TotalAmount float64
}

// CreateInput is the quote snapshot needed to issue an invoice.
type CreateInput struct {
	QuoteID       uuid.UUID
	QuoteNumber   string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	SiteAddress   string
	Lines         []LineInput

	Subtotal           float64
	InstallationCharge float64
	TaxAmount          float64
	GrandTotal         float64

	Actor string
}

// ErrInvoiceNotFound indicates the requested invoice does not exist.
var ErrInvoiceNotFound = errors.New("invoice not found")
