// Package quotes implements quotation pricing aggregation and the quotation
// status lifecycle for the doors/windows trade.
package quotes

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a quotation.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending-approval" // internal discount sign-off
	StatusSent            Status = "sent"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusExpired         Status = "expired"
	StatusInvoiced        Status = "invoiced"
)

// Event names a lifecycle transition. Events, not target states, carry the
// side effects; see Service.
type Event string

const (
	EventSend            Event = "send"
	EventRequestDiscount Event = "request-discount"
	EventApproveDiscount Event = "approve-discount"
	EventApprove         Event = "approve"
	EventReject          Event = "reject"
	EventConvert         Event = "convert-to-invoice"
	EventOverride        Event = "override"
	EventExpire          Event = "expire"
)

// transitions is the legal from→to table for normal events. EventOverride and
// EventExpire are handled separately: override moves a rejected quote to an
// arbitrary target, expire fires from any non-terminal state.
var transitions = map[Event][2]Status{
	EventSend:            {StatusDraft, StatusSent},
	EventRequestDiscount: {StatusDraft, StatusPendingApproval},
	EventApproveDiscount: {StatusPendingApproval, StatusDraft},
	EventApprove:         {StatusSent, StatusApproved},
	EventReject:          {StatusSent, StatusRejected},
	EventConvert:         {StatusApproved, StatusInvoiced},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusSent, StatusApproved,
		StatusRejected, StatusExpired, StatusInvoiced:
		return true
	}
	return false
}

// CanEdit reports whether line items and accessories may still change.
func (s Status) CanEdit() bool {
	return s == StatusDraft
}

// IsTerminal reports whether the normal flow ends here. Rejected quotes stay
// recoverable through an explicit override.
func (s Status) IsTerminal() bool {
	return s == StatusInvoiced || s == StatusExpired
}

// next returns the target status for event from the current state, or false
// when the event is not legal there.
func (s Status) next(event Event) (Status, bool) {
	t, ok := transitions[event]
	if !ok || t[0] != s {
		return "", false
	}
	return t[1], true
}

// LineItem is one priced door/window unit within a quotation. Exactly one
// pricing mode is in effect: manual total, custom per-area rate, or the
// automatic rate-table formula; a manual total always wins.
type LineItem struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	QuoteID         uuid.UUID  `json:"quote_id" db:"quote_id"`
	SourceOpeningID *uuid.UUID `json:"source_opening_id,omitempty" db:"source_opening_id"`
	OpeningRef      string     `json:"opening_ref,omitempty" db:"opening_ref"`
	Room            string     `json:"room,omitempty" db:"room"`
	Floor           string     `json:"floor,omitempty" db:"floor"`

	Type     string  `json:"type" db:"type"`
	Category string  `json:"category" db:"category"`
	Material string  `json:"material" db:"material"`
	Glass    string  `json:"glass" db:"glass"`
	Finish   string  `json:"finish" db:"finish"`
	WidthMM  float64 `json:"width_mm" db:"width_mm"`
	HeightMM float64 `json:"height_mm" db:"height_mm"`
	Panels   int     `json:"panels" db:"panels"`
	Quantity int     `json:"quantity" db:"quantity"`
	Mesh     bool    `json:"mesh" db:"mesh"`
	Grill    bool    `json:"grill" db:"grill"`

	CustomRatePerSqft *float64 `json:"custom_rate_per_sqft,omitempty" db:"custom_rate_per_sqft"`
	ManualTotal       *float64 `json:"manual_total,omitempty" db:"manual_total"`

	AreaSqft      float64 `json:"area_sqft" db:"area_sqft"`
	RatePerSqft   float64 `json:"rate_per_sqft" db:"rate_per_sqft"`
	TotalAmount   float64 `json:"total_amount" db:"total_amount"`
	IsManualPrice bool    `json:"is_manual_price" db:"is_manual_price"`

	Notes     *string   `json:"notes,omitempty" db:"notes"`
	LineOrder int       `json:"line_order" db:"line_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Accessory is a hardware add-on priced per unit. CatalogID is nil for custom
// accessories entered free-form.
type Accessory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	QuoteID   uuid.UUID `json:"quote_id" db:"quote_id"`
	CatalogID *string   `json:"catalog_id,omitempty" db:"catalog_id"`
	Name      string    `json:"name" db:"name"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	Unit      string    `json:"unit" db:"unit"`
	Quantity  int       `json:"quantity" db:"quantity"`
}

// Customer identifies the quote recipient.
type Customer struct {
	Name  string `json:"name" db:"customer_name"`
	Phone string `json:"phone" db:"customer_phone"`
	Email string `json:"email" db:"customer_email"`
}

// Totals are derived from items and accessories and are recomputed on every
// mutation; they are never patched independently.
type Totals struct {
	ItemsTotal         float64 `json:"items_total" db:"items_total"`
	AccessoriesTotal   float64 `json:"accessories_total" db:"accessories_total"`
	Subtotal           float64 `json:"subtotal" db:"subtotal"`
	InstallationCharge float64 `json:"installation_charge" db:"installation_charge"`
	TaxAmount          float64 `json:"tax_amount" db:"tax_amount"`
	GrandTotal         float64 `json:"grand_total" db:"grand_total"`
	TotalAreaSqft      float64 `json:"total_area_sqft" db:"total_area_sqft"`
}

// Quotation is the aggregate root. It exclusively owns its items and
// accessories.
type Quotation struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	QuoteNumber string     `json:"quote_number" db:"quote_number"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty" db:"project_id"`
	SurveyID    *uuid.UUID `json:"survey_id,omitempty" db:"survey_id"`
	Customer    Customer   `json:"customer"`
	SiteAddress string     `json:"site_address" db:"site_address"`

	Items       []LineItem  `json:"items" db:"-"`
	Accessories []Accessory `json:"accessories" db:"-"`
	Totals      Totals      `json:"totals"`

	InstallationIncluded bool      `json:"installation_included" db:"installation_included"`
	ValidDays            int       `json:"valid_days" db:"valid_days"`
	ValidUntil           time.Time `json:"valid_until" db:"valid_until"`

	Status          Status     `json:"status" db:"status"`
	InventoryHeld   bool       `json:"inventory_held" db:"inventory_held"`
	InvoiceID       *uuid.UUID `json:"invoice_id,omitempty" db:"invoice_id"`
	StatusUpdatedAt time.Time  `json:"status_updated_at" db:"status_updated_at"`
	StatusUpdatedBy string     `json:"status_updated_by" db:"status_updated_by"`

	DiscountRequested float64 `json:"discount_requested" db:"discount_requested"`
	DiscountApproved  bool    `json:"discount_approved" db:"discount_approved"`
	DiscountReason    string  `json:"discount_reason,omitempty" db:"discount_reason"`

	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StatusChange is one audit-trail row of the quotation lifecycle.
type StatusChange struct {
	ID         int64     `json:"id" db:"id"`
	QuoteID    uuid.UUID `json:"quote_id" db:"quote_id"`
	FromStatus Status    `json:"from_status" db:"from_status"`
	ToStatus   Status    `json:"to_status" db:"to_status"`
	Event      Event     `json:"event" db:"event"`
	Actor      string    `json:"actor" db:"actor"`
	Notes      string    `json:"notes,omitempty" db:"notes"`
	At         time.Time `json:"at" db:"occurred_at"`
}

// Stats summarises a quotation list, mirroring the dashboard counters.
type Stats struct {
	Total      int     `json:"total"`
	Draft      int     `json:"draft"`
	Sent       int     `json:"sent"`
	Approved   int     `json:"approved"`
	Rejected   int     `json:"rejected"`
	TotalValue float64 `json:"total_value"`
	AvgValue   float64 `json:"avg_value"`
}
