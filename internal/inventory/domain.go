// Package inventory keeps the material hold ledger: reservations taken
// against approved quotations and released when a quote falls through.
package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HoldStatus enumerates the states of a reservation.
type HoldStatus string

const (
	// HoldStatusHeld marks an active reservation.
	HoldStatusHeld HoldStatus = "held"
	// HoldStatusReleased marks a reservation that has been given back.
	HoldStatusReleased HoldStatus = "released"
)

// Hold is one reservation of materials against a quotation. A quote has at
// most one active hold at a time.
type Hold struct {
	ID         uuid.UUID  `json:"id"`
	QuoteID    uuid.UUID  `json:"quote_id"`
	Status     HoldStatus `json:"status"`
	Items      []HoldItem `json:"items"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

// HoldItem snapshots one reserved line. The description is captured at hold
// time so the ledger stays readable after the quote changes or disappears.
type HoldItem struct {
	ID          uuid.UUID `json:"id"`
	HoldID      uuid.UUID `json:"hold_id"`
	LineItemID  uuid.UUID `json:"line_item_id"`
	OpeningRef  string    `json:"opening_ref,omitempty"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
}

// HoldItemInput describes one line to reserve.
type HoldItemInput struct {
	LineItemID  uuid.UUID
	OpeningRef  string
	Description string
	Quantity    int
}

// ListFilter narrows hold listings.
type ListFilter struct {
	QuoteID *uuid.UUID
	Status  *HoldStatus
	Limit   int
	Offset  int
}

// ErrHoldNotFound indicates no hold exists for the quote.
var ErrHoldNotFound = errors.New("inventory hold not found")

// ErrInvalidQuantity indicates a non-positive reservation quantity.
var ErrInvalidQuantity = errors.New("inventory: quantity must be positive")

// ErrNoItems indicates a hold request without lines.
var ErrNoItems = errors.New("inventory: hold requires at least one item")
