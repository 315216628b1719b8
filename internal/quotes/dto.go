package quotes

import "github.com/google/uuid"

// ItemRequest describes one line item in a create/update request. CustomRate
// and ManualTotal are the two override modes; when both are set the manual
// total wins.
type ItemRequest struct {
	Type       string  `json:"type" validate:"omitempty,max=40"`
	Category   string  `json:"category" validate:"omitempty,max=40"`
	Material   string  `json:"material" validate:"omitempty,max=40"`
	Glass      string  `json:"glass" validate:"omitempty,max=40"`
	Finish     string  `json:"finish" validate:"omitempty,max=40"`
	WidthMM    float64 `json:"width_mm" validate:"gte=0"`
	HeightMM   float64 `json:"height_mm" validate:"gte=0"`
	Panels     int     `json:"panels" validate:"gte=0"`
	Quantity   int     `json:"quantity" validate:"gte=0"`
	Mesh       bool    `json:"mesh"`
	Grill      bool    `json:"grill"`
	OpeningRef string  `json:"opening_ref" validate:"omitempty,max=40"`
	Room       string  `json:"room" validate:"omitempty,max=60"`
	Floor      string  `json:"floor" validate:"omitempty,max=60"`
	Notes      *string `json:"notes,omitempty"`

	CustomRate  *float64 `json:"custom_rate_per_sqft,omitempty" validate:"omitempty,gt=0"`
	ManualTotal *float64 `json:"manual_total,omitempty" validate:"omitempty,gt=0"`
}

// AccessoryRequest adds a catalogued or custom accessory. When CatalogID is
// set the name/price/unit come from the rate table; otherwise all three are
// required.
type AccessoryRequest struct {
	CatalogID *string `json:"catalog_id,omitempty" validate:"omitempty,max=40"`
	Name      string  `json:"name" validate:"omitempty,max=120"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Unit      string  `json:"unit" validate:"omitempty,max=20"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
}

// CreateQuoteRequest creates a quotation in draft.
type CreateQuoteRequest struct {
	ProjectID            *uuid.UUID         `json:"project_id,omitempty"`
	SurveyID             *uuid.UUID         `json:"survey_id,omitempty"`
	CustomerName         string             `json:"customer_name" validate:"required,max=120"`
	CustomerPhone        string             `json:"customer_phone" validate:"omitempty,max=20"`
	CustomerEmail        string             `json:"customer_email" validate:"omitempty,email"`
	SiteAddress          string             `json:"site_address" validate:"omitempty,max=500"`
	InstallationIncluded bool               `json:"installation_included"`
	ValidDays            int                `json:"valid_days" validate:"gte=0,lte=365"`
	Notes                *string            `json:"notes,omitempty"`
	Items                []ItemRequest      `json:"items" validate:"dive"`
	Accessories          []AccessoryRequest `json:"accessories" validate:"dive"`
}

// UpdateQuoteRequest replaces draft content. Nil slices leave the current
// items/accessories untouched; totals are recomputed either way.
type UpdateQuoteRequest struct {
	CustomerName         *string             `json:"customer_name,omitempty" validate:"omitempty,max=120"`
	CustomerPhone        *string             `json:"customer_phone,omitempty" validate:"omitempty,max=20"`
	CustomerEmail        *string             `json:"customer_email,omitempty" validate:"omitempty,email"`
	SiteAddress          *string             `json:"site_address,omitempty" validate:"omitempty,max=500"`
	InstallationIncluded *bool               `json:"installation_included,omitempty"`
	ValidDays            *int                `json:"valid_days,omitempty" validate:"omitempty,gte=0,lte=365"`
	Notes                *string             `json:"notes,omitempty"`
	Items                *[]ItemRequest      `json:"items,omitempty" validate:"omitempty,dive"`
	Accessories          *[]AccessoryRequest `json:"accessories,omitempty" validate:"omitempty,dive"`
}

// FromSurveyRequest carries the quote header used when deriving a quotation
// from survey openings; the line items come from the survey itself.
type FromSurveyRequest struct {
	ProjectID            *uuid.UUID `json:"project_id,omitempty"`
	CustomerName         string     `json:"customer_name" validate:"required,max=120"`
	CustomerPhone        string     `json:"customer_phone" validate:"omitempty,max=20"`
	CustomerEmail        string     `json:"customer_email" validate:"omitempty,email"`
	SiteAddress          string     `json:"site_address" validate:"omitempty,max=500"`
	InstallationIncluded bool       `json:"installation_included"`
	ValidDays            int        `json:"valid_days" validate:"gte=0,lte=365"`
	Notes                *string    `json:"notes,omitempty"`
}

// ListFilter narrows quotation listings.
type ListFilter struct {
	Status    *Status    `json:"status,omitempty"`
	ProjectID *uuid.UUID `json:"project_id,omitempty"`
	SurveyID  *uuid.UUID `json:"survey_id,omitempty"`
	Limit     int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int        `json:"offset" validate:"gte=0"`
}

// RejectRequest carries the rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ApproveRequest toggles inventory holding on approval.
type ApproveRequest struct {
	HoldInventory bool `json:"hold_inventory"`
}

// DiscountRequest asks for an internal discount sign-off.
type DiscountRequest struct {
	Percent float64 `json:"percent" validate:"required,gt=0,lte=100"`
	Reason  string  `json:"reason" validate:"omitempty,max=500"`
}

// OverrideRequest is the administrative escape hatch for rejected quotes.
type OverrideRequest struct {
	TargetStatus Status `json:"target_status" validate:"required"`
	Notes        string `json:"notes" validate:"omitempty,max=500"`
}
