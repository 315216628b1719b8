package quotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/pricing"
	"github.com/fenestra-works/fenestra/internal/shared"
	"github.com/fenestra-works/fenestra/internal/surveys"
)

// DefaultValidDays is applied when a request leaves the validity window unset.
const DefaultValidDays = 30

// StatusUpdate carries the column changes applied together with a status
// transition.
type StatusUpdate struct {
	Actor             string
	At                time.Time
	InventoryHeld     *bool
	InvoiceID         *uuid.UUID
	DiscountRequested *float64
	DiscountApproved  *bool
	DiscountReason    *string
}

// Repository persists quotations. Transition must apply the conditional
// status update and the history row atomically, returning
// ErrTransitionConflict when the quote is no longer in the expected status.
type Repository interface {
	Create(ctx context.Context, q *Quotation) error
	Get(ctx context.Context, id uuid.UUID) (*Quotation, error)
	List(ctx context.Context, filter ListFilter) ([]Quotation, Stats, error)
	ReplaceContent(ctx context.Context, q *Quotation) error
	Transition(ctx context.Context, from Status, change StatusChange, upd StatusUpdate) error
	History(ctx context.Context, id uuid.UUID) ([]StatusChange, error)
	ListExpirable(ctx context.Context, cutoff time.Time) ([]Quotation, error)
}

// HoldItem is a material reservation request for one line item.
type HoldItem struct {
	LineItemID  uuid.UUID `json:"line_item_id"`
	OpeningRef  string    `json:"opening_ref,omitempty"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
}

// HoldLedger reserves materials against a quote. Both operations are
// idempotent: holding an already-held quote and releasing an unheld quote are
// no-ops.
type HoldLedger interface {
	Hold(ctx context.Context, quoteID uuid.UUID, items []HoldItem) (uuid.UUID, error)
	Release(ctx context.Context, quoteID uuid.UUID) error
}

// InvoiceCreator converts an approved quote snapshot into an invoice.
// Creation is idempotent per quote id.
type InvoiceCreator interface {
	CreateFromQuote(ctx context.Context, snapshot Quotation) (uuid.UUID, error)
}

// SurveySource reads openings for quote generation.
type SurveySource interface {
	ListOpenings(ctx context.Context, surveyID uuid.UUID) ([]surveys.Opening, error)
}

// TransitionLocker serializes lifecycle transitions per quote id.
type TransitionLocker interface {
	Acquire(ctx context.Context, quoteID uuid.UUID) (release func(), err error)
}

// AuditPort records audit-log entries.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Deps groups the collaborators of the quote service. Ledger, Invoices,
// Surveys, Locks and Audit may be nil in tests that do not exercise them.
type Deps struct {
	Surveys           SurveySource
	Ledger            HoldLedger
	Invoices          InvoiceCreator
	Locks             TransitionLocker
	Audit             AuditPort
	Logger            *slog.Logger
	Table             pricing.RateTable
	Rates             Rates
	SideEffectTimeout time.Duration
}

// Service coordinates quotation pricing and the status lifecycle.
type Service struct {
	repo     Repository
	surveys  SurveySource
	ledger   HoldLedger
	invoices InvoiceCreator
	locks    TransitionLocker
	audit    AuditPort
	logger   *slog.Logger
	table    pricing.RateTable
	rates    Rates

	sideEffectTimeout time.Duration
	now               func() time.Time
}

// NewService builds a Service.
func NewService(repo Repository, deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Table.Materials == nil {
		deps.Table = pricing.DefaultRateTable()
	}
	if deps.Rates == (Rates{}) {
		deps.Rates = DefaultRates()
	}
	if deps.SideEffectTimeout <= 0 {
		deps.SideEffectTimeout = 10 * time.Second
	}
	return &Service{
		repo:              repo,
		surveys:           deps.Surveys,
		ledger:            deps.Ledger,
		invoices:          deps.Invoices,
		locks:             deps.Locks,
		audit:             deps.Audit,
		logger:            deps.Logger,
		table:             deps.Table,
		rates:             deps.Rates,
		sideEffectTimeout: deps.SideEffectTimeout,
		now:               time.Now,
	}
}

// RateTable exposes the configured table (read-only) for catalog endpoints.
func (s *Service) RateTable() pricing.RateTable {
	return s.table
}

// Create builds and persists a draft quotation, pricing every item.
func (s *Service) Create(ctx context.Context, req CreateQuoteRequest, actor string) (*Quotation, error) {
	now := s.now().UTC()

	items, err := s.buildItems(req.Items, now)
	if err != nil {
		return nil, err
	}
	accessories, err := s.buildAccessories(req.Accessories)
	if err != nil {
		return nil, err
	}

	validDays := req.ValidDays
	if validDays <= 0 {
		validDays = DefaultValidDays
	}

	q := &Quotation{
		ID:          uuid.New(),
		QuoteNumber: fmt.Sprintf("QT-%d", now.UnixMilli()),
		ProjectID:   req.ProjectID,
		SurveyID:    req.SurveyID,
		Customer: Customer{
			Name:  req.CustomerName,
			Phone: req.CustomerPhone,
			Email: req.CustomerEmail,
		},
		SiteAddress:          req.SiteAddress,
		Items:                items,
		Accessories:          accessories,
		InstallationIncluded: req.InstallationIncluded,
		ValidDays:            validDays,
		ValidUntil:           now.AddDate(0, 0, validDays),
		Status:               StatusDraft,
		StatusUpdatedAt:      now,
		StatusUpdatedBy:      actor,
		Notes:                req.Notes,
		CreatedBy:            actor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.attachOwnership(q)
	q.Totals = ComputeTotals(q.Items, q.Accessories, q.InstallationIncluded, s.rates)

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	s.recordAudit(ctx, actor, "quote:create", q.ID, map[string]any{
		"quote_number": q.QuoteNumber,
		"grand_total":  q.Totals.GrandTotal,
	})
	return q, nil
}

// GenerateFromSurvey derives a draft quotation from the openings of a survey.
// Openings without dimensions are skipped and reported, not fatal.
func (s *Service) GenerateFromSurvey(ctx context.Context, surveyID uuid.UUID, req FromSurveyRequest, actor string) (*Quotation, ImportResult, error) {
	if s.surveys == nil {
		return nil, ImportResult{}, errors.New("quotes: survey source not configured")
	}
	openings, err := s.surveys.ListOpenings(ctx, surveyID)
	if err != nil {
		return nil, ImportResult{}, fmt.Errorf("load survey openings: %w", err)
	}

	imported := ImportOpenings(s.table, openings)

	now := s.now().UTC()
	validDays := req.ValidDays
	if validDays <= 0 {
		validDays = DefaultValidDays
	}
	sid := surveyID
	q := &Quotation{
		ID:          uuid.New(),
		QuoteNumber: fmt.Sprintf("QT-%d", now.UnixMilli()),
		ProjectID:   req.ProjectID,
		SurveyID:    &sid,
		Customer: Customer{
			Name:  req.CustomerName,
			Phone: req.CustomerPhone,
			Email: req.CustomerEmail,
		},
		SiteAddress:          req.SiteAddress,
		Items:                imported.Items,
		InstallationIncluded: req.InstallationIncluded,
		ValidDays:            validDays,
		ValidUntil:           now.AddDate(0, 0, validDays),
		Status:               StatusDraft,
		StatusUpdatedAt:      now,
		StatusUpdatedBy:      actor,
		Notes:                req.Notes,
		CreatedBy:            actor,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	s.attachOwnership(q)
	q.Totals = ComputeTotals(q.Items, q.Accessories, q.InstallationIncluded, s.rates)

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, ImportResult{}, fmt.Errorf("create quotation from survey: %w", err)
	}
	s.recordAudit(ctx, actor, "quote:generate-from-survey", q.ID, map[string]any{
		"survey_id": surveyID.String(),
		"imported":  len(imported.Items),
		"skipped":   len(imported.Skipped),
	})
	return q, imported, nil
}

// Update replaces the content of a draft quotation and recomputes totals.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateQuoteRequest, actor string) (*Quotation, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.CanEdit() {
		return nil, fmt.Errorf("%w: status is %s", ErrNotEditable, q.Status)
	}

	now := s.now().UTC()
	if req.CustomerName != nil {
		q.Customer.Name = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		q.Customer.Phone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		q.Customer.Email = *req.CustomerEmail
	}
	if req.SiteAddress != nil {
		q.SiteAddress = *req.SiteAddress
	}
	if req.Notes != nil {
		q.Notes = req.Notes
	}
	if req.InstallationIncluded != nil {
		q.InstallationIncluded = *req.InstallationIncluded
	}
	if req.ValidDays != nil && *req.ValidDays > 0 {
		q.ValidDays = *req.ValidDays
		q.ValidUntil = q.CreatedAt.AddDate(0, 0, q.ValidDays)
	}
	if req.Items != nil {
		items, err := s.buildItems(*req.Items, now)
		if err != nil {
			return nil, err
		}
		q.Items = items
	}
	if req.Accessories != nil {
		accessories, err := s.buildAccessories(*req.Accessories)
		if err != nil {
			return nil, err
		}
		q.Accessories = accessories
	}

	s.attachOwnership(q)
	q.Totals = ComputeTotals(q.Items, q.Accessories, q.InstallationIncluded, s.rates)
	q.UpdatedAt = now

	if err := s.repo.ReplaceContent(ctx, q); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return q, nil
}

// Send marks a draft quotation as sent to the customer.
func (s *Service) Send(ctx context.Context, id uuid.UUID, actor string) (*Quotation, error) {
	return s.simpleTransition(ctx, id, EventSend, actor, "", StatusUpdate{})
}

// RequestDiscount parks a draft quotation for internal discount sign-off.
func (s *Service) RequestDiscount(ctx context.Context, id uuid.UUID, req DiscountRequest, actor string) (*Quotation, error) {
	approved := false
	return s.simpleTransition(ctx, id, EventRequestDiscount, actor, req.Reason, StatusUpdate{
		DiscountRequested: &req.Percent,
		DiscountApproved:  &approved,
		DiscountReason:    &req.Reason,
	})
}

// ApproveDiscount returns a pending-approval quotation to draft with the
// discount marked approved.
func (s *Service) ApproveDiscount(ctx context.Context, id uuid.UUID, actor string) (*Quotation, error) {
	approved := true
	return s.simpleTransition(ctx, id, EventApproveDiscount, actor, "", StatusUpdate{
		DiscountApproved: &approved,
	})
}

// Approve moves a sent quotation to approved. With holdStock the inventory
// ledger is asked to reserve materials first; the status is only persisted
// after the hold succeeds, so a ledger failure leaves the quote in sent.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, req ApproveRequest, actor string) (*Quotation, error) {
	unlock, err := s.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := q.Status.next(EventApprove); !ok {
		return nil, fmt.Errorf("%w: cannot approve from %s", ErrInvalidTransition, q.Status)
	}

	now := s.now().UTC()
	upd := StatusUpdate{Actor: actor, At: now}
	if req.HoldInventory {
		hctx, cancel := context.WithTimeout(ctx, s.sideEffectTimeout)
		defer cancel()
		if _, err := s.ledger.Hold(hctx, q.ID, holdItems(q)); err != nil {
			return nil, fmt.Errorf("%w: quote %s: %v", ErrLedgerFailed, q.QuoteNumber, err)
		}
		held := true
		upd.InventoryHeld = &held
	}

	change := StatusChange{
		QuoteID:    q.ID,
		FromStatus: StatusSent,
		ToStatus:   StatusApproved,
		Event:      EventApprove,
		Actor:      actor,
		At:         now,
	}
	if err := s.repo.Transition(ctx, StatusSent, change, upd); err != nil {
		if errors.Is(err, ErrTransitionConflict) && req.HoldInventory {
			// Another transition won while we were holding. Release is
			// idempotent, so undoing our hold is safe.
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sideEffectTimeout)
			defer cancel()
			if relErr := s.ledger.Release(rctx, q.ID); relErr != nil {
				s.logger.Error("release after conflicting approve failed",
					slog.String("quote_id", q.ID.String()), slog.Any("error", relErr))
			}
		}
		return nil, err
	}

	s.recordAudit(ctx, actor, "quote:approve", q.ID, map[string]any{
		"hold_inventory": req.HoldInventory,
	})
	return s.Get(ctx, id)
}

// Reject moves a sent quotation to rejected, releasing any inventory hold.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, req RejectRequest, actor string) (*Quotation, error) {
	unlock, err := s.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := q.Status.next(EventReject); !ok {
		return nil, fmt.Errorf("%w: cannot reject from %s", ErrInvalidTransition, q.Status)
	}

	now := s.now().UTC()
	upd := StatusUpdate{Actor: actor, At: now}
	if q.InventoryHeld {
		rctx, cancel := context.WithTimeout(ctx, s.sideEffectTimeout)
		defer cancel()
		if err := s.ledger.Release(rctx, q.ID); err != nil {
			return nil, fmt.Errorf("%w: quote %s release: %v", ErrLedgerFailed, q.QuoteNumber, err)
		}
		held := false
		upd.InventoryHeld = &held
	}

	change := StatusChange{
		QuoteID:    q.ID,
		FromStatus: StatusSent,
		ToStatus:   StatusRejected,
		Event:      EventReject,
		Actor:      actor,
		Notes:      req.Reason,
		At:         now,
	}
	if err := s.repo.Transition(ctx, StatusSent, change, upd); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "quote:reject", q.ID, map[string]any{"reason": req.Reason})
	return s.Get(ctx, id)
}

// Override is the administrative escape hatch: it moves a rejected quotation
// to an arbitrary target status with no side effects beyond the change
// itself, and is logged distinctly from normal transitions.
func (s *Service) Override(ctx context.Context, id uuid.UUID, req OverrideRequest, actor string) (*Quotation, error) {
	if !req.TargetStatus.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.TargetStatus)
	}
	unlock, err := s.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusRejected {
		return nil, fmt.Errorf("%w: override is only available from rejected, not %s", ErrInvalidTransition, q.Status)
	}
	if req.TargetStatus == StatusRejected {
		return nil, fmt.Errorf("%w: override target equals current status", ErrValidation)
	}

	now := s.now().UTC()
	change := StatusChange{
		QuoteID:    q.ID,
		FromStatus: StatusRejected,
		ToStatus:   req.TargetStatus,
		Event:      EventOverride,
		Actor:      actor,
		Notes:      req.Notes,
		At:         now,
	}
	if err := s.repo.Transition(ctx, StatusRejected, change, StatusUpdate{Actor: actor, At: now}); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "quote:override", q.ID, map[string]any{
		"target_status": string(req.TargetStatus),
		"notes":         req.Notes,
	})
	return s.Get(ctx, id)
}

// ConvertToInvoice turns an approved quotation into an invoice. The invoice is
// created from a snapshot before the status is persisted; invoice creation is
// idempotent per quote, so a conflicting transition can be retried safely.
func (s *Service) ConvertToInvoice(ctx context.Context, id uuid.UUID, actor string) (*Quotation, error) {
	unlock, err := s.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := q.Status.next(EventConvert); !ok {
		return nil, fmt.Errorf("%w: cannot convert from %s", ErrInvalidTransition, q.Status)
	}

	ictx, cancel := context.WithTimeout(ctx, s.sideEffectTimeout)
	defer cancel()
	invoiceID, err := s.invoices.CreateFromQuote(ictx, *q)
	if err != nil {
		return nil, fmt.Errorf("%w: quote %s: %v", ErrInvoiceFailed, q.QuoteNumber, err)
	}

	now := s.now().UTC()
	change := StatusChange{
		QuoteID:    q.ID,
		FromStatus: StatusApproved,
		ToStatus:   StatusInvoiced,
		Event:      EventConvert,
		Actor:      actor,
		At:         now,
	}
	if err := s.repo.Transition(ctx, StatusApproved, change, StatusUpdate{Actor: actor, At: now, InvoiceID: &invoiceID}); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "quote:convert-to-invoice", q.ID, map[string]any{
		"invoice_id": invoiceID.String(),
	})
	return s.Get(ctx, id)
}

// ExpireStale marks quotations whose validity window has passed as expired.
// The transition is advisory: no holds are released and no other side effect
// fires. Returns the number of quotes expired.
func (s *Service) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.repo.ListExpirable(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expirable quotes: %w", err)
	}
	expired := 0
	for _, q := range stale {
		change := StatusChange{
			QuoteID:    q.ID,
			FromStatus: q.Status,
			ToStatus:   StatusExpired,
			Event:      EventExpire,
			Actor:      "system",
			At:         now.UTC(),
		}
		err := s.repo.Transition(ctx, q.Status, change, StatusUpdate{Actor: "system", At: now.UTC()})
		if errors.Is(err, ErrTransitionConflict) {
			continue // moved concurrently; nothing to do
		}
		if err != nil {
			return expired, fmt.Errorf("expire quote %s: %w", q.QuoteNumber, err)
		}
		expired++
	}
	return expired, nil
}

// Get loads a quotation with items and accessories.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// List returns quotations matching the filter plus dashboard stats.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Quotation, Stats, error) {
	return s.repo.List(ctx, filter)
}

// History returns the status audit trail, newest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]StatusChange, error) {
	return s.repo.History(ctx, id)
}

// simpleTransition applies a transition that has no external side effects.
func (s *Service) simpleTransition(ctx context.Context, id uuid.UUID, event Event, actor, notes string, upd StatusUpdate) (*Quotation, error) {
	unlock, err := s.acquireLock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	target, ok := q.Status.next(event)
	if !ok {
		return nil, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, event, q.Status)
	}

	now := s.now().UTC()
	upd.Actor = actor
	upd.At = now
	change := StatusChange{
		QuoteID:    q.ID,
		FromStatus: q.Status,
		ToStatus:   target,
		Event:      event,
		Actor:      actor,
		Notes:      notes,
		At:         now,
	}
	if err := s.repo.Transition(ctx, q.Status, change, upd); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actor, "quote:"+string(event), q.ID, nil)
	return s.Get(ctx, id)
}

func (s *Service) acquireLock(ctx context.Context, id uuid.UUID) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	return s.locks.Acquire(ctx, id)
}

func (s *Service) buildItems(reqs []ItemRequest, now time.Time) ([]LineItem, error) {
	items := make([]LineItem, 0, len(reqs))
	for i, req := range reqs {
		if req.CustomRate != nil && *req.CustomRate <= 0 {
			return nil, fmt.Errorf("%w: item %d custom_rate_per_sqft must be positive", ErrValidation, i+1)
		}
		if req.ManualTotal != nil && *req.ManualTotal <= 0 {
			return nil, fmt.Errorf("%w: item %d manual_total must be positive", ErrValidation, i+1)
		}

		spec := pricing.ItemSpec{
			Type:     valueOr(req.Type, pricing.DefaultType),
			Category: valueOr(req.Category, pricing.DefaultCategory),
			Material: valueOr(req.Material, pricing.FallbackMaterial),
			Glass:    valueOr(req.Glass, pricing.DefaultGlass),
			Finish:   valueOr(req.Finish, pricing.DefaultFinish),
			WidthMM:  req.WidthMM,
			HeightMM: req.HeightMM,
			Panels:   req.Panels,
			Quantity: req.Quantity,
			Mesh:     req.Mesh,
			Grill:    req.Grill,
		}
		if req.CustomRate != nil {
			spec.CustomRate = *req.CustomRate
		}
		manualTotal := 0.0
		if req.ManualTotal != nil {
			manualTotal = *req.ManualTotal
		}

		priced := pricing.Calculate(s.table, spec, manualTotal)
		for _, fb := range priced.Fallbacks {
			s.logger.Warn("unknown pricing attribute, using neutral default",
				slog.Int("item", i+1), slog.String("attribute", fb))
		}

		width := req.WidthMM
		if width <= 0 {
			width = pricing.DefaultWidthMM
		}
		height := req.HeightMM
		if height <= 0 {
			height = pricing.DefaultHeightMM
		}

		items = append(items, LineItem{
			ID:                uuid.New(),
			OpeningRef:        req.OpeningRef,
			Room:              req.Room,
			Floor:             req.Floor,
			Type:              spec.Type,
			Category:          spec.Category,
			Material:          spec.Material,
			Glass:             spec.Glass,
			Finish:            spec.Finish,
			WidthMM:           width,
			HeightMM:          height,
			Panels:            panelsOr(req.Panels, pricing.DefaultPanels),
			Quantity:          quantityOr(req.Quantity),
			Mesh:              req.Mesh,
			Grill:             req.Grill,
			CustomRatePerSqft: req.CustomRate,
			ManualTotal:       req.ManualTotal,
			AreaSqft:          priced.AreaSqft,
			RatePerSqft:       priced.RatePerSqft,
			TotalAmount:       priced.TotalAmount,
			IsManualPrice:     priced.Manual,
			Notes:             req.Notes,
			LineOrder:         i + 1,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return items, nil
}

func (s *Service) buildAccessories(reqs []AccessoryRequest) ([]Accessory, error) {
	accessories := make([]Accessory, 0, len(reqs))
	for i, req := range reqs {
		acc := Accessory{
			ID:       uuid.New(),
			Quantity: req.Quantity,
		}
		if req.CatalogID != nil {
			rate, ok := s.table.Accessory(*req.CatalogID)
			if !ok {
				return nil, fmt.Errorf("%w: accessory %d references unknown catalog id %q", ErrValidation, i+1, *req.CatalogID)
			}
			acc.CatalogID = req.CatalogID
			acc.Name = rate.Name
			acc.UnitPrice = rate.Price
			acc.Unit = rate.Unit
		} else {
			if req.Name == "" {
				return nil, fmt.Errorf("%w: accessory %d requires a name", ErrValidation, i+1)
			}
			acc.Name = req.Name
			acc.UnitPrice = req.UnitPrice
			acc.Unit = valueOr(req.Unit, "piece")
		}
		accessories = append(accessories, acc)
	}
	return accessories, nil
}

func (s *Service) attachOwnership(q *Quotation) {
	for i := range q.Items {
		q.Items[i].QuoteID = q.ID
	}
	for i := range q.Accessories {
		q.Accessories[i].QuoteID = q.ID
	}
}

func (s *Service) recordAudit(ctx context.Context, actor, action string, quoteID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "quotation",
		EntityID: quoteID.String(),
		Meta:     meta,
	})
}

func holdItems(q *Quotation) []HoldItem {
	items := make([]HoldItem, 0, len(q.Items))
	for _, item := range q.Items {
		items = append(items, HoldItem{
			LineItemID: item.ID,
			OpeningRef: item.OpeningRef,
			Description: fmt.Sprintf("%s %s %s %.0fx%.0fmm",
				item.Material, item.Category, item.Type, item.WidthMM, item.HeightMM),
			Quantity: item.Quantity,
		})
	}
	return items
}
