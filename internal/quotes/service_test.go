package quotes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fenestra-works/fenestra/internal/surveys"
)

type memoryQuoteRepo struct {
	mu      sync.Mutex
	quotes  map[uuid.UUID]*Quotation
	history []StatusChange

	// transitionErr, when set, is returned by the next Transition call.
	transitionErr error
}

func newMemoryQuoteRepo() *memoryQuoteRepo {
	return &memoryQuoteRepo{quotes: make(map[uuid.UUID]*Quotation)}
}

func (r *memoryQuoteRepo) Create(_ context.Context, q *Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	r.quotes[q.ID] = &cp
	return nil
}

func (r *memoryQuoteRepo) Get(_ context.Context, id uuid.UUID) (*Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.quotes[id]
	if !ok {
		return nil, ErrQuoteNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *memoryQuoteRepo) List(_ context.Context, _ ListFilter) ([]Quotation, Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Quotation, 0, len(r.quotes))
	for _, q := range r.quotes {
		out = append(out, *q)
	}
	return out, Stats{Total: len(out)}, nil
}

func (r *memoryQuoteRepo) ReplaceContent(_ context.Context, q *Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.quotes[q.ID]
	if !ok {
		return ErrQuoteNotFound
	}
	if !stored.Status.CanEdit() {
		return ErrNotEditable
	}
	cp := *q
	r.quotes[q.ID] = &cp
	return nil
}

func (r *memoryQuoteRepo) Transition(_ context.Context, from Status, change StatusChange, upd StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transitionErr != nil {
		err := r.transitionErr
		r.transitionErr = nil
		return err
	}
	q, ok := r.quotes[change.QuoteID]
	if !ok {
		return ErrQuoteNotFound
	}
	if q.Status != from {
		return ErrTransitionConflict
	}
	q.Status = change.ToStatus
	q.StatusUpdatedAt = upd.At
	q.StatusUpdatedBy = upd.Actor
	if upd.InventoryHeld != nil {
		q.InventoryHeld = *upd.InventoryHeld
	}
	if upd.InvoiceID != nil {
		q.InvoiceID = upd.InvoiceID
	}
	if upd.DiscountRequested != nil {
		q.DiscountRequested = *upd.DiscountRequested
	}
	if upd.DiscountApproved != nil {
		q.DiscountApproved = *upd.DiscountApproved
	}
	if upd.DiscountReason != nil {
		q.DiscountReason = *upd.DiscountReason
	}
	r.history = append(r.history, change)
	return nil
}

func (r *memoryQuoteRepo) History(_ context.Context, id uuid.UUID) ([]StatusChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []StatusChange
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].QuoteID == id {
			out = append(out, r.history[i])
		}
	}
	return out, nil
}

func (r *memoryQuoteRepo) ListExpirable(_ context.Context, cutoff time.Time) ([]Quotation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Quotation
	for _, q := range r.quotes {
		if !q.Status.IsTerminal() && q.ValidUntil.Before(cutoff) {
			out = append(out, *q)
		}
	}
	return out, nil
}

type fakeLedger struct {
	mu       sync.Mutex
	holds    map[uuid.UUID][]HoldItem
	released []uuid.UUID
	holdErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{holds: make(map[uuid.UUID][]HoldItem)}
}

func (l *fakeLedger) Hold(_ context.Context, quoteID uuid.UUID, items []HoldItem) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.holdErr != nil {
		return uuid.Nil, l.holdErr
	}
	l.holds[quoteID] = items
	return uuid.New(), nil
}

func (l *fakeLedger) Release(_ context.Context, quoteID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.holds, quoteID)
	l.released = append(l.released, quoteID)
	return nil
}

type fakeInvoices struct {
	created map[uuid.UUID]uuid.UUID
	err     error
}

func newFakeInvoices() *fakeInvoices {
	return &fakeInvoices{created: make(map[uuid.UUID]uuid.UUID)}
}

func (f *fakeInvoices) CreateFromQuote(_ context.Context, snapshot Quotation) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	if id, ok := f.created[snapshot.ID]; ok {
		return id, nil
	}
	id := uuid.New()
	f.created[snapshot.ID] = id
	return id, nil
}

type fakeSurveySource struct {
	openings map[uuid.UUID][]surveys.Opening
}

func (f *fakeSurveySource) ListOpenings(_ context.Context, surveyID uuid.UUID) ([]surveys.Opening, error) {
	openings, ok := f.openings[surveyID]
	if !ok {
		return nil, surveys.ErrSurveyNotFound
	}
	return openings, nil
}

func newTestService(t *testing.T) (*Service, *memoryQuoteRepo, *fakeLedger, *fakeInvoices) {
	t.Helper()
	repo := newMemoryQuoteRepo()
	ledger := newFakeLedger()
	invoices := newFakeInvoices()
	svc := NewService(repo, Deps{
		Ledger:   ledger,
		Invoices: invoices,
	})
	return svc, repo, ledger, invoices
}

func createDraft(t *testing.T, svc *Service) *Quotation {
	t.Helper()
	q, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerName:         "Asha Builders",
		InstallationIncluded: true,
		Items: []ItemRequest{
			{Material: "Aluminium", Category: "Sliding", WidthMM: 1200, HeightMM: 1500, Quantity: 2},
		},
		Accessories: []AccessoryRequest{
			{CatalogID: ptr("handle"), Quantity: 2},
		},
	}, "estimator")
	require.NoError(t, err)
	return q
}

func ptr[T any](v T) *T { return &v }

func TestCreatePricesAndTotals(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	q := createDraft(t, svc)

	require.True(t, strings.HasPrefix(q.QuoteNumber, "QT-"))
	require.Equal(t, StatusDraft, q.Status)
	require.Len(t, q.Items, 1)
	require.Equal(t, q.ID, q.Items[0].QuoteID)
	// 450/sqft, 19.38 sqft, qty 2.
	require.Equal(t, float64(17438), q.Items[0].TotalAmount)
	require.Equal(t, float64(900), q.Totals.AccessoriesTotal)
	require.Equal(t, q.Totals.Subtotal+q.Totals.InstallationCharge+q.Totals.TaxAmount, q.Totals.GrandTotal)
	require.Equal(t, 30, q.ValidDays)
}

func TestCreateRejectsNonPositiveOverrides(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateQuoteRequest{
		CustomerName: "Asha Builders",
		Items:        []ItemRequest{{ManualTotal: ptr(-100.0)}},
	}, "estimator")
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOnlyFromDraft(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	q := createDraft(t, svc)

	_, err := svc.Send(context.Background(), q.ID, "estimator")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), q.ID, UpdateQuoteRequest{
		SiteAddress: ptr("12 Hill Road"),
	}, "estimator")
	require.ErrorIs(t, err, ErrNotEditable)
}

func TestUpdateRecomputesTotals(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	q := createDraft(t, svc)

	updated, err := svc.Update(context.Background(), q.ID, UpdateQuoteRequest{
		Items: ptr([]ItemRequest{{ManualTotal: ptr(25000.0)}}),
	}, "estimator")
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	require.True(t, updated.Items[0].IsManualPrice)
	require.Equal(t, float64(25000), updated.Totals.ItemsTotal)
	require.NotEqual(t, q.Totals.GrandTotal, updated.Totals.GrandTotal)
}

func TestLifecycleDraftToInvoiced(t *testing.T) {
	svc, repo, ledger, invoices := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)

	sent, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)
	require.Equal(t, StatusSent, sent.Status)

	approved, err := svc.Approve(ctx, q.ID, ApproveRequest{HoldInventory: true}, "manager")
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
	require.True(t, approved.InventoryHeld)
	require.Len(t, ledger.holds[q.ID], 1)
	require.Equal(t, 2, ledger.holds[q.ID][0].Quantity)

	invoiced, err := svc.ConvertToInvoice(ctx, q.ID, "accounts")
	require.NoError(t, err)
	require.Equal(t, StatusInvoiced, invoiced.Status)
	require.NotNil(t, invoiced.InvoiceID)
	require.Equal(t, invoices.created[q.ID], *invoiced.InvoiceID)

	history, err := svc.History(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, EventConvert, history[0].Event)
	require.Equal(t, EventSend, history[2].Event)

	// Terminal: nothing further is legal.
	_, err = svc.Send(ctx, q.ID, "estimator")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, StatusInvoiced, repo.quotes[q.ID].Status)
}

func TestApproveRequiresSent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	q := createDraft(t, svc)

	_, err := svc.Approve(context.Background(), q.ID, ApproveRequest{}, "manager")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestApproveHoldFailureLeavesQuoteSent(t *testing.T) {
	svc, repo, ledger, _ := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)
	_, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)

	ledger.holdErr = errors.New("warehouse offline")
	_, err = svc.Approve(ctx, q.ID, ApproveRequest{HoldInventory: true}, "manager")
	require.ErrorIs(t, err, ErrLedgerFailed)
	require.Equal(t, StatusSent, repo.quotes[q.ID].Status)
	require.False(t, repo.quotes[q.ID].InventoryHeld)

	// The ledger failure is retryable once the warehouse is back.
	ledger.holdErr = nil
	approved, err := svc.Approve(ctx, q.ID, ApproveRequest{HoldInventory: true}, "manager")
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)
}

func TestApproveConflictReleasesHold(t *testing.T) {
	svc, repo, ledger, _ := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)
	_, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)

	repo.transitionErr = ErrTransitionConflict
	_, err = svc.Approve(ctx, q.ID, ApproveRequest{HoldInventory: true}, "manager")
	require.ErrorIs(t, err, ErrTransitionConflict)
	require.Equal(t, []uuid.UUID{q.ID}, ledger.released)
	require.Empty(t, ledger.holds)
}

func TestRejectRequiresSent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)
	_, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, q.ID, ApproveRequest{}, "manager")
	require.NoError(t, err)

	_, err = svc.Reject(ctx, q.ID, RejectRequest{Reason: "price too high"}, "manager")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectFromSentReleasesHold(t *testing.T) {
	svc, repo, ledger, _ := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)
	_, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)

	// Simulate a hold left behind by an earlier approval cycle.
	repo.mu.Lock()
	repo.quotes[q.ID].InventoryHeld = true
	repo.mu.Unlock()
	ledger.holds[q.ID] = []HoldItem{{Quantity: 2}}

	rejected, err := svc.Reject(ctx, q.ID, RejectRequest{Reason: "competitor won"}, "manager")
	require.NoError(t, err)
	require.Equal(t, StatusRejected, rejected.Status)
	require.False(t, rejected.InventoryHeld)
	require.Equal(t, []uuid.UUID{q.ID}, ledger.released)
}

func TestOverrideOnlyFromRejected(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)

	_, err := svc.Override(ctx, q.ID, OverrideRequest{TargetStatus: StatusSent}, "admin")
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)
	_, err = svc.Reject(ctx, q.ID, RejectRequest{}, "manager")
	require.NoError(t, err)

	_, err = svc.Override(ctx, q.ID, OverrideRequest{TargetStatus: Status("limbo")}, "admin")
	require.ErrorIs(t, err, ErrValidation)

	restored, err := svc.Override(ctx, q.ID, OverrideRequest{TargetStatus: StatusDraft, Notes: "customer came back"}, "admin")
	require.NoError(t, err)
	require.Equal(t, StatusDraft, restored.Status)

	history, err := svc.History(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, EventOverride, history[0].Event)
}

func TestDiscountDetour(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)

	pending, err := svc.RequestDiscount(ctx, q.ID, DiscountRequest{Percent: 12.5, Reason: "bulk order"}, "estimator")
	require.NoError(t, err)
	require.Equal(t, StatusPendingApproval, pending.Status)
	require.Equal(t, 12.5, pending.DiscountRequested)
	require.False(t, pending.DiscountApproved)

	// Parked quotes cannot be sent.
	_, err = svc.Send(ctx, q.ID, "estimator")
	require.ErrorIs(t, err, ErrInvalidTransition)

	back, err := svc.ApproveDiscount(ctx, q.ID, "manager")
	require.NoError(t, err)
	require.Equal(t, StatusDraft, back.Status)
	require.True(t, back.DiscountApproved)

	sent, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)
	require.Equal(t, StatusSent, sent.Status)
}

func TestConvertFailureLeavesQuoteApproved(t *testing.T) {
	svc, repo, _, invoices := newTestService(t)
	ctx := context.Background()
	q := createDraft(t, svc)
	_, err := svc.Send(ctx, q.ID, "estimator")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, q.ID, ApproveRequest{}, "manager")
	require.NoError(t, err)

	invoices.err = errors.New("ledger closed")
	_, err = svc.ConvertToInvoice(ctx, q.ID, "accounts")
	require.ErrorIs(t, err, ErrInvoiceFailed)
	require.Equal(t, StatusApproved, repo.quotes[q.ID].Status)
	require.Nil(t, repo.quotes[q.ID].InvoiceID)
}

func TestGenerateFromSurvey(t *testing.T) {
	repo := newMemoryQuoteRepo()
	surveyID := uuid.New()
	source := &fakeSurveySource{openings: map[uuid.UUID][]surveys.Opening{
		surveyID: {
			{ID: uuid.New(), OpeningRef: "W-01", WidthMM: 1200, HeightMM: 1500},
			{ID: uuid.New(), OpeningRef: "W-02"},
		},
	}}
	svc := NewService(repo, Deps{Surveys: source})

	q, imported, err := svc.GenerateFromSurvey(context.Background(), surveyID, FromSurveyRequest{
		CustomerName: "Asha Builders",
	}, "surveyor")
	require.NoError(t, err)
	require.Equal(t, StatusDraft, q.Status)
	require.Equal(t, &surveyID, q.SurveyID)
	require.Len(t, q.Items, 1)
	require.Len(t, imported.Skipped, 1)
	require.Equal(t, "missing dimensions", imported.Skipped[0].Reason)
	require.Greater(t, q.Totals.GrandTotal, float64(0))

	_, _, err = svc.GenerateFromSurvey(context.Background(), uuid.New(), FromSurveyRequest{
		CustomerName: "Asha Builders",
	}, "surveyor")
	require.ErrorIs(t, err, surveys.ErrSurveyNotFound)
}

func TestExpireStale(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	fresh := createDraft(t, svc)
	stale := createDraft(t, svc)
	invoicedStale := createDraft(t, svc)

	past := time.Now().UTC().AddDate(0, 0, -1)
	repo.mu.Lock()
	repo.quotes[stale.ID].ValidUntil = past
	repo.quotes[invoicedStale.ID].ValidUntil = past
	repo.quotes[invoicedStale.ID].Status = StatusInvoiced
	repo.mu.Unlock()

	expired, err := svc.ExpireStale(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, 1, expired)
	require.Equal(t, StatusExpired, repo.quotes[stale.ID].Status)
	require.Equal(t, StatusDraft, repo.quotes[fresh.ID].Status)
	require.Equal(t, StatusInvoiced, repo.quotes[invoicedStale.ID].Status)

	history, err := svc.History(ctx, stale.ID)
	require.NoError(t, err)
	require.Equal(t, EventExpire, history[0].Event)
	require.Equal(t, "system", history[0].Actor)
}

func TestTransitionsOnMissingQuote(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Send(context.Background(), uuid.New(), "estimator")
	require.ErrorIs(t, err, ErrQuoteNotFound)
}
