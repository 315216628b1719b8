package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetByQuote(ctx context.Context, quoteID uuid.UUID) (Hold, error)
	List(ctx context.Context, filter ListFilter) ([]Hold, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates hold ledger operations. Hold and Release are both
// idempotent per quote so lifecycle transitions can be retried safely.
type Service struct {
	repo        RepositoryPort
	audit       AuditPort
	idempotency *shared.IdempotencyStore
}

// NewService builds Service.
func NewService(repo RepositoryPort, audit AuditPort, idem *shared.IdempotencyStore) *Service {
	return &Service{repo: repo, audit: audit, idempotency: idem}
}

// Hold reserves materials for a quotation. Holding a quote that already has an
// active hold returns the existing hold id without creating a second one.
func (s *Service) Hold(ctx context.Context, quoteID uuid.UUID, actor string, inputs []HoldItemInput) (uuid.UUID, error) {
	if quoteID == uuid.Nil {
		return uuid.Nil, errors.New("inventory: quote id required")
	}
	if len(inputs) == 0 {
		return uuid.Nil, ErrNoItems
	}
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidQuantity, in.Description)
		}
	}

	now := time.Now().UTC()
	hold := Hold{
		ID:        uuid.New(),
		QuoteID:   quoteID,
		Status:    HoldStatusHeld,
		CreatedBy: actor,
		CreatedAt: now,
	}
	for _, in := range inputs {
		hold.Items = append(hold.Items, HoldItem{
			ID:          uuid.New(),
			HoldID:      hold.ID,
			LineItemID:  in.LineItemID,
			OpeningRef:  in.OpeningRef,
			Description: in.Description,
			Quantity:    in.Quantity,
		})
	}

	key := holdKey(quoteID)
	insertedKey := false
	if s.idempotency != nil {
		err := s.idempotency.CheckAndInsert(ctx, key, "inventory")
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			existing, gerr := s.repo.GetByQuote(ctx, quoteID)
			if gerr == nil && existing.Status == HoldStatusHeld {
				return existing.ID, nil
			}
			// Stale key from a failed run; fall through and take the row lock.
		} else if err != nil {
			return uuid.Nil, err
		} else {
			insertedKey = true
		}
	}

	var heldID uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetActiveHoldForUpdate(ctx, quoteID)
		if err == nil {
			heldID = existing.ID
			return nil
		}
		if !errors.Is(err, ErrHoldNotFound) {
			return err
		}
		if err := tx.InsertHold(ctx, hold); err != nil {
			return err
		}
		if err := tx.InsertHoldItems(ctx, hold.Items); err != nil {
			return err
		}
		heldID = hold.ID
		return nil
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, key)
		}
		return uuid.Nil, err
	}

	if s.audit != nil && heldID == hold.ID {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Actor:    actor,
			Action:   "inventory:hold",
			Entity:   "inventory_hold",
			EntityID: heldID.String(),
			Meta: map[string]any{
				"quote_id": quoteID.String(),
				"items":    len(hold.Items),
			},
		})
	}
	return heldID, nil
}

// Release gives back the active hold for a quote. Releasing a quote without an
// active hold is a no-op.
func (s *Service) Release(ctx context.Context, quoteID uuid.UUID, actor string) error {
	if quoteID == uuid.Nil {
		return errors.New("inventory: quote id required")
	}

	now := time.Now().UTC()
	released := uuid.Nil
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetActiveHoldForUpdate(ctx, quoteID)
		if errors.Is(err, ErrHoldNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.MarkReleased(ctx, existing.ID, now); err != nil {
			return err
		}
		released = existing.ID
		return nil
	})
	if err != nil {
		return err
	}
	if released == uuid.Nil {
		return nil
	}

	if s.idempotency != nil {
		_ = s.idempotency.Delete(ctx, holdKey(quoteID))
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Actor:    actor,
			Action:   "inventory:release",
			Entity:   "inventory_hold",
			EntityID: released.String(),
			Meta:     map[string]any{"quote_id": quoteID.String()},
		})
	}
	return nil
}

// GetByQuote returns the latest hold for a quote with its items.
func (s *Service) GetByQuote(ctx context.Context, quoteID uuid.UUID) (Hold, error) {
	return s.repo.GetByQuote(ctx, quoteID)
}

// List returns holds matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Hold, error) {
	return s.repo.List(ctx, filter)
}

func holdKey(quoteID uuid.UUID) string {
	return fmt.Sprintf("hold:%s", quoteID)
}
