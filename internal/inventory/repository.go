package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fenestra-works/fenestra/internal/platform/db"
)

// Repository persists the hold ledger in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	GetActiveHoldForUpdate(ctx context.Context, quoteID uuid.UUID) (Hold, error)
	InsertHold(ctx context.Context, hold Hold) error
	InsertHoldItems(ctx context.Context, items []HoldItem) error
	MarkReleased(ctx context.Context, holdID uuid.UUID, at time.Time) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// GetByQuote returns the most recent hold for a quote with its items.
func (r *Repository) GetByQuote(ctx context.Context, quoteID uuid.UUID) (Hold, error) {
	const q = `
		SELECT id, quote_id, status, created_by, created_at, released_at
		FROM inventory_holds
		WHERE quote_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	hold, err := scanHold(r.pool.QueryRow(ctx, q, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Hold{}, ErrHoldNotFound
		}
		return Hold{}, fmt.Errorf("get hold: %w", err)
	}
	hold.Items, err = r.listItems(ctx, hold.ID)
	return hold, err
}

// List returns holds matching the filter, newest first, without items.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Hold, error) {
	query := `
		SELECT id, quote_id, status, created_by, created_at, released_at
		FROM inventory_holds WHERE 1=1`
	args := []any{}
	n := 0
	if filter.QuoteID != nil {
		n++
		query += fmt.Sprintf(" AND quote_id = $%d", n)
		args = append(args, *filter.QuoteID)
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, *filter.Status)
	}
	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}
	defer rows.Close()

	var holds []Hold
	for rows.Next() {
		hold, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hold: %w", err)
		}
		holds = append(holds, hold)
	}
	return holds, rows.Err()
}

func (r *Repository) listItems(ctx context.Context, holdID uuid.UUID) ([]HoldItem, error) {
	const q = `
		SELECT id, hold_id, line_item_id, opening_ref, description, quantity
		FROM inventory_hold_items WHERE hold_id = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, q, holdID)
	if err != nil {
		return nil, fmt.Errorf("list hold items: %w", err)
	}
	defer rows.Close()

	var items []HoldItem
	for rows.Next() {
		var it HoldItem
		if err := rows.Scan(&it.ID, &it.HoldID, &it.LineItemID, &it.OpeningRef, &it.Description, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan hold item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *txRepo) GetActiveHoldForUpdate(ctx context.Context, quoteID uuid.UUID) (Hold, error) {
	const q = `
		SELECT id, quote_id, status, created_by, created_at, released_at
		FROM inventory_holds
		WHERE quote_id = $1 AND status = 'held'
		FOR UPDATE`
	hold, err := scanHold(r.tx.QueryRow(ctx, q, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Hold{}, ErrHoldNotFound
		}
		return Hold{}, err
	}
	return hold, nil
}

func (r *txRepo) InsertHold(ctx context.Context, hold Hold) error {
	const q = `
		INSERT INTO inventory_holds (id, quote_id, status, created_by, created_at, released_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.tx.Exec(ctx, q, hold.ID, hold.QuoteID, hold.Status, hold.CreatedBy, hold.CreatedAt, hold.ReleasedAt)
	return err
}

func (r *txRepo) InsertHoldItems(ctx context.Context, items []HoldItem) error {
	const q = `
		INSERT INTO inventory_hold_items (id, hold_id, line_item_id, opening_ref, description, quantity)
		VALUES ($1,$2,$3,$4,$5,$6)`
	for _, it := range items {
		if _, err := r.tx.Exec(ctx, q, it.ID, it.HoldID, it.LineItemID, it.OpeningRef, it.Description, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepo) MarkReleased(ctx context.Context, holdID uuid.UUID, at time.Time) error {
	const q = `UPDATE inventory_holds SET status = 'released', released_at = $2 WHERE id = $1`
	_, err := r.tx.Exec(ctx, q, holdID, at)
	return err
}

func scanHold(row pgx.Row) (Hold, error) {
	var h Hold
	if err := row.Scan(&h.ID, &h.QuoteID, &h.Status, &h.CreatedBy, &h.CreatedAt, &h.ReleasedAt); err != nil {
		return Hold{}, err
	}
	return h, nil
}
