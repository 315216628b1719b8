package quotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a postgres-backed quotation repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

const quoteColumns = `
	id, quote_number, project_id, survey_id,
	customer_name, customer_phone, customer_email, site_address,
	items_total, accessories_total, subtotal, installation_charge,
	tax_amount, grand_total, total_area_sqft,
	installation_included, valid_days, valid_until,
	status, inventory_held, invoice_id, status_updated_at, status_updated_by,
	discount_requested, discount_approved, discount_reason,
	notes, created_by, created_at, updated_at`

func (r *pgRepository) Create(ctx context.Context, q *Quotation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertQuote = `
		INSERT INTO quotations (` + quoteColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
		        $16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)`
	if _, err := tx.Exec(ctx, insertQuote,
		q.ID, q.QuoteNumber, q.ProjectID, q.SurveyID,
		q.Customer.Name, q.Customer.Phone, q.Customer.Email, q.SiteAddress,
		q.Totals.ItemsTotal, q.Totals.AccessoriesTotal, q.Totals.Subtotal,
		q.Totals.InstallationCharge, q.Totals.TaxAmount, q.Totals.GrandTotal,
		q.Totals.TotalAreaSqft,
		q.InstallationIncluded, q.ValidDays, q.ValidUntil,
		q.Status, q.InventoryHeld, q.InvoiceID, q.StatusUpdatedAt, q.StatusUpdatedBy,
		q.DiscountRequested, q.DiscountApproved, q.DiscountReason,
		q.Notes, q.CreatedBy, q.CreatedAt, q.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert quotation: %w", err)
	}

	if err := insertItems(ctx, tx, q.Items); err != nil {
		return err
	}
	if err := insertAccessories(ctx, tx, q.Accessories); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgRepository) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	const q = `SELECT ` + quoteColumns + ` FROM quotations WHERE id = $1`
	row := r.pool.QueryRow(ctx, q, id)
	quote, err := scanQuotation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}

	if quote.Items, err = r.listItems(ctx, id); err != nil {
		return nil, err
	}
	if quote.Accessories, err = r.listAccessories(ctx, id); err != nil {
		return nil, err
	}
	return quote, nil
}

func (r *pgRepository) List(ctx context.Context, filter ListFilter) ([]Quotation, Stats, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotations WHERE 1=1`
	args := []any{}
	n := 0
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, *filter.Status)
	}
	if filter.ProjectID != nil {
		n++
		query += fmt.Sprintf(" AND project_id = $%d", n)
		args = append(args, *filter.ProjectID)
	}
	if filter.SurveyID != nil {
		n++
		query += fmt.Sprintf(" AND survey_id = $%d", n)
		args = append(args, *filter.SurveyID)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		n++
		query += fmt.Sprintf(" LIMIT $%d", n)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var quotes []Quotation
	for rows.Next() {
		quote, err := scanQuotation(rows)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("scan quotation: %w", err)
		}
		quotes = append(quotes, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, Stats{}, err
	}

	stats, err := r.stats(ctx)
	if err != nil {
		return nil, Stats{}, err
	}
	return quotes, stats, nil
}

func (r *pgRepository) stats(ctx context.Context) (Stats, error) {
	const q = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COUNT(*) FILTER (WHERE status = 'sent'),
		       COUNT(*) FILTER (WHERE status = 'approved'),
		       COUNT(*) FILTER (WHERE status = 'rejected'),
		       COALESCE(SUM(grand_total), 0)
		FROM quotations`
	var s Stats
	if err := r.pool.QueryRow(ctx, q).Scan(&s.Total, &s.Draft, &s.Sent, &s.Approved, &s.Rejected, &s.TotalValue); err != nil {
		return Stats{}, fmt.Errorf("quote stats: %w", err)
	}
	if s.Total > 0 {
		s.AvgValue = s.TotalValue / float64(s.Total)
	}
	return s, nil
}

func (r *pgRepository) ReplaceContent(ctx context.Context, q *Quotation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const update = `
		UPDATE quotations SET
			customer_name=$2, customer_phone=$3, customer_email=$4, site_address=$5,
			items_total=$6, accessories_total=$7, subtotal=$8, installation_charge=$9,
			tax_amount=$10, grand_total=$11, total_area_sqft=$12,
			installation_included=$13, valid_days=$14, valid_until=$15,
			notes=$16, updated_at=$17
		WHERE id=$1 AND status='draft'`
	tag, err := tx.Exec(ctx, update,
		q.ID, q.Customer.Name, q.Customer.Phone, q.Customer.Email, q.SiteAddress,
		q.Totals.ItemsTotal, q.Totals.AccessoriesTotal, q.Totals.Subtotal,
		q.Totals.InstallationCharge, q.Totals.TaxAmount, q.Totals.GrandTotal,
		q.Totals.TotalAreaSqft,
		q.InstallationIncluded, q.ValidDays, q.ValidUntil,
		q.Notes, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotEditable
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quote_items WHERE quote_id=$1`, q.ID); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM quote_accessories WHERE quote_id=$1`, q.ID); err != nil {
		return fmt.Errorf("delete accessories: %w", err)
	}
	if err := insertItems(ctx, tx, q.Items); err != nil {
		return err
	}
	if err := insertAccessories(ctx, tx, q.Accessories); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgRepository) Transition(ctx context.Context, from Status, change StatusChange, upd StatusUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `UPDATE quotations SET status=$3, status_updated_at=$4, status_updated_by=$5, updated_at=$4`
	args := []any{change.QuoteID, from, change.ToStatus, upd.At, upd.Actor}
	n := len(args)
	addSet := func(col string, v any) {
		n++
		query += fmt.Sprintf(", %s=$%d", col, n)
		args = append(args, v)
	}
	if upd.InventoryHeld != nil {
		addSet("inventory_held", *upd.InventoryHeld)
	}
	if upd.InvoiceID != nil {
		addSet("invoice_id", *upd.InvoiceID)
	}
	if upd.DiscountRequested != nil {
		addSet("discount_requested", *upd.DiscountRequested)
	}
	if upd.DiscountApproved != nil {
		addSet("discount_approved", *upd.DiscountApproved)
	}
	if upd.DiscountReason != nil {
		addSet("discount_reason", *upd.DiscountReason)
	}
	query += ` WHERE id=$1 AND status=$2`

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("transition quotation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or a concurrent transition won; distinguish for the caller.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM quotations WHERE id=$1)`, change.QuoteID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrQuoteNotFound
		}
		return ErrTransitionConflict
	}

	const insertHistory = `
		INSERT INTO quote_status_history (quote_id, from_status, to_status, event, actor, notes, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	if _, err := tx.Exec(ctx, insertHistory,
		change.QuoteID, change.FromStatus, change.ToStatus, change.Event,
		change.Actor, change.Notes, change.At,
	); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgRepository) History(ctx context.Context, id uuid.UUID) ([]StatusChange, error) {
	const q = `
		SELECT id, quote_id, from_status, to_status, event, actor, notes, occurred_at
		FROM quote_status_history
		WHERE quote_id = $1
		ORDER BY occurred_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("quote history: %w", err)
	}
	defer rows.Close()

	var changes []StatusChange
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.ID, &c.QuoteID, &c.FromStatus, &c.ToStatus, &c.Event, &c.Actor, &c.Notes, &c.At); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

func (r *pgRepository) ListExpirable(ctx context.Context, cutoff time.Time) ([]Quotation, error) {
	query := `SELECT ` + quoteColumns + `
		FROM quotations
		WHERE valid_until < $1 AND status NOT IN ('invoiced', 'expired')`
	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list expirable: %w", err)
	}
	defer rows.Close()

	var quotes []Quotation
	for rows.Next() {
		quote, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expirable: %w", err)
		}
		quotes = append(quotes, *quote)
	}
	return quotes, rows.Err()
}

func (r *pgRepository) listItems(ctx context.Context, quoteID uuid.UUID) ([]LineItem, error) {
	const q = `
		SELECT id, quote_id, source_opening_id, opening_ref, room, floor,
		       type, category, material, glass, finish,
		       width_mm, height_mm, panels, quantity, mesh, grill,
		       custom_rate_per_sqft, manual_total,
		       area_sqft, rate_per_sqft, total_amount, is_manual_price,
		       notes, line_order, created_at, updated_at
		FROM quote_items WHERE quote_id = $1 ORDER BY line_order, created_at`
	rows, err := r.pool.Query(ctx, q, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(
			&it.ID, &it.QuoteID, &it.SourceOpeningID, &it.OpeningRef, &it.Room, &it.Floor,
			&it.Type, &it.Category, &it.Material, &it.Glass, &it.Finish,
			&it.WidthMM, &it.HeightMM, &it.Panels, &it.Quantity, &it.Mesh, &it.Grill,
			&it.CustomRatePerSqft, &it.ManualTotal,
			&it.AreaSqft, &it.RatePerSqft, &it.TotalAmount, &it.IsManualPrice,
			&it.Notes, &it.LineOrder, &it.CreatedAt, &it.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgRepository) listAccessories(ctx context.Context, quoteID uuid.UUID) ([]Accessory, error) {
	const q = `
		SELECT id, quote_id, catalog_id, name, unit_price, unit, quantity
		FROM quote_accessories WHERE quote_id = $1 ORDER BY name`
	rows, err := r.pool.Query(ctx, q, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list accessories: %w", err)
	}
	defer rows.Close()

	var accessories []Accessory
	for rows.Next() {
		var a Accessory
		if err := rows.Scan(&a.ID, &a.QuoteID, &a.CatalogID, &a.Name, &a.UnitPrice, &a.Unit, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan accessory: %w", err)
		}
		accessories = append(accessories, a)
	}
	return accessories, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, items []LineItem) error {
	const insert = `
		INSERT INTO quote_items (
			id, quote_id, source_opening_id, opening_ref, room, floor,
			type, category, material, glass, finish,
			width_mm, height_mm, panels, quantity, mesh, grill,
			custom_rate_per_sqft, manual_total,
			area_sqft, rate_per_sqft, total_amount, is_manual_price,
			notes, line_order, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
		          $18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`
	for _, it := range items {
		if _, err := tx.Exec(ctx, insert,
			it.ID, it.QuoteID, it.SourceOpeningID, it.OpeningRef, it.Room, it.Floor,
			it.Type, it.Category, it.Material, it.Glass, it.Finish,
			it.WidthMM, it.HeightMM, it.Panels, it.Quantity, it.Mesh, it.Grill,
			it.CustomRatePerSqft, it.ManualTotal,
			it.AreaSqft, it.RatePerSqft, it.TotalAmount, it.IsManualPrice,
			it.Notes, it.LineOrder, it.CreatedAt, it.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}
	return nil
}

func insertAccessories(ctx context.Context, tx pgx.Tx, accessories []Accessory) error {
	const insert = `
		INSERT INTO quote_accessories (id, quote_id, catalog_id, name, unit_price, unit, quantity)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	for _, a := range accessories {
		if _, err := tx.Exec(ctx, insert, a.ID, a.QuoteID, a.CatalogID, a.Name, a.UnitPrice, a.Unit, a.Quantity); err != nil {
			return fmt.Errorf("insert accessory: %w", err)
		}
	}
	return nil
}

func scanQuotation(row pgx.Row) (*Quotation, error) {
	var q Quotation
	if err := row.Scan(
		&q.ID, &q.QuoteNumber, &q.ProjectID, &q.SurveyID,
		&q.Customer.Name, &q.Customer.Phone, &q.Customer.Email, &q.SiteAddress,
		&q.Totals.ItemsTotal, &q.Totals.AccessoriesTotal, &q.Totals.Subtotal,
		&q.Totals.InstallationCharge, &q.Totals.TaxAmount, &q.Totals.GrandTotal,
		&q.Totals.TotalAreaSqft,
		&q.InstallationIncluded, &q.ValidDays, &q.ValidUntil,
		&q.Status, &q.InventoryHeld, &q.InvoiceID, &q.StatusUpdatedAt, &q.StatusUpdatedBy,
		&q.DiscountRequested, &q.DiscountApproved, &q.DiscountReason,
		&q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &q, nil
}
