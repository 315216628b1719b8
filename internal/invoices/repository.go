package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a postgres-backed invoice repository.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &pgRepository{pool: pool}
}

const invoiceColumns = `
	id, invoice_number, quote_id, quote_number,
	customer_name, customer_phone, customer_email, site_address,
	subtotal, installation_charge, tax_amount, grand_total,
	status, created_by, created_at`

func (r *pgRepository) Insert(ctx context.Context, inv *Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insert = `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`
	if _, err := tx.Exec(ctx, insert,
		inv.ID, inv.InvoiceNumber, inv.QuoteID, inv.QuoteNumber,
		inv.CustomerName, inv.CustomerPhone, inv.CustomerEmail, inv.SiteAddress,
		inv.Subtotal, inv.InstallationCharge, inv.TaxAmount, inv.GrandTotal,
		inv.Status, inv.CreatedBy, inv.CreatedAt,
	); err != nil {
		// Unique index on quote_id backs the one-invoice-per-quote rule.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateQuote
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	const insertLine = `
		INSERT INTO invoice_lines (id, invoice_id, description, quantity, unit_amount, total_amount, line_order)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	for _, line := range inv.Lines {
		if _, err := tx.Exec(ctx, insertLine,
			line.ID, line.InvoiceID, line.Description, line.Quantity,
			line.UnitAmount, line.TotalAmount, line.LineOrder,
		); err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgRepository) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return r.getOne(ctx, q, id)
}

func (r *pgRepository) GetByQuote(ctx context.Context, quoteID uuid.UUID) (*Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE quote_id = $1`
	return r.getOne(ctx, q, quoteID)
}

func (r *pgRepository) getOne(ctx context.Context, query string, arg any) (*Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.Lines, err = r.listLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *pgRepository) List(ctx context.Context, limit, offset int) ([]Invoice, error) {
	const q = `SELECT ` + invoiceColumns + `
		FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (r *pgRepository) listLines(ctx context.Context, invoiceID uuid.UUID) ([]Line, error) {
	const q = `
		SELECT id, invoice_id, description, quantity, unit_amount, total_amount, line_order
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY line_order`
	rows, err := r.pool.Query(ctx, q, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Description, &l.Quantity, &l.UnitAmount, &l.TotalAmount, &l.LineOrder); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	if err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.QuoteID, &inv.QuoteNumber,
		&inv.CustomerName, &inv.CustomerPhone, &inv.CustomerEmail, &inv.SiteAddress,
		&inv.Subtotal, &inv.InstallationCharge, &inv.TaxAmount, &inv.GrandTotal,
		&inv.Status, &inv.CreatedBy, &inv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}
