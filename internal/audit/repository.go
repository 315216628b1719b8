package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a postgres-backed timeline reader.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if !filters.From.IsZero() {
		where = append(where, "occurred_at >= "+arg(filters.From))
	}
	if !filters.To.IsZero() {
		where = append(where, "occurred_at < "+arg(filters.To))
	}
	if v := strings.TrimSpace(filters.Actor); v != "" {
		where = append(where, "actor = "+arg(v))
	}
	if v := strings.TrimSpace(filters.Entity); v != "" {
		where = append(where, "entity = "+arg(v))
	}
	if v := strings.TrimSpace(filters.Action); v != "" {
		where = append(where, "action = "+arg(v))
	}

	query := "SELECT occurred_at, actor, action, entity, entity_id, meta FROM audit_logs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC, id DESC LIMIT " + arg(limit) + " OFFSET " + arg(offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("audit timeline: %w", err)
	}
	defer rows.Close()

	var out []TimelineRow
	for rows.Next() {
		var (
			row      TimelineRow
			metaJSON []byte
		)
		if err := rows.Scan(&row.At, &row.Actor, &row.Action, &row.Entity, &row.EntityID, &metaJSON); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &row.Meta)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
