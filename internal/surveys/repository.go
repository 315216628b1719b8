package surveys

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSurveyNotFound indicates the survey has no openings on record.
var ErrSurveyNotFound = errors.New("surveys: survey not found")

// Repository reads survey openings.
type Repository interface {
	ListOpenings(ctx context.Context, surveyID uuid.UUID) ([]Opening, error)
}

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds a postgres-backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) ListOpenings(ctx context.Context, surveyID uuid.UUID) ([]Opening, error) {
	const q = `
		SELECT id, survey_id, opening_ref, room, floor, type, category,
		       width_mm, height_mm, material, glass_type, finish,
		       panels, mesh, grill, quantity, photo_count, created_at
		FROM survey_openings
		WHERE survey_id = $1
		ORDER BY opening_ref, created_at
	`
	rows, err := r.pool.Query(ctx, q, surveyID)
	if err != nil {
		return nil, fmt.Errorf("surveys: list openings: %w", err)
	}
	defer rows.Close()

	var openings []Opening
	for rows.Next() {
		var o Opening
		if err := rows.Scan(
			&o.ID, &o.SurveyID, &o.OpeningRef, &o.Room, &o.Floor,
			&o.Type, &o.Category, &o.WidthMM, &o.HeightMM,
			&o.Material, &o.GlassType, &o.Finish,
			&o.Panels, &o.Mesh, &o.Grill, &o.Quantity, &o.PhotoCount, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("surveys: scan opening: %w", err)
		}
		openings = append(openings, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(openings) == 0 {
		var exists bool
		err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM surveys WHERE id = $1)`, surveyID).Scan(&exists)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if !exists {
			return nil, ErrSurveyNotFound
		}
	}
	return openings, nil
}
