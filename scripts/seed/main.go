// Command seed applies the schema and loads a demo survey so the quotation
// API can be exercised end to end on a fresh database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fenestra-works/fenestra/internal/app"
	"github.com/fenestra-works/fenestra/internal/platform/db"
)

func main() {
	schemaPath := flag.String("schema", "migrations/0001_init.sql", "schema file applied before seeding (empty to skip)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(context.Background(), logger, *schemaPath); err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, schemaPath string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	if schemaPath != "" {
		schema, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
		if _, err := pool.Exec(ctx, string(schema)); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
		logger.Info("schema applied", slog.String("path", schemaPath))
	}

	surveyID, err := seedSurvey(ctx, pool)
	if err != nil {
		return err
	}
	logger.Info("demo survey ready", slog.String("survey_id", surveyID.String()))
	logger.Info("try it", slog.String("hint", "POST /quotes/from-survey/"+surveyID.String()))
	return nil
}

type seedOpening struct {
	ref      string
	room     string
	floor    string
	kind     string
	category string
	widthMM  float64
	heightMM float64
	material string
	glass    string
	finish   string
	panels   int
	mesh     bool
	grill    bool
	quantity int
}

func seedSurvey(ctx context.Context, pool *pgxpool.Pool) (uuid.UUID, error) {
	surveyID := uuid.New()
	const insertSurvey = `
		INSERT INTO surveys (id, customer_name, site_address, surveyed_by)
		VALUES ($1, $2, $3, $4)`
	if _, err := pool.Exec(ctx, insertSurvey, surveyID,
		"Lakeside Residency", "14 Lake View Road", "demo-surveyor"); err != nil {
		return uuid.Nil, fmt.Errorf("insert survey: %w", err)
	}

	openings := []seedOpening{
		{ref: "GF-W1", room: "Living Room", floor: "Ground", kind: "Window", category: "Sliding",
			widthMM: 1800, heightMM: 1500, material: "Aluminium", glass: "double", finish: "powder-coat",
			panels: 3, mesh: true, quantity: 2},
		{ref: "GF-W2", room: "Kitchen", floor: "Ground", kind: "Window", category: "Casement",
			widthMM: 1200, heightMM: 1200, material: "uPVC", glass: "single", finish: "anodized",
			panels: 2, grill: true, quantity: 1},
		{ref: "GF-D1", room: "Entrance", floor: "Ground", kind: "Door", category: "Entrance Door",
			widthMM: 1100, heightMM: 2400, material: "Wood", glass: "laminated", finish: "wood-finish",
			panels: 1, quantity: 1},
		{ref: "FF-W1", room: "Master Bedroom", floor: "First", kind: "Window", category: "Sliding",
			widthMM: 2100, heightMM: 1500, material: "Aluminium", glass: "low-e", finish: "powder-coat",
			panels: 3, mesh: true, quantity: 1},
		// Captured without measurements; the importer reports it as skipped.
		{ref: "FF-W2", room: "Bathroom", floor: "First", kind: "Window", category: "Fixed"},
	}

	const insertOpening = `
		INSERT INTO survey_openings (
			id, survey_id, opening_ref, room, floor, type, category,
			width_mm, height_mm, material, glass_type, finish,
			panels, mesh, grill, quantity
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	for _, o := range openings {
		if _, err := pool.Exec(ctx, insertOpening,
			uuid.New(), surveyID, o.ref, o.room, o.floor, o.kind, o.category,
			o.widthMM, o.heightMM, o.material, o.glass, o.finish,
			o.panels, o.mesh, o.grill, o.quantity,
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert opening %s: %w", o.ref, err)
		}
	}
	return surveyID, nil
}
