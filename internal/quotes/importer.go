package quotes

import (
	"time"

	"github.com/google/uuid"

	"github.com/fenestra-works/fenestra/internal/pricing"
	"github.com/fenestra-works/fenestra/internal/surveys"
)

// ImportSkip records an opening the importer could not price.
type ImportSkip struct {
	OpeningRef string `json:"opening_ref"`
	Reason     string `json:"reason"`
}

// ImportResult holds the priced items plus the openings that were skipped so
// the caller can prompt for manual entry.
type ImportResult struct {
	Items   []LineItem   `json:"items"`
	Skipped []ImportSkip `json:"skipped"`
}

// ImportOpenings maps raw survey openings into quote line items, pricing each
// one automatically (openings never carry manual overrides).
//
// The import copies values: later edits to a quote item never touch the
// opening record. Each item gets a fresh id; SourceOpeningID is kept for
// traceability only. Re-importing the same openings yields identical pricing
// under an unchanged rate table but new ids, so callers replace rather than
// append a previously imported set.
//
// Openings without a usable width or height are skipped, not defaulted:
// survey measurements are mandatory, and silently pricing a default-sized
// opening would hide a capture error.
func ImportOpenings(table pricing.RateTable, openings []surveys.Opening) ImportResult {
	var result ImportResult
	now := time.Now().UTC()

	for i, opening := range openings {
		if opening.WidthMM <= 0 || opening.HeightMM <= 0 {
			result.Skipped = append(result.Skipped, ImportSkip{
				OpeningRef: opening.OpeningRef,
				Reason:     "missing dimensions",
			})
			continue
		}

		spec := pricing.ItemSpec{
			Type:     valueOr(opening.Type, pricing.DefaultType),
			Category: valueOr(opening.Category, pricing.DefaultCategory),
			Material: valueOr(opening.Material, pricing.FallbackMaterial),
			Glass:    valueOr(opening.GlassType, pricing.DefaultGlass),
			Finish:   valueOr(opening.Finish, pricing.DefaultFinish),
			WidthMM:  opening.WidthMM,
			HeightMM: opening.HeightMM,
			Panels:   opening.Panels,
			Quantity: opening.Quantity,
			Mesh:     opening.Mesh,
			Grill:    opening.Grill,
		}
		priced := pricing.Calculate(table, spec, 0)

		sourceID := opening.ID
		item := LineItem{
			ID:              uuid.New(),
			SourceOpeningID: &sourceID,
			OpeningRef:      opening.OpeningRef,
			Room:            opening.Room,
			Floor:           opening.Floor,
			Type:            spec.Type,
			Category:        spec.Category,
			Material:        spec.Material,
			Glass:           spec.Glass,
			Finish:          spec.Finish,
			WidthMM:         opening.WidthMM,
			HeightMM:        opening.HeightMM,
			Panels:          panelsOr(opening.Panels, pricing.DefaultPanels),
			Quantity:        quantityOr(opening.Quantity),
			Mesh:            opening.Mesh,
			Grill:           opening.Grill,
			AreaSqft:        priced.AreaSqft,
			RatePerSqft:     priced.RatePerSqft,
			TotalAmount:     priced.TotalAmount,
			LineOrder:       i + 1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		result.Items = append(result.Items, item)
	}
	return result
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func panelsOr(v, def int) int {
	if v < 1 {
		return def
	}
	return v
}

func quantityOr(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
