package pricing

import (
	"fmt"
	"math"
)

// Millimetres per foot; survey dimensions are captured in mm, rates are per sq.ft.
const mmPerFoot = 304.8

// Defaults applied when an item is missing dimensions or attributes.
const (
	DefaultWidthMM  = 1200.0
	DefaultHeightMM = 1500.0
	DefaultType     = "Window"
	DefaultCategory = "Sliding"
	DefaultGlass    = "single"
	DefaultFinish   = "anodized"
	DefaultPanels   = 2
)

// ItemSpec describes one door/window unit to be priced.
type ItemSpec struct {
	Type     string
	Category string
	Material string
	Glass    string
	Finish   string
	WidthMM  float64
	HeightMM float64
	Panels   int
	Quantity int
	Mesh     bool
	Grill    bool

	// CustomRate, when > 0, is used verbatim as the per-sq.ft rate and
	// bypasses every multiplier.
	CustomRate float64
}

// Result is the outcome of a price calculation.
type Result struct {
	AreaSqft    float64
	RatePerSqft float64
	TotalAmount float64
	Manual      bool

	// Fallbacks names the attributes that were not found in the rate table
	// and degraded to neutral defaults. Callers decide whether to warn.
	Fallbacks []string
}

// Calculate prices a single line item against the given rate table.
// manualTotal > 0 forces the total and derives the rate from it; otherwise a
// custom per-area rate (if set) supersedes the automatic formula.
//
// The function is pure: identical inputs always produce identical results and
// the rate table is never modified.
func Calculate(table RateTable, spec ItemSpec, manualTotal float64) Result {
	width := spec.WidthMM
	if width <= 0 {
		width = DefaultWidthMM
	}
	height := spec.HeightMM
	if height <= 0 {
		height = DefaultHeightMM
	}
	quantity := spec.Quantity
	if quantity < 1 {
		quantity = 1
	}

	area := (width / mmPerFoot) * (height / mmPerFoot)
	areaSqft := roundTo2(area)

	if manualTotal > 0 {
		rate := 0.0
		if area > 0 {
			rate = math.Round(manualTotal / area / float64(quantity))
		}
		return Result{
			AreaSqft:    areaSqft,
			RatePerSqft: rate,
			TotalAmount: math.Round(manualTotal),
			Manual:      true,
		}
	}

	if spec.CustomRate > 0 {
		return Result{
			AreaSqft:    areaSqft,
			RatePerSqft: spec.CustomRate,
			TotalAmount: math.Round(spec.CustomRate * area * float64(quantity)),
		}
	}

	var fallbacks []string
	note := func(kind, value string) {
		fallbacks = append(fallbacks, fmt.Sprintf("%s=%q", kind, value))
	}

	base, ok := table.materialBase(orDefault(spec.Material, FallbackMaterial))
	if !ok {
		note("material", spec.Material)
	}
	catMult, ok := table.categoryMultiplier(orDefault(spec.Category, DefaultCategory))
	if !ok {
		note("category", spec.Category)
	}
	typeMult, ok := table.typeMultiplier(orDefault(spec.Type, DefaultType))
	if !ok {
		note("type", spec.Type)
	}
	glassMult, ok := table.glassMultiplier(orDefault(spec.Glass, DefaultGlass))
	if !ok {
		note("glass", spec.Glass)
	}
	finishMult, ok := table.finishMultiplier(orDefault(spec.Finish, DefaultFinish))
	if !ok {
		note("finish", spec.Finish)
	}

	rate := base * catMult * typeMult * glassMult * finishMult
	if spec.Mesh {
		rate += table.Extras.MosquitoMesh
	}
	if spec.Grill {
		rate += table.Extras.Grill
	}

	return Result{
		AreaSqft:    areaSqft,
		RatePerSqft: math.Round(rate),
		TotalAmount: math.Round(rate * area * float64(quantity)),
		Fallbacks:   fallbacks,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
