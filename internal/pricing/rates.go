// Package pricing computes per-item prices for fabricated doors and windows.
package pricing

// MaterialRate holds per-square-foot base rates for a frame material.
type MaterialRate struct {
	Base        float64
	Premium     float64
	Description string
}

// GlassType is a glazing option with its price multiplier.
type GlassType struct {
	ID         string
	Name       string
	Multiplier float64
}

// Finish is a surface finish option with its price multiplier.
type Finish struct {
	ID         string
	Name       string
	Multiplier float64
}

// ExtraRates are per-square-foot add-on charges.
type ExtraRates struct {
	MosquitoMesh float64
	Grill        float64
	SafetyBars   float64
}

// AccessoryRate is a catalogued accessory with its unit price.
type AccessoryRate struct {
	Name  string
	Price float64
	Unit  string
}

// RateTable is the immutable pricing configuration. It is loaded once and
// passed explicitly into every calculation; nothing in this package mutates it.
type RateTable struct {
	Materials   map[string]MaterialRate
	Categories  map[string]float64
	Types       map[string]float64
	GlassTypes  []GlassType
	Finishes    []Finish
	Extras      ExtraRates
	Accessories map[string]AccessoryRate
}

// Fallback values used when an item references an unknown enum value.
const (
	FallbackMaterial   = "Aluminium"
	FallbackMultiplier = 1.0
)

// DefaultRateTable returns the built-in industry rate table (rates per sq.ft,
// whole currency units).
func DefaultRateTable() RateTable {
	return RateTable{
		Materials: map[string]MaterialRate{
			"Aluminium": {Base: 450, Premium: 650, Description: "Standard aluminium profiles"},
			"uPVC":      {Base: 380, Premium: 520, Description: "PVC profiles"},
			"Wood":      {Base: 800, Premium: 1500, Description: "Solid wood frames"},
			"Steel":     {Base: 550, Premium: 850, Description: "Steel frames"},
			"Composite": {Base: 600, Premium: 900, Description: "Composite materials"},
		},
		Categories: map[string]float64{
			"Sliding":       1.0,
			"Casement":      1.15,
			"Tilt & Turn":   1.35,
			"Fixed":         0.85,
			"Folding":       1.45,
			"French":        1.30,
			"Bi-Fold":       1.55,
			"Lift & Slide":  1.65,
			"Awning":        1.20,
			"Hopper":        1.10,
			"Pivot":         1.40,
			"Louvre":        1.25,
			"Bay Window":    1.60,
			"Partition":     0.90,
			"Curtain Wall":  1.80,
			"Skylight":      1.70,
			"Entrance Door": 1.50,
			"Patio Door":    1.35,
		},
		Types: map[string]float64{
			"Window": 1.0,
			"Door":   1.25,
		},
		GlassTypes: []GlassType{
			{ID: "single", Name: "Single Glazed", Multiplier: 1.0},
			{ID: "double", Name: "Double Glazed (DGU)", Multiplier: 1.35},
			{ID: "triple", Name: "Triple Glazed", Multiplier: 1.65},
			{ID: "laminated", Name: "Laminated", Multiplier: 1.25},
			{ID: "tinted", Name: "Tinted", Multiplier: 1.15},
			{ID: "reflective", Name: "Reflective", Multiplier: 1.30},
			{ID: "low-e", Name: "Low-E Coated", Multiplier: 1.45},
			{ID: "acoustic", Name: "Acoustic", Multiplier: 1.55},
			{ID: "toughened", Name: "Toughened/Tempered", Multiplier: 1.20},
			{ID: "frosted", Name: "Frosted/Obscure", Multiplier: 1.10},
		},
		Finishes: []Finish{
			{ID: "anodized", Name: "Anodized", Multiplier: 1.0},
			{ID: "powder-coat", Name: "Powder Coated", Multiplier: 1.15},
			{ID: "wood-finish", Name: "Wood Finish", Multiplier: 1.35},
			{ID: "laminate", Name: "Laminate", Multiplier: 1.40},
			{ID: "natural", Name: "Natural/Mill Finish", Multiplier: 0.95},
			{ID: "brush", Name: "Brushed", Multiplier: 1.20},
			{ID: "chrome", Name: "Chrome Plated", Multiplier: 1.50},
		},
		Extras: ExtraRates{
			MosquitoMesh: 45,
			Grill:        120,
			SafetyBars:   180,
		},
		Accessories: map[string]AccessoryRate{
			"handle":         {Name: "Door/Window Handle", Price: 450, Unit: "piece"},
			"lockMultiPoint": {Name: "Multi-Point Lock", Price: 2500, Unit: "piece"},
			"lockCylinder":   {Name: "Cylinder Lock", Price: 850, Unit: "piece"},
			"hinges":         {Name: "Heavy Duty Hinges", Price: 350, Unit: "pair"},
			"rollers":        {Name: "Premium Rollers", Price: 600, Unit: "set"},
			"frictionStay":   {Name: "Friction Stay", Price: 420, Unit: "pair"},
			"weatherSeal":    {Name: "Weather Seal Strip", Price: 85, Unit: "meter"},
			"silicone":       {Name: "Silicone Sealant", Price: 250, Unit: "tube"},
			"doorCloser":     {Name: "Door Closer", Price: 1800, Unit: "piece"},
			"floorSpring":    {Name: "Floor Spring", Price: 4500, Unit: "piece"},
			"kickPlate":      {Name: "Kick Plate", Price: 650, Unit: "piece"},
			"threshold":      {Name: "Threshold", Price: 800, Unit: "piece"},
		},
	}
}

// materialBase resolves the base rate for a material name, falling back to
// Aluminium for unrecognised values.
func (t RateTable) materialBase(name string) (float64, bool) {
	if rate, ok := t.Materials[name]; ok {
		return rate.Base, true
	}
	return t.Materials[FallbackMaterial].Base, false
}

func (t RateTable) categoryMultiplier(name string) (float64, bool) {
	if m, ok := t.Categories[name]; ok {
		return m, true
	}
	return FallbackMultiplier, false
}

func (t RateTable) typeMultiplier(name string) (float64, bool) {
	if m, ok := t.Types[name]; ok {
		return m, true
	}
	return FallbackMultiplier, false
}

func (t RateTable) glassMultiplier(id string) (float64, bool) {
	for _, g := range t.GlassTypes {
		if g.ID == id {
			return g.Multiplier, true
		}
	}
	return FallbackMultiplier, false
}

func (t RateTable) finishMultiplier(id string) (float64, bool) {
	for _, f := range t.Finishes {
		if f.ID == id {
			return f.Multiplier, true
		}
	}
	return FallbackMultiplier, false
}

// Accessory looks up a catalogued accessory by id.
func (t RateTable) Accessory(id string) (AccessoryRate, bool) {
	acc, ok := t.Accessories[id]
	return acc, ok
}
