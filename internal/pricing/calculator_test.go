package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateAppliesDefaults(t *testing.T) {
	table := DefaultRateTable()

	res := Calculate(table, ItemSpec{}, 0)

	// 1200x1500mm converted at 304.8mm/ft.
	require.Equal(t, 19.38, res.AreaSqft)
	// Aluminium base 450, all default multipliers 1.0.
	require.Equal(t, float64(450), res.RatePerSqft)
	require.Equal(t, float64(8719), res.TotalAmount)
	require.False(t, res.Manual)
	require.Empty(t, res.Fallbacks)
}

func TestCalculateMultipliers(t *testing.T) {
	table := DefaultRateTable()

	res := Calculate(table, ItemSpec{
		Type:     "Door",
		Category: "Casement",
		Material: "uPVC",
		Glass:    "double",
		Finish:   "powder-coat",
		WidthMM:  1000,
		HeightMM: 2100,
		Quantity: 2,
	}, 0)

	// 380 * 1.15 * 1.25 * 1.35 * 1.15 = 848.05, rounded per sq.ft.
	require.Equal(t, float64(848), res.RatePerSqft)
	require.Equal(t, 22.6, res.AreaSqft)
	require.InDelta(t, 38339, res.TotalAmount, 1)
	require.Empty(t, res.Fallbacks)
}

func TestCalculateExtras(t *testing.T) {
	table := DefaultRateTable()

	plain := Calculate(table, ItemSpec{Material: "Aluminium"}, 0)
	meshed := Calculate(table, ItemSpec{Material: "Aluminium", Mesh: true, Grill: true}, 0)

	require.Equal(t, plain.RatePerSqft+45+120, meshed.RatePerSqft)
}

func TestCalculateCustomRateBypassesMultipliers(t *testing.T) {
	table := DefaultRateTable()

	res := Calculate(table, ItemSpec{
		Material:   "Wood",
		Glass:      "triple",
		CustomRate: 500,
	}, 0)

	require.Equal(t, float64(500), res.RatePerSqft)
	require.Equal(t, float64(9688), res.TotalAmount)
	require.False(t, res.Manual)
}

func TestCalculateManualTotalWins(t *testing.T) {
	table := DefaultRateTable()

	res := Calculate(table, ItemSpec{CustomRate: 500}, 10000)

	require.True(t, res.Manual)
	require.Equal(t, float64(10000), res.TotalAmount)
	// Rate is derived back from the forced total.
	require.Equal(t, float64(516), res.RatePerSqft)
}

func TestCalculateUnknownAttributesFallBack(t *testing.T) {
	table := DefaultRateTable()

	res := Calculate(table, ItemSpec{
		Material: "Titanium",
		Category: "Porthole",
		Glass:    "quadruple",
	}, 0)

	// Unknown material degrades to the Aluminium base, unknown multipliers to 1.0.
	require.Equal(t, float64(450), res.RatePerSqft)
	require.Len(t, res.Fallbacks, 3)
	require.Contains(t, res.Fallbacks, `material="Titanium"`)
	require.Contains(t, res.Fallbacks, `category="Porthole"`)
	require.Contains(t, res.Fallbacks, `glass="quadruple"`)
}

func TestCalculateIsPure(t *testing.T) {
	table := DefaultRateTable()
	spec := ItemSpec{Material: "Steel", Category: "Folding", Quantity: 3, Mesh: true}

	first := Calculate(table, spec, 0)
	second := Calculate(table, spec, 0)

	require.Equal(t, first, second)
	require.Equal(t, float64(450), table.Materials["Aluminium"].Base)
}

func TestAccessoryLookup(t *testing.T) {
	table := DefaultRateTable()

	acc, ok := table.Accessory("lockMultiPoint")
	require.True(t, ok)
	require.Equal(t, float64(2500), acc.Price)
	require.Equal(t, "piece", acc.Unit)

	_, ok = table.Accessory("periscope")
	require.False(t, ok)
}
