package quotes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTotalsWithInstallation(t *testing.T) {
	items := []LineItem{
		{TotalAmount: 50000, AreaSqft: 19.38},
		{TotalAmount: 30000, AreaSqft: 22.6},
	}
	accessories := []Accessory{
		{Name: "Door/Window Handle", UnitPrice: 450, Quantity: 2},
	}

	totals := ComputeTotals(items, accessories, true, DefaultRates())

	require.Equal(t, float64(80000), totals.ItemsTotal)
	require.Equal(t, float64(900), totals.AccessoriesTotal)
	require.Equal(t, float64(80900), totals.Subtotal)
	require.Equal(t, float64(8090), totals.InstallationCharge)
	// Tax applies after the installation charge.
	require.Equal(t, float64(16018), totals.TaxAmount)
	require.Equal(t, float64(105008), totals.GrandTotal)
	require.Equal(t, 41.98, totals.TotalAreaSqft)
}

func TestComputeTotalsWithoutInstallation(t *testing.T) {
	items := []LineItem{{TotalAmount: 80900}}

	totals := ComputeTotals(items, nil, false, DefaultRates())

	require.Zero(t, totals.InstallationCharge)
	require.Equal(t, float64(14562), totals.TaxAmount)
	require.Equal(t, float64(95462), totals.GrandTotal)
}

func TestComputeTotalsEmptyQuote(t *testing.T) {
	totals := ComputeTotals(nil, nil, true, DefaultRates())

	require.Equal(t, Totals{}, totals)
}

func TestComputeTotalsConfigurableRates(t *testing.T) {
	items := []LineItem{{TotalAmount: 10000}}

	totals := ComputeTotals(items, nil, true, Rates{Installation: 0.05, Tax: 0.12})

	require.Equal(t, float64(500), totals.InstallationCharge)
	require.Equal(t, float64(1260), totals.TaxAmount)
	require.Equal(t, float64(11760), totals.GrandTotal)
}
