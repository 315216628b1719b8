package quotes

import "math"

// Rates are the charge percentages applied during aggregation. They come from
// configuration, not from user input.
type Rates struct {
	Installation float64
	Tax          float64
}

// DefaultRates returns the standard 10% installation / 18% tax split.
func DefaultRates() Rates {
	return Rates{Installation: 0.10, Tax: 0.18}
}

// ComputeTotals aggregates line items and accessories into quote totals.
// Installation is charged on the subtotal when included, and tax applies after
// the installation charge (installation is taxable). Must be re-invoked on
// every mutation to items, accessories or the installation flag.
func ComputeTotals(items []LineItem, accessories []Accessory, installationIncluded bool, rates Rates) Totals {
	var t Totals
	for _, item := range items {
		t.ItemsTotal += item.TotalAmount
		t.TotalAreaSqft += item.AreaSqft
	}
	for _, acc := range accessories {
		t.AccessoriesTotal += acc.UnitPrice * float64(acc.Quantity)
	}
	t.Subtotal = t.ItemsTotal + t.AccessoriesTotal
	if installationIncluded {
		t.InstallationCharge = math.Round(t.Subtotal * rates.Installation)
	}
	t.TaxAmount = math.Round((t.Subtotal + t.InstallationCharge) * rates.Tax)
	t.GrandTotal = t.Subtotal + t.InstallationCharge + t.TaxAmount
	t.TotalAreaSqft = math.Round(t.TotalAreaSqft*100) / 100
	return t
}
