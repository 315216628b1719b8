package quotes

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fenestra-works/fenestra/internal/pricing"
	"github.com/fenestra-works/fenestra/internal/surveys"
)

func TestImportOpeningsSkipsMissingDimensions(t *testing.T) {
	table := pricing.DefaultRateTable()
	openings := []surveys.Opening{
		{ID: uuid.New(), OpeningRef: "W-01", WidthMM: 1200, HeightMM: 1500, Material: "Aluminium"},
		{ID: uuid.New(), OpeningRef: "W-02", WidthMM: 0, HeightMM: 1500},
		{ID: uuid.New(), OpeningRef: "D-01", WidthMM: 1000, HeightMM: 0},
		{ID: uuid.New(), OpeningRef: "D-02", WidthMM: 1000, HeightMM: 2100, Type: "Door", Material: "uPVC"},
	}

	result := ImportOpenings(table, openings)

	require.Len(t, result.Items, 2)
	require.Len(t, result.Skipped, 2)
	require.Equal(t, ImportSkip{OpeningRef: "W-02", Reason: "missing dimensions"}, result.Skipped[0])
	require.Equal(t, ImportSkip{OpeningRef: "D-01", Reason: "missing dimensions"}, result.Skipped[1])
	require.Equal(t, "W-01", result.Items[0].OpeningRef)
	require.Equal(t, "D-02", result.Items[1].OpeningRef)
}

func TestImportOpeningsCopiesValues(t *testing.T) {
	table := pricing.DefaultRateTable()
	opening := surveys.Opening{
		ID:         uuid.New(),
		OpeningRef: "W-03",
		Room:       "Bedroom",
		Floor:      "First",
		Type:       "Window",
		Category:   "Casement",
		Material:   "uPVC",
		GlassType:  "double",
		Finish:     "powder-coat",
		WidthMM:    1000,
		HeightMM:   1200,
		Panels:     2,
		Quantity:   3,
		Mesh:       true,
	}

	result := ImportOpenings(table, []surveys.Opening{opening})

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	require.NotEqual(t, opening.ID, item.ID)
	require.NotNil(t, item.SourceOpeningID)
	require.Equal(t, opening.ID, *item.SourceOpeningID)
	require.Equal(t, "Bedroom", item.Room)
	require.Equal(t, 3, item.Quantity)
	require.True(t, item.Mesh)

	want := pricing.Calculate(table, pricing.ItemSpec{
		Type: "Window", Category: "Casement", Material: "uPVC",
		Glass: "double", Finish: "powder-coat",
		WidthMM: 1000, HeightMM: 1200,
		Panels: 2, Quantity: 3, Mesh: true,
	}, 0)
	require.Equal(t, want.AreaSqft, item.AreaSqft)
	require.Equal(t, want.RatePerSqft, item.RatePerSqft)
	require.Equal(t, want.TotalAmount, item.TotalAmount)
}

func TestImportOpeningsDefaultsAttributes(t *testing.T) {
	table := pricing.DefaultRateTable()
	opening := surveys.Opening{ID: uuid.New(), OpeningRef: "W-04", WidthMM: 900, HeightMM: 900}

	result := ImportOpenings(table, []surveys.Opening{opening})

	require.Len(t, result.Items, 1)
	item := result.Items[0]
	require.Equal(t, pricing.DefaultType, item.Type)
	require.Equal(t, pricing.DefaultCategory, item.Category)
	require.Equal(t, pricing.FallbackMaterial, item.Material)
	require.Equal(t, pricing.DefaultPanels, item.Panels)
	require.Equal(t, 1, item.Quantity)
}

func TestImportOpeningsLineOrderFollowsSurvey(t *testing.T) {
	table := pricing.DefaultRateTable()
	openings := []surveys.Opening{
		{ID: uuid.New(), OpeningRef: "A", WidthMM: 1000, HeightMM: 1000},
		{ID: uuid.New(), OpeningRef: "B"},
		{ID: uuid.New(), OpeningRef: "C", WidthMM: 1000, HeightMM: 1000},
	}

	result := ImportOpenings(table, openings)

	require.Len(t, result.Items, 2)
	require.Equal(t, 1, result.Items[0].LineOrder)
	require.Equal(t, 3, result.Items[1].LineOrder)
}
