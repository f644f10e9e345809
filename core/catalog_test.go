package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stokmaster/stokmaster/core"
)

func seedCatalog(t *testing.T) *core.Catalog {
	t.Helper()
	c := core.NewCatalog()
	seed := []struct {
		name, category string
		price          int64
		stock          int
		saleType       core.SaleType
	}{
		{"Rice 25kg", "Cereals", 12500, 40, core.SaleWholesale},
		{"Rice 1kg", "Cereals", 700, 3, core.SaleRetail},
		{"Cooking Oil 5L", "Oils", 4800, 12, core.SaleRetail},
		{"Sugar 50kg", "Cereals", 21000, 5, core.SaleWholesale},
	}
	for _, s := range seed {
		_, err := c.Add(s.name, s.category, dec(s.price), s.stock, s.saleType)
		require.NoError(t, err)
	}
	return c
}

// =============================================================================
// FILTERS
// =============================================================================

func TestCatalogList_FiltersCompose(t *testing.T) {
	c := seedCatalog(t)

	// Search is a case-insensitive substring on the name.
	assert.Len(t, c.List(core.ProductFilter{Search: "rice"}), 2)

	// Category is an exact match.
	assert.Len(t, c.List(core.ProductFilter{Category: "Oils"}), 1)

	// Sale type narrows further; filters AND together.
	got := c.List(core.ProductFilter{Search: "rice", SaleType: "WHOLESALE"})
	require.Len(t, got, 1)
	assert.Equal(t, "Rice 25kg", got[0].Name)
}

func TestCatalogList_AllSentinelMatchesEverything(t *testing.T) {
	c := seedCatalog(t)

	assert.Len(t, c.List(core.ProductFilter{Category: "all", SaleType: "all"}), 4)
	assert.Len(t, c.List(core.ProductFilter{}), 4)
}

func TestCatalogCategories_DistinctSorted(t *testing.T) {
	c := seedCatalog(t)

	assert.Equal(t, []string{"Cereals", "Oils"}, c.Categories())
}

// =============================================================================
// STOCK ADJUSTMENT
// =============================================================================

func TestAdjustStock_RejectsNegativeResult(t *testing.T) {
	c := core.NewCatalog()
	p, err := c.Add("Rice", "Cereals", dec(1000), 4, core.SaleRetail)
	require.NoError(t, err)

	_, err = c.AdjustStock(p.ID, -5)

	assert.ErrorIs(t, err, core.ErrInsufficientStock)
	got, _ := c.Find(p.ID)
	assert.Equal(t, 4, got.Stock, "check happens before mutation")
}

func TestAdjustStock_UnknownID(t *testing.T) {
	c := core.NewCatalog()

	_, err := c.AdjustStock(core.ProductID("missing"), 1)

	assert.ErrorIs(t, err, core.ErrProductNotFound)
}

func TestAdd_Validation(t *testing.T) {
	c := core.NewCatalog()

	_, err := c.Add("", "Cereals", dec(10), 1, core.SaleRetail)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = c.Add("Rice", "Cereals", dec(-10), 1, core.SaleRetail)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = c.Add("Rice", "Cereals", dec(10), -1, core.SaleRetail)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = c.Add("Rice", "Cereals", dec(10), 1, core.SaleType("BULK"))
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestNewCatalogFrom_DropsDuplicateIDs(t *testing.T) {
	p := core.Product{ID: "p-1", Name: "Rice", Price: dec(10), Stock: 2, SaleType: core.SaleRetail}
	dup := p
	dup.Stock = 99

	c := core.NewCatalogFrom([]core.Product{p, dup})

	require.Equal(t, 1, c.Len())
	got, _ := c.Find("p-1")
	assert.Equal(t, 2, got.Stock, "first occurrence wins")
}
