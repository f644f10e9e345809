package core_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stokmaster/stokmaster/core"
)

// =============================================================================
// AGGREGATE ARITHMETIC
// =============================================================================

func TestComputeStats_NetBalanceFormula(t *testing.T) {
	// netBalance = initialInvestment + revenue - (entries + expenses)

	txs := []core.Transaction{
		{Type: core.TxSale, Value: dec(3000)},
		{Type: core.TxEntry, Value: dec(6000)},
		{Type: core.TxEntry, Value: dec(3250)},
		{Type: core.TxExpense, Value: dec(500)},
	}

	stats := core.ComputeStats(nil, txs, dec(1000))

	assert.True(t, stats.TotalRevenue.Equal(dec(3000)))
	assert.True(t, stats.TotalExpenses.Equal(dec(9750)))
	assert.True(t, stats.NetBalance.Equal(dec(1000+3000-9750)))
}

func TestComputeStats_EmptyState(t *testing.T) {
	stats := core.ComputeStats(nil, nil, decimal.Zero)

	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.TotalExpenses.IsZero())
	assert.True(t, stats.NetBalance.IsZero())
	assert.Zero(t, stats.LowStockItems)
}

func TestComputeStats_OrderIndependent(t *testing.T) {
	// The aggregate is a pure function of state: shuffling the ledger
	// must not change the result.

	txs := []core.Transaction{
		{Type: core.TxSale, Value: dec(100)},
		{Type: core.TxEntry, Value: dec(40)},
		{Type: core.TxSale, Value: dec(250)},
		{Type: core.TxExpense, Value: dec(30)},
		{Type: core.TxEntry, Value: dec(90)},
	}

	want := core.ComputeStats(nil, txs, dec(10))

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]core.Transaction(nil), txs...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := core.ComputeStats(nil, shuffled, dec(10))
		assert.True(t, got.NetBalance.Equal(want.NetBalance))
		assert.True(t, got.TotalRevenue.Equal(want.TotalRevenue))
		assert.True(t, got.TotalExpenses.Equal(want.TotalExpenses))
	}
}

// =============================================================================
// LOW STOCK THRESHOLD
// =============================================================================

func TestLowStock_BoundaryInclusiveAtFive(t *testing.T) {
	products := []core.Product{
		{ID: "a", Stock: 0},
		{ID: "b", Stock: 5}, // at the threshold: counts
		{ID: "c", Stock: 6}, // just above: does not
		{ID: "d", Stock: 100},
	}

	stats := core.ComputeStats(products, nil, decimal.Zero)

	assert.Equal(t, 2, stats.LowStockItems)
}
