/*
stats.go - Dashboard aggregates

PURPOSE:
  Derives DashboardStats from the catalog, the ledger, and the initial
  investment. This is a pure function of current state: no caching, no
  incremental maintenance, recomputed on every read. Dataset sizes are
  small; correctness wins over performance.

THE ARITHMETIC:
  totalRevenue  = sum of SALE values
  totalExpenses = sum of ENTRY and EXPENSE values
  netBalance    = initialInvestment + totalRevenue - totalExpenses
  lowStockItems = count of products with stock <= 5 (inclusive)

SEE ALSO:
  - types.go: DashboardStats, LowStockThreshold
  - processor.go: Session.Stats wraps this
*/
package core

import (
	"github.com/shopspring/decimal"
)

// ComputeStats derives the dashboard aggregates. Pure: the result depends
// only on the arguments, never on call order or prior computations.
func ComputeStats(products []Product, transactions []Transaction, initialInvestment decimal.Decimal) DashboardStats {
	revenue := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range transactions {
		switch tx.Type {
		case TxSale:
			revenue = revenue.Add(tx.Value)
		case TxEntry, TxExpense:
			expenses = expenses.Add(tx.Value)
		}
	}

	low := 0
	for _, p := range products {
		if p.LowStock() {
			low++
		}
	}

	return DashboardStats{
		TotalRevenue:  revenue,
		TotalExpenses: expenses,
		NetBalance:    initialInvestment.Add(revenue).Sub(expenses),
		LowStockItems: low,
	}
}
