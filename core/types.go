/*
Package core provides the inventory and cash-flow engine.

PURPOSE:
  This package contains the domain types and algorithms that keep a product
  catalog and a financial transaction ledger mutually consistent. Stock
  levels are a projection of the ledger: every sale and every replenishment
  is recorded as an immutable transaction, and the only legal way to change
  stock is through the Session operations in processor.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - Product: A catalog item with price, stock level, and sale type
  - Transaction: An immutable ledger entry (stock entry, sale, or expense)
  - DashboardStats: Derived financial aggregates, recomputed on demand
  - Identifiers: Type-safe IDs so product and transaction ids can't mix

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified after being appended
  2. Precision: Uses decimal.Decimal to avoid floating-point money errors
  3. Denormalized snapshots: Transactions carry the product name and sale
     type as they were at creation time; history is never rewritten
  4. Stock consistency: stock = initial stock + entries - sales, always

USAGE:
  p := core.Product{
      Name:     "Rice 25kg",
      Price:    decimal.NewFromInt(12500),
      Stock:    40,
      Category: "Cereals",
      SaleType: core.SaleWholesale,
  }

SEE ALSO:
  - catalog.go: Product set and stock mutation
  - ledger.go: Append-only transaction log
  - processor.go: The three atomic state-transition operations
  - stats.go: DashboardStats computation
*/
package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ProductID string
type TransactionID string

// NewProductID generates a fresh opaque product identifier.
func NewProductID() ProductID { return ProductID(uuid.NewString()) }

// NewTransactionID generates a fresh opaque transaction identifier.
func NewTransactionID() TransactionID { return TransactionID(uuid.NewString()) }

// =============================================================================
// SALE TYPE - Retail vs wholesale
// =============================================================================

type SaleType string

const (
	SaleRetail    SaleType = "RETAIL"
	SaleWholesale SaleType = "WHOLESALE"
)

// Valid reports whether s is one of the known sale types.
func (s SaleType) Valid() bool {
	return s == SaleRetail || s == SaleWholesale
}

// Label returns the human-readable form used in transaction descriptions.
func (s SaleType) Label() string {
	if s == SaleWholesale {
		return "Wholesale"
	}
	return "Retail"
}

// =============================================================================
// PRODUCT - Catalog item with a mutable stock projection
// =============================================================================

// Product is a catalog item. Stock is the only mutable field, and only the
// Session operations may change it.
type Product struct {
	ID       ProductID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
	SaleType SaleType        `json:"saleType"`
}

// LowStockThreshold is the stock level at or below which a product counts
// as low-stock on the dashboard.
const LowStockThreshold = 5

// LowStock reports whether the product is at or below the threshold.
func (p Product) LowStock() bool { return p.Stock <= LowStockThreshold }

// =============================================================================
// TRANSACTION - Immutable ledger entry
// =============================================================================

type TransactionType string

const (
	TxEntry   TransactionType = "ENTRY"   // Stock purchased in (initial load or replenishment)
	TxSale    TransactionType = "SALE"    // Stock sold out, revenue recorded
	TxExpense TransactionType = "EXPENSE" // Cash out with no stock movement
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TxEntry || t == TxSale || t == TxExpense
}

// Transaction records one financial movement. Once appended to the Ledger
// it is never modified; ProductName and SaleType are snapshots of the
// product at creation time and do not track later product changes.
type Transaction struct {
	ID          TransactionID   `json:"id"`
	Date        time.Time       `json:"date"`
	ProductID   ProductID       `json:"productId,omitempty"` // weak reference; empty for expenses
	ProductName string          `json:"productName,omitempty"`
	Type        TransactionType `json:"type"`
	SaleType    SaleType        `json:"saleType"`
	Quantity    int             `json:"quantity"`
	Value       decimal.Decimal `json:"value"` // total, not unit price
	Description string          `json:"description"`
}

// =============================================================================
// DASHBOARD STATS - Derived aggregates
// =============================================================================

// DashboardStats is a pure function of catalog + ledger + initial
// investment. It is recomputed on every read; see stats.go.
type DashboardStats struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetBalance    decimal.Decimal `json:"netBalance"`
	LowStockItems int             `json:"lowStockItems"`
}
