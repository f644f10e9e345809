/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY FIELDS:
  Amounts travel twice: as a plain decimal string ("price") for machines
  and as a formatted kwanza string ("price_display") for direct rendering.

VALIDATION:
  Validation is done in the core, not in DTOs. DTOs are pure carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - export/csv.go: FormatKz
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stokmaster/stokmaster/core"
	"github.com/stokmaster/stokmaster/export"
)

// =============================================================================
// AUTH
// =============================================================================

type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// =============================================================================
// PRODUCTS
// =============================================================================

type ProductDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	PriceDisplay string `json:"price_display"`
	Stock        int    `json:"stock"`
	Category     string `json:"category"`
	SaleType     string `json:"sale_type"`
	LowStock     bool   `json:"low_stock"`
}

func toProductDTO(p core.Product) ProductDTO {
	return ProductDTO{
		ID:           string(p.ID),
		Name:         p.Name,
		Price:        p.Price.String(),
		PriceDisplay: export.FormatKz(p.Price),
		Stock:        p.Stock,
		Category:     p.Category,
		SaleType:     string(p.SaleType),
		LowStock:     p.LowStock(),
	}
}

type CreateProductRequest struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	UnitCost     string `json:"unit_cost"`
	InitialStock int    `json:"initial_stock"`
	SaleType     string `json:"sale_type"`
}

// CreateProductResponse carries the new product and, when a cost basis
// was recorded, the stock-load transaction.
type CreateProductResponse struct {
	Product     ProductDTO      `json:"product"`
	Transaction *TransactionDTO `json:"transaction,omitempty"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type TransactionDTO struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	ProductID    string `json:"product_id,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	Type         string `json:"type"`
	SaleType     string `json:"sale_type"`
	Quantity     int    `json:"quantity"`
	Value        string `json:"value"`
	ValueDisplay string `json:"value_display"`
	Description  string `json:"description"`
}

func toTransactionDTO(tx core.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:           string(tx.ID),
		Date:         tx.Date.UTC().Format(time.RFC3339),
		ProductID:    string(tx.ProductID),
		ProductName:  tx.ProductName,
		Type:         string(tx.Type),
		SaleType:     string(tx.SaleType),
		Quantity:     tx.Quantity,
		Value:        tx.Value.String(),
		ValueDisplay: export.FormatKz(tx.Value),
		Description:  tx.Description,
	}
}

type SaleRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type StockEntryRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitCost  string `json:"unit_cost"`
}

type ExpenseRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// OperationResponse is returned by the mutating sale/stock-entry
// endpoints: the updated product plus the appended ledger entry.
type OperationResponse struct {
	Product     ProductDTO     `json:"product"`
	Transaction TransactionDTO `json:"transaction"`
}

// =============================================================================
// STATS AND INVESTMENT
// =============================================================================

type StatsDTO struct {
	TotalRevenue         string `json:"total_revenue"`
	TotalRevenueDisplay  string `json:"total_revenue_display"`
	TotalExpenses        string `json:"total_expenses"`
	TotalExpensesDisplay string `json:"total_expenses_display"`
	NetBalance           string `json:"net_balance"`
	NetBalanceDisplay    string `json:"net_balance_display"`
	LowStockItems        int    `json:"low_stock_items"`
	InitialInvestment    string `json:"initial_investment"`
}

func toStatsDTO(stats core.DashboardStats, investment decimal.Decimal) StatsDTO {
	return StatsDTO{
		TotalRevenue:         stats.TotalRevenue.String(),
		TotalRevenueDisplay:  export.FormatKz(stats.TotalRevenue),
		TotalExpenses:        stats.TotalExpenses.String(),
		TotalExpensesDisplay: export.FormatKz(stats.TotalExpenses),
		NetBalance:           stats.NetBalance.String(),
		NetBalanceDisplay:    export.FormatKz(stats.NetBalance),
		LowStockItems:        stats.LowStockItems,
		InitialInvestment:    investment.String(),
	}
}

type InvestmentRequest struct {
	Amount string `json:"amount"`
}

// =============================================================================
// SCENARIOS AND ERRORS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
