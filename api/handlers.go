/*
handlers.go - HTTP API handlers for the inventory and cash-flow tracker

PURPOSE:
  Exposes the engine via REST. Handles HTTP request/response, JSON
  serialization, and delegates every business decision to the core.

ENDPOINTS:
  Auth:
    POST /api/auth/register          Create account, start session
    POST /api/auth/login             Load account state, start session
    POST /api/auth/logout            Revoke token, discard session

  Catalog:
    GET  /api/products               Filtered product list
    POST /api/products               Create product (+ optional stock load)
    GET  /api/products/categories    Distinct categories

  Movements:
    POST /api/sales                  Process a sale
    POST /api/stock-entries          Replenish stock
    POST /api/expenses               Record a cash expense
    GET  /api/transactions           Filtered ledger, newest first

  Dashboard:
    GET  /api/stats                  Recomputed aggregates
    PUT  /api/investment             Set initial investment

  Export:
    GET  /api/export/stock.csv       Filtered stock report
    GET  /api/export/cashflow.csv    Full cash-flow report

ERROR HANDLING:
  Errors map to JSON with appropriate HTTP status:
  - 400: validation failures
  - 401: bad credentials, missing/revoked token
  - 404: product not found
  - 409: insufficient stock, duplicate account
  - 500: storage failures

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
  - scenarios.go: Demo data loaders
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/stokmaster/stokmaster/account"
	"github.com/stokmaster/stokmaster/core"
	"github.com/stokmaster/stokmaster/export"
	"github.com/stokmaster/stokmaster/logger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Accounts *account.Manager
}

// NewHandler creates a handler over the account manager.
func NewHandler(accounts *account.Manager) *Handler {
	return &Handler{Accounts: accounts}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Register creates a new account and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, sess, err := h.Accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, "Registration failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, Email: sess.Account()})
}

// Login verifies credentials and loads the account state.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, sess, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil && core.IsCorrupt(err) {
		// Recovered with an empty session; worth a log line, not a failure.
		log := logger.FromContext(r.Context())
		log.Warn().
			Str("account", sess.Account()).
			Err(err).
			Msg("corrupt snapshot, starting from empty state")
		err = nil
	}
	if err != nil {
		writeDomainError(w, "Login failed", err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, Email: sess.Account()})
}

// Logout revokes the bearer token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Accounts.Logout(bearerToken(r))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListProducts returns the filtered product list.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	products := sess.Products(productFilterFrom(r))
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProduct adds a product, optionally recording its stock load.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	price, err := parseAmount("price", req.Price)
	if err != nil {
		writeDomainError(w, "Invalid product", err)
		return
	}
	unitCost := decimal.Zero
	if req.UnitCost != "" {
		if unitCost, err = parseAmount("unit_cost", req.UnitCost); err != nil {
			writeDomainError(w, "Invalid product", err)
			return
		}
	}

	p, tx, err := sess.CreateProduct(r.Context(), core.CreateProductInput{
		Name:         req.Name,
		Category:     req.Category,
		Price:        price,
		UnitCost:     unitCost,
		InitialStock: req.InitialStock,
		SaleType:     core.SaleType(req.SaleType),
	})
	if err != nil {
		writeDomainError(w, "Failed to create product", err)
		return
	}

	resp := CreateProductResponse{Product: toProductDTO(p)}
	if tx != nil {
		dto := toTransactionDTO(*tx)
		resp.Transaction = &dto
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListCategories returns the distinct product categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := sessionFrom(r).Categories()
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// =============================================================================
// MOVEMENT HANDLERS
// =============================================================================

// ProcessSale sells stock at the product's current price.
func (h *Handler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req SaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, tx, err := sess.ProcessSale(r.Context(), core.ProductID(req.ProductID), req.Quantity)
	if err != nil {
		writeDomainError(w, "Failed to process sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, OperationResponse{
		Product:     toProductDTO(p),
		Transaction: toTransactionDTO(tx),
	})
}

// ProcessStockEntry replenishes stock at a given unit cost.
func (h *Handler) ProcessStockEntry(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req StockEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	unitCost, err := parseAmount("unit_cost", req.UnitCost)
	if err != nil {
		writeDomainError(w, "Invalid stock entry", err)
		return
	}

	p, tx, err := sess.ProcessStockEntry(r.Context(), core.ProductID(req.ProductID), req.Quantity, unitCost)
	if err != nil {
		writeDomainError(w, "Failed to process stock entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, OperationResponse{
		Product:     toProductDTO(p),
		Transaction: toTransactionDTO(tx),
	})
}

// RecordExpense appends a cash expense with no stock movement.
func (h *Handler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req ExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	value, err := parseAmount("value", req.Value)
	if err != nil {
		writeDomainError(w, "Invalid expense", err)
		return
	}

	tx, err := sess.RecordExpense(r.Context(), value, req.Description)
	if err != nil {
		writeDomainError(w, "Failed to record expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

// ListTransactions returns the ledger, newest first. ?type filters by
// transaction type, ?limit windows from the head.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var txs []core.Transaction
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		txs = sess.Recent(limit)
	} else {
		txs = sess.Transactions(core.TransactionFilter{Type: r.URL.Query().Get("type")})
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DASHBOARD HANDLERS
// =============================================================================

// GetStats recomputes and returns the dashboard aggregates.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, toStatsDTO(sess.Stats(), sess.InitialInvestment()))
}

// SetInvestment updates the initial-investment figure.
func (h *Handler) SetInvestment(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req InvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		writeDomainError(w, "Invalid investment", err)
		return
	}

	if err := sess.SetInitialInvestment(r.Context(), amount); err != nil {
		writeDomainError(w, "Failed to update investment", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(sess.Stats(), sess.InitialInvestment()))
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportStockCSV streams the filtered stock report.
func (h *Handler) ExportStockCSV(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="stock.csv"`)
	if err := export.WriteStockCSV(w, sess.Products(productFilterFrom(r))); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("stock export failed")
	}
}

// ExportCashflowCSV streams the full cash-flow report.
func (h *Handler) ExportCashflowCSV(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cashflow.csv"`)
	if err := export.WriteCashflowCSV(w, sess.Transactions(core.TransactionFilter{})); err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("cashflow export failed")
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func productFilterFrom(r *http.Request) core.ProductFilter {
	q := r.URL.Query()
	return core.ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SaleType: q.Get("sale_type"),
	}
}

// parseAmount turns a decimal string field into a decimal, mapping parse
// failures to the core's validation taxonomy.
func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &core.ValidationError{Field: field, Reason: "must be a decimal number"}
	}
	return d, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps core error kinds to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, core.ErrInsufficientStock), errors.Is(err, core.ErrAccountExists):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, message, err)
	case core.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case core.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
