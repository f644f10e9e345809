/*
scenarios.go - Demo scenario loaders

PURPOSE:
  Populates the logged-in account with realistic data for demos and
  manual testing. Every write goes through the Session operations, so a
  loaded scenario obeys the same stock/ledger consistency rules as real
  usage.

AVAILABLE SCENARIOS:
  corner-shop:  Small retail inventory with a few sales
  wholesaler:   Wholesale-heavy catalog with a low-stock item

USAGE VIA API:
  POST /api/scenarios/load
  {"scenario_id": "corner-shop"}

NOTE:
  Scenarios append to the current account. Use a fresh account for a
  clean demo.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - core/processor.go: The operations scenarios replay
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/stokmaster/stokmaster/core"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "corner-shop",
		Name:        "Corner Shop",
		Description: "Retail inventory with an initial investment and a few sales",
	},
	{
		ID:          "wholesaler",
		Name:        "Wholesaler",
		Description: "Wholesale catalog with replenishments and a low-stock item",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario replays a demo scenario into the current account.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "corner-shop":
		err = loadCornerShop(r.Context(), sess)
	case "wholesaler":
		err = loadWholesaler(r.Context(), sess)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeDomainError(w, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"loaded": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func loadCornerShop(ctx context.Context, sess *core.Session) error {
	if err := sess.SetInitialInvestment(ctx, decimal.NewFromInt(150000)); err != nil {
		return err
	}

	seed := []struct {
		name, category string
		price, cost    int64
		stock          int
	}{
		{"Rice 1kg", "Cereals", 700, 450, 30},
		{"Sugar 1kg", "Cereals", 650, 400, 25},
		{"Cooking Oil 1L", "Oils", 1200, 800, 18},
		{"Soap Bar", "Hygiene", 300, 150, 4},
	}

	ids := make([]core.ProductID, 0, len(seed))
	for _, s := range seed {
		p, _, err := sess.CreateProduct(ctx, core.CreateProductInput{
			Name:         s.name,
			Category:     s.category,
			Price:        decimal.NewFromInt(s.price),
			UnitCost:     decimal.NewFromInt(s.cost),
			InitialStock: s.stock,
			SaleType:     core.SaleRetail,
		})
		if err != nil {
			return err
		}
		ids = append(ids, p.ID)
	}

	for _, sale := range []struct {
		idx, qty int
	}{{0, 3}, {1, 5}, {2, 2}} {
		if _, _, err := sess.ProcessSale(ctx, ids[sale.idx], sale.qty); err != nil {
			return err
		}
	}
	_, err := sess.RecordExpense(ctx, decimal.NewFromInt(5000), "Transport")
	return err
}

func loadWholesaler(ctx context.Context, sess *core.Session) error {
	p, _, err := sess.CreateProduct(ctx, core.CreateProductInput{
		Name:         "Rice 25kg",
		Category:     "Cereals",
		Price:        decimal.NewFromInt(12500),
		UnitCost:     decimal.NewFromInt(9000),
		InitialStock: 40,
		SaleType:     core.SaleWholesale,
	})
	if err != nil {
		return err
	}
	low, _, err := sess.CreateProduct(ctx, core.CreateProductInput{
		Name:         "Flour 50kg",
		Category:     "Cereals",
		Price:        decimal.NewFromInt(21000),
		UnitCost:     decimal.NewFromInt(16000),
		InitialStock: 5,
		SaleType:     core.SaleWholesale,
	})
	if err != nil {
		return err
	}

	if _, _, err := sess.ProcessSale(ctx, p.ID, 12); err != nil {
		return err
	}
	_, _, err = sess.ProcessStockEntry(ctx, low.ID, 2, decimal.NewFromInt(15500))
	return err
}
