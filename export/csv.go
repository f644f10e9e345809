/*
Package export renders stock and cash-flow reports as CSV, and formats
currency for display.

PURPOSE:
  The export surface consumes the core's read accessors - a filtered
  product list, the full transaction list - and produces tabular text.
  It contains no business logic; column values are the core's values.

REPORT SHAPES:
  Stock:    Name,Type,Category,Price,Stock     (the filtered catalog)
  Cashflow: Date,Type,Description,Value        (full ledger, newest first)

CURRENCY:
  Amounts are stored as plain decimals in the core; only presentation
  knows about Angolan kwanza. FormatKz renders the "Kz"-prefixed display
  form used by the dashboard DTOs.

SEE ALSO:
  - api/handlers.go: The /api/export endpoints
*/
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/stokmaster/stokmaster/core"
)

// WriteStockCSV writes the product report. Callers pass the already
// filtered product list.
func WriteStockCSV(w io.Writer, products []core.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Type", "Category", "Price", "Stock"}); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.Name,
			string(p.SaleType),
			p.Category,
			p.Price.String(),
			strconv.Itoa(p.Stock),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCashflowCSV writes the transaction report, newest first.
func WriteCashflowCSV(w io.Writer, transactions []core.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Type", "Description", "Value"}); err != nil {
		return err
	}
	for _, tx := range transactions {
		record := []string{
			tx.Date.UTC().Format(time.RFC3339),
			string(tx.Type),
			tx.Description,
			tx.Value.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatKz renders a decimal amount as Angolan kwanza, using go-money's
// AOA formatting ("Kz" grapheme, two fraction digits).
func FormatKz(v decimal.Decimal) string {
	minor := v.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(minor, money.AOA).Display()
}
