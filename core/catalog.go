/*
catalog.go - Product set and stock projection

PURPOSE:
  The Catalog owns the set of products for one account: creation, lookup,
  filtered listing, and stock adjustment. Stock is a projection of the
  ledger; the Catalog itself enforces only the local invariants (no
  negative stock, no negative price) and leaves the ledger side of every
  mutation to the Session in processor.go.

INVARIANTS:
  1. Product ids are unique within the catalog
  2. Stock never goes negative; AdjustStock rejects rather than clamps
  3. Products are never deleted

FILTERING:
  List() composes three filters with logical AND:
  - Search: case-insensitive substring match on the product name
  - Category: exact match ("" or "all" matches everything)
  - SaleType: exact match ("" or "all" matches everything)

SEE ALSO:
  - processor.go: The only legal caller of AdjustStock
  - stats.go: Low-stock counting over the catalog
*/
package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// FilterAll is the sentinel accepted by ProductFilter fields to match
// every product regardless of category or sale type.
const FilterAll = "all"

// ProductFilter selects a subset of the catalog. Zero value matches all.
type ProductFilter struct {
	Search   string // case-insensitive substring on name
	Category string // exact category, "" or "all" for everything
	SaleType string // RETAIL, WHOLESALE, "" or "all" for everything
}

func (f ProductFilter) matches(p Product) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && f.Category != FilterAll && p.Category != f.Category {
		return false
	}
	if f.SaleType != "" && f.SaleType != FilterAll && string(p.SaleType) != f.SaleType {
		return false
	}
	return true
}

// =============================================================================
// CATALOG
// =============================================================================

// Catalog is the set of products for one account. It is not safe for
// concurrent use on its own; the owning Session serializes access.
type Catalog struct {
	products []Product         // insertion order, for stable listings
	index    map[ProductID]int // id -> position in products
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: make(map[ProductID]int)}
}

// NewCatalogFrom builds a catalog from previously persisted products.
// Later duplicates of an id are dropped.
func NewCatalogFrom(products []Product) *Catalog {
	c := NewCatalog()
	for _, p := range products {
		if _, ok := c.index[p.ID]; ok {
			continue
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c
}

// Add constructs a product with a freshly generated id and the given stock
// as starting value. It does not touch the ledger.
func (c *Catalog) Add(name, category string, price decimal.Decimal, initialStock int, saleType SaleType) (Product, error) {
	if strings.TrimSpace(name) == "" {
		return Product{}, &ValidationError{Field: "name", Reason: "must not be blank"}
	}
	if err := validatePrice("price", price); err != nil {
		return Product{}, err
	}
	if initialStock < 0 {
		return Product{}, &ValidationError{Field: "initialStock", Reason: "must not be negative"}
	}
	if !saleType.Valid() {
		return Product{}, &ValidationError{Field: "saleType", Reason: "must be RETAIL or WHOLESALE"}
	}

	p := Product{
		ID:       NewProductID(),
		Name:     name,
		Price:    price,
		Stock:    initialStock,
		Category: category,
		SaleType: saleType,
	}
	c.index[p.ID] = len(c.products)
	c.products = append(c.products, p)
	return p, nil
}

// AdjustStock applies stock += delta (negative for sales, positive for
// replenishment) and returns the updated product. The check happens before
// any state change: on error the catalog is untouched.
func (c *Catalog) AdjustStock(id ProductID, delta int) (Product, error) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, &NotFoundError{ProductID: id}
	}
	if next := c.products[i].Stock + delta; next < 0 {
		return Product{}, &InsufficientStockError{
			ProductID: id,
			Available: c.products[i].Stock,
			Requested: -delta,
		}
	}
	c.products[i].Stock += delta
	return c.products[i], nil
}

// Find returns the product and whether it exists.
func (c *Catalog) Find(id ProductID) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// List returns the products matching the filter, in insertion order.
func (c *Catalog) List(f ProductFilter) []Product {
	result := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if f.matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// All returns every product in insertion order.
func (c *Catalog) All() []Product {
	return c.List(ProductFilter{})
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// removeLast removes the most recently added product. Only the Session
// uses this, to roll back a staged Add when persistence fails.
func (c *Catalog) removeLast() {
	if len(c.products) == 0 {
		return
	}
	last := c.products[len(c.products)-1]
	delete(c.index, last.ID)
	c.products = c.products[:len(c.products)-1]
}

// LowStockCount counts products at or below the low-stock threshold.
func (c *Catalog) LowStockCount() int {
	n := 0
	for _, p := range c.products {
		if p.LowStock() {
			n++
		}
	}
	return n
}
