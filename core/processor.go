/*
processor.go - The transaction processor: atomic catalog + ledger mutations

PURPOSE:
  Session is the state-transition engine for one account. It owns the
  Catalog, the Ledger, and the initial-investment figure, and exposes the
  ONLY legal ways to mutate stock or append to the ledger:

    1. CreateProduct     - new product, optional initial stock-load entry
    2. ProcessSale       - stock out, revenue in
    3. ProcessStockEntry - stock in, cost out
    4. RecordExpense     - cash out, no stock movement
    5. SetInitialInvestment

  No other code path may bypass these operations; that is the
  invariant-preservation boundary of the whole system.

ATOMICITY:
  Each operation is a single all-or-nothing unit:
  - Preconditions are checked before any state change. A rejected sale
    leaves catalog and ledger byte-for-byte unchanged.
  - After the in-memory mutation, the snapshot is persisted. Persistence
    must complete before the mutation is considered committed: if Save
    fails, the in-memory change is rolled back and the error returned.

CONCURRENCY:
  One logical actor per account is the design assumption, but HTTP
  delivery is concurrent, so every operation (and every read) takes the
  session mutex. Stock check-then-mutate is therefore one critical
  section per account.

SEE ALSO:
  - catalog.go, ledger.go: The state this engine coordinates
  - stats.go: Derived aggregates over the same state
*/
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SESSION - Account-scoped engine state
// =============================================================================

// Session holds the in-memory state of one logged-in account and persists
// a full snapshot after every successful mutation. Create with Open,
// discard on logout.
type Session struct {
	mu sync.Mutex

	account           string
	catalog           *Catalog
	ledger            *Ledger
	initialInvestment decimal.Decimal
	store             SnapshotStore
}

// Open loads the account's snapshot from the store and builds a session.
//
// A missing snapshot means a new account and yields an empty session. A
// corrupt snapshot also yields a usable empty session, but the
// CorruptSnapshotError is returned alongside it so callers can log the
// recovery; any other store error returns a nil session.
func Open(ctx context.Context, account string, store SnapshotStore) (*Session, error) {
	snap, found, err := store.Load(ctx, account)
	if err != nil {
		if !IsCorrupt(err) {
			return nil, err
		}
		snap = EmptySnapshot()
	}
	if !found {
		snap = EmptySnapshot()
	}

	s := &Session{
		account:           account,
		catalog:           NewCatalogFrom(snap.Products),
		ledger:            NewLedgerFrom(snap.Transactions),
		initialInvestment: snap.InitialInvestment,
		store:             store,
	}
	return s, err
}

// Account returns the account this session is scoped to.
func (s *Session) Account() string { return s.account }

// =============================================================================
// OPERATION 1 - Create product with optional initial stock load
// =============================================================================

// CreateProductInput carries the fields of the "add product" form.
type CreateProductInput struct {
	Name         string
	Category     string
	Price        decimal.Decimal
	UnitCost     decimal.Decimal // purchase cost per unit, may be zero
	InitialStock int
	SaleType     SaleType
}

// CreateProduct adds a product to the catalog and, when both UnitCost and
// InitialStock are positive, records the cost basis as an ENTRY
// transaction of value UnitCost*InitialStock.
//
// When either is zero, no ledger entry is created: the product exists with
// stock but no recorded cost basis. That asymmetry is inherited behavior,
// kept deliberately.
func (s *Session) CreateProduct(ctx context.Context, in CreateProductInput) (Product, *Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validatePrice("unitCost", in.UnitCost); err != nil {
		return Product{}, nil, err
	}

	p, err := s.catalog.Add(in.Name, in.Category, in.Price, in.InitialStock, in.SaleType)
	if err != nil {
		return Product{}, nil, err
	}

	var tx *Transaction
	if in.UnitCost.IsPositive() && in.InitialStock > 0 {
		appended, err := s.ledger.Append(Transaction{
			ProductID:   p.ID,
			ProductName: p.Name,
			Type:        TxEntry,
			SaleType:    p.SaleType,
			Quantity:    in.InitialStock,
			Value:       in.UnitCost.Mul(decimal.NewFromInt(int64(in.InitialStock))),
			Description: fmt.Sprintf("Stock load (%s): %s", p.SaleType.Label(), p.Name),
		})
		if err != nil {
			s.catalog.removeLast()
			return Product{}, nil, err
		}
		tx = &appended
	}

	if err := s.persist(ctx); err != nil {
		if tx != nil {
			s.ledger.dropHead()
		}
		s.catalog.removeLast()
		return Product{}, nil, err
	}
	return p, tx, nil
}

// =============================================================================
// OPERATION 2 - Process sale
// =============================================================================

// ProcessSale sells quantity units of the product at its current price.
// The stock check happens before any state change; an insufficient-stock
// rejection leaves catalog and ledger untouched.
func (s *Session) ProcessSale(ctx context.Context, productID ProductID, quantity int) (Product, Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return Product{}, Transaction{}, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	p, ok := s.catalog.Find(productID)
	if !ok {
		return Product{}, Transaction{}, &NotFoundError{ProductID: productID}
	}
	if p.Stock < quantity {
		return Product{}, Transaction{}, &InsufficientStockError{
			ProductID: productID,
			Available: p.Stock,
			Requested: quantity,
		}
	}

	updated, err := s.catalog.AdjustStock(productID, -quantity)
	if err != nil {
		return Product{}, Transaction{}, err
	}

	tx, err := s.ledger.Append(Transaction{
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        TxSale,
		SaleType:    p.SaleType,
		Quantity:    quantity,
		Value:       p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Description: fmt.Sprintf("%s sale: %s", p.SaleType.Label(), p.Name),
	})
	if err != nil {
		s.catalog.AdjustStock(productID, quantity)
		return Product{}, Transaction{}, err
	}

	if err := s.persist(ctx); err != nil {
		s.ledger.dropHead()
		s.catalog.AdjustStock(productID, quantity)
		return Product{}, Transaction{}, err
	}
	return updated, tx, nil
}

// =============================================================================
// OPERATION 3 - Process stock entry (replenishment)
// =============================================================================

// ProcessStockEntry replenishes quantity units at unitCost per unit. There
// is no upper bound on quantity.
func (s *Session) ProcessStockEntry(ctx context.Context, productID ProductID, quantity int, unitCost decimal.Decimal) (Product, Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return Product{}, Transaction{}, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if err := validatePrice("unitCost", unitCost); err != nil {
		return Product{}, Transaction{}, err
	}
	p, ok := s.catalog.Find(productID)
	if !ok {
		return Product{}, Transaction{}, &NotFoundError{ProductID: productID}
	}

	updated, err := s.catalog.AdjustStock(productID, quantity)
	if err != nil {
		return Product{}, Transaction{}, err
	}

	tx, err := s.ledger.Append(Transaction{
		ProductID:   p.ID,
		ProductName: p.Name,
		Type:        TxEntry,
		SaleType:    p.SaleType,
		Quantity:    quantity,
		Value:       unitCost.Mul(decimal.NewFromInt(int64(quantity))),
		Description: fmt.Sprintf("Restock (%s): %s", p.SaleType.Label(), p.Name),
	})
	if err != nil {
		s.catalog.AdjustStock(productID, -quantity)
		return Product{}, Transaction{}, err
	}

	if err := s.persist(ctx); err != nil {
		s.ledger.dropHead()
		s.catalog.AdjustStock(productID, -quantity)
		return Product{}, Transaction{}, err
	}
	return updated, tx, nil
}

// =============================================================================
// EXPENSES AND INVESTMENT
// =============================================================================

// RecordExpense appends an EXPENSE transaction with no product reference
// and no stock effect.
func (s *Session) RecordExpense(ctx context.Context, value decimal.Decimal, description string) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !value.IsPositive() {
		return Transaction{}, &ValidationError{Field: "value", Reason: "must be positive"}
	}
	tx, err := s.ledger.Append(Transaction{
		Type:        TxExpense,
		SaleType:    SaleRetail,
		Value:       value,
		Description: description,
	})
	if err != nil {
		return Transaction{}, err
	}
	if err := s.persist(ctx); err != nil {
		s.ledger.dropHead()
		return Transaction{}, err
	}
	return tx, nil
}

// SetInitialInvestment updates the account's starting capital figure.
func (s *Session) SetInitialInvestment(ctx context.Context, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validatePrice("initialInvestment", amount); err != nil {
		return err
	}
	prev := s.initialInvestment
	s.initialInvestment = amount
	if err := s.persist(ctx); err != nil {
		s.initialInvestment = prev
		return err
	}
	return nil
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// Products returns the filtered product list.
func (s *Session) Products(f ProductFilter) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.List(f)
}

// Product returns a single product by id.
func (s *Session) Product(id ProductID) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Find(id)
}

// Categories returns the distinct product categories, sorted.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Categories()
}

// Transactions returns the filtered transaction list, newest first.
func (s *Session) Transactions(f TransactionFilter) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List(f)
}

// Recent returns the n most recent transactions.
func (s *Session) Recent(n int) []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Recent(n)
}

// InitialInvestment returns the account's starting capital figure.
func (s *Session) InitialInvestment() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialInvestment
}

// Stats recomputes the dashboard aggregates from current state.
func (s *Session) Stats() DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeStats(s.catalog.All(), s.ledger.All(), s.initialInvestment)
}

// SnapshotState returns a copy of the current persisted shape. Used by
// tests and by callers that mirror state elsewhere.
func (s *Session) SnapshotState() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Version:           SnapshotVersion,
		Products:          s.catalog.All(),
		Transactions:      s.ledger.All(),
		InitialInvestment: s.initialInvestment,
	}
}

// persist writes the full snapshot. Mutations are committed only if this
// succeeds; callers roll back on error.
func (s *Session) persist(ctx context.Context) error {
	return s.store.Save(ctx, s.account, s.snapshotLocked())
}
