/*
ledger.go - Append-only transaction log

PURPOSE:
  The Ledger is the immutable record of all financial movements for one
  account. Every stock load, sale, replenishment, and expense is recorded
  here. Entries are inserted at the head, so the natural iteration order
  is most-recent-first; that insertion order is the source of truth.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. IMMUTABLE: Once appended, transactions cannot be modified
  3. SNAPSHOTTED: Entries carry the product name and sale type as they
     were at creation time; history is never retroactively recalculated

WHY APPEND-ONLY?
  - The cash-flow report is a replay of the ledger, newest first
  - Stock levels can always be explained: initial + entries - sales
  - Aggregates (stats.go) are pure recomputations over the log

VALIDATION:
  Append checks structural completeness only (known type, non-negative
  quantity and value). Business preconditions - does the product exist,
  is there enough stock - are the Session's job in processor.go.

SEE ALSO:
  - processor.go: The only legal writer
  - stats.go: Aggregates over the ledger
*/
package core

import (
	"time"
)

// TransactionFilter selects a subset of the ledger. Zero value matches all.
type TransactionFilter struct {
	Type string // ENTRY, SALE, EXPENSE, "" or "all" for everything
}

func (f TransactionFilter) matches(tx Transaction) bool {
	return f.Type == "" || f.Type == FilterAll || string(tx.Type) == f.Type
}

// =============================================================================
// LEDGER
// =============================================================================

// Ledger is the append-only ordered record of transactions, newest first.
// Not safe for concurrent use on its own; the owning Session serializes.
type Ledger struct {
	entries []Transaction // head = most recent
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// NewLedgerFrom builds a ledger from previously persisted transactions,
// which are already stored newest-first.
func NewLedgerFrom(entries []Transaction) *Ledger {
	l := &Ledger{entries: make([]Transaction, len(entries))}
	copy(l.entries, entries)
	return l
}

// Append assigns a unique id and the current timestamp, inserts the entry
// at the head, and returns the immutable record.
func (l *Ledger) Append(draft Transaction) (Transaction, error) {
	if !draft.Type.Valid() {
		return Transaction{}, &ValidationError{Field: "type", Reason: "unknown transaction type"}
	}
	if draft.Quantity < 0 {
		return Transaction{}, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}
	if err := validatePrice("value", draft.Value); err != nil {
		return Transaction{}, err
	}

	draft.ID = NewTransactionID()
	draft.Date = time.Now().UTC()

	l.entries = append([]Transaction{draft}, l.entries...)
	return draft, nil
}

// List returns the transactions matching the filter, newest first.
func (l *Ledger) List(f TransactionFilter) []Transaction {
	result := make([]Transaction, 0, len(l.entries))
	for _, tx := range l.entries {
		if f.matches(tx) {
			result = append(result, tx)
		}
	}
	return result
}

// All returns every transaction, newest first.
func (l *Ledger) All() []Transaction {
	return l.List(TransactionFilter{})
}

// Recent returns the n most recent transactions (fewer if the ledger is
// shorter).
func (l *Ledger) Recent(n int) []Transaction {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n < 0 {
		n = 0
	}
	result := make([]Transaction, n)
	copy(result, l.entries[:n])
	return result
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.entries) }

// dropHead removes the most recent entry. Only the Session uses this, to
// roll back a staged append when persistence fails.
func (l *Ledger) dropHead() {
	if len(l.entries) > 0 {
		l.entries = l.entries[1:]
	}
}
