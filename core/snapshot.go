/*
snapshot.go - Persisted account state and the store contract

PURPOSE:
  Defines the versioned Snapshot structure that is persisted per account,
  and the SnapshotStore interface between the engine and storage. One
  snapshot per account: created empty on registration, loaded on login,
  fully overwritten on every successful mutation.

VERSIONING:
  The snapshot carries an explicit version so a malformed or unexpected
  payload is a detectable condition (ErrCorruptSnapshot) instead of a
  silently half-decoded object.

OPTIONALITY:
  Load returns an explicit found flag rather than an empty snapshot, so
  "new account" and "empty account" stay distinguishable to callers.

IMPLEMENTATIONS:
  - core/store: in-memory, for tests and development
  - store/sqlite: production SQLite, one JSON blob row per account

SEE ALSO:
  - processor.go: Persists a snapshot after every successful mutation
  - store/sqlite/sqlite.go: Durable implementation
*/
package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// SnapshotVersion is the current snapshot schema version.
const SnapshotVersion = 1

// Snapshot is the full persisted state of one account.
type Snapshot struct {
	Version           int             `json:"version"`
	Products          []Product       `json:"products"`
	Transactions      []Transaction   `json:"transactions"` // newest first
	InitialInvestment decimal.Decimal `json:"initialInvestment"`
}

// EmptySnapshot returns the state of a brand-new account.
func EmptySnapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, InitialInvestment: decimal.Zero}
}

// SnapshotStore persists one snapshot per account.
//
// Save must fully overwrite any previous snapshot; there is no partial
// update. Load must return ErrCorruptSnapshot (wrapped in a
// CorruptSnapshotError) when a stored payload cannot be decoded.
type SnapshotStore interface {
	// Load returns the snapshot for the account and whether one exists.
	Load(ctx context.Context, account string) (Snapshot, bool, error)

	// Save overwrites the account's snapshot.
	Save(ctx context.Context, account string, snap Snapshot) error
}
