// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/stokmaster/stokmaster/core"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps one snapshot per account in a map. Snapshots are deep
// copied on both Save and Load so callers never share slices with the
// store.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]core.Snapshot

	// FailNextSave makes the next Save return the given error, then
	// clears itself. Tests use this to exercise rollback paths.
	FailNextSave error
}

func NewMemory() *Memory {
	return &Memory{snapshots: make(map[string]core.Snapshot)}
}

func (m *Memory) Load(_ context.Context, account string) (core.Snapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[account]
	if !ok {
		return core.Snapshot{}, false, nil
	}
	return copySnapshot(snap), true, nil
}

func (m *Memory) Save(_ context.Context, account string, snap core.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNextSave != nil {
		err := m.FailNextSave
		m.FailNextSave = nil
		return err
	}
	m.snapshots[account] = copySnapshot(snap)
	return nil
}

func copySnapshot(snap core.Snapshot) core.Snapshot {
	out := snap
	out.Products = append([]core.Product(nil), snap.Products...)
	out.Transactions = append([]core.Transaction(nil), snap.Transactions...)
	return out
}
