/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements core.SnapshotStore and account.CredentialStore using SQLite.
  The same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

SNAPSHOT MODEL:
  One row per account holding the full state as a versioned JSON blob,
  fully overwritten on every mutation. The snapshot is the unit of
  durability; there is no partial update. A blob that fails to decode -
  bad JSON, unknown version - surfaces core.ErrCorruptSnapshot so callers
  can fall back to an empty account instead of silently half-loading.

KEY TABLES:
  accounts:  email (lowercased, primary key) + bcrypt password hash
  snapshots: account -> payload JSON, schema version, updated_at

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex on top of database/sql pooling. With a server-grade
  database the database-level concurrency control would handle this.

USAGE:
  st, err := sqlite.New("./data/stokmaster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

  sess, err := core.Open(ctx, email, st)

SEE ALSO:
  - core/snapshot.go: Interface definition and Snapshot shape
  - core/store/memory.go: In-memory implementation for testing
  - account/auth.go: Uses the credential side
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stokmaster/stokmaster/core"
)

// Store implements core.SnapshotStore and account.CredentialStore.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Accounts (credential store, keyed by lowercased email)
	CREATE TABLE IF NOT EXISTS accounts (
		email TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Snapshots (one full-state blob per account, overwritten on save).
	-- Deliberately no FK to accounts: the blob store stands alone.
	CREATE TABLE IF NOT EXISTS snapshots (
		account TEXT PRIMARY KEY,
		version INTEGER NOT NULL,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// Load returns the account's snapshot and whether one exists. A stored
// payload that cannot be decoded, or whose version is unknown, returns a
// CorruptSnapshotError.
func (s *Store) Load(ctx context.Context, account string) (core.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE account = ?`, account,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return core.Snapshot{}, true, &core.CorruptSnapshotError{Account: account, Cause: err}
	}
	if snap.Version != core.SnapshotVersion {
		return core.Snapshot{}, true, &core.CorruptSnapshotError{
			Account: account,
			Cause:   fmt.Errorf("unsupported snapshot version %d", snap.Version),
		}
	}
	return snap, true, nil
}

// Save overwrites the account's snapshot.
func (s *Store) Save(ctx context.Context, account string, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (account, version, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			version = excluded.version,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		account, snap.Version, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// =============================================================================
// CREDENTIAL STORE
// =============================================================================

// CreateAccount stores a new account's credentials. Returns
// core.ErrAccountExists if the email is already registered.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM accounts WHERE email = ?`, email,
	).Scan(&exists); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if exists > 0 {
		return core.ErrAccountExists
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (email, password_hash, created_at)
		VALUES (?, ?, ?)`,
		email, passwordHash, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// LookupAccount returns the stored password hash for an email, and whether
// the account exists.
func (s *Store) LookupAccount(ctx context.Context, email string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT password_hash FROM accounts WHERE email = ?`, email,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup account: %w", err)
	}
	return hash, true, nil
}

// RawSetSnapshotPayload overwrites the stored payload for an account with
// arbitrary bytes, bypassing encoding. Test hook for the corrupt-snapshot
// recovery path.
func (s *Store) RawSetSnapshotPayload(ctx context.Context, account, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (account, version, payload, updated_at)
		VALUES (?, 0, ?, ?)
		ON CONFLICT(account) DO UPDATE SET payload = excluded.payload`,
		account, payload, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
