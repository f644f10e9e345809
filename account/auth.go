/*
Package account handles registration, login, and session scoping.

PURPOSE:
  The account boundary is what keeps one user's catalog, ledger, and
  investment from ever mixing with another's. This package owns:
  - Credentials: email (lowercased) -> bcrypt hash, via CredentialStore
  - Sessions: bearer token -> live core.Session, one per login

LIFECYCLE:
  Register -> empty core.Session created and persisted
  Login    -> snapshot loaded into a fresh core.Session
  Logout   -> token revoked, in-memory session discarded

  A corrupt persisted snapshot does not block login: the session falls
  back to empty state and the condition is reported to the caller for
  logging. The next successful mutation overwrites the bad blob.

SEE ALSO:
  - core/processor.go: The Session each login scopes
  - store/sqlite/sqlite.go: Durable credential + snapshot storage
*/
package account

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stokmaster/stokmaster/core"
)

// CredentialStore persists account credentials keyed by email.
type CredentialStore interface {
	// CreateAccount stores credentials for a new email. Returns
	// core.ErrAccountExists when the email is taken.
	CreateAccount(ctx context.Context, email, passwordHash string) error

	// LookupAccount returns the stored hash and whether the email exists.
	LookupAccount(ctx context.Context, email string) (hash string, found bool, err error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager authenticates users and tracks their live sessions by bearer
// token. Safe for concurrent use.
type Manager struct {
	credentials CredentialStore
	snapshots   core.SnapshotStore

	mu       sync.RWMutex
	sessions map[string]*core.Session // token -> session
}

// NewManager creates a manager over the given stores. In production both
// interfaces are the same *sqlite.Store.
func NewManager(credentials CredentialStore, snapshots core.SnapshotStore) *Manager {
	return &Manager{
		credentials: credentials,
		snapshots:   snapshots,
		sessions:    make(map[string]*core.Session),
	}
}

// Register creates an account and logs it in. The email is lowercased so
// logins are case-insensitive. Returns the bearer token and the live
// session.
func (m *Manager) Register(ctx context.Context, email, password string) (string, *core.Session, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", nil, &core.ValidationError{Field: "email", Reason: "must be a valid address"}
	}
	if len(password) < 4 {
		return "", nil, &core.ValidationError{Field: "password", Reason: "must be at least 4 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	if err := m.credentials.CreateAccount(ctx, email, string(hash)); err != nil {
		return "", nil, err
	}

	sess, err := core.Open(ctx, email, m.snapshots)
	if err != nil && !core.IsCorrupt(err) {
		return "", nil, err
	}
	return m.track(sess), sess, nil
}

// Login verifies credentials and loads the account's state into a fresh
// session. A corrupt snapshot yields an empty session plus the
// CorruptSnapshotError for the caller to log.
func (m *Manager) Login(ctx context.Context, email, password string) (string, *core.Session, error) {
	email = normalizeEmail(email)

	hash, found, err := m.credentials.LookupAccount(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, core.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", nil, core.ErrInvalidCredentials
	}

	sess, err := core.Open(ctx, email, m.snapshots)
	if err != nil && !core.IsCorrupt(err) {
		return "", nil, err
	}
	return m.track(sess), sess, err
}

// Logout revokes the token and discards the in-memory session. Persisted
// state is untouched.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// Session resolves a bearer token to its live session.
func (m *Manager) Session(token string) (*core.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[token]
	return sess, ok
}

func (m *Manager) track(sess *core.Session) string {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = sess
	return token
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
