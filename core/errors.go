/*
errors.go - Centralized error types for the inventory engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers (HTTP handlers, CLI tooling) match on sentinels with errors.Is
  and extract detail with errors.As on the structured variants.

ERROR CATEGORIES:
  1. Validation errors - malformed input to a creation operation
  2. Not-found errors  - referenced product id unknown to the catalog
  3. Stock errors      - sale exceeds available stock
  4. Snapshot errors   - persisted account state cannot be decoded
  5. Account errors    - registration/login failures

PROPAGATION POLICY:
  Every failure here is a synchronous precondition violation: the engine
  never retries, and a rejected operation leaves catalog and ledger
  untouched. There is no transient-failure class in the core.

USAGE:
  if errors.Is(err, core.ErrInsufficientStock) {
      var stockErr *core.InsufficientStockError
      errors.As(err, &stockErr)
      // stockErr.Shortfall ...
  }

SEE ALSO:
  - processor.go: The operations that return these errors
  - api/handlers.go: HTTP status mapping via IsClientError/IsNotFound
*/
package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when a creation operation receives
	// malformed input (negative price, negative stock, blank name).
	ErrValidation = errors.New("validation failed")

	// ErrProductNotFound is returned when a referenced product id does not
	// exist in the catalog.
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock is returned when a sale requests more units than
	// are available. The operation aborts with zero side effects.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrCorruptSnapshot is returned when a persisted account snapshot
	// cannot be decoded. Callers fall back to an empty snapshot.
	ErrCorruptSnapshot = errors.New("corrupt account snapshot")

	// ErrAccountExists is returned when registering an email that already
	// has an account.
	ErrAccountExists = errors.New("account already exists")

	// ErrInvalidCredentials is returned on login with an unknown email or
	// a wrong password. Deliberately does not say which.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports which product id was missing.
type NotFoundError struct {
	ProductID ProductID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

func (e *NotFoundError) Unwrap() error { return ErrProductNotFound }

// InsufficientStockError provides details about a stock shortage.
type InsufficientStockError struct {
	ProductID ProductID
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d, shortfall %d",
		e.ProductID, e.Available, e.Requested, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall returns how many units were missing.
func (e *InsufficientStockError) Shortfall() int { return e.Requested - e.Available }

// CorruptSnapshotError reports which account's snapshot failed to decode.
type CorruptSnapshotError struct {
	Account string
	Cause   error
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("corrupt snapshot for account %s: %v", e.Account, e.Cause)
}

func (e *CorruptSnapshotError) Unwrap() error { return ErrCorruptSnapshot }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrAccountExists) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

// IsCorrupt returns true if the error is a corrupt-snapshot condition.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptSnapshot)
}

// validatePrice rejects negative money amounts for the named field.
func validatePrice(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}
