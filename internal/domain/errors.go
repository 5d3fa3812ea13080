package domain

import (
	"errors"
	"strings"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Configuration errors
	ErrMsgConfiguration = "configuration error"
	ErrMsgValidation    = "validation failed"

	// Selection errors
	ErrMsgEligibilityGap = "no eligible catalog entries"

	// Budget errors
	ErrMsgBudgetExceeded = "budget exceeded"

	// Persistence errors
	ErrMsgPersistence          = "persistence failed"
	ErrMsgConcurrencyConflict  = "catalog quantity changed concurrently"
	ErrMsgInsufficientQuantity = "insufficient quantity"
	ErrMsgLedgerKeyExists      = "ledger key already committed"
	ErrMsgTxClosed             = "tx is closed"

	// Lookup errors
	ErrMsgEventNotFound = "event not found"
	ErrMsgEntryNotFound = "catalog entry not found"
	ErrMsgRunNotFound   = "allocation run not found"
	ErrMsgLedgerMissing = "ledger entry not found"

	// State machine errors
	ErrMsgInvalidTransition = "invalid run state transition"

	// Audit errors
	ErrMsgHashMismatch = "hash mismatch"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrConfiguration fails a run before any selection occurs. Not retried.
	ErrConfiguration = errors.New(ErrMsgConfiguration)

	// ErrValidation is returned for rejected parameter updates. See ValidationErrors.
	ErrValidation = errors.New(ErrMsgValidation)

	// ErrEligibilityGap is informational: gaps are recorded in the grid, never fatal.
	ErrEligibilityGap = errors.New(ErrMsgEligibilityGap)

	// ErrBudgetExceeded is a RED run without auto-correction that was not confirmed.
	ErrBudgetExceeded = errors.New(ErrMsgBudgetExceeded)

	// ErrPersistence means nothing was committed.
	ErrPersistence = errors.New(ErrMsgPersistence)

	// ErrConcurrencyConflict is retryable with a fresh catalog snapshot.
	ErrConcurrencyConflict = errors.New(ErrMsgConcurrencyConflict)

	// ErrLedgerKeyExists is returned alongside ErrConcurrencyConflict when
	// another commit appended the idempotency key first.
	ErrLedgerKeyExists = errors.New(ErrMsgLedgerKeyExists)

	ErrInsufficientQuantity = errors.New(ErrMsgInsufficientQuantity)

	ErrEventNotFound = errors.New(ErrMsgEventNotFound)
	ErrEntryNotFound = errors.New(ErrMsgEntryNotFound)
	ErrRunNotFound   = errors.New(ErrMsgRunNotFound)
	ErrLedgerMissing = errors.New(ErrMsgLedgerMissing)

	ErrInvalidTransition = errors.New(ErrMsgInvalidTransition)

	ErrHashMismatch = errors.New(ErrMsgHashMismatch)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// FieldError names one rejected field and why.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors is the full set of problems found in a parameter update.
// It unwraps to ErrValidation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Reason)
	}
	return ErrMsgValidation + ": " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error {
	return ErrValidation
}
