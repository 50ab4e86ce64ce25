// Package common defines shared constants and sentinel errors used across
// the ledger engine, the gRPC transport and the client. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Identity errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")

	// Authorization errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Ledger validation errors.
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrSelfTransfer        = errors.New("self transfer")
	ErrInvalidPrincipal    = errors.New("invalid principal")

	// Directory validation errors.
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidProfile = errors.New("invalid profile")

	// Persistence errors.
	ErrCorruptJournal  = errors.New("corrupt journal")
	ErrJournalConflict = errors.New("journal conflict")
	ErrLedgerDiverged  = errors.New("ledger diverged")

	// ErrJournalUncertain means a write may or may not have been stored.
	ErrJournalUncertain = errors.New("journal outcome unknown")

	// ErrLedgerHalted is returned for every write once the in-memory state
	// can no longer be trusted to match the journal.
	ErrLedgerHalted = errors.New("ledger halted")

	ErrInternal = errors.New("internal error")
)
